package workers

import (
	"context"
	"log/slog"
	"time"

	"charette-lab/observability"
)

// ReporterWorker periodically logs a metrics snapshot. Purely an operator
// convenience, the same numbers back the stats endpoint.
type ReporterWorker struct {
	log        *slog.Logger
	monitoring *observability.Monitoring
	interval   time.Duration
}

func NewReporterWorker(log *slog.Logger, monitoring *observability.Monitoring, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, monitoring: monitoring, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.printStats()
			w.log.Info("Reporter stopped")
			return nil
		case <-ticker.C:
			w.printStats()
		}
	}
}

func (w *ReporterWorker) printStats() {
	stats := w.monitoring.GetLatest()
	w.log.Info("📊 Stats",
		"uptime", stats.Uptime,
		"rss_mb", stats.RssMb,
		"goroutines", stats.Goroutines,
		"messages", stats.Messages,
		"phase_changes", stats.PhaseChanges,
		"room_events", stats.RoomEvents,
	)
}
