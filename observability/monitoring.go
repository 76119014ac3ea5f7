package observability

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	_ "github.com/shirou/gopsutil"
	"github.com/shirou/gopsutil/process"

	"charette-lab/domain/event"
)

// Monitoring accumulates event counters and samples process metrics.
// Safe for concurrent use; counters are atomics, the process handle is
// created once at startup.
type Monitoring struct {
	startedAt    time.Time
	proc         *process.Process
	messages     atomic.Int64
	phaseChanges atomic.Int64
	roomEvents   atomic.Int64
}

type Snapshot struct {
	Uptime       string
	RssMb        uint64
	CPUPercent   float64
	Goroutines   int
	Messages     int64
	PhaseChanges int64
	RoomEvents   int64
}

func NewMonitoring() *Monitoring {
	// A failed process handle only disables RSS/CPU sampling.
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &Monitoring{startedAt: time.Now(), proc: proc}
}

func (m *Monitoring) CountEvent(evt event.DomainEvent) {
	switch evt.(type) {
	case event.MessagePosted:
		m.messages.Add(1)
	case event.PhaseChanged:
		m.phaseChanges.Add(1)
	case event.RoomUpdated, event.BreakoutRoomsCreated:
		m.roomEvents.Add(1)
	}
}

func (m *Monitoring) GetLatest() Snapshot {
	snap := Snapshot{
		Uptime:       time.Since(m.startedAt).Round(time.Second).String(),
		Goroutines:   runtime.NumGoroutine(),
		Messages:     m.messages.Load(),
		PhaseChanges: m.phaseChanges.Load(),
		RoomEvents:   m.roomEvents.Load(),
	}
	if m.proc != nil {
		if mem, err := m.proc.MemoryInfo(); err == nil {
			snap.RssMb = mem.RSS / 1024 / 1024
		}
		if cpu, err := m.proc.CPUPercent(); err == nil {
			snap.CPUPercent = cpu
		}
	}
	return snap
}
