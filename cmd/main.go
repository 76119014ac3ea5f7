package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"charette-lab/httpapi"
	"charette-lab/observability"
	"charette-lab/projection"
	"charette-lab/report"
	"charette-lab/repositories"
	"charette-lab/runtime"
	"charette-lab/runtime/workers"
	"charette-lab/services"
	"charette-lab/sink"
	"charette-lab/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database cleanup included)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Archive (BadgerDB) & full-text index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("archive opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge index...")
		_ = blugeWriter.Close()
	}()

	// 3. Core wiring: store, registry, router, synthesizer
	sessions := store.NewSessionStore(log)
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, sessions, registry, config.BufferSize)

	vocab, err := report.NewVocabularyScanner(report.DefaultVocabulary)
	if err != nil {
		return fmt.Errorf("vocabulary build failed: %w", err)
	}
	synthesizer := report.NewSynthesizer(sessions, vocab, log)

	archive := repositories.NewMessageArchive(db, log, config.LimitMessages)
	index := repositories.NewMessageIndex(blugeWriter, log)
	monitoring := observability.NewMonitoring()

	// 4. Supervision: fanout pipeline + periodic stats
	timeline := projection.NewTimeline("server")
	fanout := workers.NewEventFanout(log, router.Events(), monitoring).
		Add(sink.NewArchiveSink(archive, index, log), timeline)
	reporter := workers.NewReporterWorker(log, monitoring, config.StatsInterval)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(fanout, reporter)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 6. HTTP + websocket surface
	svc := services.NewCharetteService(sessions, router, synthesizer, index)
	server := httpapi.NewServer(svc, monitoring, config.ConnectionBufferSize, log)

	if err := server.Run(ctx, config.Host, config.Port); err != nil {
		return err
	}

	log.Info("Program stopped cleanly")
	return nil
}
