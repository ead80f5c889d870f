package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/serpent-arcade/serpent/pkg/config"
	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/serpent-arcade/serpent/pkg/log"
	"github.com/serpent-arcade/serpent/pkg/persistence"
	"github.com/serpent-arcade/serpent/pkg/replay"
	"github.com/serpent-arcade/serpent/pkg/scheduler"
	"github.com/serpent-arcade/serpent/pkg/version"
	"github.com/serpent-arcade/serpent/pkg/workers"
	"github.com/serpent-arcade/serpent/tui"
)

func main() {
	configPath := flag.String("config", "serpent.json", "Path to the config file")
	logLevel := flag.String("log-level", "", "Log level (overrides the config file)")
	logPath := flag.String("log-file", "serpent-term.log", "Log file (the terminal is taken over by the board)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	parsedLogLevel, err := log.ParseLogLevel(level)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		panic(fmt.Sprintf("Failed to open log file: %v", err))
	}
	defer logFile.Close()

	logger := log.New(logFile, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Starting serpent-term version %s", version.Get())

	ctx := context.Background()

	store, err := persistence.Open(ctx, cfg.Database.Driver, cfg.Database.Path, cfg.Database.URL)
	if err != nil {
		panic(fmt.Sprintf("Failed to open store: %v", err))
	}
	defer store.Close(ctx)

	saveHighScoreChan := make(chan workers.SaveHighScoreRequest, 100)
	saveHighScoreWorker := workers.NewHighScoreSaveWorker(workers.NewHighScoreSaveWorkerOptions{
		Store:    store,
		Requests: saveHighScoreChan,
	})
	go saveHighScoreWorker.Start(ctx)

	e := engine.NewEngine(ctx, engine.NewEngineOptions{
		BoardSize:    cfg.BoardSize,
		TickInterval: cfg.TickInterval(),
		Scheduler:    scheduler.NewTickerScheduler(),
		Store:        store,
		SaveRequests: saveHighScoreChan,
	})

	if cfg.Replay.Enabled {
		f, err := os.Create(cfg.Replay.Path)
		if err != nil {
			panic(fmt.Sprintf("Failed to create replay file: %v", err))
		}
		defer f.Close()
		recorder, err := replay.NewRecorder(f)
		if err != nil {
			panic(fmt.Sprintf("Failed to create replay recorder: %v", err))
		}
		defer recorder.Close()
		e.Subscribe(recorder.Record)
		log.Info("Recording replay to %s", cfg.Replay.Path)
	}

	ui, err := tui.NewUI(tui.NewUIOptions{
		Engine: e,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create terminal UI: %v", err))
	}

	if err := ui.Run(ctx); err != nil {
		panic(fmt.Sprintf("Failed to run terminal UI: %v", err))
	}
}
