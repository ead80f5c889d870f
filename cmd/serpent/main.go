package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/serpent-arcade/serpent/client"
	"github.com/serpent-arcade/serpent/client/audio"
	"github.com/serpent-arcade/serpent/pkg/config"
	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/serpent-arcade/serpent/pkg/log"
	"github.com/serpent-arcade/serpent/pkg/persistence"
	"github.com/serpent-arcade/serpent/pkg/replay"
	"github.com/serpent-arcade/serpent/pkg/scheduler"
	"github.com/serpent-arcade/serpent/pkg/version"
	"github.com/serpent-arcade/serpent/pkg/workers"
)

func main() {
	configPath := flag.String("config", "serpent.json", "Path to the config file")
	logLevel := flag.String("log-level", "", "Log level (overrides the config file)")
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

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting serpent version %s", version.Get())
	ctx := context.Background()

	store, err := persistence.Open(ctx, cfg.Database.Driver, cfg.Database.Path, cfg.Database.URL)
	if err != nil {
		panic(fmt.Sprintf("Failed to open store: %v", err))
	}
	defer store.Close(ctx)

	saveHighScoreChannelSize := 100
	saveHighScoreChan := make(chan workers.SaveHighScoreRequest, saveHighScoreChannelSize)

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

	sound := audio.NewPlayer(cfg.Sound)
	defer sound.Close()

	watcher, err := config.Watch(*configPath, func(cfg *config.Config) {
		if lvl, err := log.ParseLogLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
		sound.SetEnabled(cfg.Sound)
	})
	if err != nil {
		log.Warn("Config changes will not be picked up: %v", err)
	} else {
		defer watcher.Close()
	}

	g := client.NewGame(client.NewGameOptions{
		Engine:   e,
		Audio:    sound,
		CellSize: cfg.CellSize,
	})

	width, height := g.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Serpent")
	if err := ebiten.RunGame(g); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
