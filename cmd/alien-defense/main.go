package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plus3/alien-defense/internal/app"
	"github.com/plus3/alien-defense/internal/assets"
	"github.com/plus3/alien-defense/internal/highscore"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/plus3/alien-defense/internal/settings"
)

func main() {
	configPath := flag.String("config", "", "YAML settings file layered over the built-in defaults.")
	assetDir := flag.String("assets", "", "Directory holding images/ and sfx/. Missing files are generated; empty uses built-in art and sound.")
	scorePath := flag.String("highscore", "", "High score file. Overrides the settings value.")
	debug := flag.Bool("debug", false, "Show the stats overlay at startup (F3 toggles it).")
	flag.Parse()

	log, err := logger.NewLoggerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "alien-defense: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := settings.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load settings", logger.F("path", *configPath), logger.Err(err))
	}
	if *scorePath != "" {
		cfg.HighScoreFile = *scorePath
	}

	bundle, err := loadAssets(*assetDir)
	if err != nil {
		log.Fatal("failed to load assets", logger.F("dir", *assetDir), logger.Err(err))
	}
	log.Info("assets ready",
		logger.F("dir", *assetDir),
		logger.F("generated", len(bundle.Generated)),
	)
	for _, path := range bundle.Generated {
		log.Debug("asset generated", logger.F("path", path))
	}

	log.Info("starting",
		logger.F("tick_rate", cfg.TickRate),
		logger.F("highscore_file", cfg.HighScoreFile),
		logger.F("seed", cfg.Seed),
	)
	err = app.Run(app.Config{
		Settings: cfg,
		Bundle:   bundle,
		Store:    highscore.NewFileStore(cfg.HighScoreFile),
		Log:      log,
		Debug:    *debug,
	})
	if err != nil {
		log.Fatal("game stopped", logger.Err(err))
	}
	log.Info("bye")
}

func loadAssets(dir string) (*assets.Bundle, error) {
	if dir == "" {
		return assets.Procedural()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return assets.Load(os.DirFS(dir))
}
