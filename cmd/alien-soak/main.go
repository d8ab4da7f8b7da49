package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/alien-defense/ecs"
	"github.com/plus3/alien-defense/internal/assets"
	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/highscore"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/plus3/alien-defense/internal/settings"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "How long to run when -ticks is zero.")
	ticks := flag.Int("ticks", 0, "Number of logic ticks to run. Zero runs for -duration.")
	seed := flag.Uint64("seed", 1, "World seed. Zero picks one from the clock.")
	frequency := flag.Float64("alien-frequency", 0.02, "Per tick alien spawn chance, raised from the game default to stress collisions.")
	fireEvery := flag.Int("fire-every", 20, "Ticks between pilot shots.")
	configPath := flag.String("config", "", "Optional YAML settings file.")
	flag.Parse()

	zlog, err := logger.NewLoggerWithComponent("soak")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	cfg, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	cfg.Seed = *seed
	cfg.AlienFrequency = *frequency
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	bundle, err := assets.Procedural()
	if err != nil {
		log.Fatalf("Failed to build assets: %v", err)
	}

	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	store := &highscore.Memory{}
	world, err := game.New(ecs.NewStorage(registry), game.Options{
		Settings: cfg,
		Sizes:    game.SpriteSizes(bundle),
		Store:    store,
		Log:      logger.Component(zlog, "game"),
	})
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}

	report := &Report{
		Duration:       *duration,
		Ticks:          *ticks,
		Seed:           cfg.Seed,
		AlienFrequency: cfg.AlienFrequency,
		Cues:           make(map[string]int),
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx := context.Background()
	if *ticks == 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	log.Println("Running soak...")
	p := &pilot{fireEvery: *fireEvery}
	startTime := time.Now()

Loop:
	for *ticks == 0 || int(world.Frames()) < *ticks {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		before := world.Session().Phase
		updateStart := time.Now()
		world.Step(p.controls(world))
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

		for _, cue := range world.DrainCues() {
			report.Cues[cue.String()]++
		}
		s := world.Session()
		report.PeakScore = max(report.PeakScore, s.Score)
		report.PeakAliens = max(report.PeakAliens, len(world.Aliens()))
		if before == game.PhasePlaying && s.Phase == game.PhaseGameOver {
			report.GameOvers++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalTicks = world.Frames()
	report.Rounds = world.Session().Round
	report.HighScore = world.Session().HighScore
	report.HighScoreSaves = store.Saves
	report.Systems = world.Scheduler().GetStats().Systems
	report.Entities = world.Storage().Count()
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
