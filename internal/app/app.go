// Package app runs the game in an ebiten window.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/alien-defense/ecs"
	"github.com/plus3/alien-defense/ecs/debugui"
	debugui_ebiten "github.com/plus3/alien-defense/ecs/debugui/ebiten"
	"github.com/plus3/alien-defense/internal/assets"
	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/highscore"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/plus3/alien-defense/internal/render"
	"github.com/plus3/alien-defense/internal/settings"
	"github.com/plus3/alien-defense/internal/sound"
)

const title = "Alien Defense"

// Config is everything Run needs from the command line.
type Config struct {
	Settings settings.Settings
	Bundle   *assets.Bundle
	Store    highscore.Store
	Log      logger.Logger
	// Debug opens the stats overlay at startup. F3 toggles it either way.
	Debug bool
}

// CueSink receives the sound cues of each tick.
type CueSink interface {
	Handle(cues []game.Cue)
}

// Game implements ebiten.Game.
type Game struct {
	world    *game.World
	renderer *render.Renderer
	sounds   CueSink
	input    Input
	log      logger.Logger

	debug   *ecs.Scheduler
	backend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	overlay *ecs.Singleton[debugui.Overlay]
	capture *ecs.Singleton[debugui.ImguiInputState]
	frames  *debugui.FrameHistory
	last    time.Time
}

// New wires the world, renderer, mixer and debug overlay over one storage.
// It creates the imgui window, so it runs on the main goroutine before RunGame.
func New(cfg Config) (*Game, error) {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}

	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	world, err := game.New(storage, game.Options{
		Settings: cfg.Settings,
		Sizes:    game.SpriteSizes(cfg.Bundle),
		Store:    cfg.Store,
		Log:      logger.Component(cfg.Log, "game"),
	})
	if err != nil {
		return nil, err
	}

	kit, err := render.NewKit(cfg.Bundle, cfg.Settings)
	if err != nil {
		return nil, err
	}
	mixer, err := sound.Open(sound.Context(), cfg.Bundle, cfg.Settings.MusicVolume, logger.Component(cfg.Log, "sound"))
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}

	g := &Game{
		world:    world,
		renderer: render.New(storage, kit),
		sounds:   mixer,
		input:    ebitenInput{},
		log:      cfg.Log,
		frames:   debugui.NewFrameHistory(240),
	}

	g.backend = ecs.NewSingleton(storage, debugui_ebiten.NewImguiBackend(title, cfg.Settings.ScreenWidth, cfg.Settings.ScreenHeight))
	g.overlay = ecs.NewSingleton(storage, debugui.Overlay{Visible: cfg.Debug})
	g.capture = ecs.NewSingleton[debugui.ImguiInputState](storage)

	panel := &debugui.StatsPanel{
		Title:   "Alien Defense Stats",
		Storage: storage,
		Frames:  g.frames,
		Systems: map[string]func() *ecs.SchedulerStats{
			"Logic":  world.Scheduler().GetStats,
			"Render": g.renderer.Scheduler().GetStats,
		},
		Extra: func() []string { return sessionLines(world, mixer, cfg.Bundle) },
	}
	storage.Spawn(panel.Item())

	g.debug = ecs.NewScheduler(storage)
	g.debug.Register(&debugui.ImguiSystem{})
	return g, nil
}

func sessionLines(world *game.World, mixer *sound.Mixer, bundle *assets.Bundle) []string {
	s := world.Session()
	return []string{
		fmt.Sprintf("Phase: %s  Round: %d", s.Phase, s.Round),
		fmt.Sprintf("Round ID: %s", s.RoundID),
		fmt.Sprintf("Score: %d  High: %d  Lives: %d", s.Score, s.HighScore, s.Lives),
		fmt.Sprintf("Speed factor: %.2f", s.SpeedFactor),
		fmt.Sprintf("Bullets: %d  Aliens: %d", len(world.Bullets()), len(world.Aliens())),
		fmt.Sprintf("Music: %t  Generated assets: %d", mixer.MusicPlaying(), len(bundle.Generated)),
		fmt.Sprintf("Ticks: %d", world.Frames()),
	}
}

func (g *Game) Update() error {
	if wantsQuit(g.input) {
		g.log.Info("quit requested", logger.F("ticks", g.world.Frames()), logger.F("high_score", g.world.Session().HighScore))
		return ebiten.Termination
	}

	now := time.Now()
	if !g.last.IsZero() {
		g.frames.Record(now.Sub(g.last))
	}
	g.last = now

	if g.input.JustPressed(keyOverlay) {
		g.log.Debug("debug overlay toggled", logger.F("visible", g.overlay.Get().Toggle()))
	}

	backend := g.backend.Get()
	backend.BeginFrame()
	g.debug.Once(1 / float64(ebiten.TPS()))
	backend.EndFrame()

	g.world.Step(readControls(g.input, *g.capture.Get()))
	g.sounds.Handle(g.world.DrainCues())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	g.backend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	cfg := g.world.Settings()
	return cfg.ScreenWidth, cfg.ScreenHeight
}

// Run opens the window and blocks until the player quits.
func Run(cfg Config) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Settings.ScreenWidth, cfg.Settings.ScreenHeight)
	ebiten.SetTPS(cfg.Settings.TickRate)
	ebiten.SetWindowClosingHandled(true)

	g, err := New(cfg)
	if err != nil {
		return err
	}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
