package game

import (
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/alien-defense/ecs"
	"github.com/plus3/alien-defense/internal/highscore"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/plus3/alien-defense/internal/settings"
)

// Options configures a World.
type Options struct {
	Settings settings.Settings
	Sizes    Sizes
	Store    highscore.Store
	Log      logger.Logger
	// NewRoundID defaults to random UUIDs.
	NewRoundID func() string
}

// World owns the entity storage and the logic scheduler of one game.
type World struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	rules     *Rules

	session  *ecs.Singleton[Session]
	controls *ecs.Singleton[Controls]
	cues     *ecs.Singleton[Cues]
	frames   uint64
}

// RegisterComponents registers every game component with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Body](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Ship](registry)
	ecs.RegisterComponent[Bullet](registry)
	ecs.RegisterComponent[Alien](registry)
	ecs.RegisterComponent[Star](registry)
}

// New builds a world in the menu phase. It reads the stored high score, so a
// malformed score file fails here.
func New(storage *ecs.Storage, opts Options) (*World, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("new world: no high score store")
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.NewRoundID == nil {
		opts.NewRoundID = uuid.NewString
	}

	high, err := opts.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}

	seed := opts.Settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	w := &World{
		storage: storage,
		rules: &Rules{
			Settings:   opts.Settings,
			Sizes:      opts.Sizes,
			Rand:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
			Store:      opts.Store,
			Log:        opts.Log,
			NewRoundID: opts.NewRoundID,
		},
	}

	w.session = ecs.NewSingleton(storage, Session{
		Phase:       PhaseMenu,
		Lives:       opts.Settings.Lives,
		HighScore:   high,
		SpeedFactor: opts.Settings.AlienSpeedFactor,
	})
	w.controls = ecs.NewSingleton[Controls](storage)
	w.cues = ecs.NewSingleton[Cues](storage)

	start := w.rules.ShipStart()
	storage.Spawn(start, Body{W: opts.Sizes.Ship.X, H: opts.Sizes.Ship.Y}, Ship{})

	for _, star := range GenerateStarfield(opts.Settings, w.rules.Rand) {
		size := opts.Sizes.Stars[star.Variant]
		storage.Spawn(star.Position, Body{W: size.X, H: size.Y}, Star{Variant: star.Variant})
	}

	w.scheduler = ecs.NewScheduler(storage)
	w.scheduler.Register(&ShipControlSystem{Rules: w.rules})
	w.scheduler.Register(&ShipMovementSystem{Rules: w.rules})
	w.scheduler.Register(&AlienSpawnSystem{Rules: w.rules})
	w.scheduler.Register(&MovementSystem{})
	w.scheduler.Register(&BulletCollisionSystem{Rules: w.rules})
	w.scheduler.Register(&ShipCollisionSystem{Rules: w.rules})
	w.scheduler.Register(&LeftEdgeSystem{Rules: w.rules})
	w.scheduler.Register(&StarfieldSystem{Rules: w.rules})
	w.scheduler.Register(&RestartSystem{Rules: w.rules})

	opts.Log.Info("world ready",
		logger.F("high_score", high),
		logger.F("stars", storage.Count()-1),
		logger.F("seed", seed),
	)
	return w, nil
}

// Step runs one logic frame with the given input.
func (w *World) Step(controls Controls) {
	*w.controls.Get() = controls
	w.scheduler.Once(1 / float64(w.rules.Settings.TickRate))
	w.frames++
}

// Session returns the live session state shared with the systems.
func (w *World) Session() *Session {
	return w.session.Get()
}

// DrainCues returns and clears the sound events raised since the last call.
func (w *World) DrainCues() []Cue {
	cues := w.cues.Get()
	out := cues.Pending
	cues.Pending = nil
	return out
}

func (w *World) Frames() uint64 {
	return w.frames
}

func (w *World) Storage() *ecs.Storage {
	return w.storage
}

func (w *World) Scheduler() *ecs.Scheduler {
	return w.scheduler
}

func (w *World) Settings() settings.Settings {
	return w.rules.Settings
}

// Entity is a read-only snapshot of one entity's placement.
type Entity struct {
	ID       ecs.EntityId
	Position Position
	Rect     image.Rectangle
}

// Ship returns the ship's placement.
func (w *World) Ship() Entity {
	ships := snapshot[Ship](w.storage)
	if len(ships) == 0 {
		return Entity{}
	}
	return ships[0]
}

// Bullets returns live bullets oldest first.
func (w *World) Bullets() []Entity {
	return snapshot[Bullet](w.storage)
}

// Aliens returns live aliens oldest first.
func (w *World) Aliens() []Entity {
	return snapshot[Alien](w.storage)
}

// Stars returns the decorations in generation order.
func (w *World) Stars() []Entity {
	return snapshot[Star](w.storage)
}

// SpawnAlien places an alien directly, outside the random spawner.
func (w *World) SpawnAlien(x, y float64) ecs.EntityId {
	size := w.rules.Sizes.Alien
	return w.storage.Spawn(
		Position{X: x, Y: y},
		Body{W: size.X, H: size.Y},
		Velocity{DX: -w.rules.Settings.AlienSpeed},
		Alien{},
	)
}

// snapshot lists every entity carrying the marker component M.
func snapshot[M any](storage *ecs.Storage) []Entity {
	view := ecs.NewView[struct {
		Id ecs.EntityId
		*Position
		*Body
		Marker *M
	}](storage)

	var out []Entity
	for id, row := range view.Iter() {
		out = append(out, Entity{ID: id, Position: *row.Position, Rect: Rect(*row.Position, *row.Body)})
	}
	return out
}
