// Package render draws a game.World with ebiten. It runs on its own scheduler
// over the same storage as the game logic, once per Draw call.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/alien-defense/ecs"
	"github.com/plus3/alien-defense/internal/assets"
	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/settings"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	largeFontSize = 74
	smallFontSize = 36
)

var buttonColor = color.RGBA{R: 248, G: 52, B: 43, A: 0xff}

// Screen is the singleton holding the frame's target image.
type Screen struct {
	Image *ebiten.Image
}

// Frame is the singleton carrying this frame's HUD layout to the drawing systems.
type Frame struct {
	HUD HUD
}

// Kit holds the GPU images and font faces shared by the render systems.
type Kit struct {
	Settings settings.Settings
	Images   map[assets.ImageID]*ebiten.Image
	Small    *text.GoTextFace
	Large    *text.GoTextFace
}

// NewKit uploads the bundle's images and loads the HUD font.
func NewKit(bundle *assets.Bundle, cfg settings.Settings) (*Kit, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}

	kit := &Kit{
		Settings: cfg,
		Images:   make(map[assets.ImageID]*ebiten.Image, len(bundle.Images)),
		Small:    &text.GoTextFace{Source: source, Size: smallFontSize},
		Large:    &text.GoTextFace{Source: source, Size: largeFontSize},
	}
	for id, img := range bundle.Images {
		kit.Images[id] = ebiten.NewImageFromImage(img)
	}
	return kit, nil
}

func (k *Kit) blit(screen *ebiten.Image, id assets.ImageID, x, y float64) {
	img := k.Images[id]
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)
}

var starImages = [...]assets.ImageID{
	game.VariantStar:         assets.ImageStar,
	game.VariantMeteorMedium: assets.ImageMeteorMedium,
	game.VariantMeteorSmall:  assets.ImageMeteorSmall,
}

// LayoutSystem computes the HUD for the current session.
type LayoutSystem struct {
	Session ecs.Singleton[game.Session]
	Frame   ecs.Singleton[Frame]

	Kit *Kit
}

func (s *LayoutSystem) Execute(frame *ecs.UpdateFrame) {
	s.Frame.Get().HUD = Layout(s.Session.Get(), s.Kit.Settings)
}

// BackdropSystem clears the screen and draws the starfield, which is visible
// in every phase.
type BackdropSystem struct {
	Stars ecs.Query[struct {
		*game.Position
		*game.Star
	}]
	Screen ecs.Singleton[Screen]

	Kit *Kit
}

func (s *BackdropSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	screen.Fill(s.Kit.Settings.Background.Color())
	for star := range s.Stars.Iter() {
		s.Kit.blit(screen, starImages[star.Star.Variant], star.Position.X, star.Position.Y)
	}
}

// BoardSystem draws the ship and, during a round, bullets and aliens.
type BoardSystem struct {
	Ships ecs.Query[struct {
		*game.Position
		*game.Ship
	}]
	Bullets ecs.Query[struct {
		*game.Position
		*game.Body
		*game.Bullet
	}]
	Aliens ecs.Query[struct {
		*game.Position
		*game.Alien
	}]
	Screen ecs.Singleton[Screen]
	Frame  ecs.Singleton[Frame]

	Kit *Kit
}

func (s *BoardSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	hud := s.Frame.Get().HUD

	if hud.Ship {
		for ship := range s.Ships.Iter() {
			s.Kit.blit(screen, assets.ImageShip, ship.Position.X, ship.Position.Y)
		}
	}
	if !hud.Board {
		return
	}

	bulletColor := s.Kit.Settings.BulletColor.Color()
	for bullet := range s.Bullets.Iter() {
		r := game.Rect(*bullet.Position, *bullet.Body)
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), bulletColor, false)
	}
	for alien := range s.Aliens.Iter() {
		s.Kit.blit(screen, assets.ImageAlien, alien.Position.X, alien.Position.Y)
	}
}

// HUDSystem draws lives, text and the play button.
type HUDSystem struct {
	Screen ecs.Singleton[Screen]
	Frame  ecs.Singleton[Frame]

	Kit *Kit
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	hud := s.Frame.Get().HUD

	for _, icon := range hud.Lives {
		s.Kit.blit(screen, icon.Image(), float64(icon.At.X), float64(icon.At.Y))
	}

	if hud.ShowButton {
		b := hud.PlayButton
		vector.DrawFilledRect(screen, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()), buttonColor, false)
	}

	for _, label := range hud.Labels {
		s.drawLabel(screen, label)
	}
}

func (s *HUDSystem) drawLabel(screen *ebiten.Image, label Label) {
	face := s.Kit.Small
	if label.Size == FontLarge {
		face = s.Kit.Large
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(label.At.X), float64(label.At.Y))
	if label.Anchor == AnchorCenter {
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
	}
	if label.Light {
		op.ColorScale.ScaleWithColor(color.White)
	} else {
		op.ColorScale.ScaleWithColor(color.Black)
	}
	text.Draw(screen, label.Text, face, op)
}

// Renderer owns the draw scheduler.
type Renderer struct {
	scheduler *ecs.Scheduler
	screen    *ecs.Singleton[Screen]
}

// New registers the render systems against storage, which must already hold
// the game's components and session singleton.
func New(storage *ecs.Storage, kit *Kit) *Renderer {
	r := &Renderer{
		scheduler: ecs.NewScheduler(storage),
		screen:    ecs.NewSingleton[Screen](storage),
	}
	ecs.NewSingleton[Frame](storage)

	r.scheduler.Register(&LayoutSystem{Kit: kit})
	r.scheduler.Register(&BackdropSystem{Kit: kit})
	r.scheduler.Register(&BoardSystem{Kit: kit})
	r.scheduler.Register(&HUDSystem{Kit: kit})
	return r
}

// Draw renders one frame onto screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	r.screen.Get().Image = screen
	r.scheduler.Once(0)
}

func (r *Renderer) Scheduler() *ecs.Scheduler {
	return r.scheduler
}
