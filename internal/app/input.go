package app

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/alien-defense/ecs/debugui"
	"github.com/plus3/alien-defense/internal/game"
)

// Input is the slice of ebiten's input state the game reads.
type Input interface {
	Held(key ebiten.Key) bool
	JustPressed(key ebiten.Key) bool
	// JustClicked reports a left click this tick and where it landed.
	JustClicked() (image.Point, bool)
	Closing() bool
}

type ebitenInput struct{}

func (ebitenInput) Held(key ebiten.Key) bool        { return ebiten.IsKeyPressed(key) }
func (ebitenInput) JustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }
func (ebitenInput) Closing() bool                   { return ebiten.IsWindowBeingClosed() }

func (ebitenInput) JustClicked() (image.Point, bool) {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return image.Point{}, false
	}
	x, y := ebiten.CursorPosition()
	return image.Pt(x, y), true
}

const (
	keyUp      = ebiten.KeyUp
	keyDown    = ebiten.KeyDown
	keyFire    = ebiten.KeySpace
	keyRestart = ebiten.KeyP
	keyQuit    = ebiten.KeyQ
	keyOverlay = ebiten.KeyF3
)

// readControls snapshots the game controls. Keyboard and mouse are withheld
// from the game while the debug overlay has focus.
func readControls(in Input, capture debugui.ImguiInputState) game.Controls {
	var c game.Controls
	if !capture.WantCaptureKeyboard {
		c.Up = in.Held(keyUp)
		c.Down = in.Held(keyDown)
		c.Fire = in.JustPressed(keyFire)
		c.Restart = in.JustPressed(keyRestart)
	}
	if !capture.WantCaptureMouse {
		c.ClickAt, c.Click = in.JustClicked()
	}
	return c
}

func wantsQuit(in Input) bool {
	return in.Closing() || in.JustPressed(keyQuit)
}
