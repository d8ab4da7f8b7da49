package render

import (
	"fmt"
	"image"

	"github.com/plus3/alien-defense/internal/assets"
	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/settings"
)

// FontSize selects one of the two HUD faces.
type FontSize int

const (
	FontSmall FontSize = iota
	FontLarge
)

// Anchor says which point of a label's bounds sits at its At point.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorCenter
)

// Label is one line of HUD text.
type Label struct {
	Text   string
	At     image.Point
	Anchor Anchor
	Size   FontSize
	// Light labels are drawn white, the rest black.
	Light bool
}

// Icon is a lives indicator slot. Lost slots show an X instead of the life.
type Icon struct {
	At   image.Point
	Lost bool
}

// Image returns the single sprite drawn in the slot.
func (i Icon) Image() assets.ImageID {
	if i.Lost {
		return assets.ImageLostLife
	}
	return assets.ImageLife
}

// HUD is everything drawn over the playfield for one phase.
type HUD struct {
	// Board is true when the ship, bullets and aliens are visible.
	Board      bool
	Ship       bool
	Lives      []Icon
	Labels     []Label
	PlayButton image.Rectangle
	ShowButton bool
}

// Layout places the HUD for the session's phase.
func Layout(s *game.Session, cfg settings.Settings) HUD {
	width, height := cfg.ScreenWidth, cfg.ScreenHeight
	mid := image.Pt(width/2, height/2)

	var hud HUD
	switch s.Phase {
	case game.PhasePlaying:
		hud.Board = true
		hud.Ship = true
		hud.Lives = lives(s, cfg)
		hud.Labels = []Label{
			{Text: fmt.Sprintf("Score: %d", s.Score), At: image.Pt(width-200, 10)},
			{Text: fmt.Sprintf("High Score: %d", s.DisplayHighScore()), At: image.Pt(width-200, 35)},
		}
	case game.PhaseGameOver:
		hud.Ship = true
		hud.Lives = lives(s, cfg)
		hud.Labels = []Label{
			{Text: "Game Over", At: mid.Add(image.Pt(0, -100)), Anchor: AnchorCenter, Size: FontLarge},
			{Text: fmt.Sprintf("High Score: %d", s.HighScore), At: mid.Add(image.Pt(0, -50)), Anchor: AnchorCenter},
			{Text: fmt.Sprintf("Score: %d", s.Score), At: mid.Add(image.Pt(0, -25)), Anchor: AnchorCenter},
		}
		hud.ShowButton = true
	default:
		hud.Labels = []Label{
			{Text: fmt.Sprintf("High Score: %d", s.HighScore), At: mid.Add(image.Pt(0, -50)), Anchor: AnchorCenter},
		}
		hud.ShowButton = true
	}

	if hud.ShowButton {
		hud.PlayButton = cfg.PlayButton()
		center := hud.PlayButton.Min.Add(hud.PlayButton.Size().Div(2))
		hud.Labels = append(hud.Labels, Label{Text: "Play", At: center, Anchor: AnchorCenter, Light: true})
	}
	return hud
}

func lives(s *game.Session, cfg settings.Settings) []Icon {
	icons := make([]Icon, cfg.Lives)
	for i := range icons {
		icons[i] = Icon{At: image.Pt(i*40, 10), Lost: i >= s.Lives}
	}
	return icons
}
