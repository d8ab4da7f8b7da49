package game

import "image"

// Position is the top-left corner of an entity in screen pixels.
type Position struct {
	X, Y float64
}

// Body is the pixel size of an entity's collision rectangle.
type Body struct {
	W, H int
}

type Velocity struct {
	DX, DY float64
}

// Ship marks the player's ship and carries its held movement keys.
type Ship struct {
	MovingUp   bool
	MovingDown bool
}

type Bullet struct{}

type Alien struct{}

// StarVariant selects the decoration sprite.
type StarVariant int

const (
	VariantStar StarVariant = iota
	VariantMeteorMedium
	VariantMeteorSmall
)

func (v StarVariant) String() string {
	switch v {
	case VariantMeteorMedium:
		return "meteor_medium"
	case VariantMeteorSmall:
		return "meteor_small"
	default:
		return "star"
	}
}

type Star struct {
	Variant StarVariant
}

// Rect returns the integer rectangle covered by an entity. Coordinates are
// truncated toward zero.
func Rect(p Position, b Body) image.Rectangle {
	x, y := int(p.X), int(p.Y)
	return image.Rect(x, y, x+b.W, y+b.H)
}

// Phase is the round state machine.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "menu"
	}
}

// Session is the singleton holding score and round state.
type Session struct {
	Phase       Phase
	Lives       int
	Score       int
	HighScore   int
	SpeedFactor float64
	Round       int
	RoundID     string
}

// DisplayHighScore is the high score shown while playing: the live score once it
// overtakes the stored best.
func (s *Session) DisplayHighScore() int {
	return max(s.HighScore, s.Score)
}

// Controls is the input snapshot for one frame.
type Controls struct {
	Up, Down bool
	// Fire is true on the frame the fire key goes down.
	Fire bool
	// Restart is the restart key; Click/ClickAt a mouse press this frame.
	Restart bool
	Click   bool
	ClickAt image.Point
}

// Cue is a sound event raised by the game logic.
type Cue int

const (
	CueLaser Cue = iota
	CueZap
	CueLifeLost
	CueGameOver
	CueMusicStart
	CueMusicStop
)

func (c Cue) String() string {
	return [...]string{"laser", "zap", "life_lost", "game_over", "music_start", "music_stop"}[c]
}

// Cues is the singleton queue of sound events not yet handed to the mixer.
type Cues struct {
	Pending []Cue
}

func (c *Cues) Push(cue Cue) {
	c.Pending = append(c.Pending, cue)
}
