package game

import (
	"image"
	"math/rand/v2"

	"github.com/plus3/alien-defense/internal/highscore"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/plus3/alien-defense/internal/settings"
)

// Sizes are the pixel sizes of the sprites, which double as collision boxes.
type Sizes struct {
	Ship  image.Point
	Alien image.Point
	// Stars is indexed by StarVariant.
	Stars [3]image.Point
}

// Rules is shared by every system of one World: tuning, randomness, persistence
// and the session transitions that touch all of them.
type Rules struct {
	Settings   settings.Settings
	Sizes      Sizes
	Rand       *rand.Rand
	Store      highscore.Store
	Log        logger.Logger
	NewRoundID func() string
}

// ShipStart returns the ship position with its mid-left on the screen's mid-left.
func (r *Rules) ShipStart() Position {
	return Position{X: 0, Y: float64(r.Settings.ScreenHeight/2 - r.Sizes.Ship.Y/2)}
}

func (r *Rules) startRound(s *Session, cues *Cues) {
	s.Phase = PhasePlaying
	s.Lives = r.Settings.Lives
	s.Score = 0
	s.SpeedFactor = r.Settings.AlienSpeedFactor
	s.Round++
	s.RoundID = r.NewRoundID()
	cues.Push(CueMusicStart)

	r.Log.Info("round started",
		logger.F("round", s.Round),
		logger.RoundID(s.RoundID),
		logger.F("high_score", s.HighScore),
	)
}

func (r *Rules) alienDestroyed(s *Session, cues *Cues) {
	s.Score++
	cues.Push(CueZap)
	if s.Score%r.Settings.SpeedUpEvery == 0 {
		s.SpeedFactor += r.Settings.SpeedUpStep
		r.Log.Debug("aliens speed up",
			logger.RoundID(s.RoundID),
			logger.F("score", s.Score),
			logger.F("speed_factor", s.SpeedFactor),
		)
	}
}

// loseLife reports whether the round is still being played afterwards.
func (r *Rules) loseLife(s *Session, cues *Cues) bool {
	if s.Phase != PhasePlaying {
		return false
	}
	s.Lives--
	cues.Push(CueLifeLost)
	if s.Lives > 0 {
		return true
	}

	s.Phase = PhaseGameOver
	cues.Push(CueGameOver)
	cues.Push(CueMusicStop)

	newHigh := s.Score > s.HighScore
	if newHigh {
		s.HighScore = s.Score
		if err := r.Store.Save(s.HighScore); err != nil {
			r.Log.Error("high score not saved", logger.RoundID(s.RoundID), logger.Err(err))
		}
	}
	r.Log.Info("game over",
		logger.F("round", s.Round),
		logger.RoundID(s.RoundID),
		logger.F("score", s.Score),
		logger.F("high_score", s.HighScore),
		logger.F("new_high", newHigh),
	)
	return false
}
