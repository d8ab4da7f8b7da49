// Package sound plays game cues through ebiten's audio context.
package sound

import (
	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/logger"
)

// Voice is a single playable sound. *audio.Player implements it.
type Voice interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
}

// Mixer maps cues to voices. Effects restart from the beginning when cued
// again; music loops until stopped.
type Mixer struct {
	effects map[game.Cue]Voice
	music   Voice
	log     logger.Logger
	played  map[game.Cue]int
}

// NewMixer wraps already opened voices. A nil music voice or a cue missing from
// effects is silent.
func NewMixer(effects map[game.Cue]Voice, music Voice, log logger.Logger) *Mixer {
	if log == nil {
		log = logger.Nop()
	}
	return &Mixer{
		effects: effects,
		music:   music,
		log:     log,
		played:  make(map[game.Cue]int),
	}
}

// Handle plays cues in order.
func (m *Mixer) Handle(cues []game.Cue) {
	for _, cue := range cues {
		m.played[cue]++
		switch cue {
		case game.CueMusicStart:
			if m.music != nil {
				m.restart(cue, m.music)
			}
		case game.CueMusicStop:
			if m.music != nil {
				m.music.Pause()
			}
		default:
			if voice, ok := m.effects[cue]; ok {
				m.restart(cue, voice)
			}
		}
	}
}

func (m *Mixer) restart(cue game.Cue, v Voice) {
	if err := v.Rewind(); err != nil {
		m.log.Warn("sound rewind failed", logger.F("cue", cue), logger.Err(err))
		return
	}
	v.Play()
}

// MusicPlaying reports whether the music loop is running.
func (m *Mixer) MusicPlaying() bool {
	return m.music != nil && m.music.IsPlaying()
}

// Played returns how often each cue was handled.
func (m *Mixer) Played() map[game.Cue]int {
	out := make(map[game.Cue]int, len(m.played))
	for cue, n := range m.played {
		out[cue] = n
	}
	return out
}
