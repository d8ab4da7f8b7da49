package sound

import (
	"errors"
	"testing"

	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeVoice struct {
	playing   bool
	plays     int
	rewinds   int
	rewindErr error
}

func (v *fakeVoice) Play()           { v.playing = true; v.plays++ }
func (v *fakeVoice) Pause()          { v.playing = false }
func (v *fakeVoice) IsPlaying() bool { return v.playing }
func (v *fakeVoice) Rewind() error {
	v.rewinds++
	return v.rewindErr
}

func TestMixerEffects(t *testing.T) {
	laser, zapVoice := &fakeVoice{}, &fakeVoice{}
	m := NewMixer(map[game.Cue]Voice{game.CueLaser: laser, game.CueZap: zapVoice}, nil, nil)

	m.Handle([]game.Cue{game.CueLaser, game.CueLaser, game.CueZap, game.CueLifeLost})

	assert.Equal(t, 2, laser.plays)
	assert.Equal(t, 2, laser.rewinds)
	assert.Equal(t, 1, zapVoice.plays)
	assert.False(t, m.MusicPlaying())
	assert.Equal(t, map[game.Cue]int{game.CueLaser: 2, game.CueZap: 1, game.CueLifeLost: 1}, m.Played())
}

func TestMixerMusic(t *testing.T) {
	music := &fakeVoice{}
	m := NewMixer(nil, music, nil)

	m.Handle([]game.Cue{game.CueMusicStart})
	assert.True(t, m.MusicPlaying())

	m.Handle([]game.Cue{game.CueGameOver, game.CueMusicStop})
	assert.False(t, m.MusicPlaying())

	m.Handle([]game.Cue{game.CueMusicStart})
	assert.True(t, m.MusicPlaying())
	assert.Equal(t, 2, music.rewinds, "each round starts the loop from the top")
}

func TestMixerRewindFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	voice := &fakeVoice{rewindErr: errors.New("stream closed")}
	m := NewMixer(map[game.Cue]Voice{game.CueZap: voice}, nil, logger.FromZap(zap.New(core)))

	m.Handle([]game.Cue{game.CueZap})

	assert.Equal(t, 0, voice.plays)
	entries := logs.FilterMessage("sound rewind failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "zap", entries[0].ContextMap()["cue"])
	}
}
