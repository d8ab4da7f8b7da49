package sound

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/plus3/alien-defense/internal/assets"
	"github.com/plus3/alien-defense/internal/game"
	"github.com/plus3/alien-defense/internal/logger"
	"github.com/plus3/alien-defense/internal/synth"
)

var cueSounds = map[game.Cue]assets.SoundID{
	game.CueLaser:    assets.SoundLaser,
	game.CueZap:      assets.SoundZap,
	game.CueLifeLost: assets.SoundTwoTone,
	game.CueGameOver: assets.SoundLose,
}

// Context returns the process audio context, creating it on first use.
func Context() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(int(synth.SampleRate))
}

// Open decodes every clip in bundle into players on ctx.
func Open(ctx *audio.Context, bundle *assets.Bundle, musicVolume float64, log logger.Logger) (*Mixer, error) {
	effects := make(map[game.Cue]Voice, len(cueSounds))
	for cue, id := range cueSounds {
		stream, _, err := decode(ctx, bundle.Sounds[id])
		if err != nil {
			return nil, fmt.Errorf("open %s sound: %w", cue, err)
		}
		player, err := ctx.NewPlayer(stream)
		if err != nil {
			return nil, fmt.Errorf("open %s sound: %w", cue, err)
		}
		effects[cue] = player
	}

	stream, length, err := decode(ctx, bundle.Sounds[assets.SoundMusic])
	if err != nil {
		return nil, fmt.Errorf("open music: %w", err)
	}
	music, err := ctx.NewPlayer(audio.NewInfiniteLoop(stream, length))
	if err != nil {
		return nil, fmt.Errorf("open music: %w", err)
	}
	music.SetVolume(musicVolume)

	return NewMixer(effects, music, log), nil
}

// decode returns a stream of 16-bit stereo samples at the context's rate and
// its length in bytes.
func decode(ctx *audio.Context, clip assets.Clip) (io.ReadSeeker, int64, error) {
	src := bytes.NewReader(clip.Data)
	switch clip.Format {
	case assets.FormatPCM:
		return src, int64(len(clip.Data)), nil
	case assets.FormatVorbis:
		s, err := vorbis.DecodeWithSampleRate(ctx.SampleRate(), src)
		if err != nil {
			return nil, 0, err
		}
		return s, s.Length(), nil
	case assets.FormatMP3:
		s, err := mp3.DecodeWithSampleRate(ctx.SampleRate(), src)
		if err != nil {
			return nil, 0, err
		}
		return s, s.Length(), nil
	}
	return nil, 0, fmt.Errorf("unknown clip format %d", clip.Format)
}
