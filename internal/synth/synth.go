// Package synth renders the built-in sound effects and music loop with beep.
// Output is 16-bit signed little-endian stereo PCM at SampleRate, which is the
// format ebiten's audio players consume directly.
package synth

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate must match the audio context the PCM is played on.
const SampleRate = beep.SampleRate(44100)

type wave int

const (
	sine wave = iota
	square
	saw
	triangle
)

func oscillator(w wave, freq float64) (beep.Streamer, error) {
	switch w {
	case square:
		return generators.SquareTone(SampleRate, freq)
	case saw:
		return generators.SawtoothTone(SampleRate, freq)
	case triangle:
		return generators.TriangleTone(SampleRate, freq)
	default:
		return generators.SineTone(SampleRate, freq)
	}
}

// note is one enveloped tone. attack and release are clamped to the duration.
type note struct {
	wave    wave
	freq    float64
	dur     time.Duration
	attack  time.Duration
	release time.Duration
	volume  float64
}

func (n note) streamer() (beep.Streamer, error) {
	if n.freq <= 0 {
		return beep.Silence(SampleRate.N(n.dur)), nil
	}
	osc, err := oscillator(n.wave, n.freq)
	if err != nil {
		return nil, fmt.Errorf("%g Hz tone: %w", n.freq, err)
	}
	total := SampleRate.N(n.dur)
	shaped := &envelope{
		streamer: beep.Take(total, osc),
		total:    total,
		attack:   min(SampleRate.N(n.attack), total),
		release:  min(SampleRate.N(n.release), total),
	}
	return gain(shaped, n.volume), nil
}

func sequence(notes ...note) (beep.Streamer, error) {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		s, err := n.streamer()
		if err != nil {
			return nil, err
		}
		streamers = append(streamers, s)
	}
	return beep.Seq(streamers...), nil
}

// gain scales s linearly; zero or less is silence.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// envelope applies a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	pos      int
	total    int
	attack   int
	release  int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if e.release > 0 && e.pos >= releaseStart {
			vol = min(vol, float64(e.total-e.pos)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

const ms = time.Millisecond

// Laser is a short falling square chirp played when a bullet is fired.
func Laser() (beep.Streamer, error) {
	var notes []note
	for i, f := range []float64{1568, 1319, 1047, 880, 698} {
		notes = append(notes, note{wave: square, freq: f, dur: 18 * ms, release: 4 * ms, volume: 0.25 - 0.03*float64(i)})
	}
	return sequence(notes...)
}

// Zap is the alien-destroyed burst.
func Zap() (beep.Streamer, error) {
	return sequence(
		note{wave: saw, freq: 220, dur: 30 * ms, attack: 2 * ms, volume: 0.35},
		note{wave: saw, freq: 330, dur: 30 * ms, volume: 0.3},
		note{wave: saw, freq: 165, dur: 60 * ms, release: 40 * ms, volume: 0.3},
	)
}

// TwoTone signals a lost life.
func TwoTone() (beep.Streamer, error) {
	return sequence(
		note{wave: triangle, freq: 660, dur: 120 * ms, attack: 5 * ms, release: 20 * ms, volume: 0.4},
		note{wave: triangle, freq: 440, dur: 160 * ms, attack: 5 * ms, release: 60 * ms, volume: 0.4},
	)
}

// Lose is the game-over phrase.
func Lose() (beep.Streamer, error) {
	return sequence(
		note{wave: square, freq: 392, dur: 180 * ms, release: 30 * ms, volume: 0.2},
		note{wave: square, freq: 330, dur: 180 * ms, release: 30 * ms, volume: 0.2},
		note{wave: square, freq: 262, dur: 180 * ms, release: 30 * ms, volume: 0.2},
		note{wave: square, freq: 196, dur: 500 * ms, release: 300 * ms, volume: 0.2},
	)
}

// Music is one pass of the background loop; callers repeat it.
func Music() (beep.Streamer, error) {
	melody := []float64{220, 0, 262, 330, 294, 0, 247, 196, 220, 0, 262, 392, 330, 294, 262, 247}
	bass := []float64{110, 110, 131, 131, 98, 98, 123, 123}

	var lead []note
	for _, f := range melody {
		lead = append(lead, note{wave: triangle, freq: f, dur: 250 * ms, attack: 10 * ms, release: 80 * ms, volume: 0.5})
	}
	var low []note
	for _, f := range bass {
		low = append(low, note{wave: sine, freq: f, dur: 500 * ms, attack: 20 * ms, release: 100 * ms, volume: 0.4})
	}

	leadStream, err := sequence(lead...)
	if err != nil {
		return nil, err
	}
	lowStream, err := sequence(low...)
	if err != nil {
		return nil, err
	}
	return beep.Take(SampleRate.N(4*time.Second), beep.Mix(leadStream, lowStream)), nil
}

// PCM drains s into 16-bit little-endian stereo bytes. Samples are clipped to [-1, 1].
func PCM(s beep.Streamer) ([]byte, error) {
	buf := make([][2]float64, 512)
	var out []byte
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for _, v := range frame {
				v = max(-1, min(1, v))
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("render pcm: %w", err)
	}
	return out, nil
}
