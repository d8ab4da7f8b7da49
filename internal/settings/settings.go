// Package settings holds the tunable constants of a game session.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned (wrapped) for any settings value that fails validation.
var ErrInvalid = errors.New("invalid settings")

const envPrefix = "ALIEN_DEFENSE_"

// RGB is an opaque color written as a three element list in YAML.
type RGB [3]uint8

// Color converts to an image/color value.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

// Settings is treated as immutable once Load returns.
type Settings struct {
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`
	Background   RGB `yaml:"background"`

	ShipSpeed float64 `yaml:"ship_speed"`

	BulletSpeed    float64 `yaml:"bullet_speed"`
	BulletWidth    int     `yaml:"bullet_width"`
	BulletHeight   int     `yaml:"bullet_height"`
	BulletColor    RGB     `yaml:"bullet_color"`
	BulletsAllowed int     `yaml:"bullets_allowed"`

	AlienFrequency   float64 `yaml:"alien_frequency"`
	AlienSpeed       float64 `yaml:"alien_speed"`
	AlienSpeedFactor float64 `yaml:"alien_speed_factor"`
	SpeedUpEvery     int     `yaml:"speed_up_every"`
	SpeedUpStep      float64 `yaml:"speed_up_step"`

	Lives    int `yaml:"lives"`
	TickRate int `yaml:"tick_rate"`

	StarSpeed      float64 `yaml:"star_speed"`
	StarWrapMargin int     `yaml:"star_wrap_margin"`
	StarCell       int     `yaml:"star_cell"`
	StarChance     float64 `yaml:"star_chance"`
	StarJitter     int     `yaml:"star_jitter"`

	PlayButtonWidth  int `yaml:"play_button_width"`
	PlayButtonHeight int `yaml:"play_button_height"`

	MusicVolume   float64 `yaml:"music_volume"`
	HighScoreFile string  `yaml:"highscore_file"`

	// Seed drives every random roll in the world. Zero picks a fresh seed.
	Seed uint64 `yaml:"seed"`
}

// Default returns the stock game tuning.
func Default() Settings {
	return Settings{
		ScreenWidth:  1280,
		ScreenHeight: 720,
		Background:   RGB{24, 41, 60},

		ShipSpeed: 3.0,

		BulletSpeed:    5.0,
		BulletWidth:    15,
		BulletHeight:   3,
		BulletColor:    RGB{255, 255, 255},
		BulletsAllowed: 3,

		AlienFrequency:   0.004,
		AlienSpeed:       1.5,
		AlienSpeedFactor: 1.0,
		SpeedUpEvery:     5,
		SpeedUpStep:      0.1,

		Lives:    3,
		TickRate: 240,

		StarSpeed:      0.51,
		StarWrapMargin: 25,
		StarCell:       50,
		StarChance:     0.18,
		StarJitter:     20,

		PlayButtonWidth:  100,
		PlayButtonHeight: 50,

		MusicVolume:   0.1,
		HighScoreFile: "high_score.txt",
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped when path
// is empty) and then with ALIEN_DEFENSE_* environment variables.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
		if err := s.decode(data); err != nil {
			return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	if err := s.applyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "TICK_RATE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sTICK_RATE=%q", ErrInvalid, envPrefix, v)
		}
		s.TickRate = n
	}
	if v, ok := lookup(envPrefix + "LIVES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sLIVES=%q", ErrInvalid, envPrefix, v)
		}
		s.Lives = n
	}
	if v, ok := lookup(envPrefix + "MUSIC_VOLUME"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sMUSIC_VOLUME=%q", ErrInvalid, envPrefix, v)
		}
		s.MusicVolume = f
	}
	if v, ok := lookup(envPrefix + "HIGHSCORE_FILE"); ok && v != "" {
		s.HighScoreFile = v
	}
	return nil
}

// Validate checks that sizes, speeds, counts and rates are positive and that
// probabilities lie in (0, 1].
func (s Settings) Validate() error {
	positiveInts := []struct {
		name  string
		value int
	}{
		{"screen_width", s.ScreenWidth},
		{"screen_height", s.ScreenHeight},
		{"bullet_width", s.BulletWidth},
		{"bullet_height", s.BulletHeight},
		{"bullets_allowed", s.BulletsAllowed},
		{"speed_up_every", s.SpeedUpEvery},
		{"lives", s.Lives},
		{"tick_rate", s.TickRate},
		{"star_cell", s.StarCell},
		{"play_button_width", s.PlayButtonWidth},
		{"play_button_height", s.PlayButtonHeight},
	}
	for _, f := range positiveInts {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, f.name, f.value)
		}
	}

	positiveFloats := []struct {
		name  string
		value float64
	}{
		{"ship_speed", s.ShipSpeed},
		{"bullet_speed", s.BulletSpeed},
		{"alien_speed", s.AlienSpeed},
		{"alien_speed_factor", s.AlienSpeedFactor},
		{"speed_up_step", s.SpeedUpStep},
		{"star_speed", s.StarSpeed},
	}
	for _, f := range positiveFloats {
		if !(f.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalid, f.name, f.value)
		}
	}

	for _, p := range []struct {
		name  string
		value float64
	}{
		{"alien_frequency", s.AlienFrequency},
		{"star_chance", s.StarChance},
	} {
		if !(p.value > 0 && p.value <= 1) {
			return fmt.Errorf("%w: %s must be in (0, 1], got %g", ErrInvalid, p.name, p.value)
		}
	}

	if s.StarWrapMargin < 0 || s.StarJitter < 0 {
		return fmt.Errorf("%w: star_wrap_margin and star_jitter must not be negative", ErrInvalid)
	}
	if s.MusicVolume < 0 || s.MusicVolume > 1 {
		return fmt.Errorf("%w: music_volume must be in [0, 1], got %g", ErrInvalid, s.MusicVolume)
	}
	if s.PlayButtonWidth > s.ScreenWidth || s.PlayButtonHeight > s.ScreenHeight/2 {
		return fmt.Errorf("%w: play button does not fit on screen", ErrInvalid)
	}
	return nil
}

// Screen returns the playfield rectangle.
func (s Settings) Screen() image.Rectangle {
	return image.Rect(0, 0, s.ScreenWidth, s.ScreenHeight)
}

// PlayButton returns the play button rectangle: centred horizontally with its
// top edge at half the screen height.
func (s Settings) PlayButton() image.Rectangle {
	x := (s.ScreenWidth - s.PlayButtonWidth) / 2
	y := s.ScreenHeight / 2
	return image.Rect(x, y, x+s.PlayButtonWidth, y+s.PlayButtonHeight)
}
