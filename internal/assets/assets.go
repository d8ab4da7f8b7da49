// Package assets gathers the sprites and sound clips the game needs, either from
// an asset directory or generated in process.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"github.com/gopxl/beep"
	"github.com/plus3/alien-defense/internal/art"
	"github.com/plus3/alien-defense/internal/synth"
	_ "golang.org/x/image/bmp"
)

type ImageID int

const (
	ImageShip ImageID = iota
	ImageAlien
	ImageStar
	ImageMeteorSmall
	ImageMeteorMedium
	ImageLife
	ImageLostLife
	imageCount
)

type SoundID int

const (
	SoundLaser SoundID = iota
	SoundZap
	SoundTwoTone
	SoundLose
	SoundMusic
	soundCount
)

// Format tells the player how to decode Clip data.
type Format int

const (
	FormatPCM Format = iota // 16-bit LE stereo at synth.SampleRate
	FormatVorbis
	FormatMP3
)

type Clip struct {
	Format Format
	Data   []byte
}

// Bundle is the full asset set. Every ImageID and SoundID is present.
type Bundle struct {
	Images map[ImageID]image.Image
	Sounds map[SoundID]Clip
	// Generated lists the files that were missing and replaced procedurally.
	Generated []string
}

// Image returns the image for id.
func (b *Bundle) Image(id ImageID) image.Image {
	return b.Images[id]
}

// Size returns the pixel size of the image for id.
func (b *Bundle) Size(id ImageID) image.Point {
	if img := b.Images[id]; img != nil {
		return img.Bounds().Size()
	}
	return image.Point{}
}

var imageFiles = map[ImageID]string{
	ImageShip:         "images/ship2.bmp",
	ImageAlien:        "images/enemy.bmp",
	ImageStar:         "images/star.bmp",
	ImageMeteorSmall:  "images/meteor_small.bmp",
	ImageMeteorMedium: "images/meteor_medium.bmp",
	ImageLife:         "images/life.bmp",
	ImageLostLife:     "images/x.bmp",
}

var soundFiles = map[SoundID]struct {
	path   string
	format Format
}{
	SoundLaser:   {"sfx/sfx_laser1.ogg", FormatVorbis},
	SoundZap:     {"sfx/sfx_zap.ogg", FormatVorbis},
	SoundTwoTone: {"sfx/sfx_twoTone.ogg", FormatVorbis},
	SoundLose:    {"sfx/sfx_lose.ogg", FormatVorbis},
	SoundMusic:   {"sfx/music.mp3", FormatMP3},
}

var proceduralImages = map[ImageID]func() *image.RGBA{
	ImageShip:         art.Ship,
	ImageAlien:        art.Alien,
	ImageStar:         art.Star,
	ImageMeteorSmall:  art.MeteorSmall,
	ImageMeteorMedium: art.MeteorMedium,
	ImageLife:         art.Life,
	ImageLostLife:     art.X,
}

var proceduralSounds = map[SoundID]func() (beep.Streamer, error){
	SoundLaser:   synth.Laser,
	SoundZap:     synth.Zap,
	SoundTwoTone: synth.TwoTone,
	SoundLose:    synth.Lose,
	SoundMusic:   synth.Music,
}

// Procedural builds every asset in process.
func Procedural() (*Bundle, error) {
	b := &Bundle{
		Images: make(map[ImageID]image.Image, imageCount),
		Sounds: make(map[SoundID]Clip, soundCount),
	}
	for id := ImageID(0); id < imageCount; id++ {
		b.Images[id] = proceduralImages[id]()
	}
	for id := SoundID(0); id < soundCount; id++ {
		clip, err := generateSound(id)
		if err != nil {
			return nil, err
		}
		b.Sounds[id] = clip
	}
	return b, nil
}

// Load reads assets from fsys laid out as images/*.bmp and sfx/*. Missing files are
// generated and recorded in Generated; files that exist but cannot be read or
// decoded are errors.
func Load(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{
		Images: make(map[ImageID]image.Image, imageCount),
		Sounds: make(map[SoundID]Clip, soundCount),
	}

	for id := ImageID(0); id < imageCount; id++ {
		path := imageFiles[id]
		img, err := decodeImage(fsys, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			b.Images[id] = proceduralImages[id]()
			b.Generated = append(b.Generated, path)
		case err != nil:
			return nil, err
		default:
			b.Images[id] = img
		}
	}

	for id := SoundID(0); id < soundCount; id++ {
		file := soundFiles[id]
		data, err := fs.ReadFile(fsys, file.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			clip, genErr := generateSound(id)
			if genErr != nil {
				return nil, genErr
			}
			b.Sounds[id] = clip
			b.Generated = append(b.Generated, file.path)
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", file.path, err)
		case len(data) == 0:
			return nil, fmt.Errorf("read %s: empty file", file.path)
		default:
			b.Sounds[id] = Clip{Format: file.format, Data: data}
		}
	}

	return b, nil
}

func decodeImage(fsys fs.FS, path string) (image.Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func generateSound(id SoundID) (Clip, error) {
	s, err := proceduralSounds[id]()
	if err != nil {
		return Clip{}, fmt.Errorf("synthesize sound %d: %w", id, err)
	}
	pcm, err := synth.PCM(s)
	if err != nil {
		return Clip{}, fmt.Errorf("synthesize sound %d: %w", id, err)
	}
	return Clip{Format: FormatPCM, Data: pcm}, nil
}
