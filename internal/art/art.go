// Package art draws the built-in sprites used when no asset directory is given.
package art

import (
	"image"
	"image/color"
	"math"
)

var (
	hull     = color.RGBA{0xb8, 0xc4, 0xd6, 0xff}
	cockpit  = color.RGBA{0x4f, 0xc3, 0xf7, 0xff}
	flame    = color.RGBA{0xff, 0x98, 0x00, 0xff}
	alienFg  = color.RGBA{0x7c, 0xd9, 0x4a, 0xff}
	alienEye = color.RGBA{0x21, 0x21, 0x21, 0xff}
	starFg   = color.RGBA{0xff, 0xf5, 0x9d, 0xff}
	rock     = color.RGBA{0x8d, 0x6e, 0x63, 0xff}
	rockDark = color.RGBA{0x5d, 0x40, 0x37, 0xff}
	heart    = color.RGBA{0xe5, 0x39, 0x35, 0xff}
	cross    = color.RGBA{0x61, 0x61, 0x61, 0xff}
)

// Ship is a right-facing fighter, 64x40.
func Ship() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 40))
	fillPolygon(img, hull, [][2]float64{{4, 4}, {40, 14}, {63, 20}, {40, 26}, {4, 36}, {14, 20}})
	fillEllipse(img, cockpit, 38, 20, 7, 4)
	fillPolygon(img, flame, [][2]float64{{0, 16}, {10, 18}, {10, 22}, {0, 24}})
	return img
}

// Alien is a left-facing saucer creature, 48x36.
func Alien() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 48, 36))
	fillEllipse(img, alienFg, 24, 18, 22, 10)
	fillEllipse(img, alienFg, 24, 10, 10, 9)
	fillEllipse(img, alienEye, 18, 10, 3, 3)
	fillEllipse(img, alienEye, 30, 10, 3, 3)
	for _, x := range []float64{10, 24, 38} {
		fillEllipse(img, alienEye, x, 22, 2.5, 2.5)
	}
	return img
}

// Star is a small four-point sparkle, 9x9.
func Star() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 9, 9))
	fillPolygon(img, starFg, [][2]float64{{4.5, 0}, {5.5, 3.5}, {9, 4.5}, {5.5, 5.5}, {4.5, 9}, {3.5, 5.5}, {0, 4.5}, {3.5, 3.5}})
	return img
}

// MeteorSmall is a 14x14 rock.
func MeteorSmall() *image.RGBA {
	return meteor(14)
}

// MeteorMedium is a 26x26 rock.
func MeteorMedium() *image.RGBA {
	return meteor(26)
}

func meteor(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	fillEllipse(img, rock, r, r, r-0.5, r-1.5)
	fillEllipse(img, rockDark, r*0.7, r*0.8, r*0.25, r*0.2)
	fillEllipse(img, rockDark, r*1.3, r*1.2, r*0.2, r*0.2)
	return img
}

// Life is the remaining-life icon, 32x32.
func Life() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	fillEllipse(img, heart, 10, 11, 7, 7)
	fillEllipse(img, heart, 22, 11, 7, 7)
	fillPolygon(img, heart, [][2]float64{{3.5, 14}, {28.5, 14}, {16, 29}})
	return img
}

// X is the lost-life icon, 32x32.
func X() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	fillPolygon(img, cross, [][2]float64{{4, 8}, {8, 4}, {28, 24}, {24, 28}})
	fillPolygon(img, cross, [][2]float64{{24, 4}, {28, 8}, {8, 28}, {4, 24}})
	return img
}

func fillEllipse(img *image.RGBA, c color.RGBA, cx, cy, rx, ry float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// fillPolygon fills using the even-odd rule, sampling pixel centres.
func fillPolygon(img *image.RGBA, c color.RGBA, pts [][2]float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		py := float64(y) + 0.5
		for x := b.Min.X; x < b.Max.X; x++ {
			px := float64(x) + 0.5
			inside := false
			for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
				xi, yi := pts[i][0], pts[i][1]
				xj, yj := pts[j][0], pts[j][1]
				if (yi > py) != (yj > py) && px < (xj-xi)*(py-yi)/(yj-yi)+xi {
					inside = !inside
				}
			}
			if inside {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// Coverage returns the fraction of non-transparent pixels in img.
func Coverage(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var opaque int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				opaque++
			}
		}
	}
	return math.Round(float64(opaque)/float64(b.Dx()*b.Dy())*1000) / 1000
}
