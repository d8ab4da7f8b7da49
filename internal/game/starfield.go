package game

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/alien-defense/internal/settings"
)

// StarSpec is one generated decoration.
type StarSpec struct {
	Position Position
	Variant  StarVariant
}

// GenerateStarfield lays decorations on a jittered grid. Each cell gets one with
// probability cfg.StarChance, rolled as an integer in [0, 100] like the rest of
// the variant logic: 80% stars, 10% medium meteors, 10% small meteors.
func GenerateStarfield(cfg settings.Settings, rng *rand.Rand) []StarSpec {
	rows := cfg.ScreenHeight / cfg.StarCell
	cols := cfg.ScreenWidth / cfg.StarCell
	if rows == 0 || cols == 0 {
		return nil
	}
	pitchX := cfg.ScreenWidth / cols
	pitchY := cfg.ScreenHeight / rows
	threshold := 100 - int(math.Round(cfg.StarChance*100))

	var stars []StarSpec
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if rng.IntN(101) < threshold {
				continue
			}
			x := col*pitchX + jitter(rng, cfg.StarJitter)
			y := row*pitchY + jitter(rng, cfg.StarJitter)
			stars = append(stars, StarSpec{
				Position: Position{X: float64(x), Y: float64(y)},
				Variant:  variantFor(rng.IntN(101)),
			})
		}
	}
	return stars
}

func jitter(rng *rand.Rand, n int) int {
	return rng.IntN(2*n+1) - n
}

func variantFor(roll int) StarVariant {
	switch {
	case roll >= 20:
		return VariantStar
	case roll >= 10:
		return VariantMeteorMedium
	default:
		return VariantMeteorSmall
	}
}
