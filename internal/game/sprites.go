package game

import (
	"image"

	"github.com/plus3/alien-defense/internal/assets"
)

// SpriteSizes reads the collision boxes from the bundle's sprite sizes.
func SpriteSizes(bundle *assets.Bundle) Sizes {
	return Sizes{
		Ship:  bundle.Size(assets.ImageShip),
		Alien: bundle.Size(assets.ImageAlien),
		Stars: [3]image.Point{
			VariantStar:         bundle.Size(assets.ImageStar),
			VariantMeteorMedium: bundle.Size(assets.ImageMeteorMedium),
			VariantMeteorSmall:  bundle.Size(assets.ImageMeteorSmall),
		},
	}
}
