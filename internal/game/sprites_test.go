package game

import (
	"image"
	"testing"

	"github.com/plus3/alien-defense/internal/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpriteSizes(t *testing.T) {
	bundle, err := assets.Procedural()
	require.NoError(t, err)

	sizes := SpriteSizes(bundle)
	assert.Equal(t, image.Pt(64, 40), sizes.Ship)
	assert.Equal(t, image.Pt(48, 36), sizes.Alien)
	assert.Equal(t, image.Pt(9, 9), sizes.Stars[VariantStar])
	assert.Equal(t, image.Pt(26, 26), sizes.Stars[VariantMeteorMedium])
	assert.Equal(t, image.Pt(14, 14), sizes.Stars[VariantMeteorSmall])
}
