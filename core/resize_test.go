package core

import (
	"testing"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/testcommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResize(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)
	_, err = img.AddLayerWithMask("tl", testcommon.MaskFunc(2, 2, func(y, x int32) bool { return y == 0 && x == 0 }), red)
	require.NoError(t, err)
	img.AddLayer("none", blue)

	big, err := img.Resize(4, 6)
	require.NoError(t, err)

	h, w, c := big.Shape()
	assert.Equal(t, int32(6), h)
	assert.Equal(t, int32(4), w)
	assert.Equal(t, int32(3), c)
	assert.Equal(t, []string{"tl", "none"}, big.Names())

	mask, err := big.MaskOf("tl")
	require.NoError(t, err)
	assert.Equal(t, 6, mask.Count())
	for y := int32(0); y < 6; y++ {
		for x := int32(0); x < 4; x++ {
			assert.Equal(t, y < 3 && x < 2, mask.At(y, x), "pixel (%d,%d)", y, x)
		}
	}

	col, err := big.ColorOf("tl")
	require.NoError(t, err)
	assert.Equal(t, red, col)
	assert.True(t, big.Background().Equals(testcommon.SolidBackground(t, 6, 4)))

	// the source image is untouched
	h, w, _ = img.Shape()
	assert.Equal(t, int32(2), h)
	assert.Equal(t, int32(2), w)
}

func TestResizeInvalid(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)
	_, err = img.Resize(0, 3)
	assert.ErrorIs(t, err, canvas.ErrInvalidShape)
}
