package core

import (
	"math"
	"testing"

	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/testcommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// overlapping builds a 4x4 gradient image with layers A (left half) and
// B (top half), overlapping in the top left quadrant.
func overlapping(t *testing.T) *AnnotatedImage {
	img, err := NewAnnotatedImage(testcommon.GradientBackground(t, 4, 4))
	require.NoError(t, err)
	_, err = img.AddLayerWithMask("A", testcommon.MaskFunc(4, 4, func(y, x int32) bool { return x < 2 }), red)
	require.NoError(t, err)
	_, err = img.AddLayerWithMask("B", testcommon.MaskFunc(4, 4, func(y, x int32) bool { return y < 2 }), blue)
	require.NoError(t, err)
	return img
}

func TestRenderAlphaZeroIsBackground(t *testing.T) {
	img := overlapping(t)
	for _, names := range [][]string{nil, {"A"}, {"B", "A"}, {"A", "missing"}} {
		out, err := img.Render(names, 0.0)
		require.NoError(t, err)
		assert.True(t, out.Equals(img.Background()), "selection %v", names)
	}
}

func TestRenderAlphaOneIsExactColor(t *testing.T) {
	img := overlapping(t)
	out, err := img.Render([]string{"A"}, 1.0)
	require.NoError(t, err)

	bg := img.Background()
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			if x < 2 {
				assert.Equal(t, red.Samples(), out.At(y, x))
			} else {
				assert.Equal(t, bg.At(y, x), out.At(y, x))
			}
		}
	}
}

func TestRenderOverlapLastSelectedWins(t *testing.T) {
	img := overlapping(t)

	out, err := img.Render([]string{"A", "B"}, 1.0)
	require.NoError(t, err)
	assert.Equal(t, blue.Samples(), out.At(0, 0))
	assert.Equal(t, red.Samples(), out.At(3, 0))
	assert.Equal(t, blue.Samples(), out.At(0, 3))

	out, err = img.Render([]string{"B", "A"}, 1.0)
	require.NoError(t, err)
	assert.Equal(t, red.Samples(), out.At(0, 0))

	// default order is store order, so B (added second) wins
	out, err = img.Render(nil, 1.0)
	require.NoError(t, err)
	assert.Equal(t, blue.Samples(), out.At(1, 1))
}

func TestRenderOverlapIsNotAdditive(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 1, 1))
	require.NoError(t, err)
	full := testcommon.MaskFunc(1, 1, func(y, x int32) bool { return true })
	img.AddLayerWithMask("r", full, red)
	img.AddLayerWithMask("g", full, green)

	out, err := img.Render(nil, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 128, 0}, out.At(0, 0))
}

func TestRenderBlendRounds(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 1, 2, 100, 0, 255))
	require.NoError(t, err)
	_, err = img.AddLayerWithMask("a", testcommon.MaskFunc(1, 2, func(y, x int32) bool { return x == 0 }), layer.Color{R: 201, G: 255, B: 0})
	require.NoError(t, err)

	out, err := img.Render(nil, 0.5)
	require.NoError(t, err)
	// 0.5*201 + 0.5*100 = 150.5, 0.5*255 = 127.5, 0.5*255 = 127.5
	assert.Equal(t, []uint8{151, 128, 128}, out.At(0, 0))
	assert.Equal(t, []uint8{100, 0, 255}, out.At(0, 1))

	out, err = img.Render(nil, 0.25)
	require.NoError(t, err)
	// 50.25+75 = 125.25, 63.75, 191.25
	assert.Equal(t, []uint8{125, 64, 191}, out.At(0, 0))
}

func TestRenderSelection(t *testing.T) {
	img := overlapping(t)
	bg := img.Background()

	// unknown names are skipped, empty selection renders nothing
	out, err := img.Render([]string{"nope"}, 1.0)
	require.NoError(t, err)
	assert.True(t, out.Equals(bg))

	out, err = img.Render([]string{}, 1.0)
	require.NoError(t, err)
	assert.True(t, out.Equals(bg))

	out, err = img.Render([]string{"nope", "B"}, 1.0)
	require.NoError(t, err)
	assert.Equal(t, blue.Samples(), out.At(0, 0))
	assert.Equal(t, bg.At(3, 0), out.At(3, 0))
}

func TestRenderDoesNotModifyBackground(t *testing.T) {
	img := overlapping(t)
	before := img.Background()
	_, err := img.Render(nil, 1.0)
	require.NoError(t, err)
	assert.True(t, before.Equals(img.Background()))
}

func TestRenderInvalidAlpha(t *testing.T) {
	img := overlapping(t)
	for _, alpha := range []float64{-0.1, 1.01, math.NaN(), math.Inf(1)} {
		out, err := img.Render(nil, alpha)
		assert.ErrorIs(t, err, ErrInvalidAlpha)
		assert.Nil(t, out)
	}
}

func TestRenderShapeMismatch(t *testing.T) {
	bg := testcommon.SolidBackground(t, 2, 2)
	_, err := Render(bg, layer.NewStore(3, 2), nil, 1.0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRenderExampleScenario(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 4, 4))
	require.NoError(t, err)
	require.True(t, img.AddLayer("L1", layer.Color{R: 255}))
	mask, err := img.MaskOf("L1")
	require.NoError(t, err)
	mask.Set(0, 0, true)

	out, err := img.Render([]string{"L1"}, 1.0)
	require.NoError(t, err)

	want := testcommon.SolidBackground(t, 4, 4)
	want.Set(0, 0, 255, 0, 0)
	assert.True(t, out.Equals(want))
}
