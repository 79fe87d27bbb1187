package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/testcommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red    = layer.Color{R: 255}
	green  = layer.Color{G: 255}
	blue   = layer.Color{B: 255}
	yellow = layer.Color{R: 255, G: 255}
)

func TestNewAnnotatedImage(t *testing.T) {
	bg := testcommon.GradientBackground(t, 3, 5)
	img, err := NewAnnotatedImage(bg)
	require.NoError(t, err)

	h, w, c := img.Shape()
	assert.Equal(t, int32(3), h)
	assert.Equal(t, int32(5), w)
	assert.Equal(t, int32(3), c)
	assert.Empty(t, img.Names())

	// the image owns its own copy
	bg.Set(0, 0, 1, 1, 1)
	assert.False(t, img.Background().Equals(bg))
}

func TestNewAnnotatedImageRejectsNonRGB(t *testing.T) {
	bg := &canvas.Canvas{Width: 2, Height: 2, Channels: 4, Pix: make([]uint8, 16)}

	img, err := NewAnnotatedImage(bg)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Nil(t, img)

	_, err = NewAnnotatedImage(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewAnnotatedImageFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.SetNRGBA(3, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	img, err := NewAnnotatedImageFromImage(src)
	require.NoError(t, err)
	h, w, _ := img.Shape()
	assert.Equal(t, int32(2), h)
	assert.Equal(t, int32(4), w)
	assert.Equal(t, []uint8{1, 2, 3}, img.Background().At(1, 3))
	assert.True(t, img.AddLayer("a", red))
}

func TestNewAnnotatedImageRejectsEmpty(t *testing.T) {
	img, err := NewAnnotatedImageFromImage(image.NewNRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, canvas.ErrInvalidShape)
	assert.Nil(t, img)

	img, err = NewAnnotatedImage(&canvas.Canvas{Channels: canvas.RGB})
	assert.ErrorIs(t, err, canvas.ErrInvalidShape)
	assert.Nil(t, img)
}

func TestAddLayerIdempotent(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)

	assert.True(t, img.AddLayer("x", red))
	assert.False(t, img.AddLayer("x", blue))
	assert.Equal(t, []string{"x"}, img.Names())

	c, err := img.ColorOf("x")
	require.NoError(t, err)
	assert.Equal(t, red, c)

	mask, err := img.MaskOf("x")
	require.NoError(t, err)
	assert.Equal(t, 0, mask.Count())
}

func TestRemoveLayer(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)
	img.AddLayer("a", red)
	img.AddLayer("b", green)
	img.AddLayer("c", blue)

	assert.False(t, img.RemoveLayer("zzz"))
	assert.Equal(t, []string{"a", "b", "c"}, img.Names())

	// replace is remove then add, which moves the layer to the end
	assert.True(t, img.RemoveLayer("a"))
	assert.True(t, img.AddLayer("a", yellow))
	assert.Equal(t, []string{"b", "c", "a"}, img.Names())
}

func TestAccessorsNotFound(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)

	_, err = img.ColorOf("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = img.MaskOf("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddLayerWithMask(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 3))
	require.NoError(t, err)

	ok, err := img.AddLayerWithMask("m", layer.NewMask(2, 3), red)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = img.AddLayerWithMask("bad", layer.NewMask(3, 3), red)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.False(t, ok)
	assert.Equal(t, []string{"m"}, img.Names())
}

func TestColors(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)
	img.AddLayer("a", red)
	img.AddLayer("b", blue)

	assert.Equal(t, map[string]layer.Color{"a": red, "b": blue}, img.Colors())
}

func TestUnlabelledMask(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)
	img.AddLayer("a", red)
	img.AddLayer("b", blue)
	a, _ := img.MaskOf("a")
	a.Set(0, 0, true)
	b, _ := img.MaskOf("b")
	b.Set(1, 1, true)

	free := img.UnlabelledMask()
	assert.Equal(t, 2, free.Count())
	assert.True(t, free.At(0, 1))
	assert.True(t, free.At(1, 0))

	ok, err := img.AddLayerWithMask("empty_space", free, yellow)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, img.UnlabelledMask().Count())
}

func TestCloneIsDeep(t *testing.T) {
	img, err := NewAnnotatedImage(testcommon.SolidBackground(t, 2, 2))
	require.NoError(t, err)
	img.AddLayer("a", red)

	c := img.Clone()
	m, _ := c.MaskOf("a")
	m.Set(0, 0, true)
	c.AddLayer("b", blue)

	orig, _ := img.MaskOf("a")
	assert.False(t, orig.At(0, 0))
	assert.Equal(t, []string{"a"}, img.Names())
}
