// Package canvas holds the raster buffer shared by the background image and
// the rendered output. Pixels are stored interleaved, row major, in R,G,B
// order.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// RGB is the channel count of backgrounds and rendered output, the only
// layout the codec reads and writes.
const RGB = 3

var ErrInvalidShape = errors.New("invalid canvas shape")

// Canvas is a Height x Width x Channels raster of 8 bit samples. Constructors
// only produce RGB canvases.
type Canvas struct {
	Width    int32
	Height   int32
	Channels int32
	Pix      []uint8
}

func NewCanvas(height int32, width int32, channels int32) (*Canvas, error) {
	if err := checkShape(height, width, channels); err != nil {
		return nil, err
	}
	return &Canvas{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, int(height)*int(width)*int(channels)),
	}, nil
}

// NewCanvasFromPix copies pix into a new canvas.
func NewCanvasFromPix(height int32, width int32, channels int32, pix []uint8) (*Canvas, error) {
	c, err := NewCanvas(height, width, channels)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(c.Pix) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrInvalidShape, len(pix), height, width, channels)
	}
	copy(c.Pix, pix)
	return c, nil
}

// FromImage converts any image into a 3 channel RGB canvas. Alpha is dropped.
func FromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := &Canvas{
		Width:    int32(b.Dx()),
		Height:   int32(b.Dy()),
		Channels: RGB,
		Pix:      make([]uint8, b.Dx()*b.Dy()*RGB),
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		pos := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			offset := (y - b.Min.Y) * nrgba.Stride
			for x := 0; x < b.Dx(); x++ {
				c.Pix[pos+0] = nrgba.Pix[offset+x*4+0]
				c.Pix[pos+1] = nrgba.Pix[offset+x*4+1]
				c.Pix[pos+2] = nrgba.Pix[offset+x*4+2]
				pos += RGB
			}
		}
		return c
	}

	pos := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.Pix[pos+0] = px.R
			c.Pix[pos+1] = px.G
			c.Pix[pos+2] = px.B
			pos += RGB
		}
	}
	return c
}

func checkShape(height int32, width int32, channels int32) error {
	if height <= 0 || width <= 0 || channels != RGB {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidShape, height, width, channels)
	}
	return nil
}

func (c *Canvas) Shape() (int32, int32, int32) {
	return c.Height, c.Width, c.Channels
}

// Offset returns the index of the first sample of pixel (y, x) in Pix.
func (c *Canvas) Offset(y int32, x int32) int {
	return (int(y)*int(c.Width) + int(x)) * int(c.Channels)
}

// At returns the samples of pixel (y, x). The slice aliases Pix.
func (c *Canvas) At(y int32, x int32) []uint8 {
	o := c.Offset(y, x)
	return c.Pix[o : o+int(c.Channels)]
}

// Set writes up to Channels samples to pixel (y, x).
func (c *Canvas) Set(y int32, x int32, values ...uint8) {
	copy(c.At(y, x), values)
}

// Fill sets every pixel to the given samples.
func (c *Canvas) Fill(values ...uint8) {
	for y := int32(0); y < c.Height; y++ {
		for x := int32(0); x < c.Width; x++ {
			c.Set(y, x, values...)
		}
	}
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	pix := make([]uint8, len(c.Pix))
	copy(pix, c.Pix)
	return &Canvas{Width: c.Width, Height: c.Height, Channels: c.Channels, Pix: pix}
}

// SameSize reports whether the canvas is height x width. Channel counts are
// not compared.
func (c *Canvas) SameSize(height int32, width int32) bool {
	return c.Height == height && c.Width == width
}

// Equals compares two canvases and returns true if shape and pixels match.
func (c *Canvas) Equals(other *Canvas) bool {
	if other == nil || c.Height != other.Height || c.Width != other.Width || c.Channels != other.Channels {
		return false
	}
	for i := range c.Pix {
		if c.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// ToImage converts an RGB canvas to a fully opaque standard Go image.
func (c *Canvas) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(c.Width), int(c.Height)))
	pix := img.Pix
	for i, j := 0, 0; j < len(pix); i, j = i+RGB, j+4 {
		pix[j+0] = c.Pix[i+0]
		pix[j+1] = c.Pix[i+1]
		pix[j+2] = c.Pix[i+2]
		pix[j+3] = 0xFF
	}
	return img
}
