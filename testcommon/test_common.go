// Package testcommon holds fixtures shared by package tests.
package testcommon

import (
	"bytes"
	"testing"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/tiffio"
)

// SolidBackground returns an RGB canvas filled with rgb.
func SolidBackground(t testing.TB, height int32, width int32, rgb ...uint8) *canvas.Canvas {
	t.Helper()
	c, err := canvas.NewCanvas(height, width, canvas.RGB)
	if err != nil {
		t.Fatalf("error creating background: %v", err)
	}
	if len(rgb) > 0 {
		c.Fill(rgb...)
	}
	return c
}

// GradientBackground returns an RGB canvas where every pixel differs, which
// catches transposed coordinates and channel swaps.
func GradientBackground(t testing.TB, height int32, width int32) *canvas.Canvas {
	t.Helper()
	c := SolidBackground(t, height, width)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			c.Set(y, x, uint8(y*16+x), uint8(255-x*7), uint8(y*31))
		}
	}
	return c
}

// MaskFunc builds a height x width mask from a predicate.
func MaskFunc(height int32, width int32, in func(y, x int32) bool) *layer.Mask {
	m := layer.NewMask(height, width)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			m.Set(y, x, in(y, x))
		}
	}
	return m
}

// LayerPage builds a raw layer frame. When label is nil no PageName is
// written.
func LayerPage(width int, height int, label *string, alpha func(y, x int) uint8) *tiffio.Page {
	p := tiffio.NewPage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 4
			p.Pix[o+0], p.Pix[o+1], p.Pix[o+2] = 255, 255, 255
			p.Pix[o+3] = alpha(y, x)
		}
	}
	if label != nil {
		p.Name = *label
		p.HasName = true
	}
	return p
}

// OpaquePage builds a background frame filled with rgb.
func OpaquePage(width int, height int, r, g, b uint8) *tiffio.Page {
	p := tiffio.NewPage(width, height)
	for i := 0; i < len(p.Pix); i += 4 {
		p.Pix[i+0], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3] = r, g, b, 255
	}
	return p
}

// EncodePages writes pages to an in-memory TIFF.
func EncodePages(t testing.TB, pages ...*tiffio.Page) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tiffio.Encode(&buf, pages, tiffio.DefaultCompression); err != nil {
		t.Fatalf("error encoding pages: %v", err)
	}
	return buf.Bytes()
}

func Label(s string) *string {
	return &s
}
