package core

import (
	"fmt"
	"image"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
	"golang.org/x/image/draw"
)

// Resize returns a new image scaled to width x height. The background is
// resampled bilinearly; masks use nearest neighbour so they stay binary.
// Layer order and colours are preserved.
func (a *AnnotatedImage) Resize(width int, height int) (*AnnotatedImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cannot resize to %dx%d", canvas.ErrInvalidShape, width, height)
	}
	rect := image.Rect(0, 0, width, height)

	src := a.background.ToImage()
	dst := image.NewNRGBA(rect)
	draw.BiLinear.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)

	out := newAnnotatedImage(canvas.FromImage(dst))
	for _, name := range a.layers.Names() {
		l := a.layers.Lookup(name)
		scaled := image.NewGray(rect)
		m := maskToGray(l.Mask())
		draw.NearestNeighbor.Scale(scaled, rect, m, m.Bounds(), draw.Src, nil)
		if _, err := out.layers.AddWithMask(name, maskFromGray(scaled), l.Color()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func maskToGray(mask *layer.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, int(mask.Width()), int(mask.Height())))
	for y := int32(0); y < mask.Height(); y++ {
		for x := int32(0); x < mask.Width(); x++ {
			if mask.At(y, x) {
				img.Pix[img.PixOffset(int(x), int(y))] = 0xFF
			}
		}
	}
	return img
}

func maskFromGray(img *image.Gray) *layer.Mask {
	b := img.Bounds()
	mask := layer.NewMask(int32(b.Dy()), int32(b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if img.Pix[img.PixOffset(x, y)] != 0 {
				mask.Set(int32(y), int32(x), true)
			}
		}
	}
	return mask
}
