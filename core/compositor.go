package core

import (
	"fmt"
	"math"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/util"
)

// Render paints the named layers over a copy of background and blends them
// with the given opacity. A nil names slice selects every layer in store
// order; unknown names are skipped. Where selected masks overlap, the layer
// later in names wins. Pixels outside every selected mask keep the exact
// background value.
func Render(background *canvas.Canvas, layers *layer.Store, names []string, alpha float64) (*canvas.Canvas, error) {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}
	height, width, channels := background.Shape()
	if channels != canvas.RGB {
		return nil, fmt.Errorf("%w: background has %d channels, want %d", ErrShapeMismatch, channels, canvas.RGB)
	}
	if !background.SameSize(layers.Height(), layers.Width()) {
		return nil, fmt.Errorf("%w: layers are %dx%d, background is %dx%d",
			ErrShapeMismatch, layers.Height(), layers.Width(), height, width)
	}

	if names == nil {
		names = layers.Names()
	}

	paint, err := canvas.NewCanvas(height, width, channels)
	if err != nil {
		return nil, err
	}
	touched := util.New2DMatrix[uint8](height, width)

	for _, name := range names {
		l := layers.Lookup(name)
		if l == nil {
			continue
		}
		samples := l.Color().Samples()
		for y := int32(0); y < height; y++ {
			for x := int32(0); x < width; x++ {
				if l.Mask().At(y, x) {
					paint.Set(y, x, samples...)
					touched.Set(y, x, 1)
				}
			}
		}
	}

	output := background.Clone()
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			if touched.Get(y, x) == 0 {
				continue
			}
			o := output.Offset(y, x)
			for c := 0; c < int(channels); c++ {
				blended := alpha*float64(paint.Pix[o+c]) + (1-alpha)*float64(background.Pix[o+c])
				output.Pix[o+c] = util.RoundToUint8(blended)
			}
		}
	}
	return output, nil
}
