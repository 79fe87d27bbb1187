package options

import (
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/tiffio"
)

// DefaultFillColor is written under unmasked pixels of layer frames.
var DefaultFillColor = layer.Color{R: 255, G: 255, B: 255}

type CodecOptions struct {
	CompressionLevel tiffio.CompressionLevel

	// FillColor is the colour of pixels outside a layer's mask, nil for
	// DefaultFillColor. Those pixels are fully transparent, so this only
	// matters to other TIFF viewers.
	FillColor *layer.Color

	// Verbose logs per-frame details at info level instead of debug.
	Verbose bool
}

// WithFillColor returns a copy of the options using c as fill colour.
func (o CodecOptions) WithFillColor(c layer.Color) CodecOptions {
	o.FillColor = &c
	return o
}

func NewCodecOptions(options *CodecOptions) *CodecOptions {

	opt := &CodecOptions{
		CompressionLevel: tiffio.DefaultCompression,
	}
	if options != nil {
		opt.CompressionLevel = options.CompressionLevel
		opt.Verbose = options.Verbose
		if options.FillColor != nil {
			fill := *options.FillColor
			opt.FillColor = &fill
		}
	}
	if opt.FillColor == nil {
		fill := DefaultFillColor
		opt.FillColor = &fill
	}
	return opt
}
