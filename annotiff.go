package annotiff

import (
	"image"
	"image/color"
	"io"

	"github.com/kpfaulkner/annotiff/core"
	"github.com/kpfaulkner/annotiff/options"
)

// Load reads an annotated image from path. opts may be nil.
func Load(path string, opts *options.CodecOptions) (*core.AnnotatedImage, error) {
	return core.Load(path, opts)
}

// Save writes img to path, creating parent directories. opts may be nil.
func Save(img *core.AnnotatedImage, path string, opts *options.CodecOptions) error {
	return core.Save(img, path, opts)
}

// Decode returns the background with every layer painted at full opacity.
// It is not registered with image.RegisterFormat since the container is a
// plain TIFF and would shadow other TIFF decoders.
func Decode(r io.Reader) (image.Image, error) {
	img, err := core.Decode(r, nil)
	if err != nil {
		return nil, err
	}
	composite, err := img.Render(nil, 1.0)
	if err != nil {
		return nil, err
	}
	return composite.ToImage(), nil
}

func DecodeConfig(r io.Reader) (image.Config, error) {
	img, err := core.Decode(r, nil)
	if err != nil {
		return image.Config{}, err
	}
	height, width, _ := img.Shape()
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(width),
		Height:     int(height),
	}, nil
}
