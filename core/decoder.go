package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/options"
	"github.com/kpfaulkner/annotiff/tiffio"
	"github.com/kpfaulkner/annotiff/util"
	log "github.com/sirupsen/logrus"
)

type DecoderOption func(d *Decoder) error

func WithInputFilename(fn string) DecoderOption {
	return func(d *Decoder) error {
		d.filename = fn
		return nil
	}
}

func WithReader(r io.Reader) DecoderOption {
	return func(d *Decoder) error {
		d.in = r
		return nil
	}
}

func WithCodecOptions(opts *options.CodecOptions) DecoderOption {
	return func(d *Decoder) error {
		d.options = options.NewCodecOptions(opts)
		return nil
	}
}

// Decoder rebuilds an AnnotatedImage from a container written by Encoder.
type Decoder struct {

	// input filename to read from, used when no reader is given.
	filename string

	// input stream
	in io.Reader

	options *options.CodecOptions
}

func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{options: options.NewCodecOptions(nil)}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.in == nil && d.filename == "" {
		return nil, errors.New("decoder needs a reader or an input filename")
	}
	return d, nil
}

// Decode reads every frame. On any error no image is returned.
func (d *Decoder) Decode() (*AnnotatedImage, error) {
	start := time.Now()
	logf := util.IfThenElse(d.options.Verbose, log.Infof, log.Debugf)

	in := d.in
	if in == nil {
		data, err := os.ReadFile(d.filename)
		if err != nil {
			return nil, err
		}
		in = bytes.NewReader(data)
	}

	pages, err := tiffio.NewReader(in).ReadPages()
	if err != nil {
		if errors.Is(err, tiffio.ErrMalformed) || errors.Is(err, tiffio.ErrUnsupported) {
			return nil, formatErrorf(-1, err, "reading container")
		}
		return nil, err
	}

	bg := pages[0]
	background, err := canvas.NewCanvas(int32(bg.Height), int32(bg.Width), canvas.RGB)
	if err != nil {
		return nil, formatErrorf(0, err, "background")
	}
	for i, j := 0, 0; j < len(bg.Pix); i, j = i+canvas.RGB, j+4 {
		copy(background.Pix[i:i+canvas.RGB], bg.Pix[j:j+canvas.RGB])
	}

	img := newAnnotatedImage(background)
	for i, page := range pages[1:] {
		frame := i + 1
		if !background.SameSize(int32(page.Height), int32(page.Width)) {
			return nil, fmt.Errorf("frame %d: %w: %dx%d layer over %dx%d background",
				frame, ErrShapeMismatch, page.Width, page.Height, bg.Width, bg.Height)
		}
		if !page.HasName {
			return nil, formatErrorf(frame, nil, "missing layer label")
		}
		name, color, err := layer.ParseLabel(page.Name)
		if err != nil {
			return nil, formatErrorf(frame, err, "bad layer label")
		}
		if img.layers.Has(name) {
			return nil, formatErrorf(frame, nil, "layer name duplicated: %s", name)
		}
		if _, err := img.layers.AddWithMask(name, maskFromAlpha(page), color); err != nil {
			return nil, err
		}
		logf("%2d: Layer name = %s, Color = %s", frame, name, color)
	}

	logf("decoded %d frames in %d ms", len(pages), time.Since(start).Milliseconds())
	return img, nil
}

// maskFromAlpha treats any non-zero alpha as inside the mask, even though the
// encoder only ever writes 0 or 255.
func maskFromAlpha(page *tiffio.Page) *layer.Mask {
	mask := layer.NewMask(int32(page.Height), int32(page.Width))
	pos := 3
	for y := int32(0); y < int32(page.Height); y++ {
		for x := int32(0); x < int32(page.Width); x++ {
			if page.Pix[pos] != 0 {
				mask.Set(y, x, true)
			}
			pos += 4
		}
	}
	return mask
}

// Decode reads a container from r.
func Decode(r io.Reader, opts *options.CodecOptions) (*AnnotatedImage, error) {
	d, err := NewDecoder(WithReader(r), WithCodecOptions(opts))
	if err != nil {
		return nil, err
	}
	return d.Decode()
}

// Load reads the container at path.
func Load(path string, opts *options.CodecOptions) (*AnnotatedImage, error) {
	d, err := NewDecoder(WithInputFilename(path), WithCodecOptions(opts))
	if err != nil {
		return nil, err
	}
	return d.Decode()
}
