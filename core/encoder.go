package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/options"
	"github.com/kpfaulkner/annotiff/tiffio"
	"github.com/kpfaulkner/annotiff/util"
	log "github.com/sirupsen/logrus"
)

// Encoder writes an AnnotatedImage as a multi-page TIFF: frame 0 is the
// opaque background, then one frame per layer in store order. A layer frame
// holds the layer colour under the mask and the fill colour elsewhere; its
// alpha channel is the mask (255 in, 0 out) and its PageName tag is the layer
// label "<name>/(<R>, <G>, <B>, 255)".
type Encoder struct {
	out     io.Writer
	options *options.CodecOptions
}

func NewEncoder(out io.Writer, opts *options.CodecOptions) *Encoder {
	return &Encoder{
		out:     out,
		options: options.NewCodecOptions(opts),
	}
}

func (e *Encoder) Encode(img *AnnotatedImage) error {
	start := time.Now()
	logf := util.IfThenElse(e.options.Verbose, log.Infof, log.Debugf)

	names := img.layers.Names()
	pages := make([]*tiffio.Page, 0, 1+len(names))
	pages = append(pages, backgroundPage(img.background))
	for i, name := range names {
		l := img.layers.Lookup(name)
		pages = append(pages, layerPage(l, *e.options.FillColor))
		logf("%2d: Layer name = %s, Color = %s", i+1, l.Name(), l.Color())
	}

	if err := tiffio.NewWriter(e.out, e.options.CompressionLevel).WritePages(pages); err != nil {
		return fmt.Errorf("encoding container: %w", err)
	}
	logf("encoded %d frames in %d ms", len(pages), time.Since(start).Milliseconds())
	return nil
}

func backgroundPage(bg *canvas.Canvas) *tiffio.Page {
	page := tiffio.NewPage(int(bg.Width), int(bg.Height))
	for i, j := 0, 0; i < len(bg.Pix); i, j = i+canvas.RGB, j+4 {
		page.Pix[j+0] = bg.Pix[i+0]
		page.Pix[j+1] = bg.Pix[i+1]
		page.Pix[j+2] = bg.Pix[i+2]
		page.Pix[j+3] = 0xFF
	}
	return page
}

func layerPage(l *layer.Layer, fill layer.Color) *tiffio.Page {
	mask, color := l.Mask(), l.Color()
	page := tiffio.NewPage(int(mask.Width()), int(mask.Height()))
	page.Name = layer.FormatLabel(l.Name(), color)
	page.HasName = true

	pos := 0
	for y := int32(0); y < mask.Height(); y++ {
		for x := int32(0); x < mask.Width(); x++ {
			if mask.At(y, x) {
				page.Pix[pos+0] = color.R
				page.Pix[pos+1] = color.G
				page.Pix[pos+2] = color.B
				page.Pix[pos+3] = 0xFF
			} else {
				page.Pix[pos+0] = fill.R
				page.Pix[pos+1] = fill.G
				page.Pix[pos+2] = fill.B
				page.Pix[pos+3] = 0
			}
			pos += 4
		}
	}
	return page
}

// Save encodes img in memory and then writes it to path, creating parent
// directories as needed. No file is created if encoding fails.
func Save(img *AnnotatedImage, path string, opts *options.CodecOptions) error {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts).Encode(img); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (a *AnnotatedImage) Save(path string, opts *options.CodecOptions) error {
	return Save(a, path, opts)
}
