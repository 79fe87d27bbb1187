package core

import (
	"fmt"
	"image"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/layer"
)

// AnnotatedImage is a background canvas plus an ordered set of named,
// coloured masks. Every mask has the background's height and width.
// An AnnotatedImage is not safe for concurrent use.
type AnnotatedImage struct {
	background *canvas.Canvas
	layers     *layer.Store
}

// NewAnnotatedImage copies background, which must be a non-empty RGB canvas,
// and starts with no layers.
func NewAnnotatedImage(background *canvas.Canvas) (*AnnotatedImage, error) {
	if err := checkBackground(background); err != nil {
		return nil, err
	}
	return newAnnotatedImage(background.Clone()), nil
}

// NewAnnotatedImageFromImage uses img, minus any alpha, as the background.
func NewAnnotatedImageFromImage(img image.Image) (*AnnotatedImage, error) {
	bg := canvas.FromImage(img)
	if err := checkBackground(bg); err != nil {
		return nil, err
	}
	return newAnnotatedImage(bg), nil
}

func newAnnotatedImage(bg *canvas.Canvas) *AnnotatedImage {
	return &AnnotatedImage{
		background: bg,
		layers:     layer.NewStore(bg.Height, bg.Width),
	}
}

func checkBackground(bg *canvas.Canvas) error {
	if bg == nil {
		return fmt.Errorf("%w: no background", ErrShapeMismatch)
	}
	height, width, channels := bg.Shape()
	if height <= 0 || width <= 0 {
		return fmt.Errorf("%w: %dx%d background", canvas.ErrInvalidShape, width, height)
	}
	if channels != canvas.RGB {
		return fmt.Errorf("%w: background has %d channels, want %d", ErrShapeMismatch, channels, canvas.RGB)
	}
	return nil
}

// Background returns a copy of the background canvas.
func (a *AnnotatedImage) Background() *canvas.Canvas {
	return a.background.Clone()
}

// Layers exposes the live layer store.
func (a *AnnotatedImage) Layers() *layer.Store {
	return a.layers
}

func (a *AnnotatedImage) Shape() (int32, int32, int32) {
	return a.background.Shape()
}

// AddLayer adds an empty layer. Paint it through MaskOf.
func (a *AnnotatedImage) AddLayer(name string, color layer.Color) bool {
	return a.layers.Add(name, color)
}

func (a *AnnotatedImage) AddLayerWithMask(name string, mask *layer.Mask, color layer.Color) (bool, error) {
	return a.layers.AddWithMask(name, mask, color)
}

func (a *AnnotatedImage) RemoveLayer(name string) bool {
	return a.layers.Remove(name)
}

func (a *AnnotatedImage) Names() []string {
	return a.layers.Names()
}

func (a *AnnotatedImage) ColorOf(name string) (layer.Color, error) {
	return a.layers.Color(name)
}

// MaskOf returns the live mask of the named layer.
func (a *AnnotatedImage) MaskOf(name string) (*layer.Mask, error) {
	return a.layers.Mask(name)
}

// Colors returns a snapshot of every layer's colour keyed by name.
func (a *AnnotatedImage) Colors() map[string]layer.Color {
	colors := make(map[string]layer.Color, a.layers.Len())
	for _, name := range a.layers.Names() {
		colors[name] = a.layers.Lookup(name).Color()
	}
	return colors
}

// UnlabelledMask returns a new mask of the pixels not covered by any layer.
func (a *AnnotatedImage) UnlabelledMask() *layer.Mask {
	free := layer.NewMask(a.background.Height, a.background.Width)
	free.Fill(true)
	for _, name := range a.layers.Names() {
		covered := a.layers.Lookup(name).Mask().Clone()
		covered.Invert()
		free.And(covered)
	}
	return free
}

// Clone returns a deep copy sharing no storage with a.
func (a *AnnotatedImage) Clone() *AnnotatedImage {
	return &AnnotatedImage{
		background: a.background.Clone(),
		layers:     a.layers.Clone(),
	}
}

// Render composites the named layers over the background. See Render.
func (a *AnnotatedImage) Render(names []string, alpha float64) (*canvas.Canvas, error) {
	return Render(a.background, a.layers, names, alpha)
}
