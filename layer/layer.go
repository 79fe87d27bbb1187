// Package layer implements the ordered, name keyed collection of binary
// annotation masks that sit on top of a background canvas.
package layer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("layer not found")
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Color is a layer colour. Persisted and in-memory order is R, G, B.
type Color struct {
	R uint8
	G uint8
	B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// Samples returns the colour as canvas samples.
func (c Color) Samples() []uint8 {
	return []uint8{c.R, c.G, c.B}
}

// Layer is a named, coloured binary mask. Layers are created by a Store and
// keep the store's size and name for their whole life.
type Layer struct {
	name  string
	mask  *Mask
	color Color
}

func (l *Layer) Name() string {
	return l.name
}

// Mask returns the live mask; writes to it paint the layer.
func (l *Layer) Mask() *Mask {
	return l.mask
}

func (l *Layer) Color() Color {
	return l.color
}

func (l *Layer) clone() *Layer {
	return &Layer{name: l.name, mask: l.mask.Clone(), color: l.color}
}

// ValidName reports whether name can be stored and persisted. Names must be
// non-empty and may not contain NUL, which terminates TIFF ASCII values.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsRune(name, 0)
}
