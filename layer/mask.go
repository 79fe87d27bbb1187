package layer

import (
	"github.com/kpfaulkner/annotiff/util"
)

// Mask is a Height x Width binary matrix. Set pixels are stored as 1.
type Mask struct {
	m *util.Matrix[uint8]
}

func NewMask(height int32, width int32) *Mask {
	return &Mask{m: util.New2DMatrix[uint8](height, width)}
}

func (m *Mask) Height() int32 {
	return m.m.Height
}

func (m *Mask) Width() int32 {
	return m.m.Width
}

// At reports whether pixel (y, x) is in the mask.
func (m *Mask) At(y int32, x int32) bool {
	return m.m.Get(y, x) != 0
}

func (m *Mask) Set(y int32, x int32, v bool) {
	m.m.Set(y, x, util.IfThenElse[uint8](v, 1, 0))
}

// Fill sets or clears every pixel.
func (m *Mask) Fill(v bool) {
	m.m.Fill(util.IfThenElse[uint8](v, 1, 0))
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

func (m *Mask) Clone() *Mask {
	return &Mask{m: m.m.Clone()}
}

func (m *Mask) Equals(other *Mask) bool {
	if other == nil {
		return false
	}
	return m.m.Equals(other.m)
}

func (m *Mask) SameSize(height int32, width int32) bool {
	return m.m.Height == height && m.m.Width == width
}

// Invert flips every pixel in place.
func (m *Mask) Invert() {
	for i, v := range m.m.Data {
		m.m.Data[i] = util.IfThenElse[uint8](v == 0, 1, 0)
	}
}

// And keeps only the pixels also set in other. Masks must share a shape.
func (m *Mask) And(other *Mask) {
	for i := range m.m.Data {
		if other.m.Data[i] == 0 {
			m.m.Data[i] = 0
		}
	}
}
