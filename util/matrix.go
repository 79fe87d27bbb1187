package util

import (
	"golang.org/x/exp/constraints"
)

// Matrix makes a 1D slice appear as a row major 2D slice.
type Matrix[T constraints.Ordered] struct {
	Width  int32
	Height int32
	Data   []T
}

// New2DMatrix creates a new 2D matrix with the given dimensions
// Note height is the first dimension, width is the second
func New2DMatrix[T constraints.Ordered](height int32, width int32) *Matrix[T] {
	matrix := make([]T, width*height)
	return &Matrix[T]{Width: width, Height: height, Data: matrix}
}

// Note y is first param, matching image row order
func (s *Matrix[T]) Get(y int32, x int32) T {
	return s.Data[y*s.Width+x]
}

func (s *Matrix[T]) Set(y int32, x int32, value T) {
	s.Data[y*s.Width+x] = value
}

// Fill sets every element to value.
func (s *Matrix[T]) Fill(value T) {
	for i := range s.Data {
		s.Data[i] = value
	}
}

// Clone returns a copy that shares no storage with s.
func (s *Matrix[T]) Clone() *Matrix[T] {
	data := make([]T, len(s.Data))
	copy(data, s.Data)
	return &Matrix[T]{Width: s.Width, Height: s.Height, Data: data}
}

// SameShape reports whether both matrices have identical dimensions.
func (s *Matrix[T]) SameShape(other *Matrix[T]) bool {
	return other != nil && s.Width == other.Width && s.Height == other.Height
}

func (s *Matrix[T]) Equals(other *Matrix[T]) bool {
	if !s.SameShape(other) {
		return false
	}
	for i := range s.Data {
		if s.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}
