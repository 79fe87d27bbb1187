package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp restricts v to [lo, hi].
func Clamp[T constraints.Ordered](v T, lo T, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundToUint8 rounds half away from zero then clips to 0..255.
func RoundToUint8(v float64) uint8 {
	return uint8(Clamp(math.Round(v), 0, 255))
}
