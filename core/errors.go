package core

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/annotiff/layer"
)

var (
	ErrNotFound      = layer.ErrNotFound
	ErrShapeMismatch = layer.ErrShapeMismatch

	// ErrFormat matches every *FormatError via errors.Is.
	ErrFormat       = errors.New("invalid container format")
	ErrInvalidAlpha = errors.New("alpha must be within [0, 1]")
)

// FormatError reports a container that cannot be decoded. Frame is -1 when
// the failure is not tied to a single frame.
type FormatError struct {
	Frame  int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Frame >= 0 {
		msg = fmt.Sprintf("frame %d: %s", e.Frame, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(frame int, err error, format string, args ...any) *FormatError {
	return &FormatError{Frame: frame, Reason: fmt.Sprintf(format, args...), Err: err}
}
