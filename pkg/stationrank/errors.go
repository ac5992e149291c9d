package stationrank

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input could not be decoded in its declared format.
var ErrInvalidFormat = errors.New("invalid file format")

// ErrUnsupportedFormat indicates a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DecodeError represents an error while decoding an input file.
type DecodeError struct {
	Source    string
	Component string // "xlsx", "csv", "sheet"
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error in %q (%s): %v", e.Source, e.Component, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError.
func NewDecodeError(source, component string, err error) *DecodeError {
	return &DecodeError{
		Source:    source,
		Component: component,
		Err:       err,
	}
}
