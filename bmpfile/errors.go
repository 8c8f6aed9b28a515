package bmpfile

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/npillmayer/fontmanager/glyph"
)

// Error kinds reported by [Save] and [Write]. Test with errors.Is.
var (
	ErrNotFound      = errors.New("bitmap destination not found")
	ErrPermission    = errors.New("bitmap destination not writable")
	ErrIO            = errors.New("bitmap write failed")
	ErrInvalidRaster = glyph.ErrInvalidRaster
)

// Error describes a failed bitmap write. It unwraps to both its kind and the
// underlying cause, so errors.Is works against either.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// openError classifies an error returned when creating the destination file.
func openError(path string, err error) error {
	kind := ErrIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermission
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

func ioError(path string, err error) error {
	return &Error{Kind: ErrIO, Path: path, Err: err}
}
