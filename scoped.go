package fontmanager

import (
	"errors"
	"fmt"
)

// WithLibrary runs fn with a fresh rendering context and shuts the context
// down when fn returns or panics.
func WithLibrary(e Engine, fn func(Library) error) (err error) {
	if e == nil {
		return errors.New("fontmanager: no engine")
	}
	lib, err := e.Init()
	if err != nil {
		return fmt.Errorf("fontmanager: init: %w", err)
	}
	defer func() {
		if derr := lib.Done(); derr != nil && err == nil {
			err = fmt.Errorf("fontmanager: shutdown: %w", derr)
		}
	}()
	return fn(lib)
}

// WithFace opens the face at path, runs fn with it, and closes the face when
// fn returns or panics.
func WithFace(lib Library, path string, fn func(Face) error) (err error) {
	face, err := lib.NewFace(path)
	if err != nil {
		return fmt.Errorf("fontmanager: open %s: %w", path, err)
	}
	defer func() {
		if derr := face.Done(); derr != nil && err == nil {
			err = fmt.Errorf("fontmanager: close %s: %w", path, derr)
		}
	}()
	return fn(face)
}
