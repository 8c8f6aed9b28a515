/*
Package engine is a small glyph rendering library in the manner of FreeType,
built on golang.org/x/image/font/sfnt for outlines and metrics and on
golang.org/x/image/vector for rasterization.

A [Library] owns faces. A [Face] is sized with [Face.SetCharSize] or
[Face.SetPixelSizes], maps codepoints to glyph indices, and renders one glyph
at a time into its glyph slot:

	lib, _ := engine.Init()
	defer lib.Done()
	face, err := lib.NewFace("Go-Regular.ttf")
	...
	face.SetPixelSizes(0, 32)
	gid := face.CharIndex('g')
	if err := face.LoadGlyph(gid); err == nil {
		face.RenderGlyph(glyph.RenderNormal)
		pos, raster := face.Slot()
		...
	}

The raster returned by [Face.Slot] aliases the slot's pixel memory. The next
load or render call on the same face overwrites it.

Handles are not safe for concurrent use. A library and all of its faces have
to be used from one goroutine at a time; closing a face updates its library.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package engine

import (
	"errors"
	"io/fs"

	"github.com/npillmayer/fontmanager/internal/fontload"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontmanager.engine'
func tracer() tracing.Trace {
	return tracing.Select("fontmanager.engine")
}

// Library is a rendering context. It keeps track of the faces opened through
// it and closes them when it is shut down.
type Library struct {
	faces map[*Face]struct{}
	done  bool
}

// Init creates a rendering context.
func Init() (*Library, error) {
	tracer().Debugf("rendering library initialized")
	return &Library{faces: make(map[*Face]struct{})}, nil
}

// Done closes all faces still open and invalidates the library.
func (lib *Library) Done() error {
	if lib == nil || lib.done {
		return ErrInvalidLibraryHandle
	}
	for face := range lib.faces {
		face.release()
	}
	lib.faces = nil
	lib.done = true
	tracer().Debugf("rendering library shut down")
	return nil
}

// FaceCount returns the number of faces currently open.
func (lib *Library) FaceCount() int {
	if lib == nil {
		return 0
	}
	return len(lib.faces)
}

// NewFace opens the first font contained in the file at path.
func (lib *Library) NewFace(path string) (*Face, error) {
	if lib == nil || lib.done {
		return nil, ErrInvalidLibraryHandle
	}
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, wrap(ErrCannotOpenResource, err)
		}
		return nil, wrap(ErrUnknownFileFormat, err)
	}
	return lib.attach(f), nil
}

// NewFaceFromBytes opens a face from font data in memory. name is used in
// traces and reported by [Face.Info].
func (lib *Library) NewFaceFromBytes(data []byte, name string) (*Face, error) {
	if lib == nil || lib.done {
		return nil, ErrInvalidLibraryHandle
	}
	f, err := fontload.ParseOpenTypeFont(data, 0)
	if err != nil {
		return nil, wrap(ErrUnknownFileFormat, err)
	}
	f.Filepath = name
	return lib.attach(f), nil
}

func (lib *Library) attach(f *fontload.ScalableFont) *Face {
	face := &Face{lib: lib, font: f.SFNT, path: f.Filepath, name: f.Fontname}
	lib.faces[face] = struct{}{}
	tracer().Infof("opened face %q (%d glyphs) from %s", face.name, f.SFNT.NumGlyphs(), face.path)
	return face
}

// Info describes a face.
type Info struct {
	Path       string
	Fullname   string
	Family     string
	Style      string
	UnitsPerEm int
	NumGlyphs  int
}

// Info returns naming and size information of the face.
func (face *Face) Info() Info {
	if !face.valid() {
		return Info{}
	}
	info := Info{
		Path:       face.path,
		Fullname:   face.name,
		UnitsPerEm: int(face.font.UnitsPerEm()),
		NumGlyphs:  face.font.NumGlyphs(),
	}
	info.Family, _ = face.font.Name(&face.buf, sfnt.NameIDFamily)
	info.Style, _ = face.font.Name(&face.buf, sfnt.NameIDSubfamily)
	return info
}

// SFNT returns the parsed font behind the face, or nil for a closed face.
func (face *Face) SFNT() *sfnt.Font {
	if !face.valid() {
		return nil
	}
	return face.font
}
