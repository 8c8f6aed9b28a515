// Package fakeengine is a scriptable rendering engine for tests of the
// boundary and of the face manager. Faces are described by codepoint tables;
// every call can be made to fail with a fixed status code.
package fakeengine

import (
	"fmt"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/glyph"
)

// Code is a status code carried as an error.
type Code int

func (c Code) Error() string { return fmt.Sprintf("fake engine status %d", int(c)) }

// Code returns the status code.
func (c Code) Code() int { return int(c) }

// Operation names used as keys of Engine.Fail.
const (
	OpInit          = "init"
	OpDone          = "done"
	OpNewFace       = "new-face"
	OpDoneFace      = "done-face"
	OpSetCharSize   = "set-char-size"
	OpSetPixelSizes = "set-pixel-sizes"
	OpLoadGlyph     = "load-glyph"
	OpRenderGlyph   = "render-glyph"
	OpKerning       = "kerning"
)

// FaceSpec describes a face the fake engine can open.
type FaceSpec struct {
	Glyphs    map[rune]uint32 // codepoint → glyph index
	NumGlyphs uint32
	Kern      map[[2]uint32]int32 // unscaled kerning per glyph pair
}

// Engine is a fake [fontmanager.Engine].
type Engine struct {
	Faces map[string]FaceSpec // font path → face description
	Fail  map[string]error    // operation → error returned by every call
	Log   []string            // calls in order, e.g. "load-glyph 3"
}

// New creates a fake engine knowing the given faces.
func New(faces map[string]FaceSpec) *Engine {
	return &Engine{Faces: faces, Fail: make(map[string]error)}
}

func (e *Engine) record(format string, args ...interface{}) {
	e.Log = append(e.Log, fmt.Sprintf(format, args...))
}

// Init implements fontmanager.Engine.
func (e *Engine) Init() (fontmanager.Library, error) {
	e.record(OpInit)
	if err := e.Fail[OpInit]; err != nil {
		return nil, err
	}
	return &Library{e: e}, nil
}

// Library is a fake rendering context.
type Library struct {
	e     *Engine
	faces []*Face
	done  bool
}

// NewFace implements fontmanager.Library.
func (l *Library) NewFace(path string) (fontmanager.Face, error) {
	l.e.record("%s %s", OpNewFace, path)
	if err := l.e.Fail[OpNewFace]; err != nil {
		return nil, err
	}
	spec, ok := l.e.Faces[path]
	if !ok || l.done {
		return nil, Code(1)
	}
	f := &Face{e: l.e, path: path, spec: spec}
	l.faces = append(l.faces, f)
	return f, nil
}

// Done implements fontmanager.Library.
func (l *Library) Done() error {
	l.e.record(OpDone)
	if err := l.e.Fail[OpDone]; err != nil {
		return err
	}
	if l.done {
		return Code(0x21)
	}
	for _, f := range l.faces {
		f.closed = true
	}
	l.done = true
	return nil
}

// Face is a fake face. Rendered glyphs are squares of glyph-index-dependent
// size filled with the glyph index.
type Face struct {
	e      *Engine
	path   string
	spec   FaceSpec
	size   uint32
	loaded uint32
	pos    glyph.Pos
	raster glyph.Raster
	closed bool
}

// Path returns the path the face was opened from.
func (f *Face) Path() string { return f.path }

// Size returns the current pixel size of the face.
func (f *Face) Size() uint32 { return f.size }

// Closed reports whether the face has been released.
func (f *Face) Closed() bool { return f.closed }

func (f *Face) fail(op string) error {
	if f.closed {
		return Code(0x23)
	}
	return f.e.Fail[op]
}

// Done implements fontmanager.Face.
func (f *Face) Done() error {
	f.e.record("%s %s", OpDoneFace, f.path)
	if err := f.fail(OpDoneFace); err != nil {
		return err
	}
	f.closed = true
	return nil
}

// SetCharSize implements fontmanager.Face. The pixel size becomes
// charHeight/64 × vres/72.
func (f *Face) SetCharSize(charWidth, charHeight uint64, hres, vres uint32) error {
	f.e.record("%s %d %d %d %d", OpSetCharSize, charWidth, charHeight, hres, vres)
	if err := f.fail(OpSetCharSize); err != nil {
		return err
	}
	if vres == 0 {
		vres = 72
	}
	f.size = uint32(charHeight * uint64(vres) / 72 / 64)
	return nil
}

// SetPixelSizes implements fontmanager.Face.
func (f *Face) SetPixelSizes(width, height uint32) error {
	f.e.record("%s %d %d", OpSetPixelSizes, width, height)
	if err := f.fail(OpSetPixelSizes); err != nil {
		return err
	}
	f.size = height
	return nil
}

// CharIndex implements fontmanager.Face.
func (f *Face) CharIndex(cp uint32) uint32 {
	f.e.record("char-index %d", cp)
	if f.closed {
		return 0
	}
	return f.spec.Glyphs[rune(cp)]
}

// LoadGlyph implements fontmanager.Face.
func (f *Face) LoadGlyph(gid uint32) error {
	f.e.record("%s %d", OpLoadGlyph, gid)
	if err := f.fail(OpLoadGlyph); err != nil {
		return err
	}
	if gid >= f.spec.NumGlyphs {
		return Code(0x10)
	}
	f.loaded = gid
	f.pos = glyph.Pos{Left: 1, Top: int16(f.size), AdvanceX: int16(f.size) * 64}
	f.raster = glyph.Raster{}
	return nil
}

// RenderGlyph implements fontmanager.Face.
func (f *Face) RenderGlyph(mode glyph.RenderMode) error {
	f.e.record("%s %d", OpRenderGlyph, mode)
	if err := f.fail(OpRenderGlyph); err != nil {
		return err
	}
	n := int(f.loaded%5) + 2
	buf := make([]byte, n*n)
	for i := range buf {
		buf[i] = byte(f.loaded)
	}
	f.raster = glyph.Raster{Rows: n, Width: n, Pitch: n, NumGrays: 256,
		PixelMode: glyph.PixelModeGray, Buffer: buf}
	return nil
}

// Slot implements fontmanager.Face.
func (f *Face) Slot() (glyph.Pos, glyph.Raster) {
	return f.pos, f.raster
}

// Kerning implements fontmanager.Face.
func (f *Face) Kerning(left, right uint32, mode glyph.KerningMode) (int32, int32, error) {
	f.e.record("%s %d %d %d", OpKerning, left, right, mode)
	if err := f.fail(OpKerning); err != nil {
		return 0, 0, err
	}
	return f.spec.Kern[[2]uint32{left, right}], 0, nil
}
