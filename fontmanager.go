package fontmanager

import (
	"errors"

	"github.com/npillmayer/fontmanager/bmpfile"
	"github.com/npillmayer/fontmanager/glyph"
)

// Status codes set by the boundary. Every other code is passed through from
// the engine unchanged.
const (
	StatusOK            = 0
	StatusLoadFailed    = 5  // the glyph could not be loaded into the slot
	StatusRenderFailed  = 6  // the loaded glyph could not be rasterized
	StatusKerningFailed = 7  // kerning lookup failed
	StatusUnknown       = -1 // the engine failed without a status code
)

// Engine creates rendering contexts.
type Engine interface {
	Init() (Library, error)
}

// Library is an opaque rendering context handle.
type Library interface {
	NewFace(path string) (Face, error)
	Done() error
}

// Face is an opaque face handle with a single glyph slot.
type Face interface {
	Done() error
	SetCharSize(charWidth, charHeight uint64, hres, vres uint32) error
	SetPixelSizes(width, height uint32) error
	CharIndex(cp uint32) uint32
	LoadGlyph(gid uint32) error
	RenderGlyph(mode glyph.RenderMode) error
	Slot() (glyph.Pos, glyph.Raster)
	Kerning(left, right uint32, mode glyph.KerningMode) (x, y int32, err error)
}

// Code narrows an engine error to its status code: 0 for nil, the error's
// own code if it carries one, StatusUnknown otherwise.
func Code(err error) int {
	if err == nil {
		return StatusOK
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return StatusUnknown
}

func status(op string, err error) int {
	code := Code(err)
	if code != StatusOK {
		tracer().Debugf("%s: status %d: %v", op, code, err)
	}
	return code
}

// InitLibrary creates a rendering context.
func InitLibrary(e Engine) (Library, int) {
	if e == nil {
		return nil, StatusUnknown
	}
	lib, err := e.Init()
	if err != nil {
		return nil, status("init", err)
	}
	return lib, StatusOK
}

// DoneLibrary shuts down a rendering context and every face opened through it.
func DoneLibrary(lib Library) int {
	return status("done", lib.Done())
}

// NewFace opens the first face of the font file at path.
func NewFace(lib Library, path string) (Face, int) {
	face, err := lib.NewFace(path)
	if err != nil {
		return nil, status("new face", err)
	}
	return face, StatusOK
}

// DoneFace closes a face.
func DoneFace(face Face) int {
	return status("done face", face.Done())
}

// SetCharSize sizes a face in 26.6 points at the given resolutions (dpi).
func SetCharSize(face Face, charWidth, charHeight uint64, hres, vres uint32) int {
	return status("set char size", face.SetCharSize(charWidth, charHeight, hres, vres))
}

// SetPixelSizes sizes a face in pixels per em.
func SetPixelSizes(face Face, width, height uint32) int {
	return status("set pixel sizes", face.SetPixelSizes(width, height))
}

// CharIndex maps a codepoint to a glyph index, 0 meaning "not found".
func CharIndex(face Face, cp uint32) uint32 {
	return face.CharIndex(cp)
}

// GenerateGlyph loads glyph gid into the face's slot and renders it.
// It returns StatusLoadFailed or StatusRenderFailed on failure.
func GenerateGlyph(face Face, mode glyph.RenderMode, gid uint32) int {
	if err := face.LoadGlyph(gid); err != nil {
		tracer().Debugf("load glyph %d: %v", gid, err)
		return StatusLoadFailed
	}
	if err := face.RenderGlyph(mode); err != nil {
		tracer().Debugf("render glyph %d as %s: %v", gid, mode, err)
		return StatusRenderFailed
	}
	return StatusOK
}

// CurrentGlyphMapData reads back the glyph in the face's slot. It always
// reports StatusOK; the caller has to check the status of the preceding
// [GenerateGlyph]. The raster aliases slot memory.
func CurrentGlyphMapData(face Face) (glyph.Pos, glyph.Raster, int) {
	pos, raster := face.Slot()
	return pos, raster, StatusOK
}

// Kerning returns the kerning vector between two glyphs, or
// StatusKerningFailed.
func Kerning(face Face, left, right uint32, mode glyph.KerningMode) (x, y int32, st int) {
	x, y, err := face.Kerning(left, right, mode)
	if err != nil {
		tracer().Debugf("kerning %d/%d: %v", left, right, err)
		return 0, 0, StatusKerningFailed
	}
	return x, y, StatusOK
}

// Save writes a raster to path as an 8 bit grayscale BMP file. It reports
// false if the file could not be written.
func Save(raster glyph.Raster, path string) bool {
	if err := bmpfile.Save(raster, path); err != nil {
		tracer().Errorf("save: %v", err)
		return false
	}
	return true
}
