package engine

import (
	"math"

	"github.com/npillmayer/fontmanager/glyph"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// maxPPEM bounds the pixel size a face may be set to.
const maxPPEM = 0x7fff

// Face is an opened font face with a size and a single glyph slot.
type Face struct {
	lib    *Library
	font   *sfnt.Font
	path   string
	name   string
	buf    sfnt.Buffer
	ppemX  fixed.Int26_6 // horizontal pixels per em, 0 if no size is set
	ppemY  fixed.Int26_6 // vertical pixels per em
	slot   slot
	closed bool
}

// slot holds the glyph most recently loaded into a face.
type slot struct {
	loaded bool
	gid    sfnt.GlyphIndex
	segs   sfnt.Segments
	pos    glyph.Pos
	raster glyph.Raster
	pix    []byte // backing store of raster.Buffer, reused between renders
	z      vector.Rasterizer
}

func (face *Face) valid() bool {
	return face != nil && !face.closed && face.font != nil
}

// Done closes the face. Using the face afterwards yields ErrInvalidFaceHandle.
func (face *Face) Done() error {
	if !face.valid() {
		return ErrInvalidFaceHandle
	}
	delete(face.lib.faces, face)
	face.release()
	return nil
}

func (face *Face) release() {
	tracer().Debugf("closing face %q", face.name)
	face.closed = true
	face.slot = slot{}
}

// SetCharSize sets the nominal size of the face in 26.6 fractional points at
// the given device resolutions in dpi.
//
// A zero width means "same as height" and vice versa; a zero resolution means
// "same as the other one", and 72 dpi if both are zero.
func (face *Face) SetCharSize(charWidth, charHeight uint64, hres, vres uint32) error {
	if !face.valid() {
		return ErrInvalidFaceHandle
	}
	if charWidth == 0 {
		charWidth = charHeight
	} else if charHeight == 0 {
		charHeight = charWidth
	}
	if charWidth == 0 {
		return ErrInvalidPixelSize
	}
	if hres == 0 {
		hres = vres
	} else if vres == 0 {
		vres = hres
	}
	if hres == 0 {
		hres, vres = 72, 72
	}
	x, okx := scaleToPixels(charWidth, hres)
	y, oky := scaleToPixels(charHeight, vres)
	if !okx || !oky {
		return ErrInvalidPixelSize
	}
	face.setSize(x, y)
	return nil
}

// scaleToPixels converts a 26.6 point size at dpi into 26.6 pixels per em.
func scaleToPixels(size uint64, dpi uint32) (fixed.Int26_6, bool) {
	px := (size*uint64(dpi) + 36) / 72
	if px > maxPPEM<<6 {
		return 0, false
	}
	if px < 64 {
		px = 64
	}
	return fixed.Int26_6(px), true
}

// SetPixelSizes sets the size of the face in whole pixels per em. A zero value
// means "same as the other one"; sizes below one pixel are raised to one.
func (face *Face) SetPixelSizes(width, height uint32) error {
	if !face.valid() {
		return ErrInvalidFaceHandle
	}
	if width == 0 {
		width = height
	} else if height == 0 {
		height = width
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width > maxPPEM || height > maxPPEM {
		return ErrInvalidPixelSize
	}
	face.setSize(fixed.I(int(width)), fixed.I(int(height)))
	return nil
}

func (face *Face) setSize(x, y fixed.Int26_6) {
	face.ppemX, face.ppemY = x, y
	face.slot.loaded = false
	tracer().Debugf("face %q set to %v×%v ppem", face.name, x, y)
}

// PPEM returns the horizontal and vertical pixels per em, in 26.6.
func (face *Face) PPEM() (x, y fixed.Int26_6) {
	return face.ppemX, face.ppemY
}

// CharIndex maps a codepoint to a glyph index. It returns 0 if the face has
// no glyph for cp.
func (face *Face) CharIndex(cp uint32) uint32 {
	if !face.valid() || cp > math.MaxInt32 {
		return 0
	}
	gid, err := face.font.GlyphIndex(&face.buf, rune(cp))
	if err != nil {
		tracer().Debugf("no glyph for U+%04X: %v", cp, err)
		return 0
	}
	return uint32(gid)
}

// LoadGlyph loads the outline and metrics of glyph gid into the glyph slot,
// scaled to the current size. The slot's previous raster is invalidated.
func (face *Face) LoadGlyph(gid uint32) error {
	if !face.valid() {
		return ErrInvalidFaceHandle
	}
	if face.ppemY == 0 {
		return ErrInvalidSizeHandle
	}
	if gid >= uint32(face.font.NumGlyphs()) {
		return ErrInvalidGlyphIndex
	}
	s := &face.slot
	s.loaded = false
	s.raster = glyph.Raster{}
	segs, err := face.font.LoadGlyph(&face.buf, sfnt.GlyphIndex(gid), face.ppemY, nil)
	if err != nil {
		return wrap(ErrInvalidOutline, err)
	}
	// segs is only valid until the next call using face.buf
	s.segs = append(s.segs[:0], segs...)
	if face.ppemX != face.ppemY {
		for i := range s.segs {
			for j := range s.segs[i].Args {
				s.segs[i].Args[j].X = face.stretchX(s.segs[i].Args[j].X)
			}
		}
	}
	adv, err := face.font.GlyphAdvance(&face.buf, sfnt.GlyphIndex(gid), face.ppemY, font.HintingFull)
	if err != nil {
		return wrap(ErrInvalidTable, err)
	}
	adv = face.stretchX(adv)
	b := s.segs.Bounds()
	s.pos = glyph.Pos{
		Left:     clamp16(b.Min.X.Floor()),
		Top:      clamp16(-b.Min.Y.Floor()),
		AdvanceX: clamp16(int(adv)),
	}
	s.gid = sfnt.GlyphIndex(gid)
	s.loaded = true
	return nil
}

// stretchX scales a horizontal coordinate from the vertical ppem to the
// horizontal one. Outlines are loaded at the vertical size.
func (face *Face) stretchX(v fixed.Int26_6) fixed.Int26_6 {
	if face.ppemX == face.ppemY {
		return v
	}
	return fixed.Int26_6(int64(v) * int64(face.ppemX) / int64(face.ppemY))
}

// Slot returns the placement metrics and the raster of the glyph in the slot.
// The raster is empty until [Face.RenderGlyph] succeeded, and it aliases slot
// memory which the next load or render call overwrites.
func (face *Face) Slot() (glyph.Pos, glyph.Raster) {
	if !face.valid() {
		return glyph.Pos{}, glyph.Raster{}
	}
	return face.slot.pos, face.slot.raster
}

func clamp16(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
