package engine

import (
	"image"
	"image/draw"

	"github.com/npillmayer/fontmanager/glyph"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// monoThreshold is the coverage from which a mono pixel is set.
const monoThreshold = 0x80

// RenderGlyph rasterizes the glyph in the slot. RenderNormal and RenderLight
// produce 8 bit gray rasters with pitch == width; RenderMono produces 1 bit
// rasters with rows padded to 16 bits. Sub-pixel modes are not supported and
// fail with ErrCannotRenderGlyph.
func (face *Face) RenderGlyph(mode glyph.RenderMode) error {
	if !face.valid() {
		return ErrInvalidFaceHandle
	}
	s := &face.slot
	if !s.loaded {
		return ErrInvalidGlyphFormat
	}
	switch mode {
	case glyph.RenderNormal, glyph.RenderLight, glyph.RenderMono:
	default:
		tracer().Infof("render mode %s is not supported", mode)
		return ErrCannotRenderGlyph
	}
	b := s.segs.Bounds()
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-minX, b.Max.Y.Ceil()-minY
	if len(s.segs) == 0 || w <= 0 || h <= 0 {
		s.raster = glyph.Raster{PixelMode: pixelModeFor(mode), NumGrays: grayLevelsFor(mode)}
		return nil
	}
	cov := face.coverage(minX, minY, w, h)
	if mode == glyph.RenderMono {
		s.raster = s.packMono(cov, w, h)
	} else {
		n := w * h
		s.pix = grow(s.pix, n)
		copy(s.pix, cov.Pix[:n])
		s.raster = glyph.Raster{
			Rows:      h,
			Width:     w,
			Pitch:     w,
			NumGrays:  256,
			PixelMode: glyph.PixelModeGray,
			Buffer:    s.pix[:n],
		}
	}
	s.pos.Left = clamp16(minX)
	s.pos.Top = clamp16(-minY)
	return nil
}

// coverage draws the slot's outline into an alpha mask of size w×h, with the
// outline's pixel (minX, minY) at the mask origin.
func (face *Face) coverage(minX, minY, w, h int) *image.Alpha {
	s := &face.slot
	z := &s.z
	z.Reset(w, h)
	z.DrawOp = draw.Src
	dx, dy := float32(-minX), float32(-minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}
	for _, seg := range s.segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			z.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// packMono thresholds a coverage mask into 1 bit rows, most significant bit
// first, each row padded to an even number of bytes.
func (s *slot) packMono(cov *image.Alpha, w, h int) glyph.Raster {
	pitch := ((w + 15) >> 4) << 1
	n := pitch * h
	s.pix = grow(s.pix, n)
	clear(s.pix[:n])
	for y := 0; y < h; y++ {
		row := s.pix[y*pitch : (y+1)*pitch]
		for x := 0; x < w; x++ {
			if cov.Pix[y*cov.Stride+x] >= monoThreshold {
				row[x>>3] |= 0x80 >> uint(x&7)
			}
		}
	}
	return glyph.Raster{
		Rows:      h,
		Width:     w,
		Pitch:     pitch,
		NumGrays:  2,
		PixelMode: glyph.PixelModeMono,
		Buffer:    s.pix[:n],
	}
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

func pixelModeFor(mode glyph.RenderMode) glyph.PixelMode {
	if mode == glyph.RenderMono {
		return glyph.PixelModeMono
	}
	return glyph.PixelModeGray
}

func grayLevelsFor(mode glyph.RenderMode) uint16 {
	if mode == glyph.RenderMono {
		return 2
	}
	return 256
}
