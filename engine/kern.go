package engine

import (
	"errors"

	"github.com/npillmayer/fontmanager/glyph"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Kerning returns the kerning vector between two glyphs, taken from the
// font's 'kern' table. Fonts without such a table yield (0, 0).
//
// KerningUnscaled reports font units and needs no size. The other modes report
// 26.6 pixels at the current horizontal size; KerningDefault rounds to whole
// pixels. The vertical component is always 0.
func (face *Face) Kerning(left, right uint32, mode glyph.KerningMode) (x, y int32, err error) {
	if !face.valid() {
		return 0, 0, ErrInvalidFaceHandle
	}
	n := uint32(face.font.NumGlyphs())
	if left >= n || right >= n {
		return 0, 0, ErrInvalidGlyphIndex
	}
	var ppem fixed.Int26_6
	switch mode {
	case glyph.KerningUnscaled:
		ppem = fixed.I(int(face.font.UnitsPerEm()))
	case glyph.KerningDefault, glyph.KerningUnfitted:
		if face.ppemX == 0 {
			return 0, 0, ErrInvalidSizeHandle
		}
		ppem = face.ppemX
	default:
		return 0, 0, ErrInvalidArgument
	}
	k, err := face.font.Kern(&face.buf, sfnt.GlyphIndex(left), sfnt.GlyphIndex(right), ppem, font.HintingNone)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			tracer().Debugf("face %q has no kerning table", face.name)
			return 0, 0, nil
		}
		return 0, 0, wrap(ErrInvalidTable, err)
	}
	switch mode {
	case glyph.KerningUnscaled:
		return int32(k >> 6), 0, nil
	case glyph.KerningDefault:
		return int32((k + 32) &^ 63), 0, nil
	}
	return int32(k), 0, nil
}
