package fontinfo

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontMetrics retrieves selected metrics of a font. Ascent and descent are
// taken from 'hhea', falling back to the typographic values in 'OS/2' if
// 'hhea' leaves them at zero.
func FontMetrics(f *Font) (FontMetricsInfo, error) {
	metrics := FontMetricsInfo{}
	head, ok := HeadInfo(f)
	if !ok || head.UnitsPerEm == 0 {
		return metrics, fmt.Errorf("font %q: missing or invalid table 'head'", f.Name)
	}
	metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
	if hhea := f.Table("hhea"); len(hhea) >= 12 {
		metrics.Ascent = sfnt.Units(i16(hhea[4:]))
		metrics.Descent = sfnt.Units(i16(hhea[6:]))
		metrics.LineGap = sfnt.Units(i16(hhea[8:]))
		metrics.MaxAdvance = sfnt.Units(u16(hhea[10:]))
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2 := f.Table("OS/2"); len(os2) >= 74 {
			a := sfnt.Units(i16(os2[68:]))
			if a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			d := sfnt.Units(i16(os2[70:]))
			if d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
			metrics.LineGap = sfnt.Units(i16(os2[72:]))
		}
	}
	return metrics, nil
}

// GlyphIndex returns the glyph index for a code-point, or 0 if the font has
// no glyph for it.
func GlyphIndex(f *Font, codepoint rune) sfnt.GlyphIndex {
	var buf sfnt.Buffer
	gid, err := f.SFNT.GlyphIndex(&buf, codepoint)
	if err != nil {
		return 0
	}
	return gid
}

// GlyphMetrics retrieves metrics for a glyph in font units.
func GlyphMetrics(f *Font, gid sfnt.GlyphIndex) (GlyphMetricsInfo, error) {
	metrics := GlyphMetricsInfo{}
	if int(gid) >= f.SFNT.NumGlyphs() {
		return metrics, fmt.Errorf("glyph index %d out of range, font has %d glyphs",
			gid, f.SFNT.NumGlyphs())
	}
	var buf sfnt.Buffer
	upem := fixed.I(int(f.SFNT.UnitsPerEm()))
	aw, err := f.SFNT.GlyphAdvance(&buf, gid, upem, font.HintingNone)
	if err != nil {
		return metrics, err
	}
	metrics.Advance = sfnt.Units(aw.Round())
	metrics.LSB = leftSideBearing(f, gid)
	bounds, _, err := f.SFNT.GlyphBounds(&buf, gid, upem, font.HintingNone)
	if err != nil {
		return metrics, err
	}
	// sfnt reports bounds with y pointing down
	metrics.BBox = BoundingBox{
		MinX: sfnt.Units(bounds.Min.X.Round()),
		MinY: sfnt.Units(-bounds.Max.Y.Round()),
		MaxX: sfnt.Units(bounds.Max.X.Round()),
		MaxY: sfnt.Units(-bounds.Min.Y.Round()),
	}
	// rsb = aw - (lsb + xMax - xMin); undefined for glyphs without contours
	if !metrics.BBox.Empty() {
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics, nil
}

// leftSideBearing reads the LSB of a glyph from 'hmtx'. Glyphs beyond
// numberOfHMetrics only carry a bearing.
func leftSideBearing(f *Font, gid sfnt.GlyphIndex) sfnt.Units {
	hhea, hmtx := f.Table("hhea"), f.Table("hmtx")
	if len(hhea) < 36 {
		return 0
	}
	n := int(u16(hhea[34:]))
	g := int(gid)
	var off int
	if g < n {
		off = g*4 + 2
	} else {
		off = n*4 + (g-n)*2
	}
	if off+2 > len(hmtx) {
		return 0
	}
	return sfnt.Units(i16(hmtx[off:]))
}
