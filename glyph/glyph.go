/*
Package glyph holds the value types exchanged across the rasterizer boundary:
glyph positions, raster views and the mode tags of the rendering engine.

A [Raster] is a borrowed view. Its buffer belongs to the engine's glyph slot
and is overwritten by the next render call on the same face. Clients which
need the pixels afterwards have to [Raster.Clone] them.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyph

import "fmt"

// NotDef is the glyph index of the missing-character glyph. It doubles as
// "not found" for codepoint lookups.
const NotDef uint32 = 0

// Pos carries the placement metrics of the glyph currently held in a face's
// glyph slot. It is copied out of the slot and goes stale as soon as the next
// glyph is loaded into that slot.
type Pos struct {
	Left     int16 // horizontal offset of the bitmap origin, in pixels
	Top      int16 // vertical offset of the bitmap's top row above the baseline, in pixels
	AdvanceX int16 // horizontal advance, 26.6 fractional pixels
	AdvanceY int16 // vertical advance, 26.6 fractional pixels
	DeltaLSB int16 // left side bearing delta caused by hinting
	DeltaRSB int16 // right side bearing delta caused by hinting
}

func (p Pos) String() string {
	return fmt.Sprintf("(left=%d top=%d adv=%d/%d dlsb=%d drsb=%d)",
		p.Left, p.Top, p.AdvanceX, p.AdvanceY, p.DeltaLSB, p.DeltaRSB)
}

// PixelMode tags the pixel format of a [Raster]. Values follow the FreeType
// numbering, as hosts of the C surface depend on it.
type PixelMode uint8

const (
	PixelModeNone PixelMode = iota
	PixelModeMono           // 1 bit per pixel, most significant bit first
	PixelModeGray           // 8 bit coverage per pixel
	PixelModeGray2
	PixelModeGray4
	PixelModeLCD
	PixelModeLCDV
)

func (m PixelMode) String() string {
	switch m {
	case PixelModeNone:
		return "none"
	case PixelModeMono:
		return "mono"
	case PixelModeGray:
		return "gray"
	case PixelModeGray2:
		return "gray2"
	case PixelModeGray4:
		return "gray4"
	case PixelModeLCD:
		return "lcd"
	case PixelModeLCDV:
		return "lcd-v"
	}
	return fmt.Sprintf("pixel-mode(%d)", uint8(m))
}

// RenderMode selects how the engine converts an outline into a raster.
type RenderMode uint16

const (
	RenderNormal RenderMode = iota // 8 bit anti-aliased
	RenderLight                    // anti-aliased, unhinted advances
	RenderMono                     // 1 bit, thresholded
	RenderLCD                      // horizontal sub-pixels (not supported by every engine)
	RenderLCDV                     // vertical sub-pixels (not supported by every engine)
)

func (m RenderMode) String() string {
	switch m {
	case RenderNormal:
		return "normal"
	case RenderLight:
		return "light"
	case RenderMono:
		return "mono"
	case RenderLCD:
		return "lcd"
	case RenderLCDV:
		return "lcd-v"
	}
	return fmt.Sprintf("render-mode(%d)", uint16(m))
}

// ParseRenderMode maps a mode name, as printed by [RenderMode.String], back to
// its mode.
func ParseRenderMode(s string) (RenderMode, error) {
	for m := RenderNormal; m <= RenderLCDV; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return RenderNormal, fmt.Errorf("unknown render mode %q", s)
}

// KerningMode selects the unit of a kerning vector.
type KerningMode uint32

const (
	KerningDefault  KerningMode = iota // grid-fitted, 26.6 fractional pixels
	KerningUnfitted                    // not grid-fitted, 26.6 fractional pixels
	KerningUnscaled                    // font units
)

func (m KerningMode) String() string {
	switch m {
	case KerningDefault:
		return "default"
	case KerningUnfitted:
		return "unfitted"
	case KerningUnscaled:
		return "unscaled"
	}
	return fmt.Sprintf("kerning-mode(%d)", uint32(m))
}
