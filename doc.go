/*
Package fontmanager is a thin boundary in front of a glyph rendering engine.

Hosts drive the engine through a flat set of functions: initialize and shut
down a rendering context, open and close faces, size them, map codepoints to
glyph indices, render a glyph, read back its position and raster, look up
kerning, and save a raster as a BMP file. Each function forwards to one
engine call and reports the engine's status code, narrowed to an int:

	lib, status := fontmanager.InitLibrary(fontmanager.SFNT())
	face, status := fontmanager.NewFace(lib, "Go-Regular.ttf")
	status = fontmanager.SetPixelSizes(face, 0, 48)
	gid := fontmanager.CharIndex(face, 'g')
	if fontmanager.GenerateGlyph(face, glyph.RenderNormal, gid) == fontmanager.StatusOK {
		pos, raster, _ := fontmanager.CurrentGlyphMapData(face)
		fontmanager.Save(raster, "g.bmp")
	}

Three status codes are fixed by the boundary itself: [StatusLoadFailed],
[StatusRenderFailed] and [StatusKerningFailed]. All other non-zero codes are
the engine's own.

The raster handed out by [CurrentGlyphMapData] is borrowed from the face's
glyph slot and becomes invalid with the next call to [GenerateGlyph] on that
face.

Go clients who prefer errors over status codes use packages engine, bmpfile
and fontmgr directly.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontmanager

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmanager'
func tracer() tracing.Trace {
	return tracing.Select("fontmanager")
}
