package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/bmpfile"
	"github.com/npillmayer/fontmanager/glyph"
	"github.com/thatisuday/commando"
	"golang.org/x/text/unicode/runenames"
)

func runRenderCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	fontPath := requireArg(args, "font")
	input, err := parseTextInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	if input == "" {
		fatalf("input text is empty")
	}
	mode, err := glyph.ParseRenderMode(mustFlagString(flags["mode"], "mode"))
	if err != nil {
		fatalf("%v", err)
	}
	size := mustFlagInt(flags["size"], "size")
	dpi := mustFlagInt(flags["dpi"], "dpi")
	pixels := mustFlagInt(flags["pixels"], "pixels")
	if size <= 0 || dpi <= 0 || pixels < 0 {
		fatalf("--size and --dpi must be > 0, --pixels must be >= 0")
	}
	outDir := mustFlagString(flags["output"], "output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fatalf("cannot create output directory: %v", err)
	}
	var opts []bmpfile.Option
	if mustFlagBool(flags["legacy"], "legacy") {
		opts = append(opts, bmpfile.WithPadding(bmpfile.PadLegacy))
	}

	face, release := openFace(fontPath)
	defer release()
	var st int
	if pixels > 0 {
		st = fontmanager.SetPixelSizes(face, 0, uint32(pixels))
	} else {
		st = fontmanager.SetCharSize(face, 0, uint64(size)*64, uint32(dpi), uint32(dpi))
	}
	if st != fontmanager.StatusOK {
		fatalf("cannot set glyph size: status %d", st)
	}

	n := 0
	for i, r := range []rune(input) {
		gid := fontmanager.CharIndex(face, uint32(r))
		if gid == glyph.NotDef {
			tracer().Infof("%#U has no glyph in %s, rendering .notdef", r, fontPath)
		}
		out := filepath.Join(outDir, fmt.Sprintf("%02d-U+%04X.bmp", i, r))
		pos, raster, err := renderToFile(face, mode, gid, out, opts...)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("%s: gid=%d %dx%d pitch=%d %s [%s]\n", out, gid, raster.Width, raster.Rows,
			raster.Pitch, pos, runenames.Name(r))
		n++
	}
	fmt.Printf("wrote %d glyph(s) in %s mode\n", n, mode)
}

// renderToFile renders glyph gid and writes it to out. Rasters which are not
// 8 bit gray, such as mono glyphs, are expanded before writing; the returned
// raster is the one the engine produced.
func renderToFile(face fontmanager.Face, mode glyph.RenderMode, gid uint32, out string,
	opts ...bmpfile.Option) (glyph.Pos, glyph.Raster, error) {
	//
	if st := fontmanager.GenerateGlyph(face, mode, gid); st != fontmanager.StatusOK {
		return glyph.Pos{}, glyph.Raster{}, fmt.Errorf("cannot render glyph %d: status %d", gid, st)
	}
	pos, raster, _ := fontmanager.CurrentGlyphMapData(face)
	if err := bmpfile.Save(raster.Expand(), out, opts...); err != nil {
		return pos, raster, err
	}
	tracer().Debugf("glyph %d (%s, %s) written to %s", gid, mode, raster.PixelMode, out)
	return pos, raster, nil
}
