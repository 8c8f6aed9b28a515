package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontmanager/fontinfo"
	"github.com/thatisuday/commando"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	fontPath := requireArg(args, "font")
	f, err := fontinfo.Load(fontPath)
	if err != nil {
		fatalf("cannot load font %s: %v", fontPath, err)
	}

	fmt.Printf("Path: %s\n", fontPath)
	fmt.Printf("Type: %s\n", fontinfo.FontType(f))
	names := fontinfo.NameInfo(f)
	for _, key := range []string{"family", "subfamily", "full", "version", "postscript"} {
		if v := names[key]; v != "" {
			fmt.Printf("%s: %s\n", strings.ToUpper(key[:1])+key[1:], v)
		}
	}
	if m, ok := fontinfo.MaxPInfo(f); ok {
		fmt.Printf("Glyphs: %d\n", m.NumGlyphs)
	}
	if metrics, err := fontinfo.FontMetrics(f); err == nil {
		fmt.Printf("Metrics: upem=%d ascent=%d descent=%d linegap=%d max-advance=%d\n",
			metrics.UnitsPerEm, metrics.Ascent, metrics.Descent, metrics.LineGap, metrics.MaxAdvance)
	} else {
		fmt.Printf("Metrics: %v\n", err)
	}
	tags := f.Tables()
	fmt.Printf("Tables (%d): %s\n", len(tags), strings.Join(tags, " "))

	for _, r := range norm.NFC.String(args["chars"].Value) {
		if r == ',' {
			continue
		}
		gid := fontinfo.GlyphIndex(f, r)
		gm, err := fontinfo.GlyphMetrics(f, gid)
		if err != nil {
			fmt.Printf("%#U: %v\n", r, err)
			continue
		}
		fmt.Printf("%#U gid=%d advance=%d lsb=%d rsb=%d bbox=(%d,%d)-(%d,%d) [%s]\n",
			r, gid, gm.Advance, gm.LSB, gm.RSB,
			gm.BBox.MinX, gm.BBox.MinY, gm.BBox.MaxX, gm.BBox.MaxY, runenames.Name(r))
	}
}
