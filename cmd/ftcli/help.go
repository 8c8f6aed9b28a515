package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "size", "pixels":
		pterm.Info.Println("Glyph size")
		pterm.Println(`
	size:<points>[:<dpi>]   size in points at a resolution (default 72 dpi)
	pixels:<ppem>           size in pixels per em
	The size applies to the open face and to all glyphs rendered after it.
	`)
	case "mode", "render":
		pterm.Info.Println("Rendering")
		pterm.Println(`
	mode:<normal|light|mono>   select the render mode
	char:<c> | char:U+XXXX     map a character to its glyph and render it
	render:<gid>               render a glyph by index
	show                       draw the rendered glyph
	pos                        print position and bitmap layout of the glyph
	save[:<file>]              write the glyph as an 8 bit grayscale BMP
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	open:<path>      open a font file (closes the previous one)
	size, pixels     set the glyph size (help:size)
	mode, char, render, show, pos, save
	                 render glyphs and inspect them (help:render)
	kern:<a>:<b>     print kerning between two characters in all modes
	quit             leave the CLI
	Several commands may be given on one line, separated by blanks.
	`)
	}
}
