package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/glyph"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

var (
	errNoFace   = errors.New("no font opened, use 'open:<path>'")
	errNoGlyph  = errors.New("no glyph rendered, use 'char:<c>' or 'render:<gid>'")
	errArgument = errors.New("missing or invalid argument")
)

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Faces and sizes --------------------------------------------------

func (intp *Intp) openFace(path string) error {
	face, st := fontmanager.NewFace(intp.lib, path)
	if st != fontmanager.StatusOK {
		return fmt.Errorf("cannot open font %s: status %d", path, st)
	}
	intp.closeFace()
	intp.face, intp.fontPath = face, path
	tracer().Infof("opened font %s", path)
	return nil
}

func (intp *Intp) closeFace() {
	if intp.face != nil {
		fontmanager.DoneFace(intp.face)
		intp.face, intp.fontPath, intp.rendered = nil, "", false
	}
}

func openOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return fmt.Errorf("%w: open:<path>", errArgument), false
	}
	return intp.openFace(op.arg), false
}

func (intp *Intp) checkFace() error {
	if intp.face == nil {
		return errNoFace
	}
	return nil
}

// sizeOp sets the size in points, at 72 dpi unless a resolution is given
// as second argument.
func sizeOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFace(); err != nil {
		return err, false
	}
	pt, err := strconv.ParseFloat(op.arg, 64)
	if err != nil || pt <= 0 {
		return fmt.Errorf("%w: size:<points>[:<dpi>]", errArgument), false
	}
	dpi := uint64(72)
	if op.arg2 != "" {
		if dpi, err = strconv.ParseUint(op.arg2, 10, 32); err != nil {
			return fmt.Errorf("%w: invalid dpi %q", errArgument, op.arg2), false
		}
	}
	st := fontmanager.SetCharSize(intp.face, 0, uint64(pt*64), uint32(dpi), uint32(dpi))
	if st != fontmanager.StatusOK {
		return fmt.Errorf("cannot set size: status %d", st), false
	}
	intp.rendered = false
	pterm.Printf("size %gpt at %d dpi\n", pt, dpi)
	return nil, false
}

func pixelsOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFace(); err != nil {
		return err, false
	}
	px, err := strconv.ParseUint(op.arg, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: pixels:<ppem>", errArgument), false
	}
	if st := fontmanager.SetPixelSizes(intp.face, 0, uint32(px)); st != fontmanager.StatusOK {
		return fmt.Errorf("cannot set pixel size: status %d", st), false
	}
	intp.rendered = false
	return nil, false
}

func modeOp(intp *Intp, op *Op) (error, bool) {
	mode, err := glyph.ParseRenderMode(op.arg)
	if err != nil {
		return err, false
	}
	intp.mode = mode
	return nil, false
}

// --- Glyphs -----------------------------------------------------------

func (intp *Intp) render(gid uint32) error {
	if err := intp.checkFace(); err != nil {
		return err
	}
	intp.rendered = false
	if st := fontmanager.GenerateGlyph(intp.face, intp.mode, gid); st != fontmanager.StatusOK {
		return fmt.Errorf("cannot generate glyph %d: status %d", gid, st)
	}
	intp.gid, intp.rendered = gid, true
	return nil
}

func charOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFace(); err != nil {
		return err, false
	}
	r, err := parseChar(op.arg)
	if err != nil {
		return err, false
	}
	gid := fontmanager.CharIndex(intp.face, uint32(r))
	pterm.Printf("%#U %s -> glyph %d\n", r, runenames.Name(r), gid)
	if gid == glyph.NotDef {
		pterm.Warning.Println("font has no glyph for this character")
	}
	if err := intp.render(gid); err != nil {
		return err, false
	}
	return showOp(intp, op)
}

func renderOp(intp *Intp, op *Op) (error, bool) {
	gid, err := strconv.ParseUint(op.arg, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: render:<glyph index>", errArgument), false
	}
	if err := intp.render(uint32(gid)); err != nil {
		return err, false
	}
	return showOp(intp, op)
}

func (intp *Intp) slot() (glyph.Pos, glyph.Raster, error) {
	if err := intp.checkFace(); err != nil {
		return glyph.Pos{}, glyph.Raster{}, err
	}
	if !intp.rendered {
		return glyph.Pos{}, glyph.Raster{}, errNoGlyph
	}
	pos, raster, _ := fontmanager.CurrentGlyphMapData(intp.face)
	return pos, raster, nil
}

func posOp(intp *Intp, op *Op) (error, bool) {
	pos, raster, err := intp.slot()
	if err != nil {
		return err, false
	}
	data := [][]string{
		{"Field", "Value"},
		{"left", strconv.Itoa(int(pos.Left))},
		{"top", strconv.Itoa(int(pos.Top))},
		{"advance x (26.6)", strconv.Itoa(int(pos.AdvanceX))},
		{"advance y (26.6)", strconv.Itoa(int(pos.AdvanceY))},
		{"rows", strconv.Itoa(raster.Rows)},
		{"width", strconv.Itoa(raster.Width)},
		{"pitch", strconv.Itoa(raster.Pitch)},
		{"grays", strconv.Itoa(int(raster.NumGrays))},
		{"pixel mode", raster.PixelMode.String()},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func showOp(intp *Intp, op *Op) (error, bool) {
	_, raster, err := intp.slot()
	if err != nil {
		return err, false
	}
	pterm.Print(asciiRaster(raster))
	return nil, false
}

func saveOp(intp *Intp, op *Op) (error, bool) {
	_, raster, err := intp.slot()
	if err != nil {
		return err, false
	}
	path := op.arg
	if path == "" {
		path = fmt.Sprintf("glyph-%d.bmp", intp.gid)
	}
	// BMP files hold one byte per pixel; mono glyphs are expanded first.
	if !fontmanager.Save(raster.Expand(), path) {
		return fmt.Errorf("cannot save glyph to %s", path), false
	}
	pterm.Printf("saved %s\n", path)
	return nil, false
}

func kernOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFace(); err != nil {
		return err, false
	}
	left, err := parseChar(op.arg)
	if err != nil {
		return err, false
	}
	right, err := parseChar(op.arg2)
	if err != nil {
		return err, false
	}
	l := fontmanager.CharIndex(intp.face, uint32(left))
	r := fontmanager.CharIndex(intp.face, uint32(right))
	data := [][]string{{"Mode", "x", "y"}}
	for _, mode := range []glyph.KerningMode{glyph.KerningDefault, glyph.KerningUnfitted, glyph.KerningUnscaled} {
		x, y, st := fontmanager.Kerning(intp.face, l, r, mode)
		if st != fontmanager.StatusOK {
			data = append(data, []string{mode.String(), fmt.Sprintf("status %d", st), ""})
			continue
		}
		data = append(data, []string{mode.String(), strconv.Itoa(int(x)), strconv.Itoa(int(y))})
	}
	pterm.Printf("kerning %c/%c (glyphs %d/%d)\n", left, right, l, r)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// --- Helpers ----------------------------------------------------------

// parseChar accepts a single character or a codepoint in U+XXXX notation.
func parseChar(s string) (rune, error) {
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		u, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid codepoint %q", errArgument, s)
		}
		return rune(u), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: expected a single character, have %q", errArgument, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

var shades = []rune(" .:-=+*#%@")

// asciiRaster draws a raster with one character per pixel, darker
// characters for higher coverage.
func asciiRaster(raster glyph.Raster) string {
	var sb strings.Builder
	for y := 0; y < raster.Rows; y++ {
		sb.WriteRune('|')
		for x := 0; x < raster.Width; x++ {
			c := int(raster.Coverage(x, y))
			sb.WriteRune(shades[c*(len(shades)-1)/255])
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
