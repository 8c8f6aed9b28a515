package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
	"golang.org/x/text/unicode/norm"
)

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

func main() {
	commando.
		SetExecutableName("ft-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for rendering glyphs to BMP files and inspecting fonts.")

	commando.
		Register("render").
		SetDescription("Render the glyphs of a text, one 8 bit grayscale BMP file per glyph.").
		SetShortDescription("render glyphs to BMP").
		AddArgument("font", "font file path (TTF, OTF, TTC)", "").
		AddArgument("text...", "text to render (variadic argument parts joined by comma by commando)", "").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0041,U+00C5)", commando.String, "-").
		AddFlag("size,s", "glyph size in points", commando.Int, 24).
		AddFlag("dpi,r", "device resolution in dots per inch", commando.Int, 96).
		AddFlag("pixels,p", "glyph size in pixels per em, overrides --size", commando.Int, 0).
		AddFlag("mode,m", "render mode: normal|light|mono", commando.String, "normal").
		AddFlag("output,o", "output directory", commando.String, ".").
		AddFlag("legacy,L", "pad rows like the legacy writer (4 bytes on aligned rows)", commando.Bool, nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runRenderCommand)

	commando.
		Register("kern").
		SetDescription("Print the kerning between adjacent characters in all kerning modes.").
		SetShortDescription("kerning pairs").
		AddArgument("font", "font file path (TTF, OTF, TTC)", "").
		AddArgument("text...", "characters to pair up", "").
		AddFlag("codepoints,c", "codepoints instead of text", commando.String, "-").
		AddFlag("pixels,p", "size in pixels per em for scaled modes", commando.Int, 32).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runKernCommand)

	commando.
		Register("font").
		SetDescription("Print naming, metrics and table information for a font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path (TTF, OTF, TTC)", "").
		AddArgument("chars...", "optional characters to print glyph metrics for", "").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runFontCommand)

	commando.Parse(nil)
}

// traceConfig returns the trace levels for a run. Verbose runs report the
// steps of the tools and of the rendering engine.
func traceConfig(verbose bool) testconfig.Conf {
	level := "Error"
	if verbose {
		level = "Info"
	}
	return testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.tyse.fonts":         level,
		"trace.fontmanager":        level,
		"trace.fontmanager.engine": level,
		"trace.fontmanager.bmp":    level,
		"trace.fontmanager.info":   level,
	}
}

// setupTracing routes tracing to the Go logger, honouring the verbose flag of
// the current command.
func setupTracing(flags map[string]commando.FlagValue) {
	verbose := mustFlagBool(flags["verbose"], "verbose")
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(traceConfig(verbose), "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("cannot configure tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// parseTextInput returns the NFC-normalized text of a command, taken either
// from the codepoints flag or from the variadic text argument.
func parseTextInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	cp, err := cpFlag.GetString()
	if err != nil {
		return "", fmt.Errorf("invalid --codepoints flag: %w", err)
	}
	cp = strings.TrimSpace(cp)
	if cp == "-" {
		cp = ""
	}
	if cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return norm.NFC.String(string(runes)), nil
	}
	return norm.NFC.String(textArg.Value), nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// openFace opens a rendering context and the face at fontPath. The returned
// function releases both.
func openFace(fontPath string) (fontmanager.Face, func()) {
	lib, st := fontmanager.InitLibrary(fontmanager.SFNT())
	if st != fontmanager.StatusOK {
		fatalf("cannot initialize font system: status %d", st)
	}
	face, st := fontmanager.NewFace(lib, fontPath)
	if st != fontmanager.StatusOK {
		fontmanager.DoneLibrary(lib)
		fatalf("cannot open font %s: status %d", fontPath, st)
	}
	return face, func() {
		fontmanager.DoneFace(face)
		fontmanager.DoneLibrary(lib)
	}
}

func requireArg(args map[string]commando.ArgValue, name string) string {
	v := strings.TrimSpace(args[name].Value)
	if v == "" {
		fatalf("%s is required", name)
	}
	return v
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ft-tools: "+format+"\n", args...)
	os.Exit(1)
}
