package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/glyph"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.tyse.fonts":         "Info",
		"trace.fontmanager":        "Error",
		"trace.fontmanager.engine": "Error",
		"trace.fontmanager.bmp":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the glyph render CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("ft > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp, err := NewIntp(fontmanager.SFNT())
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp.repl = repl
	defer intp.Close()
	//
	// load font to use
	if *fontname != "" {
		if err := intp.openFace(*fontname); err != nil { // font name provided by flag
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output, but not when piped.
func initDisplay() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableStyling()
		return
	}
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object. It holds one rendering context and at
// most one open face.
type Intp struct {
	repl     *readline.Instance
	lib      fontmanager.Library
	face     fontmanager.Face
	fontPath string
	mode     glyph.RenderMode
	gid      uint32
	rendered bool
}

// NewIntp creates an interpreter rendering with engine e.
func NewIntp(e fontmanager.Engine) (*Intp, error) {
	lib, st := fontmanager.InitLibrary(e)
	if st != fontmanager.StatusOK {
		return nil, fmt.Errorf("cannot initialize font system: status %d", st)
	}
	return &Intp{lib: lib, mode: glyph.RenderNormal}, nil
}

// Close releases the face and the rendering context.
func (intp *Intp) Close() {
	intp.closeFace()
	if intp.lib != nil {
		fontmanager.DoneLibrary(intp.lib)
		intp.lib = nil
	}
}

func (intp *Intp) String() string {
	if intp == nil || intp.face == nil {
		return "( no font )"
	}
	s := fmt.Sprintf("( font=%s mode=%s )", intp.fontPath, intp.mode)
	if intp.rendered {
		s += fmt.Sprintf(" -> glyph %d", intp.gid)
	}
	return s
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
	arg2 string
}

const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	OPEN
	SIZE
	PIXELS
	MODE
	CHAR
	RENDER
	POS
	SHOW
	SAVE
	KERN
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"open":   OPEN,
	"size":   SIZE,
	"pixels": PIXELS,
	"mode":   MODE,
	"char":   CHAR,
	"render": RENDER,
	"pos":    POS,
	"show":   SHOW,
	"save":   SAVE,
	"kern":   KERN,
}

var errUnknownCommand = errors.New("unknown command, try 'help'")

// parseCommand splits a line into operations like "size:12" or "kern:A:V".
// Operations are separated by blanks and executed in order.
func parseCommand(line string) ([]Op, error) {
	steps := strings.Fields(line)
	ops := make([]Op, 0, len(steps))
	for _, step := range steps {
		c := strings.SplitN(step, ":", 3)
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownCommand, c[0])
		}
		op := Op{code: code, arg: getOptArg(c, 1), arg2: getOptArg(c, 2)}
		tracer().Debugf("parsed command: %v", c)
		ops = append(ops, op)
		if code == QUIT {
			break
		}
	}
	return ops, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	HELP:   helpOp,
	OPEN:   openOp,
	SIZE:   sizeOp,
	PIXELS: pixelsOp,
	MODE:   modeOp,
	CHAR:   charOp,
	RENDER: renderOp,
	POS:    posOp,
	SHOW:   showOp,
	SAVE:   saveOp,
	KERN:   kernOp,
}

func (intp *Intp) execute(cmd []Op) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd)
	for _, c := range cmd {
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}
