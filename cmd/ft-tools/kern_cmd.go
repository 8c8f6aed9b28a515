package main

import (
	"fmt"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/glyph"
	"github.com/thatisuday/commando"
)

func runKernCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags)
	fontPath := requireArg(args, "font")
	input, err := parseTextInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	runes := []rune(input)
	if len(runes) < 2 {
		fatalf("need at least two characters to form a pair")
	}
	pixels := mustFlagInt(flags["pixels"], "pixels")
	if pixels <= 0 {
		fatalf("--pixels must be > 0")
	}

	face, release := openFace(fontPath)
	defer release()
	if st := fontmanager.SetPixelSizes(face, 0, uint32(pixels)); st != fontmanager.StatusOK {
		fatalf("cannot set glyph size: status %d", st)
	}
	modes := []glyph.KerningMode{glyph.KerningDefault, glyph.KerningUnfitted, glyph.KerningUnscaled}
	fmt.Printf("%-12s %10s %10s %10s\n", "pair", modes[0], modes[1], modes[2])
	for i := 0; i+1 < len(runes); i++ {
		left := fontmanager.CharIndex(face, uint32(runes[i]))
		right := fontmanager.CharIndex(face, uint32(runes[i+1]))
		fmt.Printf("%-12s", fmt.Sprintf("%c%c %d/%d", runes[i], runes[i+1], left, right))
		for _, mode := range modes {
			x, _, st := fontmanager.Kerning(face, left, right, mode)
			if st != fontmanager.StatusOK {
				fmt.Printf(" %10s", fmt.Sprintf("status %d", st))
				continue
			}
			fmt.Printf(" %10d", x)
		}
		fmt.Println()
	}
}
