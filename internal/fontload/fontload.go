package fontload

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF, OTF, or the first font of a
// TTC/OTC collection) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez, 0)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses font number inx from memory. Single-font files
// only have font 0.
func ParseOpenTypeFont(fbytes []byte, inx int) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	coll, err := sfnt.ParseCollection(f.Binary)
	if err != nil {
		return nil, err
	}
	if inx < 0 || inx >= coll.NumFonts() {
		return nil, fmt.Errorf("font index %d out of range, file contains %d fonts", inx, coll.NumFonts())
	}
	if f.SFNT, err = coll.Font(inx); err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return f, nil
}
