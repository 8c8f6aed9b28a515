/*
Package fontinfo answers questions about a font file: naming, global metrics
and per-glyph metrics in font units.

Outlines and character maps are read through golang.org/x/image/font/sfnt.
A few tables sfnt does not expose ('head', 'maxp', 'hhea', 'hmtx', 'OS/2',
'name') are decoded directly from the font's bytes.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontinfo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/npillmayer/fontmanager/internal/fontload"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontmanager.info'
func tracer() tracing.Trace {
	return tracing.Select("fontmanager.info")
}

// Font is a parsed font together with its binary tables.
type Font struct {
	Name   string
	Path   string
	SFNT   *sfnt.Font
	tables map[string][]byte
}

// Load parses the first font of the font file at path.
func Load(path string) (*Font, error) {
	sf, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, err
	}
	return wrapFont(sf)
}

// Parse parses the first font of font data in memory.
func Parse(data []byte) (*Font, error) {
	sf, err := fontload.ParseOpenTypeFont(data, 0)
	if err != nil {
		return nil, err
	}
	return wrapFont(sf)
}

func wrapFont(sf *fontload.ScalableFont) (*Font, error) {
	tables, err := tableDirectory(sf.Binary)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", sf.Filepath, err)
	}
	tracer().Debugf("font %q has %d tables", sf.Fontname, len(tables))
	return &Font{Name: sf.Fontname, Path: sf.Filepath, SFNT: sf.SFNT, tables: tables}, nil
}

// Table returns the bytes of the table with the given tag, or nil.
func (f *Font) Table(tag string) []byte {
	if f == nil {
		return nil
	}
	return f.tables[tag]
}

// Tables lists the tags of all tables of the font, sorted.
func (f *Font) Tables() []string {
	tags := make([]string, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

var errTableDirectory = errors.New("malformed table directory")

const (
	tagCollection   = 0x74746366 // 'ttcf'
	tableRecordSize = 16
)

// tableDirectory locates the tables of the first font in data. Collections
// are resolved to their first member.
func tableDirectory(data []byte) (map[string][]byte, error) {
	if len(data) < 12 {
		return nil, errTableDirectory
	}
	offset := 0
	if u32(data) == tagCollection {
		if len(data) < 16 {
			return nil, errTableDirectory
		}
		offset = int(u32(data[12:]))
		if offset+12 > len(data) {
			return nil, errTableDirectory
		}
	}
	count := int(u16(data[offset+4:]))
	records := offset + 12
	if records+count*tableRecordSize > len(data) {
		return nil, errTableDirectory
	}
	tables := make(map[string][]byte, count)
	for i := range count {
		rec := data[records+i*tableRecordSize:]
		tag := string(rec[0:4])
		start, size := int(u32(rec[8:])), int(u32(rec[12:]))
		if start < 0 || size < 0 || start+size > len(data) {
			tracer().Infof("table %q exceeds font data, skipped", tag)
			continue
		}
		tables[tag] = data[start : start+size]
	}
	return tables, nil
}
