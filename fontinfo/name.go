package fontinfo

import (
	"fmt"
	"iter"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// PlatformID is the platform of a 'name' record.
type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

// nameKey identifies a record in table 'name'.
type nameKey struct {
	Platform PlatformID
	Encoding uint16
	Language uint16
	Name     sfnt.NameID
}

// NamesRange yields decoded (nameID, value) pairs from table 'name'.
//
// Unicode, Windows BMP and Macintosh Roman records are decoded, others and
// malformed records are skipped.
func NamesRange(f *Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		for key, value := range nameRecords(f) {
			if !yield(key.Name, value) {
				return
			}
		}
	}
}

func nameRecords(f *Font) iter.Seq2[nameKey, string] {
	names := checkNameTableSafe(f)
	return func(yield func(nameKey, string) bool) {
		if names == nil {
			return
		}
		count := int(u16(names[2:4]))
		storage := int(u16(names[4:6]))
		for i := range count {
			rec := names[nameHeaderSize+i*nameRecordSize:]
			key := nameKey{
				Platform: PlatformID(u16(rec[0:2])),
				Encoding: u16(rec[2:4]),
				Language: u16(rec[4:6]),
				Name:     sfnt.NameID(u16(rec[6:8])),
			}
			enc := nameEncoding(key)
			if enc == nil {
				continue
			}
			start := storage + int(u16(rec[10:12]))
			end := start + int(u16(rec[8:10]))
			if end > len(names) {
				continue
			}
			value, err := decodeName(enc, names[start:end])
			if err != nil || value == "" {
				continue
			}
			if !yield(key, value) {
				return
			}
		}
	}
}

// checkNameTableSafe returns table 'name' if its header and record section
// are within bounds.
func checkNameTableSafe(f *Font) []byte {
	b := f.Table("name")
	if b == nil {
		tracer().Debugf("no name table found in font")
		return nil
	}
	if len(b) < nameHeaderSize {
		tracer().Debugf("name table too short: %d", len(b))
		return nil
	}
	count := int(u16(b[2:4]))
	if strOff := int(u16(b[4:6])); strOff > len(b) {
		tracer().Debugf("name table invalid string offset: %d", strOff)
		return nil
	}
	if nameHeaderSize+count*nameRecordSize > len(b) {
		tracer().Debugf("name table record section out of bounds: count=%d", count)
		return nil
	}
	return b
}

func nameEncoding(key nameKey) encoding.Encoding {
	switch {
	case key.Platform == PlatformIDUnicode:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case key.Platform == PlatformIDWindows && (key.Encoding == 1 || key.Encoding == 10):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case key.Platform == PlatformIDMacintosh && key.Encoding == 0 && key.Language == 0:
		return charmap.Macintosh
	}
	return nil
}

func decodeName(enc encoding.Encoding, str []byte) (string, error) {
	s, err := enc.NewDecoder().Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding name record: %v", err)
	}
	return string(s), nil
}

var nameKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:         "copyright",
	sfnt.NameIDFamily:            "family",
	sfnt.NameIDSubfamily:         "subfamily",
	sfnt.NameIDUniqueIdentifier:  "unique-id",
	sfnt.NameIDFull:              "full",
	sfnt.NameIDVersion:           "version",
	sfnt.NameIDPostScript:        "postscript",
	sfnt.NameIDTrademark:         "trademark",
	sfnt.NameIDManufacturer:      "manufacturer",
	sfnt.NameIDDesigner:          "designer",
	sfnt.NameIDTypographicFamily: "typographic-family",
}

// NameInfo collects the well-known names of a font, keyed by "family",
// "subfamily", "full", "version", "postscript" and others. Unicode and
// Windows records take precedence over Macintosh records.
func NameInfo(f *Font) map[string]string {
	info := make(map[string]string)
	mac := make(map[string]string)
	for key, value := range nameRecords(f) {
		name, ok := nameKeys[key.Name]
		if !ok {
			continue
		}
		target := info
		if key.Platform == PlatformIDMacintosh {
			target = mac
		}
		if _, seen := target[name]; !seen {
			target[name] = value
		}
	}
	for k, v := range mac {
		if _, ok := info[k]; !ok {
			info[k] = v
		}
	}
	return info
}

// FontType returns "TrueType" for fonts with quadratic outlines and
// "OpenType/CFF" for fonts with cubic outlines.
func FontType(f *Font) string {
	switch {
	case f.Table("glyf") != nil:
		return "TrueType"
	case f.Table("CFF ") != nil, f.Table("CFF2") != nil:
		return "OpenType/CFF"
	}
	return "unknown"
}
