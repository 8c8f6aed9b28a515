package engine

import "fmt"

// Error is an engine status code. The numbering follows FreeType, so codes
// can be handed through a C boundary without translation.
type Error int

const (
	ErrCannotOpenResource   Error = 0x01
	ErrUnknownFileFormat    Error = 0x02
	ErrInvalidArgument      Error = 0x06
	ErrUnimplementedFeature Error = 0x07
	ErrInvalidTable         Error = 0x08
	ErrInvalidGlyphIndex    Error = 0x10
	ErrInvalidGlyphFormat   Error = 0x12
	ErrCannotRenderGlyph    Error = 0x13
	ErrInvalidOutline       Error = 0x14
	ErrInvalidPixelSize     Error = 0x17
	ErrInvalidLibraryHandle Error = 0x21
	ErrInvalidFaceHandle    Error = 0x23
	ErrInvalidSizeHandle    Error = 0x24
)

var errorText = map[Error]string{
	ErrCannotOpenResource:   "cannot open resource",
	ErrUnknownFileFormat:    "unknown file format",
	ErrInvalidArgument:      "invalid argument",
	ErrUnimplementedFeature: "unimplemented feature",
	ErrInvalidTable:         "broken table",
	ErrInvalidGlyphIndex:    "invalid glyph index",
	ErrInvalidGlyphFormat:   "unsupported glyph image format",
	ErrCannotRenderGlyph:    "cannot render this glyph format",
	ErrInvalidOutline:       "invalid outline",
	ErrInvalidPixelSize:     "invalid pixel size",
	ErrInvalidLibraryHandle: "invalid library handle",
	ErrInvalidFaceHandle:    "invalid face handle",
	ErrInvalidSizeHandle:    "invalid size handle",
}

func (e Error) Error() string {
	if s, ok := errorText[e]; ok {
		return "engine: " + s
	}
	return fmt.Sprintf("engine: error 0x%02x", int(e))
}

// Code returns the numeric status code.
func (e Error) Code() int {
	return int(e)
}

// wrap attaches a cause to a status code, keeping the code reachable with
// errors.Is and errors.As.
func wrap(code Error, err error) error {
	return fmt.Errorf("%w: %v", code, err)
}
