/*
Package bmpfile writes glyph rasters as uncompressed 8 bit BMP files with a
full 256 level grayscale palette.

The file layout is fixed: a 14 byte file header, a 40 byte info header,
256 palette entries (i, i, i, 0) in blue-green-red-reserved order, then the
pixel rows, bottom row first, each padded with zero bytes.

Two padding policies exist. [PadAligned] pads rows to the next multiple of
four bytes, which is what BMP readers expect. For rasters with a
positive pitch, [PadLegacy] reproduces the files of the FontManager C
library, which always appended 4 − pitch mod 4 bytes and therefore added four
bytes to rows already aligned. Rasters with a pitch ≤ 0 get an image size of
0 under either policy.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package bmpfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/npillmayer/fontmanager/glyph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmanager.bmp'
func tracer() tracing.Trace {
	return tracing.Select("fontmanager.bmp")
}

// Padding is a row padding policy.
type Padding int

const (
	PadAligned Padding = iota // (4 − pitch mod 4) mod 4
	PadLegacy                 // 4 − pitch mod 4, i.e. 4 for aligned rows (pitch > 0)
)

func (p Padding) String() string {
	if p == PadLegacy {
		return "legacy"
	}
	return "aligned"
}

// For returns the number of zero bytes appended to a row of the given pitch.
// Negative pitches are padded like their absolute value.
func (p Padding) For(pitch int) int {
	if pitch < 0 {
		pitch = -pitch
	}
	if p == PadLegacy {
		return 4 - pitch%4
	}
	return (4 - pitch%4) % 4
}

// Option configures a bitmap write.
type Option func(*config)

type config struct {
	padding Padding
}

// WithPadding selects the row padding policy. The default is [PadAligned].
func WithPadding(p Padding) Option {
	return func(c *config) {
		c.padding = p
	}
}

// Layout lists the byte sizes a raster occupies in a bitmap file.
type Layout struct {
	Padding     int // zero bytes after each row
	RowSize     int // pitch + padding
	ImageSize   int // size of the pixel array
	PixelOffset int // offset of the pixel array from the file start
	FileSize    int
}

// ComputeLayout returns the file layout of r under padding policy p.
// Rasters with a pitch ≤ 0 have an empty pixel array and an image size of 0
// under either policy.
func ComputeLayout(r glyph.Raster, p Padding) Layout {
	l := Layout{
		Padding:     p.For(r.Pitch),
		PixelOffset: pixelOffset,
	}
	if r.Pitch > 0 {
		l.RowSize = r.Pitch + l.Padding
		l.ImageSize = l.RowSize * r.Rows
	}
	l.FileSize = pixelOffset + l.ImageSize
	return l
}

// Save writes r to a new file at path, replacing any existing file.
// The parent directory must exist.
//
// Failures to create the file unwrap to [ErrNotFound], [ErrPermission] or
// [ErrIO]; a raster whose buffer is too small for its dimensions yields
// [ErrInvalidRaster] before anything is created.
func Save(r glyph.Raster, path string, opts ...Option) (err error) {
	if err = checkRaster(r); err != nil {
		return &Error{Kind: ErrInvalidRaster, Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		tracer().Errorf("cannot open bitmap file %s: %v", path, err)
		return openError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioError(path, cerr)
		}
	}()
	if err = write(f, r, opts); err != nil {
		return ioError(path, err)
	}
	tracer().Debugf("wrote %d×%d glyph bitmap to %s", r.Width, r.Rows, path)
	return nil
}

// Write serializes r to w.
func Write(w io.Writer, r glyph.Raster, opts ...Option) error {
	if err := checkRaster(r); err != nil {
		return &Error{Kind: ErrInvalidRaster, Err: err}
	}
	if err := write(w, r, opts); err != nil {
		return ioError("", err)
	}
	return nil
}

// checkRaster rejects rasters which would make the writer read past the
// buffer, and rasters with rows narrower than one byte per pixel. Degenerate
// pitches are accepted; they produce an empty body.
func checkRaster(r glyph.Raster) error {
	if r.Rows < 0 || r.Width < 0 {
		return r.Validate()
	}
	if r.Rows > math.MaxInt32 || r.Width > math.MaxInt32 {
		return fmt.Errorf("%w: %d×%d exceeds the BMP size range", glyph.ErrInvalidRaster, r.Width, r.Rows)
	}
	if r.Pitch <= 0 {
		return nil
	}
	if r.Pitch < r.Width {
		return fmt.Errorf("%w: pitch %d is narrower than %d pixels of 8 bit (pixel mode %s)",
			glyph.ErrInvalidRaster, r.Pitch, r.Width, r.PixelMode)
	}
	return r.Validate()
}

func write(w io.Writer, r glyph.Raster, opts []Option) error {
	conf := config{padding: PadAligned}
	for _, opt := range opts {
		opt(&conf)
	}
	l := ComputeLayout(r, conf.padding)
	fh := fileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(l.FileSize),
		OffBits: uint32(l.PixelOffset),
	}
	ih := infoHeader{
		Size:        infoHeaderLen,
		Width:       int32(r.Width),
		Height:      int32(r.Rows),
		Planes:      1,
		BitCount:    bitsPerPixel,
		Compression: compressNone,
		SizeImage:   uint32(l.ImageSize),
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &fh); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, &ih); err != nil {
		return err
	}
	var palette [paletteBytes]byte
	for i := 0; i < paletteLen; i++ {
		palette[4*i+0] = byte(i) // blue
		palette[4*i+1] = byte(i) // green
		palette[4*i+2] = byte(i) // red
	}
	if _, err := bw.Write(palette[:]); err != nil {
		return err
	}
	if r.Pitch > 0 {
		// Rows in the raster run top to bottom; BMP wants the bottom row first.
		pad := make([]byte, l.Padding)
		for y := r.Rows - 1; y >= 0; y-- {
			if _, err := bw.Write(r.Buffer[y*r.Pitch : (y+1)*r.Pitch]); err != nil {
				return err
			}
			if _, err := bw.Write(pad); err != nil {
				return err
			}
		}
	} else if r.Rows > 0 {
		tracer().Infof("raster pitch %d is not positive, writing bitmap without pixel data", r.Pitch)
	}
	return bw.Flush()
}
