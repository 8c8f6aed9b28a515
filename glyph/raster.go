package glyph

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidRaster flags a raster whose dimensions do not match its buffer.
var ErrInvalidRaster = errors.New("invalid glyph raster")

// Raster is a read-only view of a rendered glyph bitmap.
//
// Pitch is the byte distance from one row to the next. A positive pitch means
// the first row in Buffer is the top row of the glyph; a negative pitch means
// rows are stored bottom-up, starting at the end of Buffer.
type Raster struct {
	Rows      int
	Width     int
	Pitch     int
	NumGrays  uint16
	PixelMode PixelMode
	Buffer    []byte
}

// Empty reports whether the raster holds no pixels.
func (r Raster) Empty() bool {
	return r.Rows == 0 || r.Width == 0
}

// AbsPitch returns the row stride in bytes without orientation.
func (r Raster) AbsPitch() int {
	if r.Pitch < 0 {
		return -r.Pitch
	}
	return r.Pitch
}

// Validate checks that the buffer is large enough for rows × |pitch| bytes and
// that no dimension is negative.
func (r Raster) Validate() error {
	if r.Rows < 0 || r.Width < 0 {
		return fmt.Errorf("%w: negative dimensions %d×%d", ErrInvalidRaster, r.Width, r.Rows)
	}
	if need := r.Rows * r.AbsPitch(); len(r.Buffer) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, %d rows of pitch %d need %d",
			ErrInvalidRaster, len(r.Buffer), r.Rows, r.Pitch, need)
	}
	return nil
}

// Row returns the bytes of row y, counted from the top of the glyph.
// The slice aliases the raster's buffer.
func (r Raster) Row(y int) []byte {
	if y < 0 || y >= r.Rows || r.Pitch == 0 {
		return nil
	}
	p := r.AbsPitch()
	if r.Pitch < 0 {
		y = r.Rows - 1 - y
	}
	return r.Buffer[y*p : y*p+p]
}

// Clone returns a raster owning a private copy of the pixel data, so that it
// survives the next render call on the face it came from.
func (r Raster) Clone() Raster {
	c := r
	if r.Buffer != nil {
		n := r.Rows * r.AbsPitch()
		if n > len(r.Buffer) {
			n = len(r.Buffer)
		}
		c.Buffer = make([]byte, n)
		copy(c.Buffer, r.Buffer[:n])
	}
	return c
}

// Coverage returns the 8 bit coverage of pixel (x, y), with y counted from the
// top. Mono pixels map to 0 or 255; Gray2 and Gray4 are scaled up.
func (r Raster) Coverage(x, y int) uint8 {
	if x < 0 || x >= r.Width {
		return 0
	}
	row := r.Row(y)
	if row == nil {
		return 0
	}
	switch r.PixelMode {
	case PixelModeMono:
		if row[x>>3]&(0x80>>uint(x&7)) != 0 {
			return 0xff
		}
		return 0
	case PixelModeGray2:
		v := row[x>>2] >> (6 - 2*uint(x&3)) & 0x03
		return v * 0x55
	case PixelModeGray4:
		v := row[x>>1] >> (4 - 4*uint(x&1)) & 0x0f
		return v * 0x11
	case PixelModeGray:
		return row[x]
	}
	return 0
}

// Gray expands the raster into an 8 bit image, top row first.
func (r Raster) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Rows))
	for y := 0; y < r.Rows; y++ {
		for x := 0; x < r.Width; x++ {
			img.Pix[y*img.Stride+x] = r.Coverage(x, y)
		}
	}
	return img
}

// Expand returns the raster with one byte per pixel and rows running top
// down, as the bitmap writer expects. Gray rasters with such a layout are
// returned as they are; all others are converted through [Raster.Gray].
func (r Raster) Expand() Raster {
	if r.PixelMode == PixelModeGray && r.Pitch >= r.Width {
		return r
	}
	return FromGray(r.Gray())
}

// FromGray wraps an 8 bit image as a gray raster with pitch == width.
// The raster aliases the image's pixels when the stride allows it.
func FromGray(img *image.Gray) Raster {
	b := img.Bounds()
	r := Raster{
		Rows:      b.Dy(),
		Width:     b.Dx(),
		Pitch:     b.Dx(),
		NumGrays:  256,
		PixelMode: PixelModeGray,
	}
	if img.Stride == r.Width && b.Min == (image.Point{}) {
		r.Buffer = img.Pix[:r.Rows*r.Width]
		return r
	}
	r.Buffer = make([]byte, 0, r.Rows*r.Width)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		r.Buffer = append(r.Buffer, img.Pix[off:off+r.Width]...)
	}
	return r
}
