package bmpfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fontmanager/glyph"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/bmp"
)

// --- Test Suite Preparation ------------------------------------------------

type BMPTestEnviron struct {
	suite.Suite
	dir string
}

func TestBitmapFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmanager.bmp")
	defer teardown()
	suite.Run(t, new(BMPTestEnviron))
}

func (env *BMPTestEnviron) SetupTest() {
	env.dir = env.T().TempDir()
}

// --- Tests -----------------------------------------------------------------

func (env *BMPTestEnviron) TestRoundTripThroughDecoder() {
	for _, dims := range [][2]int{{1, 1}, {3, 2}, {4, 4}, {5, 7}, {13, 9}} {
		r := gradientRaster(dims[0], dims[1])
		path := filepath.Join(env.dir, "glyph.bmp")
		env.Require().NoError(Save(r, path))

		f, err := os.Open(path)
		env.Require().NoError(err)
		img, err := bmp.Decode(f)
		f.Close()
		env.Require().NoError(err, "decoding %d×%d", dims[0], dims[1])

		pal, ok := img.(*image.Paletted)
		env.Require().True(ok, "expected paletted image, got %T", img)
		env.Equal(image.Rect(0, 0, r.Width, r.Rows), pal.Bounds())
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Width; x++ {
				want := r.Buffer[y*r.Pitch+x]
				gray, _, _, _ := pal.At(x, y).RGBA()
				env.Equal(want, uint8(gray>>8), "pixel (%d,%d) of %d×%d", x, y, dims[0], dims[1])
			}
		}
	}
}

func (env *BMPTestEnviron) TestPaddingInvariant() {
	for _, pad := range []Padding{PadAligned, PadLegacy} {
		for pitch := 1; pitch <= 9; pitch++ {
			r := glyph.Raster{Rows: 3, Width: pitch, Pitch: pitch, NumGrays: 256,
				PixelMode: glyph.PixelModeGray, Buffer: bytes.Repeat([]byte{0x7f}, 3*pitch)}
			var buf bytes.Buffer
			env.Require().NoError(Write(&buf, r, WithPadding(pad)))

			p := pad.For(pitch)
			if pad == PadLegacy {
				env.Equal(4-pitch%4, p)
			} else {
				env.Equal((4-pitch%4)%4, p)
			}
			body := buf.Bytes()[pixelOffset:]
			env.Equal((pitch+p)*r.Rows, len(body), "pixel region, pitch %d, %s", pitch, pad)
			_, ih := readHeaders(env.T(), buf.Bytes())
			env.Equal(uint32(len(body)), ih.SizeImage)
			for row := 0; row < r.Rows; row++ {
				stored := body[row*(pitch+p) : (row+1)*(pitch+p)]
				env.Equal(bytes.Repeat([]byte{0x7f}, pitch), stored[:pitch])
				env.Equal(make([]byte, p), stored[pitch:])
			}
		}
	}
}

func (env *BMPTestEnviron) TestLegacyPaddingOnAlignedPitch() {
	r := gradientRaster(8, 2)
	var aligned, legacy bytes.Buffer
	env.Require().NoError(Write(&aligned, r))
	env.Require().NoError(Write(&legacy, r, WithPadding(PadLegacy)))
	env.Equal(pixelOffset+16, aligned.Len())
	env.Equal(pixelOffset+24, legacy.Len(), "legacy rows carry 4 extra zero bytes")
}

func (env *BMPTestEnviron) TestPaletteIndependentOfGrayLevels() {
	for _, grays := range []uint16{0, 2, 16, 256} {
		r := gradientRaster(2, 2)
		r.NumGrays = grays
		var buf bytes.Buffer
		env.Require().NoError(Write(&buf, r))
		pal := buf.Bytes()[fileHeaderLen+infoHeaderLen : pixelOffset]
		env.Require().Len(pal, 1024)
		for i := 0; i < 256; i++ {
			env.Equal([]byte{byte(i), byte(i), byte(i), 0}, pal[4*i:4*i+4], "palette entry %d", i)
		}
	}
}

func (env *BMPTestEnviron) TestHeaders() {
	r := gradientRaster(5, 3)
	var buf bytes.Buffer
	env.Require().NoError(Write(&buf, r))
	fh, ih := readHeaders(env.T(), buf.Bytes())
	want := infoHeader{
		Size: 40, Width: 5, Height: 3, Planes: 1, BitCount: 8,
		SizeImage: 24,
	}
	if diff := cmp.Diff(want, ih); diff != "" {
		env.T().Errorf("info header mismatch (-want +got):\n%s", diff)
	}
	env.Equal([2]byte{'B', 'M'}, fh.Type)
	env.Equal(uint32(buf.Len()), fh.Size)
	env.Equal(uint32(1078), fh.OffBits)
}

func (env *BMPTestEnviron) TestDegenerateStride() {
	for _, pad := range []Padding{PadAligned, PadLegacy} {
		for _, pitch := range []int{0, -4, -5} {
			r := glyph.Raster{Rows: 4, Width: 4, Pitch: pitch, NumGrays: 256,
				PixelMode: glyph.PixelModeGray, Buffer: make([]byte, 16)}
			path := filepath.Join(env.dir, "empty.bmp")
			env.Require().NoError(Save(r, path, WithPadding(pad)), "pitch %d, %s", pitch, pad)
			data, err := os.ReadFile(path)
			env.Require().NoError(err)
			env.Equal(pixelOffset, len(data), "pitch %d, %s: expected headers and palette only", pitch, pad)
			fh, ih := readHeaders(env.T(), data)
			env.Equal(uint32(pixelOffset), fh.Size)
			env.Equal(uint32(0), ih.SizeImage, "pitch %d, %s", pitch, pad)
			env.Equal(int32(4), ih.Height)
			env.Equal(byte(255), data[fileHeaderLen+infoHeaderLen+4*255])
		}
	}
}

func (env *BMPTestEnviron) TestMissingDirectory() {
	path := filepath.Join(env.dir, "no", "such", "dir", "glyph.bmp")
	err := Save(gradientRaster(2, 2), path)
	env.Require().Error(err)
	env.True(errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
	env.True(errors.Is(err, fs.ErrNotExist))
	_, statErr := os.Stat(path)
	env.True(errors.Is(statErr, fs.ErrNotExist), "no file must be left behind")
}

func (env *BMPTestEnviron) TestUnwritableDirectory() {
	if os.Geteuid() == 0 {
		env.T().Skip("permissions are not enforced for root")
	}
	dir := filepath.Join(env.dir, "readonly")
	env.Require().NoError(os.Mkdir(dir, 0o500))
	defer os.Chmod(dir, 0o700)
	path := filepath.Join(dir, "glyph.bmp")
	err := Save(gradientRaster(2, 2), path)
	env.Require().Error(err)
	env.True(errors.Is(err, ErrPermission), "expected ErrPermission, got %v", err)
	env.True(errors.Is(err, fs.ErrPermission))
	_, statErr := os.Stat(path)
	env.True(errors.Is(statErr, fs.ErrNotExist), "no file must be left behind")
}

func (env *BMPTestEnviron) TestNarrowPitchRejected() {
	// 1 bit rows: 20 pixels fit into 3 bytes, padded to 4.
	r := glyph.Raster{Rows: 3, Width: 20, Pitch: 4, NumGrays: 2,
		PixelMode: glyph.PixelModeMono, Buffer: make([]byte, 12)}
	var buf bytes.Buffer
	err := Write(&buf, r)
	env.True(errors.Is(err, ErrInvalidRaster), "expected ErrInvalidRaster, got %v", err)
	env.Zero(buf.Len(), "nothing is written for rejected rasters")

	path := filepath.Join(env.dir, "mono.bmp")
	env.True(errors.Is(Save(r, path), ErrInvalidRaster))
	_, statErr := os.Stat(path)
	env.True(errors.Is(statErr, fs.ErrNotExist))

	gray := glyph.FromGray(r.Gray())
	env.Require().NoError(Save(gray, path), "expanded mono rasters are writable")
	f, err := os.Open(path)
	env.Require().NoError(err)
	defer f.Close()
	img, err := bmp.Decode(f)
	env.Require().NoError(err)
	env.Equal(image.Rect(0, 0, 20, 3), img.Bounds())
}

func (env *BMPTestEnviron) TestShortBufferRejected() {
	r := gradientRaster(4, 4)
	r.Buffer = r.Buffer[:10]
	path := filepath.Join(env.dir, "short.bmp")
	err := Save(r, path)
	env.True(errors.Is(err, ErrInvalidRaster), "expected ErrInvalidRaster, got %v", err)
	_, statErr := os.Stat(path)
	env.True(errors.Is(statErr, fs.ErrNotExist), "invalid rasters must not create files")
}

func (env *BMPTestEnviron) TestOverwrite() {
	path := filepath.Join(env.dir, "over.bmp")
	env.Require().NoError(os.WriteFile(path, bytes.Repeat([]byte{1}, 5000), 0o644))
	env.Require().NoError(Save(gradientRaster(2, 2), path))
	data, err := os.ReadFile(path)
	env.Require().NoError(err)
	env.Equal(pixelOffset+8, len(data))
}

func (env *BMPTestEnviron) TestShortWriteSurfaces() {
	err := Write(&failingWriter{limit: 100}, gradientRaster(16, 16))
	env.True(errors.Is(err, ErrIO), "expected ErrIO, got %v", err)
}

// --- Helpers ---------------------------------------------------------------

func gradientRaster(w, h int) glyph.Raster {
	buf := make([]byte, w*h)
	for i := range buf {
		buf[i] = byte(i * 37)
	}
	return glyph.Raster{Rows: h, Width: w, Pitch: w, NumGrays: 256,
		PixelMode: glyph.PixelModeGray, Buffer: buf}
}

func readHeaders(t *testing.T, data []byte) (fileHeader, infoHeader) {
	t.Helper()
	var fh fileHeader
	var ih infoHeader
	rd := bytes.NewReader(data)
	if err := binary.Read(rd, binary.LittleEndian, &fh); err != nil {
		t.Fatalf("read file header: %v", err)
	}
	if err := binary.Read(rd, binary.LittleEndian, &ih); err != nil {
		t.Fatalf("read info header: %v", err)
	}
	return fh, ih
}

type failingWriter struct {
	limit, n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		return 0, errors.New("disk full")
	}
	w.n += len(p)
	return len(p), nil
}
