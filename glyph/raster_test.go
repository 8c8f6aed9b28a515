package glyph

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRowHonoursPitchSign(t *testing.T) {
	down := Raster{Rows: 2, Width: 2, Pitch: 2, PixelMode: PixelModeGray, Buffer: []byte{1, 2, 3, 4}}
	up := Raster{Rows: 2, Width: 2, Pitch: -2, PixelMode: PixelModeGray, Buffer: []byte{3, 4, 1, 2}}
	for y := 0; y < 2; y++ {
		if diff := cmp.Diff(down.Row(y), up.Row(y)); diff != "" {
			t.Errorf("row %d differs between orientations (-down +up):\n%s", y, diff)
		}
	}
	if down.Row(2) != nil || down.Row(-1) != nil {
		t.Errorf("expected nil for rows outside the raster")
	}
}

func TestValidate(t *testing.T) {
	ok := Raster{Rows: 3, Width: 3, Pitch: 4, Buffer: make([]byte, 12)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid raster rejected: %v", err)
	}
	short := Raster{Rows: 3, Width: 3, Pitch: 4, Buffer: make([]byte, 11)}
	if err := short.Validate(); !errors.Is(err, ErrInvalidRaster) {
		t.Errorf("short buffer: err = %v, want ErrInvalidRaster", err)
	}
	neg := Raster{Rows: -1, Width: 3, Pitch: 4}
	if err := neg.Validate(); !errors.Is(err, ErrInvalidRaster) {
		t.Errorf("negative rows: err = %v, want ErrInvalidRaster", err)
	}
}

func TestCloneDetachesBuffer(t *testing.T) {
	slot := []byte{10, 20, 30, 40}
	view := Raster{Rows: 2, Width: 2, Pitch: 2, PixelMode: PixelModeGray, Buffer: slot}
	owned := view.Clone()
	slot[0] = 99 // next render overwrites the slot
	if owned.Buffer[0] != 10 {
		t.Errorf("clone follows slot memory: got %d, want 10", owned.Buffer[0])
	}
	if view.Buffer[0] != 99 {
		t.Errorf("view should alias the slot")
	}
}

func TestMonoCoverage(t *testing.T) {
	// 10 pixels wide, pitch 2: 1010000011 in row 0
	r := Raster{Rows: 1, Width: 10, Pitch: 2, NumGrays: 2, PixelMode: PixelModeMono,
		Buffer: []byte{0xa0, 0xc0}}
	want := []uint8{255, 0, 255, 0, 0, 0, 0, 0, 255, 255}
	got := make([]uint8, r.Width)
	for x := range got {
		got[x] = r.Coverage(x, 0)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mono coverage mismatch (-want +got):\n%s", diff)
	}
}

func TestGrayRoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(img.Pix, []byte{0, 50, 100, 150, 200, 250})
	r := FromGray(img)
	if r.Pitch != 3 || r.Rows != 2 || r.NumGrays != 256 {
		t.Fatalf("unexpected raster header %+v", r)
	}
	back := r.Gray()
	if diff := cmp.Diff(img.Pix, back.Pix); diff != "" {
		t.Errorf("gray round trip differs (-want +got):\n%s", diff)
	}
}

func TestParseRenderMode(t *testing.T) {
	for m := RenderNormal; m <= RenderLCDV; m++ {
		p, err := ParseRenderMode(m.String())
		if err != nil || p != m {
			t.Errorf("ParseRenderMode(%q) = %v, %v", m.String(), p, err)
		}
	}
	if _, err := ParseRenderMode("subpixel"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}

func TestExpandMonoToBytes(t *testing.T) {
	r := Raster{Rows: 1, Width: 10, Pitch: 2, NumGrays: 2, PixelMode: PixelModeMono,
		Buffer: []byte{0xa0, 0xc0}}
	e := r.Expand()
	if e.PixelMode != PixelModeGray || e.Pitch != 10 || e.Width != 10 || e.Rows != 1 {
		t.Fatalf("unexpected expanded raster header %+v", e)
	}
	want := []byte{255, 0, 255, 0, 0, 0, 0, 0, 255, 255}
	if diff := cmp.Diff(want, e.Buffer); diff != "" {
		t.Errorf("expanded mono row mismatch (-want +got):\n%s", diff)
	}
	gray := Raster{Rows: 1, Width: 2, Pitch: 4, NumGrays: 256, PixelMode: PixelModeGray,
		Buffer: []byte{1, 2, 0, 0}}
	if e := gray.Expand(); &e.Buffer[0] != &gray.Buffer[0] {
		t.Errorf("gray rasters must be passed through unchanged")
	}
}
