// Command fontmanager-capi builds the glyph rendering boundary as a C shared
// library:
//
//	go build -buildmode=c-shared -o libfontmanager.so ./cmd/fontmanager-capi
//
// Library and face handles are opaque integers. Status codes are those of
// package fontmanager. The bitmap returned by PG_Face_CurrentGlyphMapData is
// owned by the face and valid until the next call of
// PG_Face_CurrentGlyphMapData or PG_Face_Done for that face.
package main

/*
#include <stdint.h>
#include <stdlib.h>
#include <stdbool.h>
#include <string.h>

typedef uintptr_t PGHandle;

typedef struct {
	int16_t left;
	int16_t top;
	int16_t advance_x;
	int16_t advance_y;
	int16_t delta_lsb;
	int16_t delta_rsb;
} FTGlyphPos;

typedef struct {
	uint16_t rows;
	uint16_t width;
	int16_t  pitch;
	uint16_t num_grays;
	uint8_t  pixel_mode;
	uint8_t* bits;
} FTGlyphBmp;

// Layout of FreeType's FT_Bitmap.
typedef struct {
	unsigned int   rows;
	unsigned int   width;
	int            pitch;
	unsigned char* buffer;
	unsigned short num_grays;
	unsigned char  pixel_mode;
	unsigned char  palette_mode;
	void*          palette;
} PGBitmap;
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/engine"
	"github.com/npillmayer/fontmanager/glyph"
)

var backend = fontmanager.SFNT()

func main() {}

const (
	invalidLibrary = int(engine.ErrInvalidLibraryHandle)
	invalidFace    = int(engine.ErrInvalidFaceHandle)
	invalidArg     = int(engine.ErrInvalidArgument)
)

//export PG_Save
func PG_Save(bmp C.PGBitmap, file *C.char) C.bool {
	if file == nil {
		return false
	}
	raster := glyph.Raster{
		Rows:      int(bmp.rows),
		Width:     int(bmp.width),
		Pitch:     int(bmp.pitch),
		NumGrays:  uint16(bmp.num_grays),
		PixelMode: glyph.PixelMode(bmp.pixel_mode),
	}
	if n := raster.Rows * raster.AbsPitch(); n > 0 {
		if bmp.buffer == nil {
			return false
		}
		raster.Buffer = unsafe.Slice((*byte)(unsafe.Pointer(bmp.buffer)), n)
	}
	return C.bool(fontmanager.Save(raster, C.GoString(file)))
}

//export PG_FreeType_Init
func PG_FreeType_Init(pLib *C.PGHandle) C.int {
	if pLib == nil {
		return C.int(invalidArg)
	}
	h, st := newLibrary(backend)
	*pLib = C.PGHandle(h)
	return C.int(st)
}

//export PG_FreeType_Done
func PG_FreeType_Done(hLib C.PGHandle) C.int {
	l := lookup[libraryState](uintptr(hLib))
	if l == nil {
		return C.int(invalidLibrary)
	}
	return C.int(l.done(cgo.Handle(hLib)))
}

//export PG_Face_New
func PG_Face_New(hLib C.PGHandle, path *C.char, aface *C.PGHandle) C.int {
	l := lookup[libraryState](uintptr(hLib))
	if l == nil {
		return C.int(invalidLibrary)
	}
	if path == nil || aface == nil {
		return C.int(invalidArg)
	}
	h, st := l.newFace(C.GoString(path))
	*aface = C.PGHandle(h)
	return C.int(st)
}

//export PG_Face_Done
func PG_Face_Done(hFace C.PGHandle) C.int {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return C.int(invalidFace)
	}
	return C.int(f.done())
}

//export PG_Face_SetCharSize
func PG_Face_SetCharSize(hFace C.PGHandle, charWidth, charHeight C.ulong, hres, vres C.uint) C.int {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return C.int(invalidFace)
	}
	return C.int(fontmanager.SetCharSize(f.face, uint64(charWidth), uint64(charHeight), uint32(hres), uint32(vres)))
}

//export PG_Set_Pixel_Sizes
func PG_Set_Pixel_Sizes(hFace C.PGHandle, x, y C.uint) C.int {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return C.int(invalidFace)
	}
	return C.int(fontmanager.SetPixelSizes(f.face, uint32(x), uint32(y)))
}

//export PG_Face_GetCharIndex
func PG_Face_GetCharIndex(hFace C.PGHandle, cp C.uint32_t) C.ulong {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return 0
	}
	return C.ulong(fontmanager.CharIndex(f.face, uint32(cp)))
}

//export PG_Face_GenerateGlyph
func PG_Face_GenerateGlyph(hFace C.PGHandle, mode C.uint16_t, gid C.uint32_t) C.int {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return fontmanager.StatusLoadFailed
	}
	return C.int(fontmanager.GenerateGlyph(f.face, glyph.RenderMode(mode), uint32(gid)))
}

//export PG_Face_CurrentGlyphMapData
func PG_Face_CurrentGlyphMapData(hFace C.PGHandle, pPos *C.FTGlyphPos, pBmp *C.FTGlyphBmp) C.int {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return C.int(invalidFace)
	}
	pos, raster, st := fontmanager.CurrentGlyphMapData(f.face)
	if pPos != nil {
		pPos.left = C.int16_t(pos.Left)
		pPos.top = C.int16_t(pos.Top)
		pPos.advance_x = C.int16_t(pos.AdvanceX)
		pPos.advance_y = C.int16_t(pos.AdvanceY)
		pPos.delta_lsb = C.int16_t(pos.DeltaLSB)
		pPos.delta_rsb = C.int16_t(pos.DeltaRSB)
	}
	if pBmp != nil {
		pBmp.rows = C.uint16_t(raster.Rows)
		pBmp.width = C.uint16_t(raster.Width)
		pBmp.pitch = C.int16_t(raster.Pitch)
		pBmp.num_grays = C.uint16_t(raster.NumGrays)
		pBmp.pixel_mode = C.uint8_t(raster.PixelMode)
		n := min(raster.Rows*raster.AbsPitch(), len(raster.Buffer))
		pBmp.bits = (*C.uint8_t)(f.bits.fill(raster.Buffer[:n]))
	}
	return C.int(st)
}

//export PG_Get_Kerning
func PG_Get_Kerning(hFace C.PGHandle, left, right, mode C.uint32_t, pX, pY *C.int32_t) C.int {
	f := lookup[faceState](uintptr(hFace))
	if f == nil {
		return fontmanager.StatusKerningFailed
	}
	x, y, st := fontmanager.Kerning(f.face, uint32(left), uint32(right), glyph.KerningMode(mode))
	if st == fontmanager.StatusOK {
		if pX != nil {
			*pX = C.int32_t(x)
		}
		if pY != nil {
			*pY = C.int32_t(y)
		}
	}
	return C.int(st)
}

// cBits keeps a glyph bitmap in C memory, growing it as needed.
type cBits struct {
	ptr unsafe.Pointer
	cap int
}

func (b *cBits) fill(src []byte) unsafe.Pointer {
	if len(src) == 0 {
		return nil
	}
	if len(src) > b.cap {
		p := C.realloc(b.ptr, C.size_t(len(src)))
		if p == nil {
			return nil
		}
		b.ptr, b.cap = p, len(src)
	}
	C.memcpy(b.ptr, unsafe.Pointer(&src[0]), C.size_t(len(src)))
	return b.ptr
}

func (b *cBits) free() {
	if b.ptr != nil {
		C.free(b.ptr)
		b.ptr, b.cap = nil, 0
	}
}
