package bmpfile

// fileHeader mirrors BITMAPFILEHEADER from wingdi.h.
type fileHeader struct {
	Type      [2]byte // "BM"
	Size      uint32  // size of the whole file in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // offset from the start of the file to the pixel array
}

// infoHeader mirrors BITMAPINFOHEADER from wingdi.h.
type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32 // positive: rows are stored bottom-up
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32 // 0 means 2^BitCount
	ColorsImportant uint32
}

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	paletteLen    = 256
	paletteBytes  = paletteLen * 4
	pixelOffset   = fileHeaderLen + infoHeaderLen + paletteBytes
	bitsPerPixel  = 8
	compressNone  = 0 // BI_RGB
)
