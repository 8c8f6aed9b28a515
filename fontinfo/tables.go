package fontinfo

import "encoding/binary"

// HeadTableInfo is a typed view over table 'head', decoded from raw bytes.
type HeadTableInfo struct {
	MajorVersion     uint16
	MinorVersion     uint16
	FontRevision     uint32
	MagicNumber      uint32
	Flags            uint16
	UnitsPerEm       uint16
	Created          int64
	Modified         int64
	XMin, YMin       int16
	XMax, YMax       int16
	MacStyle         uint16
	LowestRecPPEM    uint16
	IndexToLocFormat int16
}

const headTableSize = 54

// HeadInfo decodes table 'head'. It returns false if the table is missing
// or too short.
func HeadInfo(f *Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	b := f.Table("head")
	if len(b) < headTableSize {
		return info, false
	}
	info.MajorVersion = binary.BigEndian.Uint16(b[0:2])
	info.MinorVersion = binary.BigEndian.Uint16(b[2:4])
	info.FontRevision = binary.BigEndian.Uint32(b[4:8])
	info.MagicNumber = binary.BigEndian.Uint32(b[12:16])
	info.Flags = binary.BigEndian.Uint16(b[16:18])
	info.UnitsPerEm = binary.BigEndian.Uint16(b[18:20])
	info.Created = int64(binary.BigEndian.Uint64(b[20:28]))
	info.Modified = int64(binary.BigEndian.Uint64(b[28:36]))
	info.XMin = int16(binary.BigEndian.Uint16(b[36:38]))
	info.YMin = int16(binary.BigEndian.Uint16(b[38:40]))
	info.XMax = int16(binary.BigEndian.Uint16(b[40:42]))
	info.YMax = int16(binary.BigEndian.Uint16(b[42:44]))
	info.MacStyle = binary.BigEndian.Uint16(b[44:46])
	info.LowestRecPPEM = binary.BigEndian.Uint16(b[46:48])
	info.IndexToLocFormat = int16(binary.BigEndian.Uint16(b[50:52]))
	return info, true
}

// MaxPTableInfo is a typed view over table 'maxp'. Profile fields are only
// present in version 1.0 tables (TrueType outlines).
type MaxPTableInfo struct {
	VersionFixed       uint32
	NumGlyphs          uint16
	HasExtendedProfile bool
	MaxPoints          uint16
	MaxContours        uint16
	MaxComponentDepth  uint16
}

const (
	maxpMinSize = 6
	maxpV10Size = 32
)

// MaxPInfo decodes table 'maxp'. It returns false if the table is missing or
// too short.
func MaxPInfo(f *Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	b := f.Table("maxp")
	if len(b) < maxpMinSize {
		return info, false
	}
	info.VersionFixed = binary.BigEndian.Uint32(b[0:4])
	info.NumGlyphs = binary.BigEndian.Uint16(b[4:6])
	if info.VersionFixed != 0x00010000 || len(b) < maxpV10Size {
		return info, true
	}
	info.HasExtendedProfile = true
	info.MaxPoints = binary.BigEndian.Uint16(b[6:8])
	info.MaxContours = binary.BigEndian.Uint16(b[8:10])
	info.MaxComponentDepth = binary.BigEndian.Uint16(b[30:32])
	return info, true
}
