// Package sniff classifies image buffers by magic-byte signature.
//
// Detection is table-driven: each known format carries a fixed byte prefix,
// and the table is checked in priority order so formats that share a leading
// byte cannot shadow each other. Adding a format is a data change, not a
// control-flow change.
package sniff

import "bytes"

// Format identifies an image encoding recognized by Sniff.
type Format int

const (
	Unknown Format = iota
	JPEG
	PNG
	// JP2Codestream is a raw JPEG 2000 codestream without container boxes.
	JP2Codestream
	// JP2Box is a boxed JPEG 2000 file (JP2 container signature box).
	JP2Box
)

// String returns the internal name of the format.
func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	case JP2Codestream:
		return "jp2-codestream"
	case JP2Box:
		return "jp2-box"
	default:
		return "unknown"
	}
}

// Tag returns the wire-level format tag reported to API consumers. Both
// JPEG 2000 variants collapse to "jp2" since the distinction does not matter
// to a viewer deciding whether it can display the bytes.
func (f Format) Tag() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	case JP2Codestream, JP2Box:
		return "jp2"
	default:
		return "unknown"
	}
}

// Displayable reports whether browsers can render the format natively.
func (f Format) Displayable() bool {
	return f == JPEG || f == PNG
}

var signatures = []struct {
	format Format
	magic  []byte
}{
	{JPEG, []byte{0xFF, 0xD8}},
	{PNG, []byte{0x89, 0x50, 0x4E, 0x47}},
	{JP2Codestream, []byte{0xFF, 0x4F, 0xFF, 0x51}},
	{JP2Box, []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A}},
}

// Sniff returns the format of data based on its leading bytes. It never
// fails; buffers that match no signature report Unknown.
func Sniff(data []byte) Format {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.format
		}
	}
	return Unknown
}
