package snapshot

import "fmt"

const headerMagic = "win-ad-sig"

// headerFixedStringChars is the wide-char width of the description and
// server fixed fields.
const headerFixedStringChars = 260

// Header is the fixed-layout snapshot header at offset 0.
type Header struct {
	Marker          int32
	FileTime        uint64
	Description     string
	Server          string
	NumObjects      uint32
	NumAttributes   uint32
	propertiesLow   uint32
	propertiesHigh  uint32
	propertiesEnd   uint32
	Unknown         int32
}

// PropertiesOffset is the 64-bit file offset of the property table,
// assembled from the header's two 32-bit halves.
func (h Header) PropertiesOffset() int64 {
	return int64(h.propertiesHigh)<<32 | int64(h.propertiesLow)
}

func (c *cursor) parseHeader() (Header, error) {
	magic, err := c.readBytes(len(headerMagic))
	if err != nil {
		return Header{}, err
	}
	if string(magic) != headerMagic {
		return Header{}, wrapMalformed("parse_header", map[string]any{"magic": string(magic)}, fmt.Errorf("bad magic, expected %q", headerMagic))
	}

	marker, err := c.readI32()
	if err != nil {
		return Header{}, err
	}
	fileTime, err := c.readU64()
	if err != nil {
		return Header{}, err
	}
	description, err := c.readWStringFixed(headerFixedStringChars)
	if err != nil {
		return Header{}, err
	}
	server, err := c.readWStringFixed(headerFixedStringChars)
	if err != nil {
		return Header{}, err
	}
	numObjects, err := c.readU32()
	if err != nil {
		return Header{}, err
	}
	numAttributes, err := c.readU32()
	if err != nil {
		return Header{}, err
	}
	offLow, err := c.readU32()
	if err != nil {
		return Header{}, err
	}
	offHigh, err := c.readU32()
	if err != nil {
		return Header{}, err
	}
	offEnd, err := c.readU32()
	if err != nil {
		return Header{}, err
	}
	unknown, err := c.readI32()
	if err != nil {
		return Header{}, err
	}

	return Header{
		Marker:         marker,
		FileTime:       fileTime,
		Description:    description,
		Server:         server,
		NumObjects:     numObjects,
		NumAttributes:  numAttributes,
		propertiesLow:  offLow,
		propertiesHigh: offHigh,
		propertiesEnd:  offEnd,
		Unknown:        unknown,
	}, nil
}

// firstObjectOffset is the fixed file offset immediately following the
// header, where object records begin.
const firstObjectOffset = 0x43e
