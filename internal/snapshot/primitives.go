package snapshot

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"

	"adscan/internal/source"
)

// cursor is a little-endian, seekable reader over a source.Source. It is
// the one primitive every other decoder in this package is built from.
type cursor struct {
	src source.Source
	pos int64
}

func newCursor(src source.Source) *cursor {
	return &cursor{src: src}
}

func (c *cursor) tell() int64 { return c.pos }

func (c *cursor) seek(pos int64) {
	c.pos = pos
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := c.src.ReadAt(buf, c.pos)
	c.pos += int64(read)
	if err != nil {
		return nil, wrapIo("read_bytes", map[string]any{"offset": c.pos - int64(read), "len": n}, err)
	}
	return buf, nil
}

func (c *cursor) readU8() (uint8, error) {
	b, err := c.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI32() (int32, error) {
	v, err := c.readU32()
	return int32(v), err
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readI64() (int64, error) {
	v, err := c.readU64()
	return int64(v), err
}

// decodeUTF16 decodes little-endian UTF-16 code units into a string,
// replacing invalid code points with U+FFFD.
func decodeUTF16(units []uint16) string {
	runes := utf16.Decode(units)
	for i, r := range runes {
		if r == utf8.RuneError {
			runes[i] = '�'
		}
	}
	return string(runes)
}

func bytesToUTF16Units(b []byte) []uint16 {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i : 2*i+2])
	}
	return units
}

// truncateAtNUL returns units up to (not including) the first zero unit.
func truncateAtNUL(units []uint16) []uint16 {
	for i, u := range units {
		if u == 0 {
			return units[:i]
		}
	}
	return units
}

// readWStringFixed reads 2n bytes and returns the UTF-16 string up to the
// first U+0000; the remainder of the fixed field is discarded.
func (c *cursor) readWStringFixed(n int) (string, error) {
	b, err := c.readBytes(2 * n)
	if err != nil {
		return "", err
	}
	units := truncateAtNUL(bytesToUTF16Units(b))
	return decodeUTF16(units), nil
}

// readWStringPrefixed reads a u32 byte length, reads that many bytes, and
// decodes as UTF-16 up to the first U+0000.
func (c *cursor) readWStringPrefixed() (string, error) {
	length, err := c.readU32()
	if err != nil {
		return "", err
	}
	if length%2 != 0 {
		return "", wrapMalformed("read_wstring_prefixed", map[string]any{"length": length}, errOddLength)
	}
	b, err := c.readBytes(int(length))
	if err != nil {
		return "", err
	}
	units := truncateAtNUL(bytesToUTF16Units(b))
	return decodeUTF16(units), nil
}

// readWStringNT reads UTF-16 code units until a U+0000 terminator
// (consumed but not included in the result).
func (c *cursor) readWStringNT() (string, error) {
	var units []uint16
	for {
		u, err := c.readU16()
		if err != nil {
			return "", err
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return decodeUTF16(units), nil
}
