package snapshot

import (
	"testing"

	"adscan/internal/source"
)

func buildHeaderBytes(t *testing.T, description, server string) []byte {
	t.Helper()
	buf := make([]byte, 0, firstObjectOffset)
	buf = append(buf, []byte(headerMagic)...)
	buf = append(buf, le32(0x1)...)      // marker
	buf = append(buf, le64(0)...)        // file time
	buf = append(buf, wstringFixed(description, headerFixedStringChars)...)
	buf = append(buf, wstringFixed(server, headerFixedStringChars)...)
	buf = append(buf, le32(10)...) // num objects
	buf = append(buf, le32(20)...) // num attributes
	buf = append(buf, le32(0x100)...) // properties offset low
	buf = append(buf, le32(0)...)     // properties offset high
	buf = append(buf, le32(0)...)     // properties end
	buf = append(buf, le32(0)...)     // unknown

	// Pad to firstObjectOffset so a subsequent seek doesn't read past end.
	for len(buf) < firstObjectOffset {
		buf = append(buf, 0)
	}
	return buf
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func wstringFixed(s string, chars int) []byte {
	out := make([]byte, 2*chars)
	for i, r := range []rune(s) {
		if i >= chars {
			break
		}
		out[2*i] = byte(r)
		out[2*i+1] = byte(r >> 8)
	}
	return out
}

func TestParseHeader(t *testing.T) {
	raw := buildHeaderBytes(t, "a test snapshot", "DC01")
	c := newCursor(source.NewBuffer(raw))
	h, err := c.parseHeader()
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.Description != "a test snapshot" {
		t.Errorf("Description = %q", h.Description)
	}
	if h.Server != "DC01" {
		t.Errorf("Server = %q", h.Server)
	}
	if h.NumObjects != 10 || h.NumAttributes != 20 {
		t.Errorf("NumObjects=%d NumAttributes=%d", h.NumObjects, h.NumAttributes)
	}
	if h.PropertiesOffset() != 0x100 {
		t.Errorf("PropertiesOffset() = %#x, want 0x100", h.PropertiesOffset())
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	raw := buildHeaderBytes(t, "x", "y")
	raw[0] = 'X'
	c := newCursor(source.NewBuffer(raw))
	_, err := c.parseHeader()
	if err == nil || !IsKind(err, MalformedInput) {
		t.Fatalf("expected MalformedInput for bad magic, got %v", err)
	}
}
