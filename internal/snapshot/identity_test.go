package snapshot

import (
	"testing"

	"adscan/internal/source"
)

func TestGUIDString(t *testing.T) {
	// Microsoft packed form for {00299570-246D-11D0-A768-00AA006E0529},
	// the well-known User-Force-Change-Password extended right.
	raw := []byte{
		0x70, 0x95, 0x29, 0x00, // data1 LE
		0x6D, 0x24, // data2 LE
		0xD0, 0x11, // data3 LE
		0xA7, 0x68, 0x00, 0xAA, 0x00, 0x6E, 0x05, 0x29, // data4 as-is
	}
	g, err := GUIDFromBytes(raw)
	if err != nil {
		t.Fatalf("GUIDFromBytes: %v", err)
	}
	want := "00299570-246D-11D0-A768-00AA006E0529"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGUIDIsZero(t *testing.T) {
	var g GUID
	if !g.IsZero() {
		t.Error("zero-value GUID should report IsZero")
	}
	nonZero, _ := GUIDFromBytes(make([]byte, 16))
	nonZero.raw[0] = 1
	if nonZero.IsZero() {
		t.Error("non-zero GUID reported IsZero")
	}
}

func TestReadSIDRoundTrip(t *testing.T) {
	// S-1-5-21-111-222-333-500
	raw := []byte{
		1,          // revision
		5,          // sub-authority count
		0, 0, 0, 0, 0, 5, // identifier authority, big-endian 48-bit
		21, 0, 0, 0,
		111, 0, 0, 0,
		222, 0, 0, 0,
		77, 1, 0, 0, // 333
		0xF4, 0x01, 0, 0, // 500
	}
	c := newCursor(source.NewBuffer(raw))
	sid, err := c.readSID()
	if err != nil {
		t.Fatalf("readSID: %v", err)
	}
	want := "S-1-5-21-111-222-333-500"
	if got := sid.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestReadSIDRejectsTooManySubAuthorities(t *testing.T) {
	raw := make([]byte, 8+16*4)
	raw[0] = 1
	raw[1] = 16 // one over maxSubAuthorities
	c := newCursor(source.NewBuffer(raw))
	_, err := c.readSID()
	if err == nil {
		t.Fatal("expected an error for sub_authority_count > 15")
	}
	if !IsKind(err, MalformedInput) {
		t.Errorf("expected MalformedInput, got %v", err)
	}
}

func TestSIDFromBytesTruncated(t *testing.T) {
	_, err := SIDFromBytes([]byte{1, 2, 0, 0, 0, 0, 0, 5})
	if err == nil {
		t.Fatal("expected an error for a SID truncated before its sub-authorities")
	}
}
