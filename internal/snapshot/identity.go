package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

const maxSubAuthorities = 15

// GUID is a Microsoft-packed GUID: the first three fields are little-endian,
// the remaining eight bytes are taken as-is.
type GUID struct {
	raw [16]byte
}

// readGUID reads 16 bytes as a Microsoft GUID.
func (c *cursor) readGUID() (GUID, error) {
	b, err := c.readBytes(16)
	if err != nil {
		return GUID{}, err
	}
	var g GUID
	copy(g.raw[:], b)
	return g, nil
}

// GUIDFromBytes parses a 16-byte Microsoft-packed GUID out of an
// already-read buffer (used for objectGUID OctetString attribute values;
// ACE object-type fields are read through the cursor instead).
func GUIDFromBytes(b []byte) (GUID, error) {
	if len(b) != 16 {
		return GUID{}, wrapMalformed("guid_from_bytes", map[string]any{"len": len(b)}, fmt.Errorf("GUID requires 16 bytes"))
	}
	var g GUID
	copy(g.raw[:], b)
	return g, nil
}

// String renders the canonical Microsoft mixed-endian form
// XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX in uppercase hex. uuid.FromBytes
// expects big-endian fields throughout, so the first three little-endian
// fields are byte-swapped before handing off to it.
func (g GUID) String() string {
	var be [16]byte
	be[0], be[1], be[2], be[3] = g.raw[3], g.raw[2], g.raw[1], g.raw[0]
	be[4], be[5] = g.raw[5], g.raw[4]
	be[6], be[7] = g.raw[7], g.raw[6]
	copy(be[8:], g.raw[8:])

	u, err := uuid.FromBytes(be[:])
	if err != nil {
		// Unreachable: be is always exactly 16 bytes.
		return ""
	}
	s := u.String()
	upper := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'f' {
			ch -= 'a' - 'A'
		}
		upper[i] = ch
	}
	return string(upper)
}

// IsZero reports whether the GUID is the all-zero GUID (AllGuid in the
// rights translator).
func (g GUID) IsZero() bool {
	return g.raw == [16]byte{}
}

// SID is a Windows security identifier: revision, a big-endian 48-bit
// identifier authority, and up to 15 little-endian sub-authorities.
type SID struct {
	Revision            uint8
	SubAuthorityCount   uint8
	IdentifierAuthority [6]byte
	SubAuthorities      []uint32
}

// readSID reads a variable-length SID: revision:u8, sub_authority_count:u8,
// identifier_authority:[6]u8 big-endian, then sub_authority_count u32-LE
// sub-authorities. Rejects more than 15 sub-authorities as MalformedInput.
func (c *cursor) readSID() (SID, error) {
	revision, err := c.readU8()
	if err != nil {
		return SID{}, err
	}
	count, err := c.readU8()
	if err != nil {
		return SID{}, err
	}
	if count > maxSubAuthorities {
		return SID{}, wrapMalformed("read_sid", map[string]any{"sub_authority_count": count}, fmt.Errorf("sub-authority count exceeds %d", maxSubAuthorities))
	}
	authBytes, err := c.readBytes(6)
	if err != nil {
		return SID{}, err
	}
	var authority [6]byte
	copy(authority[:], authBytes)

	subs := make([]uint32, count)
	for i := range subs {
		v, err := c.readU32()
		if err != nil {
			return SID{}, err
		}
		subs[i] = v
	}

	return SID{
		Revision:            revision,
		SubAuthorityCount:   count,
		IdentifierAuthority: authority,
		SubAuthorities:      subs,
	}, nil
}

// SIDFromBytes parses a SID out of an already-read buffer (objectSid
// OctetString attribute values, security-descriptor owner/group/trustee
// fields).
func SIDFromBytes(b []byte) (SID, error) {
	if len(b) < 8 {
		return SID{}, wrapMalformed("sid_from_bytes", map[string]any{"len": len(b)}, fmt.Errorf("SID requires at least 8 bytes"))
	}
	revision := b[0]
	count := b[1]
	if count > maxSubAuthorities {
		return SID{}, wrapMalformed("sid_from_bytes", map[string]any{"sub_authority_count": count}, fmt.Errorf("sub-authority count exceeds %d", maxSubAuthorities))
	}
	var authority [6]byte
	copy(authority[:], b[2:8])
	need := 8 + int(count)*4
	if len(b) < need {
		return SID{}, wrapMalformed("sid_from_bytes", map[string]any{"len": len(b), "need": need}, fmt.Errorf("truncated SID"))
	}
	subs := make([]uint32, count)
	for i := range subs {
		subs[i] = binary.LittleEndian.Uint32(b[8+4*i : 12+4*i])
	}
	return SID{
		Revision:            revision,
		SubAuthorityCount:   count,
		IdentifierAuthority: authority,
		SubAuthorities:      subs,
	}, nil
}

// String renders the canonical S-revision-authority-sub1-sub2-... form.
func (s SID) String() string {
	authority := uint64(0)
	for _, b := range s.IdentifierAuthority {
		authority = authority<<8 | uint64(b)
	}
	out := fmt.Sprintf("S-%d-%d", s.Revision, authority)
	for _, sub := range s.SubAuthorities {
		out += fmt.Sprintf("-%d", sub)
	}
	return out
}
