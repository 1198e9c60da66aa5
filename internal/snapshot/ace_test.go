package snapshot

import (
	"testing"

	"adscan/internal/source"
)

// sidBytes builds a minimal SID's bytes: S-1-1-<sub>.
func sidBytes(sub uint32) []byte {
	return []byte{
		1, 1,
		0, 0, 0, 0, 0, 1,
		byte(sub), byte(sub >> 8), byte(sub >> 16), byte(sub >> 24),
	}
}

func TestParseACEAccessAllowed(t *testing.T) {
	sid := sidBytes(42)
	mask := le32(0x0002_0000) // ReadControl
	body := append(append([]byte{}, mask...), sid...)
	aceSize := 4 + len(body)

	raw := []byte{}
	raw = append(raw, byte(ACETypeAccessAllowed), 0x00)
	raw = append(raw, byte(aceSize), byte(aceSize>>8))
	raw = append(raw, body...)

	c := newCursor(source.NewBuffer(raw))
	ace, err := c.parseACE()
	if err != nil {
		t.Fatalf("parseACE: %v", err)
	}
	if ace.Type != ACETypeAccessAllowed {
		t.Errorf("Type = %v", ace.Type)
	}
	if !ace.Mask.Has(ReadControl) {
		t.Errorf("Mask missing ReadControl: %#x", ace.Mask)
	}
	if ace.Trustee.String() != "S-1-1-42" {
		t.Errorf("Trustee = %v", ace.Trustee)
	}
	if c.tell() != int64(aceSize) {
		t.Errorf("cursor at %d, want %d", c.tell(), aceSize)
	}
}

func TestParseACEUnsupportedTypeIsSkippable(t *testing.T) {
	body := []byte{0, 1, 2, 3}
	aceSize := 4 + len(body)
	raw := []byte{0xFE, 0x00, byte(aceSize), byte(aceSize >> 8)}
	raw = append(raw, body...)

	c := newCursor(source.NewBuffer(raw))
	_, err := c.parseACE()
	if !IsKind(err, UnsupportedAceType) {
		t.Fatalf("expected UnsupportedAceType, got %v", err)
	}
	if c.tell() != int64(aceSize) {
		t.Errorf("cursor should advance past the whole declared ace_size even when dropped: at %d, want %d", c.tell(), aceSize)
	}
}

func TestParseACLRejectsBadRevision(t *testing.T) {
	raw := []byte{9, 0, 8, 0, 0, 0, 0, 0}
	c := newCursor(source.NewBuffer(raw))
	_, err := c.parseACL()
	if !IsKind(err, MalformedInput) {
		t.Fatalf("expected MalformedInput, got %v", err)
	}
}

func TestParseACLDropsUnsupportedACEButKeepsOthers(t *testing.T) {
	sid := sidBytes(7)
	mask := le32(uint32(GenericAll))
	allowedBody := append(append([]byte{}, mask...), sid...)
	allowedSize := 4 + len(allowedBody)
	allowedACE := append([]byte{byte(ACETypeAccessAllowed), 0x00, byte(allowedSize), byte(allowedSize >> 8)}, allowedBody...)

	unsupportedBody := []byte{0, 0, 0, 0}
	unsupportedSize := 4 + len(unsupportedBody)
	unsupportedACE := append([]byte{0xFE, 0x00, byte(unsupportedSize), byte(unsupportedSize >> 8)}, unsupportedBody...)

	var acl []byte
	acl = append(acl, 2, 0) // revision, sbz1
	aclSize := 8 + len(allowedACE) + len(unsupportedACE)
	acl = append(acl, byte(aclSize), byte(aclSize>>8))
	acl = append(acl, 2, 0) // ace_count
	acl = append(acl, 0, 0) // sbz2
	acl = append(acl, allowedACE...)
	acl = append(acl, unsupportedACE...)

	c := newCursor(source.NewBuffer(acl))
	parsed, err := c.parseACL()
	if err != nil {
		t.Fatalf("parseACL: %v", err)
	}
	if len(parsed.ACEs) != 1 {
		t.Fatalf("expected 1 surviving ACE, got %d", len(parsed.ACEs))
	}
	if parsed.ACEs[0].Trustee.String() != "S-1-1-7" {
		t.Errorf("surviving ACE trustee = %v", parsed.ACEs[0].Trustee)
	}
}
