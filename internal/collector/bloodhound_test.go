package collector

import (
	"testing"

	"adscan/internal/index"
	"adscan/internal/snapshot"
)

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le32(v uint32) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)} }

// sidBytes builds S-1-1-<sub>'s wire form, matching the layout
// internal/snapshot's own ACE/SID tests use.
func sidBytes(sub uint32) []byte {
	return append([]byte{1, 1, 0, 0, 0, 0, 0, 1}, le32(sub)...)
}

func classAttr(s string) snapshot.Attribute {
	return snapshot.Attribute{Values: []snapshot.AttributeValue{{Kind: snapshot.ValueString, Str: s}}}
}

func sidAttr(sub uint32) snapshot.Attribute {
	return snapshot.Attribute{Values: []snapshot.AttributeValue{{Kind: snapshot.ValueOctetString, OctetBytes: sidBytes(sub)}}}
}

// buildSimpleACEBytes builds a non-object AccessAllowed/AccessDenied ACE.
func buildSimpleACEBytes(aceType snapshot.ACEType, mask uint32, sid []byte) []byte {
	body := append(append([]byte{}, le32(mask)...), sid...)
	aceSize := 4 + len(body)
	return append([]byte{byte(aceType), 0x00, byte(aceSize), byte(aceSize >> 8)}, body...)
}

// buildObjectACEBytes builds an AccessAllowedObject/AccessDeniedObject ACE
// with an object_type GUID present and no inherited_object_type.
func buildObjectACEBytes(aceType snapshot.ACEType, mask uint32, objectType []byte, sid []byte) []byte {
	body := append([]byte{}, le32(mask)...)
	body = append(body, le32(1)...) // object_type present, inherited_object_type absent
	body = append(body, objectType...)
	body = append(body, sid...)
	aceSize := 4 + len(body)
	return append([]byte{byte(aceType), 0x00, byte(aceSize), byte(aceSize >> 8)}, body...)
}

func buildACLBytes(aces ...[]byte) []byte {
	var body []byte
	for _, ace := range aces {
		body = append(body, ace...)
	}
	aclSize := 8 + len(body)
	header := []byte{2, 0, byte(aclSize), byte(aclSize >> 8), byte(len(aces)), 0, 0, 0}
	return append(header, body...)
}

// buildSDBytes builds a self-relative security descriptor with a DACL
// Present control bit, the given owner SID, and the given DACL bytes
// (may be nil for no DACL).
func buildSDBytes(owner []byte, dacl []byte) []byte {
	const headerLen = 20
	ownerOff := uint32(headerLen)
	var daclOff uint32
	if dacl != nil {
		daclOff = ownerOff + uint32(len(owner))
	}

	raw := []byte{1, 0}
	raw = append(raw, le16(uint16(snapshot.ControlDP|snapshot.ControlSR))...)
	raw = append(raw, le32(ownerOff)...)
	raw = append(raw, le32(0)...)
	raw = append(raw, le32(0)...)
	raw = append(raw, le32(daclOff)...)
	raw = append(raw, owner...)
	if dacl != nil {
		raw = append(raw, dacl...)
	}
	return raw
}

func objectWithSD(sdBytes []byte) snapshot.Object {
	return snapshot.Object{Attributes: map[string]snapshot.Attribute{
		"nTSecurityDescriptor": {Values: []snapshot.AttributeValue{{Kind: snapshot.ValueNTSecurityDescriptor, OctetBytes: sdBytes}}},
	}}
}

// buildIndexWithSIDs builds a real index.Index resolving exactly the
// given RIDs under S-1-1-*, via the same public Build path the ingest
// pipeline uses.
func buildIndexWithSIDs(rids ...uint32) *index.Index {
	snap := &snapshot.Snapshot{}
	for _, rid := range rids {
		snap.Objects = append(snap.Objects, snapshot.Object{Attributes: map[string]snapshot.Attribute{
			"objectClass": classAttr("user"),
			"objectSid":   sidAttr(rid),
		}})
	}
	return index.Build(snap)
}

// userForceChangePasswordGUID is the well-known extended-right GUID
// ForceChangePassword (00299570-246D-11D0-A768-00AA006E0529), packed in
// Microsoft mixed-endian form.
var userForceChangePasswordGUID = []byte{
	0x70, 0x95, 0x29, 0x00,
	0x6D, 0x24,
	0xD0, 0x11,
	0xA7, 0x68, 0x00, 0xAA, 0x00, 0x6E, 0x05, 0x29,
}

func TestBuildAcesOwnerRowGatedBySIDResolution(t *testing.T) {
	owner := sidBytes(500)
	sdBytes := buildSDBytes(owner, nil)

	resolved := &Collector{idx: buildIndexWithSIDs(500)}
	rows := resolved.buildAces(objectWithSD(sdBytes), snapshot.KindUser)
	if len(rows) != 1 || rows[0].PrincipalSID != "S-1-1-500" || rows[0].RightName[0] != "Owns" {
		t.Fatalf("resolved owner rows = %+v", rows)
	}

	unresolved := &Collector{idx: buildIndexWithSIDs(999)}
	rows = unresolved.buildAces(objectWithSD(sdBytes), snapshot.KindUser)
	if len(rows) != 0 {
		t.Fatalf("unresolved owner should produce no row, got %+v", rows)
	}
}

func TestBuildAcesExcludesDenyTypeACEs(t *testing.T) {
	owner := sidBytes(500)
	denySID := sidBytes(1105)
	dacl := buildACLBytes(buildSimpleACEBytes(snapshot.ACETypeAccessDenied, uint32(snapshot.GenericAll), denySID))
	sdBytes := buildSDBytes(owner, dacl)

	c := &Collector{idx: buildIndexWithSIDs(500, 1105)}
	rows := c.buildAces(objectWithSD(sdBytes), snapshot.KindUser)

	if len(rows) != 1 {
		t.Fatalf("expected only the owner row, got %+v", rows)
	}
	if rows[0].PrincipalSID != "S-1-1-500" {
		t.Errorf("unexpected row survived deny filtering: %+v", rows[0])
	}
}

func TestBuildAcesTranslatesAccessAllowedObjectACE(t *testing.T) {
	owner := sidBytes(500)
	granteeSID := sidBytes(1105)
	ace := buildObjectACEBytes(snapshot.ACETypeAccessAllowedObject, uint32(snapshot.DSControlAccess), userForceChangePasswordGUID, granteeSID)
	dacl := buildACLBytes(ace)
	sdBytes := buildSDBytes(owner, dacl)

	c := &Collector{idx: buildIndexWithSIDs(500, 1105)}
	rows := c.buildAces(objectWithSD(sdBytes), snapshot.KindUser)

	var found *ACERow
	for i := range rows {
		if rows[i].PrincipalSID == "S-1-1-1105" {
			found = &rows[i]
		}
	}
	if found == nil {
		t.Fatalf("no row for grantee SID, rows = %+v", rows)
	}
	if len(found.RightName) != 1 || found.RightName[0] != "ForceChangePassword" {
		t.Errorf("RightName = %v, want [ForceChangePassword]", found.RightName)
	}
	if found.IsInherited {
		t.Errorf("IsInherited = true, want false")
	}
}
