package rights

import (
	"encoding/hex"
	"strings"
	"testing"

	"adscan/internal/snapshot"
)

// mustGUID parses a canonical dashed-hex GUID string (as produced by
// GUID.String()) back into a snapshot.GUID, inverting the mixed-endian
// packing so tests can address well-known GUIDs by their familiar form.
func mustGUID(t *testing.T, s string) snapshot.GUID {
	t.Helper()
	hexOnly := strings.ReplaceAll(s, "-", "")
	be, err := hex.DecodeString(hexOnly)
	if err != nil || len(be) != 16 {
		t.Fatalf("bad GUID literal %q: %v", s, err)
	}
	raw := make([]byte, 16)
	raw[3], raw[2], raw[1], raw[0] = be[0], be[1], be[2], be[3]
	raw[5], raw[4] = be[4], be[5]
	raw[7], raw[6] = be[6], be[7]
	copy(raw[8:], be[8:])
	g, err := snapshot.GUIDFromBytes(raw)
	if err != nil {
		t.Fatalf("GUIDFromBytes: %v", err)
	}
	return g
}

func sidOf(t *testing.T, rid uint32) snapshot.SID {
	t.Helper()
	raw := []byte{
		1, 1,
		0, 0, 0, 0, 0, 1,
		byte(rid), byte(rid >> 8), byte(rid >> 16), byte(rid >> 24),
	}
	sid, err := snapshot.SIDFromBytes(raw)
	if err != nil {
		t.Fatalf("SIDFromBytes: %v", err)
	}
	return sid
}

func hasRight(rs RightSet, name string) bool {
	_, ok := rs[name]
	return ok
}

func TestTranslateGenericAllShortCircuits(t *testing.T) {
	ace := snapshot.ACE{Mask: snapshot.GenericAll | snapshot.WriteDacl, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindComputer, false)
	if len(got) != 1 || !hasRight(got, "GenericAll") {
		t.Errorf("Translate() = %v, want only GenericAll", got.Names())
	}
}

func TestTranslateWriteDaclAndWriteOwner(t *testing.T) {
	ace := snapshot.ACE{Mask: snapshot.WriteDacl | snapshot.WriteOwner, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindUser, false)
	if !hasRight(got, "WriteDacl") || !hasRight(got, "WriteOwner") {
		t.Errorf("Translate() = %v, want WriteDacl and WriteOwner", got.Names())
	}
}

func TestTranslateAddSelfRequiresGroupAndWriteMemberGUID(t *testing.T) {
	writeMember := mustGUID(t, "BF9679C0-0DE6-11D0-A285-00AA003049E2")

	ace := snapshot.ACE{Mask: snapshot.DSSelf, ObjectType: &writeMember, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindGroup, false)
	if !hasRight(got, "AddSelf") {
		t.Errorf("Translate() = %v, want AddSelf", got.Names())
	}

	// Same ACE against a non-group kind must not grant AddSelf.
	got = Translate(ace, snapshot.KindUser, false)
	if hasRight(got, "AddSelf") {
		t.Errorf("Translate() against a user granted AddSelf: %v", got.Names())
	}
}

func TestTranslateExtendedRightsOnDomain(t *testing.T) {
	getChanges := mustGUID(t, "1131F6AA-9C07-11D1-F79F-00C04FC2DCD2")
	ace := snapshot.ACE{Mask: snapshot.DSControlAccess, ObjectType: &getChanges, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindDomain, false)
	if !hasRight(got, "GetChanges") {
		t.Errorf("Translate() = %v, want GetChanges", got.Names())
	}
}

func TestTranslateExtendedRightsOnUserForceChangePassword(t *testing.T) {
	forceChangePwd := mustGUID(t, "00299570-246D-11D0-A768-00AA006E0529")
	ace := snapshot.ACE{Mask: snapshot.DSControlAccess, ObjectType: &forceChangePwd, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindUser, false)
	if !hasRight(got, "ForceChangePassword") {
		t.Errorf("Translate() = %v, want ForceChangePassword", got.Names())
	}
}

func TestTranslateExtendedRightsOnComputerGatedByLAPS(t *testing.T) {
	ace := snapshot.ACE{Mask: snapshot.DSControlAccess, Trustee: sidOf(t, 500)}

	got := Translate(ace, snapshot.KindComputer, false)
	if hasRight(got, "AllExtendedRights") {
		t.Errorf("Translate() without LAPS granted AllExtendedRights: %v", got.Names())
	}

	got = Translate(ace, snapshot.KindComputer, true)
	if !hasRight(got, "AllExtendedRights") {
		t.Errorf("Translate() with LAPS = %v, want AllExtendedRights", got.Names())
	}
}

func TestTranslateGenericWriteBlanketAndSpecificGUIDs(t *testing.T) {
	writeSPN := mustGUID(t, "F3A64788-5306-11D1-A9C5-0000F80367C1")

	blanket := snapshot.ACE{Mask: snapshot.GenericWrite, Trustee: sidOf(t, 500)}
	got := Translate(blanket, snapshot.KindUser, false)
	if !hasRight(got, "GenericWrite") {
		t.Errorf("Translate() = %v, want GenericWrite", got.Names())
	}

	specific := snapshot.ACE{Mask: snapshot.DSWriteProp, ObjectType: &writeSPN, Trustee: sidOf(t, 500)}
	got = Translate(specific, snapshot.KindUser, false)
	if !hasRight(got, "WriteSPN") {
		t.Errorf("Translate() = %v, want WriteSPN", got.Names())
	}
	if hasRight(got, "GenericWrite") {
		t.Errorf("Translate() with a specific object type also granted GenericWrite: %v", got.Names())
	}
}

func TestTranslateAddMemberOnGroup(t *testing.T) {
	writeMember := mustGUID(t, "BF9679C0-0DE6-11D0-A285-00AA003049E2")
	ace := snapshot.ACE{Mask: snapshot.DSWriteProp, ObjectType: &writeMember, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindGroup, false)
	if !hasRight(got, "AddMember") {
		t.Errorf("Translate() = %v, want AddMember", got.Names())
	}
}

func TestTranslateDisabledUserNormalizesToUser(t *testing.T) {
	forceChangePwd := mustGUID(t, "00299570-246D-11D0-A768-00AA006E0529")
	ace := snapshot.ACE{Mask: snapshot.DSControlAccess, ObjectType: &forceChangePwd, Trustee: sidOf(t, 500)}
	got := Translate(ace, snapshot.KindUserDisabled, false)
	if !hasRight(got, "ForceChangePassword") {
		t.Errorf("Translate() against a disabled user = %v, want ForceChangePassword", got.Names())
	}
}
