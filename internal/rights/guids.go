// Package rights translates one ACE, together with its target object's
// kind, into the set of abstract BloodHound right names that ACE grants.
package rights

import "adscan/internal/snapshot"

// ObjectGUID names the well-known AD object-type / extended-right GUIDs
// the translator's rule table dispatches on.
type ObjectGUID int

const (
	GUIDUnknown ObjectGUID = iota
	// GUIDAll is the sentinel for an absent object_type or the all-zero
	// GUID — "this ACE applies to the object as a whole".
	GUIDAll
	GUIDDSReplicationGetChanges
	GUIDDSReplicationGetChangesAll
	GUIDDSReplicationGetChangesInFilteredSet
	GUIDUserForceChangePassword
	GUIDWriteMember
	GUIDWriteAllowedToAct
	GUIDWriteSPN
	GUIDAddKeyPrincipal
	GUIDUserAccountRestrictions
	GUIDPKINameFlag
	GUIDPKIEnrollmentFlag
	GUIDEnroll
	GUIDAutoEnroll
)

// wellKnownGUIDs maps the canonical uppercase GUID string to its name.
var wellKnownGUIDs = map[string]ObjectGUID{
	"1131F6AA-9C07-11D1-F79F-00C04FC2DCD2": GUIDDSReplicationGetChanges,
	"1131F6AD-9C07-11D1-F79F-00C04FC2DCD2": GUIDDSReplicationGetChangesAll,
	"89E95B76-444D-4C62-991A-0FACBEDA640C": GUIDDSReplicationGetChangesInFilteredSet,
	"00299570-246D-11D0-A768-00AA006E0529": GUIDUserForceChangePassword,
	"BF9679C0-0DE6-11D0-A285-00AA003049E2": GUIDWriteMember,
	"3F78C3E5-F79A-46BD-A0B8-9D18116DDC79": GUIDWriteAllowedToAct,
	"F3A64788-5306-11D1-A9C5-0000F80367C1": GUIDWriteSPN,
	"5B47D60F-6090-40B2-9F37-2A4DE88F3063": GUIDAddKeyPrincipal,
	"4C164200-20C0-11D0-A768-00AA006E0529": GUIDUserAccountRestrictions,
	// Supplemental certificate-template extended rights, not part of the
	// core BloodHound rule set but present on real PKI templates.
	"EA1DDDC4-60FF-416E-8CC0-17CEE534BCE7": GUIDPKINameFlag,
	"D15EF7D8-F226-46DB-AE79-B34E560BD12C": GUIDPKIEnrollmentFlag,
	"0E10C968-78FB-11D2-90D4-00C04F79DC55": GUIDEnroll,
	"A05B8CC2-17BC-4802-A710-E7C15AB866A2": GUIDAutoEnroll,
}

// lookupObjectType resolves an ACE's optional object_type GUID to a
// well-known name. An absent GUID or the all-zero GUID both resolve to
// GUIDAll; an unrecognized GUID resolves to (GUIDUnknown, false).
func lookupObjectType(g *snapshot.GUID) (ObjectGUID, bool) {
	if g == nil || g.IsZero() {
		return GUIDAll, true
	}
	name, ok := wellKnownGUIDs[g.String()]
	return name, ok
}
