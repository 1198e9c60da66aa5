package rights

import "adscan/internal/snapshot"

// RightSet is the set of abstract right names one ACE translates to.
type RightSet map[string]struct{}

func (s RightSet) add(name string) { s[name] = struct{}{} }

// Names returns the set's members; order is unspecified.
func (s RightSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	return out
}

// Translate maps one DACL ACE to the abstract BloodHound rights it grants
// against an object of the given kind. hasLAPS indicates the target
// computer carries ms-Mcs-AdmPwdExpirationTime. Deny ACEs are the
// caller's responsibility to filter before calling Translate — this
// function assumes ace is an allow ACE.
func Translate(ace snapshot.ACE, kind snapshot.Kind, hasLAPS bool) RightSet {
	rights := RightSet{}
	mask := ace.Mask
	objType, objTypeKnown := lookupObjectType(ace.ObjectType)

	// A disabled user is still a User for rights purposes; only GetType's
	// BloodHound node-type label distinguishes it.
	if kind == snapshot.KindUserDisabled {
		kind = snapshot.KindUser
	}

	// 1. GenericAll short-circuits: no other rights are reported.
	if mask.Has(snapshot.GenericAll) && (ace.ObjectType == nil || (objTypeKnown && objType == GUIDAll)) {
		rights.add("GenericAll")
		return rights
	}

	// 2. WriteDacl.
	if mask.Has(snapshot.WriteDacl) {
		rights.add("WriteDacl")
	}

	// 3. WriteOwner.
	if mask.Has(snapshot.WriteOwner) {
		rights.add("WriteOwner")
	}

	// 4. AddSelf.
	if mask.Has(snapshot.DSSelf) && !mask.Has(snapshot.DSWriteProp) && !mask.Has(snapshot.GenericWrite) &&
		kind == snapshot.KindGroup && objTypeKnown && objType == GUIDWriteMember {
		rights.add("AddSelf")
	}

	// 5. Extended rights.
	if mask.Has(snapshot.DSControlAccess) {
		switch kind {
		case snapshot.KindDomain:
			switch {
			case objTypeKnown && objType == GUIDDSReplicationGetChanges:
				rights.add("GetChanges")
			case objTypeKnown && objType == GUIDDSReplicationGetChangesAll:
				rights.add("GetChangesAll")
			case objTypeKnown && objType == GUIDDSReplicationGetChangesInFilteredSet:
				rights.add("GetChangesInFilteredSet")
			case ace.ObjectType == nil || (objTypeKnown && objType == GUIDAll):
				rights.add("AllExtendedRights")
			}
		case snapshot.KindUser:
			switch {
			case objTypeKnown && objType == GUIDUserForceChangePassword:
				rights.add("ForceChangePassword")
			case ace.ObjectType == nil || (objTypeKnown && objType == GUIDAll):
				rights.add("AllExtendedRights")
			}
		case snapshot.KindComputer:
			if hasLAPS && (ace.ObjectType == nil || (objTypeKnown && objType == GUIDAll)) {
				rights.add("AllExtendedRights")
			}
		}
	}

	// 6. GenericWrite / write-property.
	if mask.Has(snapshot.GenericWrite) || mask.Has(snapshot.DSWriteProp) {
		switch kind {
		case snapshot.KindUser, snapshot.KindGroup, snapshot.KindComputer, snapshot.KindGPO:
			if ace.ObjectType == nil || (objTypeKnown && objType == GUIDAll) {
				rights.add("GenericWrite")
			}
		}

		if objTypeKnown {
			switch {
			case kind == snapshot.KindUser && objType == GUIDWriteSPN:
				rights.add("WriteSPN")
			case kind == snapshot.KindComputer && objType == GUIDWriteAllowedToAct:
				rights.add("AddAllowedToAct")
			case kind == snapshot.KindComputer && objType == GUIDUserAccountRestrictions:
				rights.add("WriteAccountRestrictions")
			case kind == snapshot.KindGroup && objType == GUIDWriteMember:
				rights.add("AddMember")
			case (kind == snapshot.KindUser || kind == snapshot.KindComputer) && objType == GUIDAddKeyPrincipal:
				rights.add("AddKeyCredentialLink")
			}
		}
	}

	return rights
}

// IsInherited reports whether the ACE was applied by inheritance.
func IsInherited(ace snapshot.ACE) bool {
	return ace.IsInherited()
}
