package snapshot

import "fmt"

// ACEType is the Windows ACE_TYPE byte. Only the five types below are ever
// produced by an AD security descriptor's DACL/SACL; any other value is
// UnsupportedAceType.
type ACEType uint8

const (
	ACETypeAccessAllowed       ACEType = 0x00
	ACETypeAccessDenied        ACEType = 0x01
	ACETypeAccessAllowedObject ACEType = 0x05
	ACETypeAccessDeniedObject  ACEType = 0x06
	ACETypeSystemAuditObject   ACEType = 0x07
)

// ACE flag bits (the low byte of the ACE header).
const (
	ACEFlagObjectInherit       uint8 = 0x01
	ACEFlagContainerInherit    uint8 = 0x02
	ACEFlagNoPropagateInherit  uint8 = 0x04
	ACEFlagInheritOnly         uint8 = 0x08
	ACEFlagInherited           uint8 = 0x10
	ACEFlagSuccessfulAccess    uint8 = 0x40
	ACEFlagFailedAccess        uint8 = 0x80
)

// Object-ACE presence flags gating the optional object_type and
// inherited_object_type GUIDs.
const (
	objectTypePresent          uint32 = 0x1
	inheritedObjectTypePresent uint32 = 0x2
)

// ACE is the sum type over the ACE kinds this decoder understands. All
// five kinds share a header, an access mask, and a trailing trustee SID;
// the three "object" kinds add optional GUIDs gating on Flags, and
// SystemAuditObject additionally carries trailing application data.
type ACE struct {
	Type                ACEType
	HeaderFlags         uint8
	Mask                AccessMask
	ObjectType          *GUID
	InheritedObjectType *GUID
	Trustee             SID
	ApplicationData     []byte
}

// IsInherited reports whether the ACE's INHERITED_ACE flag is set.
func (a ACE) IsInherited() bool {
	return a.HeaderFlags&ACEFlagInherited != 0
}

// parseACE reads one ACE starting at the cursor's current position and
// consumes exactly its declared ace_size bytes.
func (c *cursor) parseACE() (ACE, error) {
	aceStart := c.tell()

	aceType, err := c.readU8()
	if err != nil {
		return ACE{}, err
	}
	flags, err := c.readU8()
	if err != nil {
		return ACE{}, err
	}
	aceSize, err := c.readU16()
	if err != nil {
		return ACE{}, err
	}

	switch ACEType(aceType) {
	case ACETypeAccessAllowed, ACETypeAccessDenied:
		mask, err := c.readAccessMask()
		if err != nil {
			return ACE{}, err
		}
		sid, err := c.readSID()
		if err != nil {
			return ACE{}, err
		}
		return ACE{Type: ACEType(aceType), HeaderFlags: flags, Mask: mask, Trustee: sid}, nil

	case ACETypeAccessAllowedObject, ACETypeAccessDeniedObject:
		mask, objType, inheritedType, sid, err := c.parseObjectAceBody()
		if err != nil {
			return ACE{}, err
		}
		return ACE{
			Type:                ACEType(aceType),
			HeaderFlags:         flags,
			Mask:                mask,
			ObjectType:          objType,
			InheritedObjectType: inheritedType,
			Trustee:             sid,
		}, nil

	case ACETypeSystemAuditObject:
		mask, objType, inheritedType, reserved, sid, err := c.parseSystemAuditObjectBody()
		if err != nil {
			return ACE{}, err
		}
		_ = reserved

		consumed := c.tell() - aceStart
		appDataLen := int64(aceSize) - consumed
		if appDataLen < 0 {
			return ACE{}, wrapMalformed("parse_ace", map[string]any{"ace_size": aceSize, "consumed": consumed}, fmt.Errorf("ace_size too small for SystemAuditObject body"))
		}
		appData, err := c.readBytes(int(appDataLen))
		if err != nil {
			return ACE{}, err
		}

		return ACE{
			Type:                ACEType(aceType),
			HeaderFlags:         flags,
			Mask:                mask,
			ObjectType:          objType,
			InheritedObjectType: inheritedType,
			Trustee:             sid,
			ApplicationData:     appData,
		}, nil

	default:
		// Consume the rest of the declared ACE so the caller's ACL loop
		// can keep parsing subsequent ACEs, then report it as dropped.
		consumed := c.tell() - aceStart
		remaining := int64(aceSize) - consumed
		if remaining > 0 {
			if _, err := c.readBytes(int(remaining)); err != nil {
				return ACE{}, err
			}
		}
		return ACE{}, newErr(UnsupportedAceType, "parse_ace", map[string]any{"ace_type": aceType}, fmt.Errorf("unsupported ACE type 0x%02x", aceType))
	}
}

// parseObjectAceBody reads mask, flags, the conditional object_type and
// inherited_object_type GUIDs, and the trailing SID shared by
// AccessAllowedObject and AccessDeniedObject.
func (c *cursor) parseObjectAceBody() (AccessMask, *GUID, *GUID, SID, error) {
	mask, err := c.readAccessMask()
	if err != nil {
		return 0, nil, nil, SID{}, err
	}
	objFlags, err := c.readU32()
	if err != nil {
		return 0, nil, nil, SID{}, err
	}

	var objType, inheritedType *GUID
	if objFlags&objectTypePresent != 0 {
		g, err := c.readGUID()
		if err != nil {
			return 0, nil, nil, SID{}, err
		}
		objType = &g
	}
	if objFlags&inheritedObjectTypePresent != 0 {
		g, err := c.readGUID()
		if err != nil {
			return 0, nil, nil, SID{}, err
		}
		inheritedType = &g
	}

	sid, err := c.readSID()
	if err != nil {
		return 0, nil, nil, SID{}, err
	}
	return mask, objType, inheritedType, sid, nil
}

// parseSystemAuditObjectBody is parseObjectAceBody plus the 8 reserved
// bytes SystemAuditObjectAce inserts between the GUIDs and the SID.
func (c *cursor) parseSystemAuditObjectBody() (AccessMask, *GUID, *GUID, []byte, SID, error) {
	mask, err := c.readAccessMask()
	if err != nil {
		return 0, nil, nil, nil, SID{}, err
	}
	objFlags, err := c.readU32()
	if err != nil {
		return 0, nil, nil, nil, SID{}, err
	}

	var objType, inheritedType *GUID
	if objFlags&objectTypePresent != 0 {
		g, err := c.readGUID()
		if err != nil {
			return 0, nil, nil, nil, SID{}, err
		}
		objType = &g
	}
	if objFlags&inheritedObjectTypePresent != 0 {
		g, err := c.readGUID()
		if err != nil {
			return 0, nil, nil, nil, SID{}, err
		}
		inheritedType = &g
	}

	reserved, err := c.readBytes(8)
	if err != nil {
		return 0, nil, nil, nil, SID{}, err
	}

	sid, err := c.readSID()
	if err != nil {
		return 0, nil, nil, nil, SID{}, err
	}

	return mask, objType, inheritedType, reserved, sid, nil
}
