package snapshot

import "adscan/internal/source"

// SecurityDescriptor is a parsed self-relative SECURITY_DESCRIPTOR: a
// revision/control header plus up to four optional fields, each addressed
// by an offset from the descriptor's own start. An offset of zero means
// the field is absent.
type SecurityDescriptor struct {
	Revision uint8
	Sbz1     uint8
	Control  ControlFlags
	Owner    *SID
	Group    *SID
	Sacl     *ACL
	Dacl     *ACL
}

// ParseSecurityDescriptor parses a self-relative SD out of raw, the
// NTSecurityDescriptor attribute's opaque blob.
func ParseSecurityDescriptor(raw []byte) (SecurityDescriptor, error) {
	c := newCursor(source.NewBuffer(raw))

	revision, err := c.readU8()
	if err != nil {
		return SecurityDescriptor{}, err
	}
	sbz1, err := c.readU8()
	if err != nil {
		return SecurityDescriptor{}, err
	}
	control, err := c.readU16()
	if err != nil {
		return SecurityDescriptor{}, err
	}
	ownerOff, err := c.readU32()
	if err != nil {
		return SecurityDescriptor{}, err
	}
	groupOff, err := c.readU32()
	if err != nil {
		return SecurityDescriptor{}, err
	}
	saclOff, err := c.readU32()
	if err != nil {
		return SecurityDescriptor{}, err
	}
	daclOff, err := c.readU32()
	if err != nil {
		return SecurityDescriptor{}, err
	}

	sd := SecurityDescriptor{Revision: revision, Sbz1: sbz1, Control: ControlFlags(control)}

	if ownerOff != 0 {
		c.seek(int64(ownerOff))
		sid, err := c.readSID()
		if err != nil {
			return SecurityDescriptor{}, err
		}
		sd.Owner = &sid
	}
	if groupOff != 0 {
		c.seek(int64(groupOff))
		sid, err := c.readSID()
		if err != nil {
			return SecurityDescriptor{}, err
		}
		sd.Group = &sid
	}
	if saclOff != 0 {
		c.seek(int64(saclOff))
		acl, err := c.parseACL()
		if err != nil {
			return SecurityDescriptor{}, err
		}
		sd.Sacl = &acl
	}
	if daclOff != 0 {
		c.seek(int64(daclOff))
		acl, err := c.parseACL()
		if err != nil {
			return SecurityDescriptor{}, err
		}
		sd.Dacl = &acl
	}

	return sd, nil
}
