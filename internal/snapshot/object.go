package snapshot

import "adscan/internal/adlog"

// mappingEntry is one (property_index, attr_offset) pair in an object's
// mapping table. attr_offset is signed and relative to the object's own
// start position; negative offsets reach into the pooled-value region
// written before the object header.
type mappingEntry struct {
	propertyIndex uint32
	attrOffset    int32
}

// Object is one parsed directory object: its declared size plus the
// attributes this decoder was able to resolve from its mapping table.
// Attribute names retain the exact casing read from the property
// dictionary (see SPEC_FULL.md §13.1).
type Object struct {
	ObjSize    uint32
	TableSize  uint32
	Attributes map[string]Attribute
}

// parseObject reads one Object starting at the cursor's current
// position and always leaves the cursor at objStart+obj_size, regardless
// of how the mapping-table entries resolved.
func (c *cursor) parseObject(properties []Property) (Object, error) {
	objStart := c.tell()

	objSize, err := c.readU32()
	if err != nil {
		return Object{}, err
	}
	tableSize, err := c.readU32()
	if err != nil {
		return Object{}, err
	}

	entries := make([]mappingEntry, tableSize)
	for i := range entries {
		propIdx, err := c.readU32()
		if err != nil {
			return Object{}, err
		}
		offset, err := c.readI32()
		if err != nil {
			return Object{}, err
		}
		entries[i] = mappingEntry{propertyIndex: propIdx, attrOffset: offset}
	}

	attrs := make(map[string]Attribute, tableSize)
	for _, entry := range entries {
		if entry.propertyIndex >= uint32(len(properties)) {
			continue // out-of-range cross-reference: skip, per InvariantViolation policy on this one entry
		}
		property := properties[entry.propertyIndex]

		attrPos := objStart + int64(entry.attrOffset)
		if attrPos < 0 {
			continue // negative absolute address: skip this entry
		}

		saved := c.tell()
		c.seek(attrPos)
		attr, err := c.parseAttribute(property.AdsType)
		c.seek(saved)
		if err != nil {
			if IsKind(err, UnsupportedAdsType) {
				adlog.Debugf("skipping attribute %q: %v", property.Name, err)
				continue
			}
			return Object{}, err
		}
		attrs[property.Name] = attr
	}

	c.seek(objStart + int64(objSize))

	return Object{ObjSize: objSize, TableSize: tableSize, Attributes: attrs}, nil
}

// Get returns the value list for an attribute name, or (nil, false) if
// absent. Lookups are case-sensitive, matching the property dictionary's
// exact spelling.
func (o Object) Get(name string) ([]AttributeValue, bool) {
	attr, ok := o.Attributes[name]
	if !ok {
		return nil, false
	}
	return attr.Values, true
}

// GetFirst returns the first value for an attribute name, or (zero,
// false) if absent or empty.
func (o Object) GetFirst(name string) (AttributeValue, bool) {
	values, ok := o.Get(name)
	if !ok || len(values) == 0 {
		return AttributeValue{}, false
	}
	return values[0], true
}

// Classes returns the object's objectClass values in declared order.
func (o Object) Classes() []string {
	values, ok := o.Get("objectClass")
	if !ok {
		return nil
	}
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if v.Kind == ValueString {
			classes = append(classes, v.Str)
		}
	}
	return classes
}

// HasClass reports whether name is present among the object's classes
// (case-sensitive).
func (o Object) HasClass(name string) bool {
	for _, c := range o.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// Kind is the coarse object classification returned by GetType.
type Kind int

const (
	KindUnknown Kind = iota
	KindComputer
	KindUser
	KindUserDisabled
	KindGroup
	KindDomain
	KindOU
	KindContainer
	KindGPO
)

func (k Kind) String() string {
	switch k {
	case KindComputer:
		return "Computer"
	case KindUser:
		return "User"
	case KindUserDisabled:
		return "UserDisabled"
	case KindGroup:
		return "Group"
	case KindDomain:
		return "Domain"
	case KindOU:
		return "OU"
	case KindContainer:
		return "Container"
	case KindGPO:
		return "GPO"
	default:
		return "Unknown"
	}
}

const uacAccountDisable uint32 = 0x2

// GetType classifies the object with the first-match-wins decision order:
// gPCFileSysPath presence, then a "user" class with userAccountControl,
// then declared class order, else Unknown.
func (o Object) GetType() Kind {
	if _, ok := o.Get("gPCFileSysPath"); ok {
		return KindGPO
	}

	if o.HasClass("user") {
		if uac, ok := o.GetFirst("userAccountControl"); ok && uac.Kind == ValueInteger {
			if uac.Int&uacAccountDisable != 0 {
				return KindUserDisabled
			}
			return KindUser
		}
	}

	for _, class := range o.Classes() {
		switch class {
		case "computer":
			return KindComputer
		case "group":
			return KindGroup
		case "domain":
			return KindDomain
		case "organizationalUnit":
			return KindOU
		case "container":
			return KindContainer
		case "groupPolicyContainer":
			return KindGPO
		}
	}

	return KindUnknown
}

// ObjectIdentifier returns the BloodHound-style stable identifier for the
// object: objectSid for principal kinds, objectGUID for container-like
// kinds, absent otherwise.
func (o Object) ObjectIdentifier() (string, bool) {
	switch o.GetType() {
	case KindComputer, KindUser, KindUserDisabled, KindGroup:
		v, ok := o.GetFirst("objectSid")
		if !ok {
			return "", false
		}
		sid, err := v.AsSID()
		if err != nil {
			return "", false
		}
		return sid.String(), true
	case KindOU, KindContainer, KindGPO:
		v, ok := o.GetFirst("objectGUID")
		if !ok {
			return "", false
		}
		guid, err := v.AsGUID()
		if err != nil {
			return "", false
		}
		return guid.String(), true
	default:
		return "", false
	}
}
