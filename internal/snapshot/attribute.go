package snapshot

import "fmt"

// ValueKind discriminates the AttributeValue union.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueBoolean
	ValueInteger
	ValueOctetString
	ValueUTCTime
	ValueLargeInteger
	ValueNTSecurityDescriptor
)

// AttributeValue is one decoded value of an Attribute. Only the field
// matching Kind is meaningful.
type AttributeValue struct {
	Kind       ValueKind
	Str        string
	Bool       bool
	Int        uint32
	Int64      int64
	OctetBytes []byte
	// Int64 holds the already-converted UNIX timestamp for
	// ValueUTCTime, and the raw FILETIME for ValueLargeInteger — see
	// AsUnixTimestamp.
}

// AsUnixTimestamp mirrors the source format's lazy FILETIME/UTCTime
// convergence: a LargeInteger is interpreted as a FILETIME (0 maps to 0),
// a UTCTime value is already in UNIX seconds, anything else has no
// timestamp interpretation.
func (v AttributeValue) AsUnixTimestamp() (int64, bool) {
	switch v.Kind {
	case ValueLargeInteger:
		return FileTimeToUnix(v.Int64), true
	case ValueUTCTime:
		return v.Int64, true
	default:
		return 0, false
	}
}

// Attribute is one parsed attribute of an Object: the values, in
// declared order.
type Attribute struct {
	Values []AttributeValue
}

// parseAttribute decodes one attribute starting at the cursor's current
// position, dispatching on the owning property's AdsType. attrStart is
// the byte offset string-like values' per-value offsets are relative to.
func (c *cursor) parseAttribute(adsType AdsType) (Attribute, error) {
	attrStart := c.tell()

	numValues, err := c.readU32()
	if err != nil {
		return Attribute{}, err
	}

	switch {
	case adsType.isStringLike():
		return c.parseStringValues(attrStart, numValues)
	case adsType == AdsTypeOctetString:
		return c.parseOctetStringValues(numValues)
	case adsType == AdsTypeBoolean:
		return c.parseBooleanValue(numValues)
	case adsType == AdsTypeInteger:
		return c.parseIntegerValues(numValues)
	case adsType == AdsTypeLargeInteger:
		return c.parseLargeIntegerValues(numValues)
	case adsType == AdsTypeUTCTime:
		return c.parseUTCTimeValues(numValues)
	case adsType == AdsTypeNTSecurityDescriptor:
		return c.parseSecurityDescriptorValue()
	default:
		return Attribute{}, newErr(UnsupportedAdsType, "parse_attribute", map[string]any{"ads_type": uint32(adsType)}, fmt.Errorf("unhandled ads_type %d", adsType))
	}
}

// parseStringValues reads numValues u32 offsets into a pool, then reads
// each value as an NT-terminated wide string at attrStart+offset. The
// offsets and the string pool share the attribute's byte range.
func (c *cursor) parseStringValues(attrStart int64, numValues uint32) (Attribute, error) {
	offsets := make([]uint32, numValues)
	for i := range offsets {
		v, err := c.readU32()
		if err != nil {
			return Attribute{}, err
		}
		offsets[i] = v
	}

	values := make([]AttributeValue, numValues)
	for i, off := range offsets {
		saved := c.tell()
		c.seek(attrStart + int64(off))
		s, err := c.readWStringNT()
		if err != nil {
			return Attribute{}, err
		}
		c.seek(saved)
		values[i] = AttributeValue{Kind: ValueString, Str: s}
	}
	return Attribute{Values: values}, nil
}

func (c *cursor) parseOctetStringValues(numValues uint32) (Attribute, error) {
	lengths := make([]uint32, numValues)
	for i := range lengths {
		v, err := c.readU32()
		if err != nil {
			return Attribute{}, err
		}
		lengths[i] = v
	}

	values := make([]AttributeValue, numValues)
	for i, length := range lengths {
		b, err := c.readBytes(int(length))
		if err != nil {
			return Attribute{}, err
		}
		values[i] = AttributeValue{Kind: ValueOctetString, OctetBytes: b}
	}
	return Attribute{Values: values}, nil
}

func (c *cursor) parseBooleanValue(numValues uint32) (Attribute, error) {
	if numValues != 1 {
		return Attribute{}, wrapMalformed("parse_boolean", map[string]any{"num_values": numValues}, fmt.Errorf("boolean attribute must have exactly one value"))
	}
	v, err := c.readU32()
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Values: []AttributeValue{{Kind: ValueBoolean, Bool: v != 0}}}, nil
}

func (c *cursor) parseIntegerValues(numValues uint32) (Attribute, error) {
	values := make([]AttributeValue, numValues)
	for i := range values {
		v, err := c.readU32()
		if err != nil {
			return Attribute{}, err
		}
		values[i] = AttributeValue{Kind: ValueInteger, Int: v}
	}
	return Attribute{Values: values}, nil
}

func (c *cursor) parseLargeIntegerValues(numValues uint32) (Attribute, error) {
	values := make([]AttributeValue, numValues)
	for i := range values {
		v, err := c.readI64()
		if err != nil {
			return Attribute{}, err
		}
		values[i] = AttributeValue{Kind: ValueLargeInteger, Int64: v}
	}
	return Attribute{Values: values}, nil
}

func (c *cursor) parseUTCTimeValues(numValues uint32) (Attribute, error) {
	values := make([]AttributeValue, numValues)
	for i := range values {
		st, err := c.readSystemTime()
		if err != nil {
			return Attribute{}, err
		}
		unix, err := st.toUnixSeconds()
		if err != nil {
			return Attribute{}, err
		}
		values[i] = AttributeValue{Kind: ValueUTCTime, Int64: unix}
	}
	return Attribute{Values: values}, nil
}

func (c *cursor) parseSecurityDescriptorValue() (Attribute, error) {
	length, err := c.readU32()
	if err != nil {
		return Attribute{}, err
	}
	raw, err := c.readBytes(int(length))
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Values: []AttributeValue{{Kind: ValueNTSecurityDescriptor, OctetBytes: raw}}}, nil
}

// AsSecurityDescriptor lazily parses a ValueNTSecurityDescriptor value's
// opaque bytes into a SecurityDescriptor.
func (v AttributeValue) AsSecurityDescriptor() (SecurityDescriptor, error) {
	if v.Kind != ValueNTSecurityDescriptor {
		return SecurityDescriptor{}, fmt.Errorf("value is not an NTSecurityDescriptor")
	}
	return ParseSecurityDescriptor(v.OctetBytes)
}

// AsSID interprets a ValueOctetString value as a SID (used for
// objectSid-typed attributes).
func (v AttributeValue) AsSID() (SID, error) {
	if v.Kind != ValueOctetString {
		return SID{}, fmt.Errorf("value is not an OctetString")
	}
	return SIDFromBytes(v.OctetBytes)
}

// AsGUID interprets a ValueOctetString value as a GUID (used for
// objectGUID-typed attributes).
func (v AttributeValue) AsGUID() (GUID, error) {
	if v.Kind != ValueOctetString {
		return GUID{}, fmt.Errorf("value is not an OctetString")
	}
	return GUIDFromBytes(v.OctetBytes)
}
