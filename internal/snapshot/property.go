package snapshot

// AdsType is the attribute-value variant discriminant carried by each
// Property record.
type AdsType uint32

const (
	AdsTypeDNString       AdsType = 1
	AdsTypeCaseExactString AdsType = 2
	AdsTypeCaseIgnoreString AdsType = 3
	AdsTypePrintableString AdsType = 4
	AdsTypeNumericString  AdsType = 5
	AdsTypeBoolean        AdsType = 6
	AdsTypeInteger        AdsType = 7
	AdsTypeOctetString    AdsType = 8
	AdsTypeUTCTime        AdsType = 9
	AdsTypeLargeInteger   AdsType = 10
	AdsTypeOctetDNString  AdsType = 12
	AdsTypeNTSecurityDescriptor AdsType = 25
)

func (t AdsType) isStringLike() bool {
	switch t {
	case AdsTypeDNString, AdsTypeCaseExactString, AdsTypeCaseIgnoreString,
		AdsTypePrintableString, AdsTypeNumericString, AdsTypeOctetDNString:
		return true
	default:
		return false
	}
}

// Property is a schema attribute definition from the snapshot's property
// dictionary. Objects reference properties by index; attribute values are
// decoded according to the referenced property's AdsType.
type Property struct {
	Name                  string
	unk1                  int32
	AdsType               AdsType
	DN                    string
	SchemaIDGUID          GUID
	AttributeSecurityGUID GUID
}

// parseProperty reads one Property record. Field order, including the
// undocumented unk1 field between the name and the ads_type, matches the
// on-disk layout exactly; only the 4-byte trailer after the two GUIDs is
// genuinely opaque.
func (c *cursor) parseProperty() (Property, error) {
	name, err := c.readWStringPrefixed()
	if err != nil {
		return Property{}, err
	}
	unk1, err := c.readI32()
	if err != nil {
		return Property{}, err
	}
	adsType, err := c.readU32()
	if err != nil {
		return Property{}, err
	}
	dn, err := c.readWStringPrefixed()
	if err != nil {
		return Property{}, err
	}
	schemaGUID, err := c.readGUID()
	if err != nil {
		return Property{}, err
	}
	securityGUID, err := c.readGUID()
	if err != nil {
		return Property{}, err
	}
	if _, err := c.readBytes(4); err != nil { // opaque trailer
		return Property{}, err
	}

	return Property{
		Name:                  name,
		unk1:                  unk1,
		AdsType:               AdsType(adsType),
		DN:                    dn,
		SchemaIDGUID:          schemaGUID,
		AttributeSecurityGUID: securityGUID,
	}, nil
}
