package snapshot

// classBlock is one variable-length entry of a Class's block list: an
// opaque u32, then a u32 byte length and that many payload bytes.
type classBlock struct {
	unk1    uint32
	payload []byte
}

// Class is a schema class definition. Most of its fields are opaque to
// this decoder (unk2, blocks, unknown); they are kept so the byte stream
// can be walked correctly, not because their semantics are understood.
type Class struct {
	ClassName          string
	DN                 string
	CommonClassName    string
	SubClassOf         string
	SchemaIDGUID       GUID
	unk2               []byte
	blocks             []classBlock
	unknown            []byte
	SystemPossSuperiors []string
	AuxiliaryClasses    []string
}

func (c *cursor) parseClass() (Class, error) {
	className, err := c.readWStringPrefixed()
	if err != nil {
		return Class{}, err
	}
	dn, err := c.readWStringPrefixed()
	if err != nil {
		return Class{}, err
	}
	commonClassName, err := c.readWStringPrefixed()
	if err != nil {
		return Class{}, err
	}
	subClassOf, err := c.readWStringPrefixed()
	if err != nil {
		return Class{}, err
	}
	schemaGUID, err := c.readGUID()
	if err != nil {
		return Class{}, err
	}

	unk2Len, err := c.readU32()
	if err != nil {
		return Class{}, err
	}
	unk2, err := c.readBytes(int(unk2Len))
	if err != nil {
		return Class{}, err
	}

	numBlocks, err := c.readU32()
	if err != nil {
		return Class{}, err
	}
	blocks := make([]classBlock, numBlocks)
	for i := range blocks {
		b1, err := c.readU32()
		if err != nil {
			return Class{}, err
		}
		blen, err := c.readU32()
		if err != nil {
			return Class{}, err
		}
		payload, err := c.readBytes(int(blen))
		if err != nil {
			return Class{}, err
		}
		blocks[i] = classBlock{unk1: b1, payload: payload}
	}

	numUnknown, err := c.readU32()
	if err != nil {
		return Class{}, err
	}
	unknown, err := c.readBytes(int(numUnknown) * 16)
	if err != nil {
		return Class{}, err
	}

	superiors, err := c.readWStringList()
	if err != nil {
		return Class{}, err
	}
	auxiliary, err := c.readWStringList()
	if err != nil {
		return Class{}, err
	}

	return Class{
		ClassName:           className,
		DN:                  dn,
		CommonClassName:     commonClassName,
		SubClassOf:          subClassOf,
		SchemaIDGUID:        schemaGUID,
		unk2:                unk2,
		blocks:              blocks,
		unknown:             unknown,
		SystemPossSuperiors: superiors,
		AuxiliaryClasses:    auxiliary,
	}, nil
}

// readWStringList reads a u32 count then that many length-prefixed
// wide-character strings.
func (c *cursor) readWStringList() ([]string, error) {
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		s, err := c.readWStringPrefixed()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *cursor) parseClasses() ([]Class, error) {
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	classes := make([]Class, count)
	for i := range classes {
		cls, err := c.parseClass()
		if err != nil {
			return nil, err
		}
		classes[i] = cls
	}
	return classes, nil
}
