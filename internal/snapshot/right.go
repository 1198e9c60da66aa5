package snapshot

// Right is a named extended-right/control-access definition from the
// snapshot's rights table. The trailing 20 bytes are opaque.
type Right struct {
	Name string
	Desc string
	blob [20]byte
}

func (c *cursor) parseRight() (Right, error) {
	name, err := c.readWStringPrefixed()
	if err != nil {
		return Right{}, err
	}
	desc, err := c.readWStringPrefixed()
	if err != nil {
		return Right{}, err
	}
	blob, err := c.readBytes(20)
	if err != nil {
		return Right{}, err
	}
	var b [20]byte
	copy(b[:], blob)
	return Right{Name: name, Desc: desc, blob: b}, nil
}

func (c *cursor) parseRights() ([]Right, error) {
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	rights := make([]Right, count)
	for i := range rights {
		r, err := c.parseRight()
		if err != nil {
			return nil, err
		}
		rights[i] = r
	}
	return rights, nil
}
