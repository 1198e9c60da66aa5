// Package snapshot decodes an AD Explorer-style binary snapshot: header,
// property dictionary, object heap, class table, and rights table, plus
// the self-relative security-descriptor/ACE codec every object's
// nTSecurityDescriptor attribute is lazily parsed through.
package snapshot

import "adscan/internal/source"

// Snapshot is the fully parsed, immutable result of decoding one
// snapshot file. All cross-references inside it are by integer index.
type Snapshot struct {
	Header     Header
	Properties []Property
	Objects    []Object
	Classes    []Class
	Rights     []Right
}

// Parse decodes a Snapshot from src. Parsing is single-threaded and
// strictly sequential: it either produces a complete Snapshot or returns
// an error describing the first fatal failure.
func Parse(src source.Source) (*Snapshot, error) {
	c := newCursor(src)

	header, err := c.parseHeader()
	if err != nil {
		return nil, err
	}

	c.seek(header.PropertiesOffset())
	numProperties, err := c.readU32()
	if err != nil {
		return nil, err
	}
	properties := make([]Property, numProperties)
	for i := range properties {
		p, err := c.parseProperty()
		if err != nil {
			return nil, err
		}
		properties[i] = p
	}
	postProperties := c.tell()

	c.seek(firstObjectOffset)
	objects := make([]Object, header.NumObjects)
	for i := range objects {
		obj, err := c.parseObject(properties)
		if err != nil {
			return nil, err
		}
		objects[i] = obj
	}

	c.seek(postProperties)
	classes, err := c.parseClasses()
	if err != nil {
		return nil, err
	}
	rights, err := c.parseRights()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Header:     header,
		Properties: properties,
		Objects:    objects,
		Classes:    classes,
		Rights:     rights,
	}, nil
}

// ParseFile opens path (mmap'd where supported) and parses it as a
// Snapshot. The returned Snapshot does not keep the source open; callers
// that need to control the Source's lifetime should open it themselves
// and call Parse.
func ParseFile(path string) (*Snapshot, error) {
	src, err := source.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return Parse(src)
}

// ParseBytes parses an in-memory snapshot buffer.
func ParseBytes(data []byte) (*Snapshot, error) {
	return Parse(source.NewBuffer(data))
}
