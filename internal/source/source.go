// Package source provides the random-access byte source the snapshot
// parser reads from, backed by either a memory-mapped file or an
// in-memory buffer.
package source

import "io"

// Source is a random-access, read-only view over the snapshot bytes. The
// parser never copies the full input; it seeks and reads through this
// interface instead.
type Source interface {
	io.ReaderAt
	// Len returns the total size of the underlying data in bytes.
	Len() int
	// Close releases any OS resources (mmap) held by the source.
	Close() error
}

// Buffer is a Source backed by an in-memory byte slice. Used for small
// snapshots, tests, and platforms without an mmap implementation wired up.
type Buffer struct {
	data []byte
}

// NewBuffer wraps data as a Source. data is not copied.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *Buffer) Len() int    { return len(b.data) }
func (b *Buffer) Close() error { return nil }
