//go:build linux || darwin

package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapSource is a Source backed by a read-only memory mapping of an open
// file, avoiding a full read of large snapshots into the Go heap.
type mmapSource struct {
	data []byte
}

// OpenFile memory-maps path read-only and returns a Source over its
// contents. The caller must Close the returned Source when done.
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat snapshot file: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("snapshot file %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap snapshot file: %w", err)
	}

	return &mmapSource{data: data}, nil
}

func (m *mmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, fmt.Errorf("read offset %d out of range", off)
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("short read at offset %d: wanted %d, got %d", off, len(p), n)
	}
	return n, nil
}

func (m *mmapSource) Len() int { return len(m.data) }

func (m *mmapSource) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
