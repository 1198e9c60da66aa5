//go:build !linux && !darwin

package source

import (
	"fmt"
	"os"
)

// OpenFile reads path fully into memory and returns a Source over it.
// Platforms without the unix mmap syscalls fall back to a buffered read.
func OpenFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("snapshot file %s is empty", path)
	}
	return NewBuffer(data), nil
}
