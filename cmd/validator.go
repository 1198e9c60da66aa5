package cmd

import (
	"fmt"
	"strconv"
)

// ValidateCompression validates that a gzip compression level is within
// the valid range (0-9).
func ValidateCompression(level int) error {
	if level < MinCompression || level > MaxCompression {
		return fmt.Errorf("compression level must be between %d and %d", MinCompression, MaxCompression)
	}
	return nil
}

// ValidateCompressionString validates a compression level provided as a
// string.
func ValidateCompressionString(s string) error {
	level, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("compression level must be a number")
	}
	return ValidateCompression(level)
}
