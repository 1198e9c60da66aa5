package collector

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// ArchiveWriter serializes File writes into one gzip'd tar stream. Its
// WriteFile method is safe for concurrent use: each write locks the
// writer for the duration of one file, so a future parallel collector
// can hand files to it from multiple goroutines without corrupting the
// tar stream.
type ArchiveWriter struct {
	mu sync.Mutex
	gz *gzip.Writer
	tw *tar.Writer
}

// NewArchiveWriter wraps w in a gzip.Writer at the given compression
// level (0-9) feeding a tar.Writer.
func NewArchiveWriter(w io.Writer, level int) (*ArchiveWriter, error) {
	gz, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}
	return &ArchiveWriter{gz: gz, tw: tar.NewWriter(gz)}, nil
}

// archiveModTime is fixed rather than time.Now() so repeated runs over the same
// input produce byte-identical archives.
var archiveModTime = time.Unix(0, 0)

// WriteFile marshals f to JSON and appends it to the archive as
// "<f.Name>.json", holding the writer's lock for the duration.
func (a *ArchiveWriter) WriteFile(f File) error {
	body, err := json.Marshal(struct {
		Meta Meta  `json:"meta"`
		Data []any `json:"data"`
	}{Meta: f.Meta, Data: f.Data})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", f.Name, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	header := &tar.Header{
		Name:    f.Name + ".json",
		Mode:    0o644,
		Size:    int64(len(body)),
		ModTime: archiveModTime,
	}
	if err := a.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write tar header %s: %w", f.Name, err)
	}
	if _, err := a.tw.Write(body); err != nil {
		return fmt.Errorf("write tar body %s: %w", f.Name, err)
	}
	return nil
}

// Close flushes and closes the tar and gzip layers, in that order.
func (a *ArchiveWriter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.tw.Close(); err != nil {
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := a.gz.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}
	return nil
}

// Write emits every file in order, in a fixed sequence, then closes the
// archive.
func Write(w io.Writer, level int, files []File) error {
	archive, err := NewArchiveWriter(w, level)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := archive.WriteFile(f); err != nil {
			_ = archive.Close()
			return err
		}
	}
	return archive.Close()
}
