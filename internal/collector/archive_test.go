package collector

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"testing"
)

func TestWriteProducesReadableArchive(t *testing.T) {
	files := []File{
		{Name: "users", Meta: Meta{Type: "users", Count: 1, Version: bloodhoundSchemaVersion},
			Data: []any{map[string]any{"name": "ALICE"}}},
		{Name: "groups", Meta: Meta{Type: "groups", Count: 0, Version: bloodhoundSchemaVersion}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, 6, files); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gz, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar.Next: %v", err)
		}
		names = append(names, hdr.Name)

		if hdr.Name == "users.json" {
			body, err := io.ReadAll(tr)
			if err != nil {
				t.Fatalf("read users.json: %v", err)
			}
			var decoded struct {
				Meta Meta             `json:"meta"`
				Data []map[string]any `json:"data"`
			}
			if err := json.Unmarshal(body, &decoded); err != nil {
				t.Fatalf("unmarshal users.json: %v", err)
			}
			if decoded.Meta.Count != 1 || decoded.Data[0]["name"] != "ALICE" {
				t.Errorf("decoded users.json = %+v", decoded)
			}
		}
	}

	if len(names) != 2 || names[0] != "users.json" || names[1] != "groups.json" {
		t.Errorf("archive entries = %v, want [users.json groups.json] in order", names)
	}
}

func TestArchiveWriterIsSafeForConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	a, err := NewArchiveWriter(&buf, 1)
	if err != nil {
		t.Fatalf("NewArchiveWriter: %v", err)
	}

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			done <- a.WriteFile(File{Name: "part", Meta: Meta{Count: i}})
		}()
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
