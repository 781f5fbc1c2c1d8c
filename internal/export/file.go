package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileDestination writes JSONL data to a local file. Writes go through a
// temp file in the same directory followed by a rename, so readers never
// observe a partial snapshot.
type FileDestination struct {
	path string
}

// NewFileDestination creates a file destination writing to path. The parent
// directory is created if it does not exist.
func NewFileDestination(path string) (*FileDestination, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileDestination{path: path}, nil
}

// Write replaces the file contents with data.
func (d *FileDestination) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".weft-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename export file: %w", err)
	}
	return nil
}

func (d *FileDestination) String() string {
	return d.path
}
