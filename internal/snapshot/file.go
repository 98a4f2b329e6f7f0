package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores one <id>.json file per actor in a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed and returns a backend for it.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create save dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the save directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Read implements Backend.
func (b *FileBackend) Read(id string) ([]byte, error) {
	path, err := b.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", id, err)
	}
	return data, nil
}

// Write implements Backend. Each file is written to a temp file and renamed
// so a crash never leaves a truncated record.
func (b *FileBackend) Write(records map[string][]byte) error {
	for id, data := range records {
		path, err := b.path(id)
		if err != nil {
			return err
		}
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("snapshot: write %s: %w", id, err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("snapshot: rename %s: %w", id, err)
		}
	}
	return nil
}

// IDs lists the ids of every record in the directory, sorted.
func (b *FileBackend) IDs() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list %s: %w", b.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (b *FileBackend) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("snapshot: invalid id %q", id)
	}
	return filepath.Join(b.dir, id+".json"), nil
}
