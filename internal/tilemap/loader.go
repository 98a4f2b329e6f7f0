package tilemap

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed maps/*.yaml
var builtinFS embed.FS

// Builtin returns the maps shipped with the game, sorted by ID.
func Builtin() ([]*Map, error) {
	return loadFS(builtinFS, "maps")
}

// Loader handles loading maps from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new map loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all map files.
// Invalid files are skipped. Returns maps sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]*Map, error) {
	maps, err := loadFS(os.DirFS(l.Root), ".")
	if err != nil {
		return nil, fmt.Errorf("tilemap: walking directory %s: %w", l.Root, err)
	}
	for _, m := range maps {
		m.FilePath = filepath.Join(l.Root, m.FilePath)
	}
	return maps, nil
}

// LoadFile loads a single map file.
func (l *Loader) LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: reading file %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	m.FilePath = path
	return m, nil
}

func loadFS(fsys fs.FS, root string) ([]*Map, error) {
	var maps []*Map

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		m, err := Parse(data)
		if err != nil {
			// Skip invalid files
			return nil
		}
		m.FilePath = path
		maps = append(maps, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by ID for determinism
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].ID < maps[j].ID
	})
	return maps, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".yaml" || ext == ".yml"
}
