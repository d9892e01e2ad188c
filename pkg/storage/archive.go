package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExportArchive keeps a copy of every rendered roster export on disk so past
// exports can be audited after they were served.
type ExportArchive struct {
	baseDir string
}

// NewExportArchive ensures the archive directory exists and returns a handle.
func NewExportArchive(baseDir string) (*ExportArchive, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("archive directory required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &ExportArchive{baseDir: baseDir}, nil
}

// Save writes the rendered document under the archive directory. The filename
// is flattened so a crafted name cannot escape the base directory.
func (a *ExportArchive) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(a.baseDir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archived export: %w", err)
	}
	return path, nil
}

// List returns the filenames currently held in the archive.
func (a *ExportArchive) List() ([]string, error) {
	entries, err := os.ReadDir(a.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read archive directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
