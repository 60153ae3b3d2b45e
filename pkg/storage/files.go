// Package storage provides the filesystem-backed reader and writer the
// pipeline's collaborator contracts expect.
package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

// OSReader reads files relative to a base directory, or from the process
// working directory when Base is empty.
type OSReader struct {
	Base string
}

var _ interfaces.FileReader = OSReader{}

// Read returns the file contents as text.
func (r OSReader) Read(path string) (string, error) {
	data, err := os.ReadFile(r.resolve(path))
	if err != nil {
		return "", fmt.Errorf("storage: read %s: %w", path, err)
	}
	return string(data), nil
}

func (r OSReader) resolve(path string) string {
	if r.Base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.Base, path)
}

// OSWriter writes artifacts relative to a base directory, creating parent
// directories as needed.
type OSWriter struct {
	Base string
	// Perm is the file mode for created artifacts; zero means 0644.
	Perm os.FileMode
}

var _ interfaces.FileWriter = OSWriter{}

// Write stores content at the given path.
func (w OSWriter) Write(path, content string) error {
	target := w.resolve(path)
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: create %s: %w", dir, err)
		}
	}

	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(target, []byte(content), perm); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return nil
}

func (w OSWriter) resolve(path string) string {
	if w.Base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(w.Base, path)
}

// FSReader adapts a read-only fs.FS, typically an embedded or test
// filesystem, to the FileReader contract.
type FSReader struct {
	FS fs.FS
}

var _ interfaces.FileReader = FSReader{}

// Read returns the file contents as text.
func (r FSReader) Read(path string) (string, error) {
	data, err := fs.ReadFile(r.FS, path)
	if err != nil {
		return "", fmt.Errorf("storage: read %s: %w", path, err)
	}
	return string(data), nil
}
