// Package file is a document medium backed by one file on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// NewMedium creates a medium reading and writing the document at path.
func NewMedium(path string) (*Medium, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty document path")
	}
	return &Medium{path: path}, nil
}

// Medium is a file medium.
type Medium struct {
	path string
}

// Path returns the document path.
func (m *Medium) Path() string {
	return m.path
}

func (m *Medium) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrNoDocument, m.path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading document %s: %w", m.path, err)
	}
	return doc, nil
}

// Write replaces the document: it writes a temporary sibling file and renames
// it over the document.
func (m *Medium) Write(ctx context.Context, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating document directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary document: %w", err)
	}
	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error writing temporary document %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error closing temporary document %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error renaming temporary document over %s: %w", m.path, err)
	}
	return nil
}
