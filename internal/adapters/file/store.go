// Package file provides a filesystem-backed ports.ScenarioStore storing
// scenario documents as YAML files in a configured directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/sluice/pkg/domain"
)

const extension = ".yaml"

// Store persists scenario documents under BasePath.
type Store struct {
	BasePath string
}

// NewStore creates a store rooted at basePath, defaulting to
// ".sluice/scenarios".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".sluice", "scenarios")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+extension)
}

// Save writes the document to disk, creating the directory if needed.
func (s *Store) Save(ctx context.Context, name string, doc []byte) error {
	if name == "" {
		return fmt.Errorf("scenario name cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("ensure scenario directory: %w", err)
	}
	if err := os.WriteFile(s.path(name), doc, 0o644); err != nil {
		return fmt.Errorf("write scenario file: %w", err)
	}
	return nil
}

// Load reads the named document from disk.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("scenario name cannot be empty")
	}
	doc, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return doc, nil
}

// Delete removes the named document; deleting a missing document is not
// an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete scenario file: %w", err)
	}
	return nil
}

// List returns the stored names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list scenario directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), extension))
	}
	sort.Strings(names)
	return names, nil
}
