// Package file stores path definitions as YAML files in a local directory.
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

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/schema"
)

// Extension is the suffix of every definition file.
const Extension = ".yaml"

// Store implements ports.DefinitionStore on the local filesystem.
// Each definition lives in <BasePath>/<name>.yaml.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".stagepath/definitions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".stagepath", "definitions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("definition name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid definition name %q", name)
	}
	return filepath.Join(s.BasePath, name+Extension), nil
}

// Save writes the definition atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, def domain.Definition) error {
	destPath, err := s.path(def.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure definitions directory: %w", err)
	}

	data, err := schema.MarshalDefinition(def)
	if err != nil {
		return err
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+def.Name+"-*"+Extension+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows rename fails when the destination exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing definition file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", destPath, err)
	}
	return nil
}

// Load reads and decodes <name>.yaml.
func (s *Store) Load(ctx context.Context, name string) (domain.Definition, error) {
	filePath, err := s.path(name)
	if err != nil {
		return domain.Definition{}, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
		}
		return domain.Definition{}, fmt.Errorf("failed to read definition file: %w", err)
	}

	def, err := schema.ParseDefinition(data)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("%s: %w", filePath, err)
	}
	// The file name is authoritative.
	def.Name = name
	return def, nil
}

// Delete removes the definition file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete definition file: %w", err)
	}
	return nil
}

// List returns the stored names, sorted. A missing directory is empty.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != Extension || strings.HasPrefix(name, "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, Extension))
	}
	sort.Strings(names)
	return names, nil
}
