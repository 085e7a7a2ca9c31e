// Package loam loads path definitions from a directory of markdown, JSON or YAML documents.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/schema"
)

// Loader adapts a Loam repository to ports.DefinitionLoader.
type Loader struct {
	Repo *loam.TypedRepository[DefinitionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DefinitionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve definitions dir: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open definitions dir %s: %w", dir, err)
	}
	return New(loam.NewTypedRepository[DefinitionMetadata](repo)), nil
}

// Load returns the definition whose normalized ID is name.
func (l *Loader) Load(ctx context.Context, name string) (domain.Definition, error) {
	index, err := l.index(ctx)
	if err != nil {
		return domain.Definition{}, err
	}
	docID, ok := index[name]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	return toDefinition(name, doc.Data, doc.Content)
}

// List returns the normalized IDs of all definitions, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// index maps normalized IDs to Loam document IDs.
func (l *Loader) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		// Use the name from metadata if available, otherwise filename ID
		rawID := doc.Data.Name
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: definition '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
	}
	return seen, nil
}

func toDefinition(name string, meta DefinitionMetadata, content string) (domain.Definition, error) {
	def := domain.Definition{
		Name:           name,
		Description:    meta.Description,
		Values:         meta.Values,
		NavigationRule: meta.NavigationRule,
	}
	if def.Description == "" {
		def.Description = strings.TrimSpace(content)
	}

	if len(def.Values) == 0 && len(meta.Picklist) > 0 {
		payload, err := schema.DecodePicklist(meta.Picklist)
		if err != nil {
			return domain.Definition{}, fmt.Errorf("definition %s: %w", name, err)
		}
		if err := payload.ValidateSelfDependency(); err != nil {
			return domain.Definition{}, fmt.Errorf("definition %s: %w", name, err)
		}
		def.Values = payload.PicklistValues()
	}
	return def, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
