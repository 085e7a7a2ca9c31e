package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/stagepath/pkg/domain"
)

// Store implements ports.DefinitionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Definition
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Definition),
	}
}

// NewFromDefinitions creates a store pre-populated with definitions.
func NewFromDefinitions(defs ...domain.Definition) (*Store, error) {
	s := NewStore()
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("definition missing name")
		}
		if _, exists := s.data[def.Name]; exists {
			return nil, fmt.Errorf("duplicate definition %q", def.Name)
		}
		s.data[def.Name] = clone(def)
	}
	return s, nil
}

// Save persists the definition in memory.
func (s *Store) Save(ctx context.Context, def domain.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("definition missing name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[def.Name] = clone(def)
	return nil
}

// Load retrieves the definition from memory.
func (s *Store) Load(ctx context.Context, name string) (domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.data[name]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
	}
	// Copy on read so callers can't mutate the stored definition through shared slices.
	return clone(def), nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored definition names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func clone(def domain.Definition) domain.Definition {
	out := def
	if def.Values != nil {
		out.Values = make([]domain.PicklistValue, len(def.Values))
		for i, v := range def.Values {
			v.ValidFor = slices.Clone(v.ValidFor)
			out.Values[i] = v
		}
	}
	return out
}
