package dsl

import (
	"fmt"

	"github.com/aretw0/stagepath/pkg/adapters/memory"
	"github.com/aretw0/stagepath/pkg/domain"
)

// Builder collects path definitions.
type Builder struct {
	paths map[string]*PathBuilder
	order []string
}

// New creates a new definition builder.
func New() *Builder {
	return &Builder{
		paths: make(map[string]*PathBuilder),
	}
}

// Path starts a new path definition.
// If the path already exists, it returns the existing builder.
func (b *Builder) Path(name string) *PathBuilder {
	if pb, ok := b.paths[name]; ok {
		return pb
	}
	pb := &PathBuilder{
		name:    name,
		stages:  make(map[string]*stageEntry),
		builder: b,
	}
	b.paths[name] = pb
	b.order = append(b.order, name)
	return pb
}

// Definitions resolves every path, in declaration order.
func (b *Builder) Definitions() ([]domain.Definition, error) {
	defs := make([]domain.Definition, 0, len(b.order))
	for _, name := range b.order {
		def, err := b.paths[name].Definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Build compiles the definitions into an in-memory store.
func (b *Builder) Build() (*memory.Store, error) {
	defs, err := b.Definitions()
	if err != nil {
		return nil, err
	}

	store, err := memory.NewFromDefinitions(defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory store: %w", err)
	}
	return store, nil
}
