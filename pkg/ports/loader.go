package ports

import (
	"context"

	"github.com/aretw0/stagepath/pkg/domain"
)

// DefinitionLoader defines how the engine retrieves path definitions.
// This allows the storage layer (Loam, HCL files, Memory, Redis, SQLite) to be decoupled.
type DefinitionLoader interface {
	// Load retrieves a definition by name.
	// Returns domain.ErrDefinitionNotFound if it does not exist.
	Load(ctx context.Context, name string) (domain.Definition, error)

	// List returns the names of all available definitions, sorted.
	List(ctx context.Context) ([]string, error)
}
