package ports

import (
	"context"

	"github.com/aretw0/stagepath/pkg/domain"
)

// DefinitionStore persists path definitions keyed by their name.
type DefinitionStore interface {
	DefinitionLoader

	// Save creates or replaces the definition stored under def.Name.
	Save(ctx context.Context, def domain.Definition) error

	// Delete removes a definition. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}
