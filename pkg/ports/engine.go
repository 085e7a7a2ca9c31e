package ports

import (
	"context"

	"github.com/aretw0/stagepath/pkg/domain"
)

// PathEngine is the interface adapters (HTTP, MCP) use to compile and query paths.
type PathEngine interface {
	// Compile builds the catalog and adjacency of a definition.
	Compile(ctx context.Context, def domain.Definition) (*domain.Path, error)

	// Check evaluates moving from current to selected on a compiled path.
	Check(ctx context.Context, path *domain.Path, current, selected string) (domain.Decision, error)
}
