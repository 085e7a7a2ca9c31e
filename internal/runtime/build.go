package runtime

import (
	"github.com/aretw0/stagepath/internal/compiler"
	"github.com/aretw0/stagepath/pkg/domain"
)

// BuildCatalogAndAdjacency compiles a picklist payload and an optional rule into
// a catalog and its final adjacency. Every call starts from scratch.
func BuildCatalogAndAdjacency(values []domain.PicklistValue, navigationRule string) (*domain.Catalog, domain.AdjacencySet, error) {
	path, err := compile(compiler.NewParser(), domain.Definition{Values: values, NavigationRule: navigationRule})
	if err != nil {
		return nil, nil, err
	}
	return path.Catalog, path.Adjacency, nil
}

func compile(parser *compiler.Parser, def domain.Definition) (*domain.Path, error) {
	cat, err := domain.NewCatalog(def.Values)
	if err != nil {
		return nil, err
	}

	base := BuildDependencyAdjacency(cat, def.Values)

	rule, err := parser.Parse(def.NavigationRule)
	if err != nil {
		return nil, err
	}

	adj, err := MergeRule(cat, base, rule, def.NavigationRule)
	if err != nil {
		return nil, err
	}

	return &domain.Path{
		Name:      def.Name,
		Catalog:   cat,
		Adjacency: adj,
		Rule:      rule,
	}, nil
}
