package runtime

import "github.com/aretw0/stagepath/pkg/domain"

// BuildDependencyAdjacency derives the base adjacency from the picklist's
// field-dependency data.
//
// Precondition: the picklist is its own controlling field. Controlling and
// dependent values are the same list in the same order, so a ValidFor entry
// c on the value at index d means "from stage c, stage d may be selected".
// ValidFor indices outside the catalog are ignored.
//
// A stage that no value lists as valid keeps an empty (unrestricted) entry.
func BuildDependencyAdjacency(cat *domain.Catalog, values []domain.PicklistValue) domain.AdjacencySet {
	adj := domain.NewAdjacencySet(cat.Size())
	for d, v := range values {
		if !cat.Contains(d) {
			break
		}
		for _, c := range v.ValidFor {
			if !cat.Contains(c) {
				continue
			}
			adj[c].Add(d)
		}
	}
	return adj
}
