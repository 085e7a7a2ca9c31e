package runtime

import "github.com/aretw0/stagepath/pkg/domain"

// IsBlocked reports whether moving from current to candidate is disallowed.
// Re-selecting the current stage is always blocked. An unrestricted entry permits any other stage.
func IsBlocked(current, candidate int, adj domain.AdjacencySet) bool {
	if current == candidate {
		return true
	}
	allowed := adj[current]
	return len(allowed) > 0 && !allowed.Has(candidate)
}

// Evaluate is IsBlocked with the stages and a reason attached.
func Evaluate(path *domain.Path, current, candidate int) domain.Decision {
	from, _ := path.Catalog.Stage(current)
	to, _ := path.Catalog.Stage(candidate)
	d := domain.Decision{From: from, To: to}

	switch {
	case current == candidate:
		d.Blocked, d.Reason = true, domain.ReasonSameStage
	case !path.Adjacency.Restricted(current):
		d.Reason = domain.ReasonUnrestricted
	case path.Adjacency[current].Has(candidate):
		d.Reason = domain.ReasonAllowed
	default:
		d.Blocked, d.Reason = true, domain.ReasonNotAllowed
	}
	return d
}
