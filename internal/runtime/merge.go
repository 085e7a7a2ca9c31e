package runtime

import "github.com/aretw0/stagepath/pkg/domain"

// MergeRule applies the parsed navigation rule on top of base and returns a new adjacency.
// base is never modified, so a failing rule leaves no partial result behind.
//
// For each clause, in order:
//   - an empty (unrestricted) entry is filled with the clause targets: the
//     listed stages for a positive clause, every other stage for a negated
//     one, plus the source stage itself;
//   - a non-empty entry only loses the stages a negated clause excludes. A
//     positive clause does not widen it.
//
// A restricted entry is never pruned back to the unrestricted sentinel; the
// source stage is kept when nothing else remains.
func MergeRule(cat *domain.Catalog, base domain.AdjacencySet, rule domain.ParsedRule, ruleText string) (domain.AdjacencySet, error) {
	adj := base.Clone()

	for _, clause := range rule {
		from, err := resolve(cat, clause.FromValue, ruleText)
		if err != nil {
			return nil, err
		}
		to := make([]int, 0, len(clause.ToValues))
		for _, v := range clause.ToValues {
			idx, err := resolve(cat, v, ruleText)
			if err != nil {
				return nil, err
			}
			to = append(to, idx)
		}

		var add []int
		var remove []int
		if clause.Negated {
			excluded := domain.NewIndexSet(to...)
			for i := 0; i < cat.Size(); i++ {
				if !excluded.Has(i) {
					add = append(add, i)
				}
			}
			add = append(add, from)
			remove = to
		} else {
			add = append(to, from)
		}

		current := adj[from]
		if current == nil {
			current = domain.IndexSet{}
			adj[from] = current
		}

		if len(current) == 0 {
			for _, i := range add {
				current.Add(i)
			}
			continue
		}

		for _, i := range remove {
			current.Remove(i)
		}
		if len(current) == 0 {
			current.Add(from)
		}
	}

	return adj, nil
}

func resolve(cat *domain.Catalog, value, ruleText string) (int, error) {
	idx, err := cat.IndexOf(value)
	if err != nil {
		return -1, &domain.UnknownValueError{Value: value, Known: cat.Values(), Rule: ruleText}
	}
	return idx, nil
}
