package domain

// Definition is a named picklist payload together with its navigation rule.
// It is the unit that stores and loaders persist and that the engine compiles.
//
// The picklist must declare itself as its own controlling field: controlling
// and dependent values are identical and in the same order, so a ValidFor
// index names a stage of the same list.
type Definition struct {
	Name           string          `json:"name" yaml:"name" mapstructure:"name"`
	Description    string          `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Values         []PicklistValue `json:"values" yaml:"values" mapstructure:"values"`
	NavigationRule string          `json:"navigation_rule,omitempty" yaml:"navigation_rule,omitempty" mapstructure:"navigation_rule"`
}

// Path is a compiled Definition.
// Every Compile returns fresh maps. Callers must not modify Catalog or
// Adjacency of a Path they share; concurrent readers are then safe.
// Use Adjacency.Clone to derive a modified copy.
type Path struct {
	Name      string
	Catalog   *Catalog
	Adjacency AdjacencySet
	Rule      ParsedRule
}

// CurrentIndex resolves the current stage value.
// An empty value resolves to the first stage, as a record without a stage sits at the start of the path.
func (p *Path) CurrentIndex(value string) (int, error) {
	if value == "" && p.Catalog.Size() > 0 {
		return 0, nil
	}
	return p.Catalog.IndexOf(value)
}

// AllowedStages returns the stages reachable from idx, excluding idx itself.
// Nil means the stage is unrestricted.
func (p *Path) AllowedStages(idx int) []Stage {
	allowed := p.Adjacency.Allowed(idx)
	if allowed == nil {
		return nil
	}
	out := make([]Stage, 0, len(allowed))
	for _, i := range allowed {
		if i == idx {
			continue
		}
		if s, ok := p.Catalog.Stage(i); ok {
			out = append(out, s)
		}
	}
	return out
}
