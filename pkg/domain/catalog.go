package domain

// Catalog is an immutable ordered list of stages.
// A stage's Index always equals its position; value lookups are O(1).
type Catalog struct {
	stages []Stage
	byVal  map[string]int
}

// NewCatalog builds a catalog from the picklist values in declaration order.
// It fails with *DuplicateValueError when two entries share a value.
func NewCatalog(values []PicklistValue) (*Catalog, error) {
	c := &Catalog{
		stages: make([]Stage, 0, len(values)),
		byVal:  make(map[string]int, len(values)),
	}
	for i, v := range values {
		if first, ok := c.byVal[v.Value]; ok {
			return nil, &DuplicateValueError{Value: v.Value, First: first, Second: i}
		}
		label := v.Label
		if label == "" {
			label = v.Value
		}
		c.byVal[v.Value] = i
		c.stages = append(c.stages, Stage{Index: i, Label: label, Value: v.Value})
	}
	return c, nil
}

// Size returns the number of stages.
func (c *Catalog) Size() int {
	return len(c.stages)
}

// Contains reports whether idx is a valid stage index.
func (c *Catalog) Contains(idx int) bool {
	return idx >= 0 && idx < len(c.stages)
}

// Stage returns the stage at idx.
func (c *Catalog) Stage(idx int) (Stage, bool) {
	if !c.Contains(idx) {
		return Stage{}, false
	}
	return c.stages[idx], true
}

// Stages returns a copy of the stages in order.
func (c *Catalog) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	copy(out, c.stages)
	return out
}

// Values returns the stage values in order.
func (c *Catalog) Values() []string {
	out := make([]string, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.Value
	}
	return out
}

// IndexOf resolves a stage value to its index.
func (c *Catalog) IndexOf(value string) (int, error) {
	idx, ok := c.byVal[value]
	if !ok {
		return -1, &UnknownValueError{Value: value, Known: c.Values()}
	}
	return idx, nil
}
