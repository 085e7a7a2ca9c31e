package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
)

type stageEntry struct {
	label string
	value string
	after []string
}

// PathBuilder provides a fluent API for configuring one path.
// Stage order is declaration order.
type PathBuilder struct {
	name        string
	description string
	entries     []*stageEntry
	stages      map[string]*stageEntry
	current     *stageEntry
	clauses     domain.ParsedRule
	rawRule     string
	builder     *Builder
}

// Describe sets the description.
func (p *PathBuilder) Describe(text string) *PathBuilder {
	p.description = text
	return p
}

// Stage appends a stage, or selects it if the value was already declared.
// Subsequent After calls apply to this stage.
func (p *PathBuilder) Stage(value, label string) *PathBuilder {
	entry, ok := p.stages[value]
	if !ok {
		entry = &stageEntry{value: value}
		p.stages[value] = entry
		p.entries = append(p.entries, entry)
	}
	if label != "" {
		entry.label = label
	}
	p.current = entry
	return p
}

// After declares the controlling stages for which the current stage is valid,
// i.e. the stages from which it can be reached. Values resolve to indices at build time.
func (p *PathBuilder) After(values ...string) *PathBuilder {
	if p.current != nil {
		p.current.after = append(p.current.after, values...)
	}
	return p
}

// Allow adds a "from={to...}" clause.
func (p *PathBuilder) Allow(from string, to ...string) *PathBuilder {
	p.clauses = append(p.clauses, domain.RuleClause{FromValue: from, ToValues: to})
	return p
}

// Deny adds a "from=!{to...}" clause.
func (p *PathBuilder) Deny(from string, to ...string) *PathBuilder {
	p.clauses = append(p.clauses, domain.RuleClause{FromValue: from, Negated: true, ToValues: to})
	return p
}

// Rule sets raw navigation rule text. Allow and Deny clauses are appended after it.
func (p *PathBuilder) Rule(text string) *PathBuilder {
	p.rawRule = text
	return p
}

// Path switches to another path of the same builder.
func (p *PathBuilder) Path(name string) *PathBuilder {
	return p.builder.Path(name)
}

// Definition resolves the path into a domain.Definition.
// It fails when After names a stage that was never declared.
func (p *PathBuilder) Definition() (domain.Definition, error) {
	index := make(map[string]int, len(p.entries))
	for i, e := range p.entries {
		index[e.value] = i
	}

	values := make([]domain.PicklistValue, len(p.entries))
	for i, e := range p.entries {
		values[i] = domain.PicklistValue{Label: e.label, Value: e.value}
		for _, dep := range e.after {
			idx, ok := index[dep]
			if !ok {
				return domain.Definition{}, fmt.Errorf("path %s: stage %s: unknown stage %q in After", p.name, e.value, dep)
			}
			values[i].ValidFor = append(values[i].ValidFor, idx)
		}
	}

	return domain.Definition{
		Name:           p.name,
		Description:    p.description,
		Values:         values,
		NavigationRule: p.rule(),
	}, nil
}

func (p *PathBuilder) rule() string {
	parts := make([]string, 0, 2)
	if raw := strings.TrimSpace(p.rawRule); raw != "" {
		parts = append(parts, raw)
	}
	if len(p.clauses) > 0 {
		parts = append(parts, p.clauses.String())
	}
	return strings.Join(parts, ", ")
}
