package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/ports"
	"github.com/aretw0/stagepath/pkg/schema"
)

// Report is the result of crawling a compiled path from its entry stage.
type Report struct {
	Path        string         `json:"path"`
	Entry       domain.Stage   `json:"entry"`
	Reachable   []domain.Stage `json:"reachable"`
	Unreachable []domain.Stage `json:"unreachable,omitempty"`
	// DeadEnds are restricted stages that allow no move other than staying put.
	DeadEnds []domain.Stage `json:"dead_ends,omitempty"`
}

// OK reports whether every stage is reachable and none is a dead end.
func (r *Report) OK() bool {
	return len(r.Unreachable) == 0 && len(r.DeadEnds) == 0
}

// Err summarizes the findings, or returns nil when the report is OK.
func (r *Report) Err() error {
	var errors []string
	for _, s := range r.Unreachable {
		errors = append(errors, fmt.Sprintf("Unreachable stage: '%s' from '%s'", s.Value, r.Entry.Value))
	}
	for _, s := range r.DeadEnds {
		errors = append(errors, fmt.Sprintf("Dead end: '%s' allows no transition", s.Value))
	}
	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// Analyze crawls the adjacency from entry. An empty entry means the first stage.
// An unrestricted stage reaches every other stage.
func Analyze(p *domain.Path, entry string) (*Report, error) {
	start, err := p.CurrentIndex(entry)
	if err != nil {
		return nil, fmt.Errorf("entry stage: %w", err)
	}
	startStage, _ := p.Catalog.Stage(start)
	report := &Report{Path: p.Name, Entry: startStage}

	size := p.Catalog.Size()
	visited := make([]bool, size)
	queue := []int{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		if !p.Adjacency.Restricted(current) {
			for i := 0; i < size; i++ {
				if !visited[i] {
					queue = append(queue, i)
				}
			}
			continue
		}
		for _, next := range p.Adjacency.Allowed(current) {
			if next >= 0 && next < size && !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	for _, s := range p.Catalog.Stages() {
		if visited[s.Index] {
			report.Reachable = append(report.Reachable, s)
		} else {
			report.Unreachable = append(report.Unreachable, s)
		}
		if p.Adjacency.Restricted(s.Index) && len(p.AllowedStages(s.Index)) == 0 {
			report.DeadEnds = append(report.DeadEnds, s)
		}
	}
	return report, nil
}

// ValidateDefinition loads a definition, checks its shape, compiles it and crawls it.
// Shape and compile failures are returned as errors; graph findings are in the report.
func ValidateDefinition(ctx context.Context, loader ports.DefinitionLoader, engine ports.PathEngine, name, entry string) (*Report, error) {
	def, err := loader.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("definition '%s' not found: %w", name, err)
	}
	if err := schema.ValidateDefinition(def); err != nil {
		return nil, err
	}
	p, err := engine.Compile(ctx, def)
	if err != nil {
		return nil, err
	}
	return Analyze(p, entry)
}
