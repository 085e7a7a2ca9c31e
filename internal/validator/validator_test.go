package validator

import (
	"context"
	"testing"

	"github.com/aretw0/stagepath/internal/runtime"
	"github.com/aretw0/stagepath/pkg/adapters/memory"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(stages []domain.Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Value
	}
	return out
}

func compile(t *testing.T, def domain.Definition) *domain.Path {
	t.Helper()
	p, err := runtime.NewEngine().Compile(context.Background(), def)
	require.NoError(t, err)
	return p
}

func TestAnalyze_AllReachable(t *testing.T) {
	// new -> active -> closed, closed unrestricted
	p := compile(t, domain.Definition{
		Name: "opportunity",
		Values: []domain.PicklistValue{
			{Value: "new"},
			{Value: "active", ValidFor: []int{0}},
			{Value: "closed", ValidFor: []int{1}},
		},
	})

	report, err := Analyze(p, "")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Equal(t, "new", report.Entry.Value)
	assert.Equal(t, []string{"new", "active", "closed"}, values(report.Reachable))
}

func TestAnalyze_Unreachable(t *testing.T) {
	// a -> b only; b -> a only; c never targeted
	p := compile(t, domain.Definition{
		Name:           "island",
		Values:         []domain.PicklistValue{{Value: "a"}, {Value: "b"}, {Value: "c"}},
		NavigationRule: "a={b}, b={a}",
	})

	report, err := Analyze(p, "a")
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"c"}, values(report.Unreachable))

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unreachable stage: 'c' from 'a'")
}

func TestAnalyze_UnrestrictedEntryReachesAll(t *testing.T) {
	p := compile(t, domain.Definition{
		Name:           "hub",
		Values:         []domain.PicklistValue{{Value: "a"}, {Value: "b"}, {Value: "c"}},
		NavigationRule: "b={a}, c={a}",
	})

	report, err := Analyze(p, "a")
	require.NoError(t, err)
	assert.Empty(t, report.Unreachable)
	assert.Len(t, report.Reachable, 3)
}

func TestAnalyze_DeadEnd(t *testing.T) {
	// Pruning everything out of b leaves only b itself.
	p := compile(t, domain.Definition{
		Name: "stuck",
		Values: []domain.PicklistValue{
			{Value: "a"},
			{Value: "b", ValidFor: []int{0}},
			{Value: "c", ValidFor: []int{1}},
		},
		NavigationRule: "b=!{c}",
	})

	report, err := Analyze(p, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, values(report.DeadEnds))
	assert.Equal(t, []string{"c"}, values(report.Unreachable))
	assert.Contains(t, report.Err().Error(), "found 2 errors")
}

func TestAnalyze_UnknownEntry(t *testing.T) {
	p := compile(t, domain.Definition{Name: "x", Values: []domain.PicklistValue{{Value: "a"}}})

	_, err := Analyze(p, "ghost")
	var unknown *domain.UnknownValueError
	assert.ErrorAs(t, err, &unknown)
}

func TestValidateDefinition(t *testing.T) {
	store, err := memory.NewFromDefinitions(
		domain.Definition{Name: "good", Values: []domain.PicklistValue{{Value: "a"}, {Value: "b"}}},
		domain.Definition{Name: "bad-shape", Values: []domain.PicklistValue{{Value: "a"}, {Value: "a"}}},
		domain.Definition{Name: "bad-rule", Values: []domain.PicklistValue{{Value: "a"}}, NavigationRule: "a={zzz}"},
	)
	require.NoError(t, err)
	engine := runtime.NewEngine()
	ctx := context.Background()

	report, err := ValidateDefinition(ctx, store, engine, "good", "")
	require.NoError(t, err)
	assert.True(t, report.OK())

	_, err = ValidateDefinition(ctx, store, engine, "bad-shape", "")
	assert.NotEmpty(t, schema.ValidationErrors(err))

	_, err = ValidateDefinition(ctx, store, engine, "bad-rule", "")
	var unknown *domain.UnknownValueError
	assert.ErrorAs(t, err, &unknown)

	_, err = ValidateDefinition(ctx, store, engine, "missing", "")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}
