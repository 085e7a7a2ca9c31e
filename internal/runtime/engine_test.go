package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/stagepath/internal/compiler"
	"github.com/aretw0/stagepath/internal/runtime"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opportunity() domain.Definition {
	return domain.Definition{
		Name: "opportunity",
		Values: []domain.PicklistValue{
			{Label: "New", Value: "new"},
			{Label: "Active", Value: "active"},
			{Label: "Closed", Value: "closed"},
		},
		NavigationRule: "new={active}",
	}
}

func TestEngine_CompileAndCheck(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()

	path, err := engine.Compile(ctx, opportunity())
	require.NoError(t, err)
	assert.Equal(t, "opportunity", path.Name)
	assert.Len(t, path.Rule, 1)

	d, err := engine.Check(ctx, path, "new", "active")
	require.NoError(t, err)
	assert.False(t, d.Blocked)
	assert.Equal(t, "Active Completed", d.Message())

	d, err = engine.Check(ctx, path, "new", "closed")
	require.NoError(t, err)
	assert.True(t, d.Blocked)
	assert.Equal(t, domain.ReasonNotAllowed, d.Reason)

	// Empty current value sits on the first stage.
	d, err = engine.Check(ctx, path, "", "closed")
	require.NoError(t, err)
	assert.Equal(t, "new", d.From.Value)
	assert.True(t, d.Blocked)

	_, err = engine.Check(ctx, path, "new", "archived")
	var unknown *domain.UnknownValueError
	assert.ErrorAs(t, err, &unknown)
}

func TestEngine_CompileReturnsFreshAdjacency(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()

	first, err := engine.Compile(ctx, opportunity())
	require.NoError(t, err)
	second, err := engine.Compile(ctx, opportunity())
	require.NoError(t, err)

	copied := first.Adjacency.Clone()
	copied[0].Add(2)
	first.Adjacency[1].Add(0)

	assert.Equal(t, []int{0, 1}, second.Adjacency.Allowed(0))
	assert.False(t, second.Adjacency.Restricted(1))
	assert.Equal(t, []int{0, 1}, first.Adjacency.Allowed(0), "clone does not alias")
}

func TestEngine_LifecycleHooks(t *testing.T) {
	ctx := context.Background()

	var compiled []*domain.CompileEvent
	var checked []*domain.CheckEvent
	hooks := domain.LifecycleHooks{
		OnCompile: func(ctx context.Context, e *domain.CompileEvent) {
			compiled = append(compiled, e)
		},
		OnCheck: func(ctx context.Context, e *domain.CheckEvent) {
			checked = append(checked, e)
		},
	}
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))

	path, err := engine.Compile(ctx, opportunity())
	require.NoError(t, err)
	_, err = engine.Check(ctx, path, "active", "new")
	require.NoError(t, err)

	broken := opportunity()
	broken.NavigationRule = "new={gone}"
	_, err = engine.Compile(ctx, broken)
	require.Error(t, err)

	require.Len(t, compiled, 2)
	assert.Equal(t, domain.EventCompile, compiled[0].Type)
	assert.Equal(t, 3, compiled[0].Stages)
	assert.Equal(t, 1, compiled[0].Clauses)
	assert.NoError(t, compiled[0].Err)
	assert.Error(t, compiled[1].Err)

	require.Len(t, checked, 1)
	assert.Equal(t, "opportunity", checked[0].Name)
	assert.Equal(t, domain.ReasonUnrestricted, checked[0].Decision.Reason)
}

func TestEngine_WithParser(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithParser(compiler.NewParser(compiler.WithMaxSize(4))))

	_, err := engine.Compile(context.Background(), opportunity())
	assert.ErrorIs(t, err, compiler.ErrRuleTooLarge)
}
