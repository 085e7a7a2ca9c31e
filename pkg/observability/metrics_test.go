package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Compile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnCompile(ctx, &domain.CompileEvent{Name: "a", Stages: 3})
	hooks.OnCompile(ctx, &domain.CompileEvent{Name: "b", Err: &domain.UnknownValueError{Value: "x"}})
	hooks.OnCompile(ctx, &domain.CompileEvent{Name: "c", Err: &domain.RuleSyntaxError{Reason: "bad"}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Compilations.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Compilations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompileErrors.WithLabelValues("unknown_value")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompileErrors.WithLabelValues("rule_syntax")))

	count, err := testutil.GatherAndCount(reg, "stagepath_path_stages")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Check(t *testing.T) {
	m := observability.NewMetrics(nil)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnCheck(ctx, &domain.CheckEvent{Decision: domain.Decision{Blocked: true, Reason: domain.ReasonSameStage}})
	hooks.OnCheck(ctx, &domain.CheckEvent{Decision: domain.Decision{Blocked: true, Reason: domain.ReasonNotAllowed}})
	hooks.OnCheck(ctx, &domain.CheckEvent{Decision: domain.Decision{Reason: domain.ReasonAllowed}})
	hooks.OnCheck(ctx, &domain.CheckEvent{Decision: domain.Decision{Reason: domain.ReasonAllowed}})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checks.WithLabelValues("allowed", domain.ReasonAllowed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checks.WithLabelValues("blocked", domain.ReasonNotAllowed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checks.WithLabelValues("blocked", domain.ReasonSameStage)))
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestChain(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnCompile: func(context.Context, *domain.CompileEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnCompile: func(context.Context, *domain.CompileEvent) { order = append(order, "b") },
		OnCheck:   func(context.Context, *domain.CheckEvent) { order = append(order, "b-check") },
	}

	chained := observability.Chain(a, domain.LifecycleHooks{}, b)
	chained.OnCompile(context.Background(), &domain.CompileEvent{})
	chained.OnCheck(context.Background(), &domain.CheckEvent{})

	assert.Equal(t, []string{"a", "b", "b-check"}, order)
	assert.Nil(t, observability.Chain().OnCompile)
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.AuditHooks(logger)

	hooks.OnCheck(context.Background(), &domain.CheckEvent{
		Name: "opportunity",
		Decision: domain.Decision{
			From:    domain.Stage{Value: "new"},
			To:      domain.Stage{Value: "closed"},
			Blocked: true,
			Reason:  domain.ReasonNotAllowed,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "path_check")
	assert.Contains(t, out, "path=opportunity")
	assert.Contains(t, out, "reason=not_allowed")
	assert.Contains(t, out, "blocked=true")
}
