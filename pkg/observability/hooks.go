package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stagepath/pkg/domain"
)

// Chain combines hooks; each callback runs in argument order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var compile []func(context.Context, *domain.CompileEvent)
	var check []func(context.Context, *domain.CheckEvent)
	for _, h := range hooks {
		if h.OnCompile != nil {
			compile = append(compile, h.OnCompile)
		}
		if h.OnCheck != nil {
			check = append(check, h.OnCheck)
		}
	}

	var out domain.LifecycleHooks
	if len(compile) > 0 {
		out.OnCompile = func(ctx context.Context, e *domain.CompileEvent) {
			for _, fn := range compile {
				fn(ctx, e)
			}
		}
	}
	if len(check) > 0 {
		out.OnCheck = func(ctx context.Context, e *domain.CheckEvent) {
			for _, fn := range check {
				fn(ctx, e)
			}
		}
	}
	return out
}

// AuditHooks logs every event at info level.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompile: func(ctx context.Context, e *domain.CompileEvent) {
			attrs := []any{"path", e.Name, "stages", e.Stages, "clauses", e.Clauses}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			logger.InfoContext(ctx, "path_compile", attrs...)
		},
		OnCheck: func(ctx context.Context, e *domain.CheckEvent) {
			logger.InfoContext(ctx, "path_check",
				"path", e.Name,
				"from", e.Decision.From.Value,
				"to", e.Decision.To.Value,
				"blocked", e.Decision.Blocked,
				"reason", e.Decision.Reason,
			)
		},
	}
}
