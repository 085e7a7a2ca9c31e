package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/stagepath/internal/compiler"
	"github.com/aretw0/stagepath/pkg/domain"
)

// Engine compiles path definitions and evaluates navigation attempts.
// It holds no per-path state; every Compile starts from scratch.
type Engine struct {
	parser *compiler.Parser
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithParser replaces the default rule parser.
func WithParser(p *compiler.Parser) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.parser = p
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		parser: compiler.NewParser(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile builds the catalog and final adjacency of a definition.
func (e *Engine) Compile(ctx context.Context, def domain.Definition) (*domain.Path, error) {
	path, err := compile(e.parser, def)

	event := &domain.CompileEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCompile},
		Name:      def.Name,
		Stages:    len(def.Values),
		Err:       err,
	}
	if path != nil {
		event.Clauses = len(path.Rule)
	}
	if e.hooks.OnCompile != nil {
		e.hooks.OnCompile(ctx, event)
	}

	if err != nil {
		e.logger.Warn("path compilation failed", "path", def.Name, "kind", domain.ErrorKind(err), "error", err)
		return nil, err
	}

	e.logger.Debug("path compiled", "path", def.Name, "stages", event.Stages, "clauses", event.Clauses)
	return path, nil
}

// Check resolves the current and selected stage values and evaluates the move.
// An empty current value means the first stage.
func (e *Engine) Check(ctx context.Context, path *domain.Path, current, selected string) (domain.Decision, error) {
	from, err := path.CurrentIndex(current)
	if err != nil {
		return domain.Decision{}, err
	}
	to, err := path.Catalog.IndexOf(selected)
	if err != nil {
		return domain.Decision{}, err
	}

	decision := Evaluate(path, from, to)

	if e.hooks.OnCheck != nil {
		e.hooks.OnCheck(ctx, &domain.CheckEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCheck},
			Name:      path.Name,
			Decision:  decision,
		})
	}

	e.logger.Debug("navigation checked",
		"path", path.Name,
		"from", decision.From.Value,
		"to", decision.To.Value,
		"blocked", decision.Blocked,
		"reason", decision.Reason,
	)
	return decision, nil
}
