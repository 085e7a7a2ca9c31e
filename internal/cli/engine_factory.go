package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/stagepath"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/observability"
)

// NewEngine opens the configured backend and builds an engine on top of it.
// Every compile and check is logged at info level in addition to extra hooks.
// The caller must close the returned backend.
func NewEngine(cfg Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*stagepath.Engine, *Backend, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening %s store: %w", cfg.Store, err)
	}

	engineOpts := []stagepath.Option{
		stagepath.WithLoader(backend.Loader),
		stagepath.WithLogger(logger),
		stagepath.WithLifecycleHooks(observability.Chain(append([]domain.LifecycleHooks{observability.AuditHooks(logger)}, hooks...)...)),
	}
	if cfg.MaxRuleSize > 0 {
		engineOpts = append(engineOpts, stagepath.WithMaxRuleSize(cfg.MaxRuleSize))
	}

	engine, err := stagepath.New(cfg.Dir, engineOpts...)
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, backend, nil
}
