package stagepath

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/stagepath/internal/compiler"
	"github.com/aretw0/stagepath/internal/runtime"
	loamAdapter "github.com/aretw0/stagepath/pkg/adapters/loam"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/ports"
)

// Engine is the high-level entry point for the stagepath library.
// It wraps the internal runtime and a definitions loader.
type Engine struct {
	runtime     *runtime.Engine
	loader      ports.DefinitionLoader
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	maxRuleSize int
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom DefinitionLoader, bypassing the default Loam initialization.
// A ports.DefinitionStore is accepted too.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxRuleSize overrides the navigation rule size limit (default 4096 bytes,
// or STAGEPATH_MAX_RULE_SIZE).
func WithMaxRuleSize(n int) Option {
	return func(e *Engine) {
		e.maxRuleSize = n
	}
}

// New initializes a new Engine.
// By default, it reads definitions from a Loam repository at dir.
// If WithLoader is provided, dir can be empty and Loam is skipped.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		loader, err := loamAdapter.Open(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		eng.loader = loader
	} else if dir != "" {
		eng.Name = filepath.Base(dir)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("definitions", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.maxRuleSize > 0 {
		runtimeOpts = append(runtimeOpts, runtime.WithParser(compiler.NewParser(compiler.WithMaxSize(eng.maxRuleSize))))
	}
	eng.runtime = runtime.NewEngine(runtimeOpts...)

	return eng, nil
}

// Compile builds the stage catalog and final adjacency of a definition.
func (e *Engine) Compile(ctx context.Context, def domain.Definition) (*domain.Path, error) {
	return e.runtime.Compile(ctx, def)
}

// Check compiles def and evaluates moving from current to selected.
// An empty current value means the first stage.
func (e *Engine) Check(ctx context.Context, def domain.Definition, current, selected string) (domain.Decision, error) {
	path, err := e.runtime.Compile(ctx, def)
	if err != nil {
		return domain.Decision{}, err
	}
	return e.runtime.Check(ctx, path, current, selected)
}

// Inspect loads the named definition from the loader and compiles it.
func (e *Engine) Inspect(ctx context.Context, name string) (*domain.Path, error) {
	def, err := e.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.runtime.Compile(ctx, def)
}

// List returns the names the loader knows about.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Loader returns the underlying DefinitionLoader used by the engine.
func (e *Engine) Loader() ports.DefinitionLoader {
	return e.loader
}

// PathEngine returns the compiled-path API used by the HTTP and MCP adapters.
func (e *Engine) PathEngine() ports.PathEngine {
	return e.runtime
}

// BuildCatalogAndAdjacency compiles a picklist payload and an optional rule.
// Every call starts from scratch.
func BuildCatalogAndAdjacency(values []domain.PicklistValue, navigationRule string) (*domain.Catalog, domain.AdjacencySet, error) {
	return runtime.BuildCatalogAndAdjacency(values, navigationRule)
}

// IsBlocked reports whether moving from current to candidate must be prevented.
func IsBlocked(current, candidate int, adjacency domain.AdjacencySet) bool {
	return runtime.IsBlocked(current, candidate, adjacency)
}
