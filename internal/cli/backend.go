package cli

import (
	"fmt"

	"github.com/aretw0/stagepath/pkg/adapters/file"
	hclAdapter "github.com/aretw0/stagepath/pkg/adapters/hcl"
	loamAdapter "github.com/aretw0/stagepath/pkg/adapters/loam"
	"github.com/aretw0/stagepath/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/stagepath/pkg/adapters/redis"
	"github.com/aretw0/stagepath/pkg/adapters/sqlite"
	"github.com/aretw0/stagepath/pkg/ports"
)

// Backend is an opened definitions source.
type Backend struct {
	Loader ports.DefinitionLoader
	close  func() error
}

// Store returns the backend as a writable store, if it is one.
func (b *Backend) Store() (ports.DefinitionStore, bool) {
	s, ok := b.Loader.(ports.DefinitionStore)
	return s, ok
}

// Close releases connections held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend opens the definitions source selected by cfg.Store.
func OpenBackend(cfg Config) (*Backend, error) {
	switch cfg.Store {
	case StoreLoam, "":
		loader, err := loamAdapter.Open(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return &Backend{Loader: loader}, nil
	case StoreFile:
		return &Backend{Loader: file.New(cfg.Dir)}, nil
	case StoreHCL:
		return &Backend{Loader: hclAdapter.New(cfg.Dir)}, nil
	case StoreMemory:
		return &Backend{Loader: memory.NewStore()}, nil
	case StoreRedis:
		var opts []redisAdapter.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(cfg.RedisTTL))
		}
		store := redisAdapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		return &Backend{Loader: store, close: store.Close}, nil
	case StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Loader: store, close: store.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
