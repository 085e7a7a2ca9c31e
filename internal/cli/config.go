package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Supported definition backends.
const (
	StoreLoam   = "loam"
	StoreFile   = "file"
	StoreHCL    = "hcl"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Environment variables read when the matching flag was not set.
const (
	EnvDir           = "STAGEPATH_DIR"
	EnvStore         = "STAGEPATH_STORE"
	EnvRedisAddr     = "STAGEPATH_REDIS_ADDR"
	EnvRedisPassword = "STAGEPATH_REDIS_PASSWORD"
	EnvRedisDB       = "STAGEPATH_REDIS_DB"
	EnvRedisTTL      = "STAGEPATH_REDIS_TTL"
	EnvSQLitePath    = "STAGEPATH_SQLITE_PATH"
	EnvLogLevel      = "STAGEPATH_LOG_LEVEL"
)

// Config holds the settings shared by every command.
type Config struct {
	Dir           string
	Store         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	SQLitePath    string
	LogLevel      string
	MaxRuleSize   int
}

// RegisterFlags adds the shared persistent flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("dir", ".", "Directory containing path definitions")
	fs.String("store", StoreLoam, "Definition backend: loam, hcl, file, memory, redis or sqlite")
	fs.String("redis-addr", "localhost:6379", "Redis address (store=redis)")
	fs.String("redis-password", "", "Redis password (store=redis)")
	fs.Int("redis-db", 0, "Redis database number (store=redis)")
	fs.Duration("redis-ttl", 0, "Expiry of saved definitions, 0 keeps them forever (store=redis)")
	fs.String("sqlite-path", "", "SQLite database file or directory (store=sqlite, defaults to --dir)")
	fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	fs.Int("max-rule-size", 0, "Maximum navigation rule size in bytes (0 uses STAGEPATH_MAX_RULE_SIZE or 4096)")
}

// ConfigFromFlags reads the shared flags, falling back to STAGEPATH_* variables
// for any flag left at its default.
func ConfigFromFlags(fs *pflag.FlagSet) (Config, error) {
	var cfg Config
	var err error

	cfg.Dir = stringSetting(fs, "dir", EnvDir)
	cfg.Store = strings.ToLower(stringSetting(fs, "store", EnvStore))
	cfg.RedisAddr = stringSetting(fs, "redis-addr", EnvRedisAddr)
	cfg.RedisPassword = stringSetting(fs, "redis-password", EnvRedisPassword)
	cfg.SQLitePath = stringSetting(fs, "sqlite-path", EnvSQLitePath)
	cfg.LogLevel = stringSetting(fs, "log-level", EnvLogLevel)

	if cfg.RedisDB, err = fs.GetInt("redis-db"); err != nil {
		return Config{}, err
	}
	if val, ok := envOverride(fs, "redis-db", EnvRedisDB); ok {
		if cfg.RedisDB, err = strconv.Atoi(val); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvRedisDB, err)
		}
	}

	if cfg.RedisTTL, err = fs.GetDuration("redis-ttl"); err != nil {
		return Config{}, err
	}
	if val, ok := envOverride(fs, "redis-ttl", EnvRedisTTL); ok {
		if cfg.RedisTTL, err = time.ParseDuration(val); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvRedisTTL, err)
		}
	}

	if cfg.MaxRuleSize, err = fs.GetInt("max-rule-size"); err != nil {
		return Config{}, err
	}

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = cfg.Dir
	}

	switch cfg.Store {
	case StoreLoam, StoreHCL, StoreFile, StoreMemory, StoreRedis, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("unknown store %q (want loam|hcl|file|memory|redis|sqlite)", cfg.Store)
	}
	return cfg, nil
}

func stringSetting(fs *pflag.FlagSet, name, env string) string {
	val, _ := fs.GetString(name)
	if override, ok := envOverride(fs, name, env); ok {
		return override
	}
	return val
}

// envOverride returns the environment value when the flag was not set explicitly.
func envOverride(fs *pflag.FlagSet, name, env string) (string, bool) {
	if fs.Changed(name) {
		return "", false
	}
	val, ok := os.LookupEnv(env)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}
