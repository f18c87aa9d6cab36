package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/store"
	"github.com/spigell/talentscout/internal/store/postgres"
	redisstore "github.com/spigell/talentscout/internal/store/redis"
	"github.com/spigell/talentscout/internal/store/sqlite"
)

const (
	geminiKeyEnv   = "GEMINI_API_KEY"
	postgresDSNEnv = "TALENTSCOUT_POSTGRES_DSN"
)

func geminiKeySource(cfg *GeminiConfig) secrets.Source {
	return secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		Env:   geminiKeyEnv,
		File:  cfg.APIKeyFile,
	}
}

func postgresDSNSource(cfg *PostgresConfig) secrets.Source {
	src := secrets.Source{Name: "postgres dsn", Env: postgresDSNEnv}
	if cfg != nil {
		src.Value = cfg.DSN
		src.File = cfg.DSNFile
	}
	return src
}

// newCompleter builds the Gemini generator wrapped with the retry policy.
func newCompleter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Completer, error) {
	if cfg.Provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(geminiKeySource(cfg.Gemini))
	if err != nil {
		return nil, fmt.Errorf("%w (set %s, ai.gemini.api-key or ai.gemini.api-key-file)", err, geminiKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
	}, log)
	if err != nil {
		return nil, err
	}

	policy := ai.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     ai.ExponentialBackoff(cfg.Retry.BaseDelay),
	}

	retryLogger := logger.WithCommonFields(log, gemini.Provider, generator.Model())
	return ai.WithRetry(generator, policy, retryLogger), nil
}

// openStore connects the configured external store.
func openStore(ctx context.Context, cfg *StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return store.Nop{}, nil
	case "postgres":
		return openPostgres(ctx, cfg.Postgres)
	case "redis":
		return openRedis(ctx, cfg.Redis)
	case "sqlite":
		return openSQLite(ctx, cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

func openPostgres(ctx context.Context, cfg *PostgresConfig) (store.Store, error) {
	if cfg == nil {
		cfg = &PostgresConfig{}
	}

	dsn, err := secrets.Load(postgresDSNSource(cfg))
	if err != nil {
		return nil, err
	}

	pg, err := postgres.Connect(ctx, dsn, cfg.Table)
	if err != nil {
		return nil, err
	}

	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}

	return pg, nil
}

func openRedis(ctx context.Context, cfg *RedisConfig) (store.Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("store.redis.addr is required for the redis backend")
	}

	return redisstore.Connect(ctx, redisstore.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Prefix:   cfg.Prefix,
		TTL:      cfg.TTL,
	})
}

func openSQLite(ctx context.Context, cfg *SQLiteConfig) (store.Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("store.sqlite.path is required for the sqlite backend")
	}

	return sqlite.Open(ctx, cfg.Path)
}
