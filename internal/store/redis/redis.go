// Package redis stores interview submissions as JSON documents in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "talentscout"

var ErrNotFound = errors.New("submission not found")

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL expires stored submissions. Zero keeps them forever.
	TTL time.Duration
}

// Store writes each submission under <prefix>:candidate:<id> and records the
// id in the <prefix>:candidates list, ordered by latest write. An id appears
// in the list once even after its document expired and was written again.
type Store struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return New(rdb, opts.Prefix, opts.TTL), nil
}

// New wraps an existing client.
func New(rdb *goredis.Client, prefix string, ttl time.Duration) *Store {
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("%s:candidate:%s", s.prefix, id)
}

func (s *Store) indexKey() string {
	return s.prefix + ":candidates"
}

// Insert stores the fields and moves the id to the end of the index.
func (s *Store) Insert(ctx context.Context, id string, fields map[string]any) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis store not initialized")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("submission id is required")
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.key(id), payload, s.ttl)
		pipe.LRem(ctx, s.indexKey(), 0, id)
		pipe.RPush(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis insert: %w", err)
	}
	return nil
}

// Get loads the stored fields of a submission.
func (s *Store) Get(ctx context.Context, id string) (map[string]any, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	return fields, nil
}

// IDs lists submission ids, least recently written first. Ids whose
// document expired stay listed until written again.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.LRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	return ids, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
