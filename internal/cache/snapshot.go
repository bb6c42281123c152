// Package cache keeps a shared copy of the product snapshot in Redis so that
// catalog listings across replicas do not all hit the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/product"
)

const (
	DefaultTTL    = 30 * time.Second
	DefaultPrefix = "grocery:catalog:"

	snapshotKey = "products"
)

// Source is the authoritative product list behind the cache.
type Source interface {
	List(ctx context.Context) ([]product.Product, error)
}

// ProductSnapshot serves product.List from Redis and falls back to the source
// on a miss. Redis failures are logged and treated as misses.
type ProductSnapshot struct {
	client *redis.Client
	source Source
	logger logging.Logger
	ttl    time.Duration
	prefix string

	hits   int64
	misses int64
}

type Option func(*ProductSnapshot)

// WithTTL sets how long a snapshot stays valid. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *ProductSnapshot) { s.ttl = ttl }
}

func WithPrefix(prefix string) Option {
	return func(s *ProductSnapshot) { s.prefix = prefix }
}

func WithLogger(l logging.Logger) Option {
	return func(s *ProductSnapshot) { s.logger = logging.OrNoOp(l) }
}

func NewProductSnapshot(client *redis.Client, source Source, opts ...Option) *ProductSnapshot {
	s := &ProductSnapshot{
		client: client,
		source: source,
		logger: logging.NoOp{},
		ttl:    DefaultTTL,
		prefix: DefaultPrefix,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *ProductSnapshot) List(ctx context.Context) ([]product.Product, error) {
	key := s.prefix + snapshotKey

	val, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
	case err != nil:
		s.logger.Warn("catalog cache read failed", map[string]interface{}{"error": err})
	default:
		var ps []product.Product
		if err := json.Unmarshal(val, &ps); err == nil {
			atomic.AddInt64(&s.hits, 1)
			return ps, nil
		}
		s.logger.Warn("catalog cache entry corrupt", map[string]interface{}{"key": key})
	}
	atomic.AddInt64(&s.misses, 1)

	ps, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return ps, nil
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("catalog cache write failed", map[string]interface{}{"error": err})
	}
	return ps, nil
}

// Invalidate drops the cached snapshot. The next List reloads from the source.
func (s *ProductSnapshot) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, s.prefix+snapshotKey).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

// Stats reports hit and miss counters.
func (s *ProductSnapshot) Stats() map[string]interface{} {
	return map[string]interface{}{
		"hits":   atomic.LoadInt64(&s.hits),
		"misses": atomic.LoadInt64(&s.misses),
	}
}
