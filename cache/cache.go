// Package cache provides a read-through Redis cache in front of a
// catalog.DataSource.
//
// Count, FetchAll and Query results are stored as JSON under namespaced keys
// with a TTL. Redis is an optimization only: a cache miss, a decode error or
// an unreachable server falls through to the wrapped source and is logged,
// never returned.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
)

const (
	defaultNamespace = "catalog"
	defaultTTL       = time.Minute

	countKey = "count"
	allKey   = "all"
	queryKey = "query"
)

// Cmdable is the part of a Redis client the cache uses.
// *redis.Client and redis.UniversalClient satisfy it.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Source caches the results of another DataSource.
type Source struct {
	next      catalog.DataSource
	client    Cmdable
	namespace string
	ttl       time.Duration
	logger    zerolog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithTTL sets how long entries live. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNamespace sets the key prefix.
func WithNamespace(ns string) Option {
	return func(s *Source) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithLogger sets the logger for cache failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New wraps next with a cache stored in store.
func New(store Cmdable, next catalog.DataSource, opts ...Option) *Source {
	s := &Source{
		next:      next,
		client:    store,
		namespace: defaultNamespace,
		ttl:       defaultTTL,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to the Redis server at url and verifies the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

// FetchAll returns the cached catalog, reading it from the wrapped source
// and storing it on a miss.
func (s *Source) FetchAll(ctx context.Context) ([]catalog.Product, error) {
	key := s.key(allKey)

	var products []catalog.Product
	if s.lookup(ctx, key, &products) {
		return products, nil
	}

	products, err := s.next.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, products)
	return products, nil
}

// Count returns the cached product count, reading it from the wrapped source
// and storing it on a miss.
func (s *Source) Count(ctx context.Context) (int, error) {
	key := s.key(countKey)

	var n int
	if s.lookup(ctx, key, &n) {
		return n, nil
	}

	n, err := s.next.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.save(ctx, key, n)
	return n, nil
}

// Query returns the cached result for payload. Equal payloads share one
// entry. Errors from the wrapped source are returned and never cached.
func (s *Source) Query(ctx context.Context, payload catalog.QueryPayload) (*catalog.QueryResult, error) {
	key, err := s.queryKey(payload)
	if err != nil {
		return s.next.Query(ctx, payload)
	}

	var res catalog.QueryResult
	if s.lookup(ctx, key, &res) {
		return &res, nil
	}

	out, err := s.next.Query(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, out)
	return out, nil
}

// key returns the namespaced key for parts.
func (s *Source) key(parts ...string) string {
	return s.namespace + ":" + strings.Join(parts, ":")
}

// queryKey hashes the payload so equal payloads share an entry.
func (s *Source) queryKey(payload catalog.QueryPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return s.key(queryKey, hex.EncodeToString(sum[:])), nil
}

func (s *Source) lookup(ctx context.Context, key string, dst any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	return true
}

func (s *Source) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

var _ catalog.DataSource = (*Source)(nil)
