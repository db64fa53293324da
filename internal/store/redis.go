package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conduit-lang/docbridge/internal/document"
)

// RedisStore implements a Redis-backed document store. Each document is a
// string key holding its BSON encoding.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// Prefix is prepended to every key
	Prefix string
}

// DefaultRedisConfig returns a default Redis configuration
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		Prefix: "docbridge:",
	}
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisStoreWithClient(client, config.Prefix), nil
}

// NewRedisStoreWithClient creates a Redis store with an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) setPrefix(set string) string {
	return r.prefix + collectionName(set) + ":"
}

// Get retrieves a document
func (r *RedisStore) Get(ctx context.Context, set, id string) (document.Document, error) {
	if err := validateKey(set, id); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.setPrefix(set)+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

// Put stores a document
func (r *RedisStore) Put(ctx context.Context, set, id string, doc document.Document) error {
	if err := validateKey(set, id); err != nil {
		return err
	}

	data, err := encode(doc)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.setPrefix(set)+id, data, 0).Err()
}

// Delete removes a document
func (r *RedisStore) Delete(ctx context.Context, set, id string) error {
	if err := validateKey(set, id); err != nil {
		return err
	}

	n, err := r.client.Del(ctx, r.setPrefix(set)+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Keys returns the ids stored for a set
func (r *RedisStore) Keys(ctx context.Context, set string) ([]string, error) {
	prefix := r.setPrefix(set)

	var ids []string
	iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
