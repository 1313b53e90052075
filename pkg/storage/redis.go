package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces layout keys.
const DefaultRedisPrefix = "freeboard:"

// Redis stores each layout under a plain string key.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the server at url (redis://...) and pings it.
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, connectErr(err, "redis")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, connectErr(err, "redis")
	}
	return NewRedisClient(client, prefix), nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(workspaceID string) string {
	return r.prefix + "layout:" + workspaceID
}

func (r *Redis) Get(ctx context.Context, workspaceID string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(workspaceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(workspaceID)
	}
	if err != nil {
		return nil, storageErr(Retryable(err), "read", workspaceID)
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, workspaceID string, data []byte) error {
	if err := r.client.Set(ctx, r.key(workspaceID), data, 0).Err(); err != nil {
		return storageErr(err, "write", workspaceID)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
