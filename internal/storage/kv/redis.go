package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries as plain string keys without expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(namespace, key string) string {
	return r.prefix + FlatKey(namespace, key)
}

func (r *Redis) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := validate(namespace, key); err != nil {
		return nil, err
	}
	b, err := r.client.Get(ctx, r.key(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Redis) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := validate(namespace, key); err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(namespace, key), value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, namespace, key string) error {
	if err := validate(namespace, key); err != nil {
		return err
	}
	return r.client.Del(ctx, r.key(namespace, key)).Err()
}

// Close is a no-op; the client is shared with the analysis cache.
func (r *Redis) Close() error { return nil }
