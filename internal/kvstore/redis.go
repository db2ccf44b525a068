package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis, one hash per collection.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed record store
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: "records:",
	}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "records:",
	}
}

// key generates the Redis key for a collection hash
func (s *RedisStore) key(collection string) string {
	return s.prefix + collection
}

func (s *RedisStore) Put(ctx context.Context, collection, id string, value []byte) error {
	if err := s.client.HSet(ctx, s.key(collection), id, value).Err(); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	value, err := s.client.HGet(ctx, s.key(collection), id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	removed, err := s.client.HDel(ctx, s.key(collection), id).Result()
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return removed > 0, nil
}

func (s *RedisStore) ListAll(ctx context.Context, collection string) ([][]byte, error) {
	values, err := s.client.HVals(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	records := make([][]byte, 0, len(values))
	for _, value := range values {
		records = append(records, []byte(value))
	}
	return records, nil
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
