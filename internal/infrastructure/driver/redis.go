package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient KeyValueDB backed by redis
type RedisClient struct {
	conn *redis.Client
}

var _ KeyValueDB = (*RedisClient)(nil)

// NewRedisClient create a redis client
func NewRedisClient(host string, port int, password string) *RedisClient {
	return NewRedisClientAddr(fmt.Sprintf("%s:%d", host, port), password)
}

// NewRedisClientAddr create a redis client from "host:port"
func NewRedisClientAddr(addr, password string) *RedisClient {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisClient{
		conn: conn,
	}
}

// SetEX implement KeyValueDB
func (rdb *RedisClient) SetEX(ctx context.Context, key string, value string, expiration time.Duration) error {
	return rdb.conn.Set(ctx, key, value, expiration).Err()
}

// Get implement KeyValueDB
func (rdb *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := rdb.conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

// Exists implement KeyValueDB
func (rdb *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rdb.conn.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Del implement KeyValueDB
func (rdb *RedisClient) Del(ctx context.Context, key string) (bool, error) {
	n, err := rdb.conn.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping implement KeyValueDB
func (rdb *RedisClient) Ping(ctx context.Context) error {
	return rdb.conn.Ping(ctx).Err()
}

// Close close the underlying pool
func (rdb *RedisClient) Close() error {
	return rdb.conn.Close()
}
