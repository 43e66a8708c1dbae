package driver

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound Get on a missing or expired key
var ErrKeyNotFound = errors.New("key not found")

// KeyValueDB define a key-value storage interface.
//
// Del reports whether this call removed the key, so callers can use it to
// consume a key exactly once.
type KeyValueDB interface {
	SetEX(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
