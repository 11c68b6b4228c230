package domain

import (
	"context"
	"time"
)

type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned by Cache.Get when the key does not exist.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the string key/value store in front of quiz reads.
// A zero ttl keeps the entry until it is deleted. Deleting a missing key is not an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
