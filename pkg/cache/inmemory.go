package cache

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a process-local key/value store with per-entry expiry.
type Cache interface {
	Set(key string, value interface{}, ttl time.Duration)
	Get(key string) (interface{}, bool)
	ItemCount() int
}

// NewCache returns a go-cache backed Cache. Entries stored with a zero ttl
// use defaultExpiration; expired entries are purged every cleanupInterval.
func NewCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return cache.New(defaultExpiration, cleanupInterval)
}

// CompanyInfoKey is the key under which company overviews are memoised.
func CompanyInfoKey(symbol string) string {
	return "company_info:" + strings.ToUpper(strings.TrimSpace(symbol))
}

// GetFromCache returns the value stored under key when it has type T.
// A nil cache always misses.
func GetFromCache[T any](c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	val, found := c.Get(key)
	if !found {
		return zero, false
	}
	typed, ok := val.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
