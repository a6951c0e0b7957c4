package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache keys for catalog data.
const (
	ProductListKey = "catalog:products"
	CourseListKey  = "catalog:courses"
)

// GetJSON reads a cached JSON value into dest. Returns false on miss or when
// the cache is unavailable; callers always fall through to the database.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores a JSON-encoded value with a TTL. Failures are ignored; the
// cache is best-effort.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Invalidate drops cached keys after catalog writes.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
