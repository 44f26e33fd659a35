package schema

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Process-wide metadata cache. Types are immutable at runtime, so entries
// are never invalidated; the LRU bound only guards against unbounded growth
// in programs that introspect many generated types.
const metaCacheSize = 512

var metaCache, _ = lru.New[reflect.Type, *ClassMeta](metaCacheSize)

// Introspect retrieves or builds metadata for a struct type. Pointer types
// are normalized to their element type, so *User and User share one entry.
// Safe for concurrent use; concurrent first-time introspection of the same
// type may build twice but both results are equivalent.
func Introspect(t reflect.Type) (*ClassMeta, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("invalid bean type: %s", t.Kind())
	}

	if meta, ok := metaCache.Get(t); ok {
		return meta, nil
	}

	meta, err := buildMeta(t)
	if err != nil {
		return nil, err
	}
	metaCache.Add(t, meta)
	return meta, nil
}

// ClearCache removes all cached metadata. Useful for tests.
func ClearCache() {
	metaCache.Purge()
}

// CacheLen returns the number of cached types.
func CacheLen() int {
	return metaCache.Len()
}
