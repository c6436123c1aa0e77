package schema

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zyncd/zyncd/catalog"
)

// defaultCacheSize bounds the number of distinct device/kind schemas a
// long-lived daemon process memoizes across repeated syncs.
const defaultCacheSize = 8

// cacheKey identifies one negotiated schema by the device that offered
// it and the kind it describes; the same kind can carry a different
// field set on a different device model or firmware revision, so the
// key must include both (§4.E).
type cacheKey struct {
	device string
	kind   catalog.Kind
}

// Cache memoizes negotiated schemas per device and sync kind, so that
// repeated syncs against the same device within one process lifetime
// don't re-decode an identical ADI message every time.
type Cache struct {
	lru *lru.Cache[cacheKey, Schema]
}

// NewCache returns a Cache bounded to defaultCacheSize entries.
func NewCache() (*Cache, error) {
	c, err := lru.New[cacheKey, Schema](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Get returns the cached schema for kind as last negotiated with
// device, if any.
func (c *Cache) Get(device string, kind catalog.Kind) (Schema, bool) {
	return c.lru.Get(cacheKey{device: device, kind: kind})
}

// Put stores s as the schema for kind as negotiated with device.
func (c *Cache) Put(device string, kind catalog.Kind, s Schema) {
	c.lru.Add(cacheKey{device: device, kind: kind}, s)
}

func (k cacheKey) String() string { return fmt.Sprintf("%s/%d", k.device, k.kind) }
