package communication

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// ListCache keeps the last successfully fetched list per view key so that
// read-only views can degrade to cached data instead of blocking when a
// fetch fails.
type ListCache struct {
	Cache *lru.Cache
}

// NewListCache initializes a new ListCache
func NewListCache(size int) (*ListCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &ListCache{
		Cache: cache,
	}, nil
}

// Put stores the last good value for a view key
func (c *ListCache) Put(key string, value interface{}) {
	_ = c.Cache.Add(key, value)
}

// Get retrieves the last good value for a view key
func (c *ListCache) Get(key string) (interface{}, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("could not find key %s in list cache", key)
	}

	return result, nil
}

// Invalidate removes an entry
func (c *ListCache) Invalidate(key string) {
	c.Cache.Remove(key)
}
