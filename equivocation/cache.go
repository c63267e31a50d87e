// Copyright (c) 2018 XDPoSChain
// Bounded fetch cache over a BlockView.
package equivocation

import (
	"context"

	"github.com/ethereum/go-ethereum/common/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultBlockCacheSize bounds the number of resolved blocks
// CachedBlockView keeps in memory: a single neglect-detection pass can
// re-resolve the same justification hash across many different records'
// reachability checks.
const DefaultBlockCacheSize = 4096

// CachedBlockView wraps a BlockView with a bounded LRU cache and
// single-flight de-duplication of concurrent fetches for the same hash. It
// changes no semantics: a cache miss falls straight through to the wrapped
// view, and any error it returns propagates unchanged.
type CachedBlockView struct {
	BlockView
	cache *lru.Cache[Hash, *Block]
	group singleflight.Group
}

// NewCachedBlockView wraps view with an LRU cache sized to size entries (a
// non-positive size uses DefaultBlockCacheSize).
func NewCachedBlockView(view BlockView, size int) *CachedBlockView {
	if size <= 0 {
		size = DefaultBlockCacheSize
	}
	return &CachedBlockView{
		BlockView: view,
		cache:     lru.NewCache[Hash, *Block](size),
	}
}

// FetchBlock resolves hash through the cache, collapsing concurrent fetches
// of the same hash into a single call to the wrapped BlockView -- the
// scheduling model in which this package operates lets multiple detection
// passes suspend on the same fetchBlock(hash) call at once.
func (c *CachedBlockView) FetchBlock(ctx context.Context, hash Hash) (*Block, error) {
	if b, ok := c.cache.Get(hash); ok {
		return b, nil
	}
	v, err, _ := c.group.Do(hash.Hex(), func() (interface{}, error) {
		// A flight for hash may have completed between the cache miss above
		// and this call; its result is already cached.
		if b, ok := c.cache.Get(hash); ok {
			return b, nil
		}
		b, err := c.BlockView.FetchBlock(ctx, hash)
		if err != nil {
			return nil, err
		}
		c.cache.Add(hash, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Block), nil
}

// CacheSize returns the number of blocks currently cached.
func (c *CachedBlockView) CacheSize() int {
	return c.cache.Len()
}
