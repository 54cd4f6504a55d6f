package services

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/node"
)

// BoardCache memoizes leaderboard top queries. Rank math walks every entry,
// so the gateway goes through this instead of hitting the node per request.
// Any stats update invalidates the whole cache.
type BoardCache struct {
	node  *node.Node
	cache *lru.Cache
}

func NewBoardCache(n *node.Node, size int) (*BoardCache, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &BoardCache{node: n, cache: cache}, nil
}

func cacheKey(boardType, timeframe uint64, limit int) string {
	return fmt.Sprintf("%d:%d:%d", boardType, timeframe, limit)
}

// Top returns the cached ranking for a board, computing it on a miss.
func (c *BoardCache) Top(boardType, timeframe uint64, limit int) []board.Entry {
	key := cacheKey(boardType, timeframe, limit)
	if v, ok := c.cache.Get(key); ok {
		return v.([]board.Entry)
	}
	entries := c.node.TopEntries(boardType, timeframe, limit)
	c.cache.Add(key, entries)
	return entries
}

// Invalidate drops every cached ranking. Called after any stats update.
func (c *BoardCache) Invalidate() {
	c.cache.Purge()
}

// Len returns the number of cached rankings.
func (c *BoardCache) Len() int {
	return c.cache.Len()
}
