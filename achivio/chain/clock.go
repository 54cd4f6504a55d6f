package chain

import (
	"sync/atomic"
	"time"
)

// BlocksPerDay is the number of blocks that make up one day bucket. Dates
// everywhere in the system are Height() / BlocksPerDay.
const BlocksPerDay = 144

// Clock supplies the current block height. Contracts never read wall time
// directly; they derive day buckets from the injected clock so tests can
// drive time deterministically.
type Clock interface {
	Height() uint64
}

// DayOf converts a block height to its day bucket.
func DayOf(height uint64) uint64 {
	return height / BlocksPerDay
}

// SimClock is a manually advanced clock for tests and replay.
type SimClock struct {
	height atomic.Uint64
}

func NewSimClock(height uint64) *SimClock {
	c := &SimClock{}
	c.height.Store(height)
	return c
}

func (c *SimClock) Height() uint64 { return c.height.Load() }

// Advance mines n empty blocks.
func (c *SimClock) Advance(n uint64) { c.height.Add(n) }

// AdvanceDays mines whole day buckets.
func (c *SimClock) AdvanceDays(n uint64) { c.height.Add(n * BlocksPerDay) }

// SetHeight positions the clock absolutely, used when restoring a journal.
func (c *SimClock) SetHeight(h uint64) { c.height.Store(h) }

// IntervalClock maps wall time onto block heights at a fixed block interval,
// anchored at genesis. With a 10-minute interval a day bucket spans exactly
// one real day (144 blocks).
type IntervalClock struct {
	genesis  time.Time
	interval time.Duration
	base     uint64
}

func NewIntervalClock(genesis time.Time, interval time.Duration, baseHeight uint64) *IntervalClock {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &IntervalClock{genesis: genesis, interval: interval, base: baseHeight}
}

func (c *IntervalClock) Height() uint64 {
	elapsed := time.Since(c.genesis)
	if elapsed < 0 {
		return c.base
	}
	return c.base + uint64(elapsed/c.interval)
}
