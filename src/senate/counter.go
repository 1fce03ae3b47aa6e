package senate

import (
	"context"
	"sync"
)

// Persister stores the counter so it survives restarts.
type Persister interface {
	SaveIndex(ctx context.Context, index int) error
}

// Counter hands out bill numbers. It is safe for concurrent use.
type Counter struct {
	mu      sync.Mutex
	current int

	// syncMu orders Sync calls so an older value never overwrites a newer one.
	syncMu    sync.Mutex
	persister Persister
}

// NewCounter returns a counter starting at initial. p may be nil.
func NewCounter(initial int, p Persister) *Counter {
	return &Counter{current: initial, persister: p}
}

// Increment advances the counter and returns the new value.
func (c *Counter) Increment() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	return c.current
}

// Current returns the last issued number.
func (c *Counter) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set overwrites the counter. No check is made against existing bills.
func (c *Counter) Set(n int) {
	c.mu.Lock()
	c.current = n
	c.mu.Unlock()
}

// Sync writes the current value through the persister, if any.
func (c *Counter) Sync(ctx context.Context) error {
	if c.persister == nil {
		return nil
	}
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	return c.persister.SaveIndex(ctx, c.Current())
}
