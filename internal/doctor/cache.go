package doctor

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// SlotCache keeps materialized slots_booked maps per doctor so the public
// catalog does not re-aggregate the ledger on every request. Booking and
// cancellation invalidate the touched doctor's entry.
type SlotCache struct {
	cache *lru.Cache[string, map[string][]string]
}

// NewSlotCache returns a nil cache when disabled; all methods are safe on nil
// and behave as a permanent miss.
func NewSlotCache(enabled bool, size int) (*SlotCache, error) {
	if !enabled {
		return nil, nil
	}
	c, err := lru.New[string, map[string][]string](size)
	if err != nil {
		return nil, err
	}
	return &SlotCache{cache: c}, nil
}

func (c *SlotCache) Get(doctorID string) (map[string][]string, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(doctorID)
}

func (c *SlotCache) Store(doctorID string, slots map[string][]string) {
	if c == nil {
		return
	}
	c.cache.Add(doctorID, slots)
}

func (c *SlotCache) Invalidate(doctorID string) {
	if c == nil {
		return
	}
	c.cache.Remove(doctorID)
}
