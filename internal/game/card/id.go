// Package card defines runtime card instances and the abilities and
// lifecycle commands attached to them.
package card

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a card instance. IDs are never reused within a process.
type ID int

func (id ID) String() string { return strconv.Itoa(int(id)) }

// ParseID converts the string form used in events and targets back to an ID.
func ParseID(s string) (ID, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}

// PlayerID identifies a player.
type PlayerID string

// IDAllocator hands out instance IDs. Every creation path (binding, tokens,
// copies) shares one allocator, so IDs are unique without any offset.
type IDAllocator struct {
	last atomic.Int64
}

// Next returns a fresh ID greater than every ID handed out or observed so far.
func (a *IDAllocator) Next() ID {
	return ID(a.last.Add(1))
}

// Observe records an ID created elsewhere so later IDs stay above it.
func (a *IDAllocator) Observe(id ID) {
	for {
		cur := a.last.Load()
		if int64(id) <= cur || a.last.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// Last returns the most recent ID handed out or observed.
func (a *IDAllocator) Last() ID {
	return ID(a.last.Load())
}
