package counters

import (
	"sort"
	"sync"
)

// Counters manages the counters on a single card or player.
type Counters struct {
	mu     sync.RWMutex
	counts map[CounterType]int
}

// NewCounters creates an empty Counters collection.
func NewCounters() *Counters {
	return &Counters{counts: make(map[CounterType]int)}
}

// Add adds amount counters of the given type. Non-positive amounts are ignored.
func (cs *Counters) Add(ct CounterType, amount int) {
	if amount <= 0 {
		return
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.counts[ct] += amount
}

// Remove removes up to amount counters of the given type and returns the
// number actually removed.
func (cs *Counters) Remove(ct CounterType, amount int) int {
	if amount <= 0 {
		return 0
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	have := cs.counts[ct]
	if amount > have {
		amount = have
	}
	if have-amount == 0 {
		delete(cs.counts, ct)
	} else {
		cs.counts[ct] = have - amount
	}
	return amount
}

// RemoveAll removes every counter of the given type and returns how many there were.
func (cs *Counters) RemoveAll(ct CounterType) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	n := cs.counts[ct]
	delete(cs.counts, ct)
	return n
}

// Count returns the number of counters of the given type.
func (cs *Counters) Count(ct CounterType) int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.counts[ct]
}

// Has reports whether at least one counter of the type is present.
func (cs *Counters) Has(ct CounterType) bool {
	return cs.Count(ct) > 0
}

// Total returns the total number of counters of all types.
func (cs *Counters) Total() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	total := 0
	for _, n := range cs.counts {
		total += n
	}
	return total
}

// Types returns the counter types present, sorted by name.
func (cs *Counters) Types() []CounterType {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	types := make([]CounterType, 0, len(cs.counts))
	for ct := range cs.counts {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Boost returns the summed power/toughness change of all boost counters.
func (cs *Counters) Boost() (power, toughness int) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for ct, n := range cs.counts {
		if p, t, ok := ct.Boost(); ok {
			power += p * n
			toughness += t * n
		}
	}
	return power, toughness
}

// Copy creates a deep copy of the collection.
func (cs *Counters) Copy() *Counters {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	cpy := NewCounters()
	for ct, n := range cs.counts {
		cpy.counts[ct] = n
	}
	return cpy
}

// ToView converts counters to the view format, sorted by type.
func (cs *Counters) ToView() []CounterView {
	views := make([]CounterView, 0)
	for _, ct := range cs.Types() {
		views = append(views, CounterView{Name: ct.DisplayName(), Count: cs.Count(ct)})
	}
	return views
}

// CounterView represents a counter in the view format.
type CounterView struct {
	Name  string
	Count int
}
