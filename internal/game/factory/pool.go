package factory

import (
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/card"
)

// loadPool binds one instance of every card in the store, once.
func (f *Factory) loadPool() {
	f.poolOnce.Do(func() {
		for t := range f.store.All() {
			c, err := f.Bind(t, f.poolOwner)
			if err != nil {
				f.logger.Warn("skipping card in pool",
					zap.String("card", t.Name),
					zap.Error(err),
				)
				continue
			}
			f.pool = append(f.pool, c)
		}
		f.logger.Debug("card pool bound", zap.Int("cards", len(f.pool)))
	})
}

// All iterates over the card pool, one bound instance per template, in
// store order. Each call starts over; the pool cannot be changed through it.
func (f *Factory) All() iter.Seq[*card.Instance] {
	f.loadPool()
	return func(yield func(*card.Instance) bool) {
		for _, c := range f.pool {
			if !yield(c) {
				return
			}
		}
	}
}

// Len is the size of the card pool.
func (f *Factory) Len() int {
	f.loadPool()
	return len(f.pool)
}

// RandomCombination returns n distinct pool instances. n must be below a
// quarter of the pool size: picks are drawn by rejection, which slows
// down sharply as n approaches the pool size.
func (f *Factory) RandomCombination(n int) ([]*card.Instance, error) {
	size := f.Len()
	switch {
	case n < 0:
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	case n >= size:
		return nil, fmt.Errorf("%w: %d cards requested from a pool of %d", ErrInvalidArgument, n, size)
	case n >= size/4:
		return nil, fmt.Errorf("%w: %d cards requested, must be below a quarter of the pool (%d)", ErrInvalidArgument, n, size)
	}

	picked := make(map[int]struct{}, n)
	f.rndMu.Lock()
	for len(picked) < n {
		picked[f.rnd.Intn(size)] = struct{}{}
	}
	f.rndMu.Unlock()

	idx := make([]int, 0, n)
	for i := range picked {
		idx = append(idx, i)
	}
	slices.Sort(idx)
	out := make([]*card.Instance, len(idx))
	for i, j := range idx {
		out[i] = f.pool[j]
	}
	return out, nil
}
