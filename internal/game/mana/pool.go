package mana

import (
	"fmt"
	"strings"
	"sync"
)

// ManaType represents a type of mana.
type ManaType string

const (
	ManaWhite     ManaType = "WHITE"
	ManaBlue      ManaType = "BLUE"
	ManaBlack     ManaType = "BLACK"
	ManaRed       ManaType = "RED"
	ManaGreen     ManaType = "GREEN"
	ManaColorless ManaType = "COLORLESS"
	ManaGeneric   ManaType = "GENERIC" // Generic mana can be paid with any type
)

var poolTypes = []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless}

// ManaPool represents a player's mana pool.
type ManaPool struct {
	mu      sync.RWMutex
	amounts map[ManaType]int
}

// NewManaPool creates a new empty mana pool.
func NewManaPool() *ManaPool {
	return &ManaPool{amounts: make(map[ManaType]int)}
}

// Add adds mana to the pool.
func (mp *ManaPool) Add(manaType ManaType, amount int) {
	if amount <= 0 || manaType == ManaGeneric {
		return
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.amounts[manaType] += amount
}

// AddProduced adds the mana described by a produced-mana string such as
// "G G G" or "1 R" (generic symbols become colorless mana).
func (mp *ManaPool) AddProduced(produced string) error {
	cost, err := ParseCost(produced)
	if err != nil {
		return fmt.Errorf("parse produced mana %q: %w", produced, err)
	}
	if len(cost.Hybrid) > 0 || cost.X > 0 {
		return fmt.Errorf("produced mana %q must not contain X or hybrid symbols", produced)
	}
	mp.Add(ManaWhite, cost.White)
	mp.Add(ManaBlue, cost.Blue)
	mp.Add(ManaBlack, cost.Black)
	mp.Add(ManaRed, cost.Red)
	mp.Add(ManaGreen, cost.Green)
	mp.Add(ManaColorless, cost.Colorless+cost.Generic)
	return nil
}

// GetTotal returns the amount of a specific mana type.
func (mp *ManaPool) GetTotal(manaType ManaType) int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.amounts[manaType]
}

// Spend attempts to spend mana from the pool.
// Returns true if successful, false if insufficient mana.
func (mp *ManaPool) Spend(manaType ManaType, amount int) bool {
	if amount <= 0 {
		return true
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.amounts[manaType] < amount {
		return false
	}
	mp.amounts[manaType] -= amount
	return true
}

// Empty empties the pool.
func (mp *ManaPool) Empty() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.amounts = make(map[ManaType]int)
}

// GetTotalMana returns the total mana count across all types.
func (mp *ManaPool) GetTotalMana() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	total := 0
	for _, n := range mp.amounts {
		total += n
	}
	return total
}

// String renders the pool contents in spaced notation, e.g. "G G 1".
func (mp *ManaPool) String() string {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	var parts []string
	for _, mt := range poolTypes {
		symbol := typeSymbol(mt)
		for i := 0; i < mp.amounts[mt]; i++ {
			parts = append(parts, symbol)
		}
	}
	return strings.Join(parts, " ")
}

// Copy creates a deep copy of the mana pool.
func (mp *ManaPool) Copy() *ManaPool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	cpy := NewManaPool()
	for mt, n := range mp.amounts {
		cpy.amounts[mt] = n
	}
	return cpy
}

func typeSymbol(mt ManaType) string {
	switch mt {
	case ManaWhite:
		return "W"
	case ManaBlue:
		return "U"
	case ManaBlack:
		return "B"
	case ManaRed:
		return "R"
	case ManaGreen:
		return "G"
	default:
		return "C"
	}
}

// Pay removes the mana for cost from the pool, with X paid as x. Colored
// symbols are paid first, then hybrid symbols, then generic mana from
// colorless before colored. The pool is left untouched when the cost
// cannot be paid.
func (mp *ManaPool) Pay(cost *ManaCost, x int) bool {
	if !cost.CanPay(mp, x) {
		return false
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()

	work := make(map[ManaType]int, len(mp.amounts))
	for mt, n := range mp.amounts {
		work[mt] = n
	}
	take := func(mt ManaType, n int) bool {
		if work[mt] < n {
			return false
		}
		work[mt] -= n
		return true
	}
	for mt, n := range map[ManaType]int{
		ManaWhite: cost.White, ManaBlue: cost.Blue, ManaBlack: cost.Black,
		ManaRed: cost.Red, ManaGreen: cost.Green, ManaColorless: cost.Colorless,
	} {
		if !take(mt, n) {
			return false
		}
	}
	generic := cost.Generic + cost.X*x
	for _, h := range cost.Hybrid {
		paid := false
		for _, option := range h.Options {
			if len(option) == 1 && option[0] != ManaGeneric && take(option[0], 1) {
				paid = true
				break
			}
		}
		if !paid {
			generic++
		}
	}
	for _, mt := range []ManaType{ManaColorless, ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen} {
		n := min(work[mt], generic)
		work[mt] -= n
		generic -= n
	}
	if generic > 0 {
		return false
	}
	mp.amounts = work
	return true
}
