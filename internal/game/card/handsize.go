package card

import "sort"

// HandSizeOp modifies a player's maximum hand size. Stamp pairs the
// operation added by an enter hook with its removal by the leave hook.
type HandSizeOp struct {
	Mode   string // "=", "+", "-" (or Set, Add, Subtract)
	Amount int    // -1 means no maximum
	Stamp  int
}

// ApplyHandSize folds ops, in stamp order, over a base hand size. The
// result is -1 when there is no maximum.
func ApplyHandSize(base int, ops []HandSizeOp) int {
	sorted := append([]HandSizeOp(nil), ops...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stamp < sorted[j].Stamp })

	size := base
	for _, op := range sorted {
		switch op.Mode {
		case "=", "Set":
			size = op.Amount
		case "+", "Add":
			if size >= 0 {
				size += op.Amount
			}
		case "-", "Subtract":
			if size >= 0 {
				size = max(size-op.Amount, 0)
			}
		}
	}
	return size
}
