package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ManaCost represents a parsed mana cost.
type ManaCost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
	X         int // number of X symbols (e.g. "X X G" has 2)
	Hybrid    []HybridCost
}

// HybridCost represents a hybrid mana cost (e.g., W/U, 2/B).
type HybridCost struct {
	Symbol  string
	Options [][]ManaType // Each option is a list of mana types that can pay for it
}

var bracedSymbol = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string. Three notations are accepted:
// - braced: "{2}{R}{R}", "{X}{R}", "{W/U}"
// - spaced card-script notation: "2 R R", "X X G", "W/U W/U"
// - compact: "2RR", "XG"
// Empty strings and "0" parse to a zero cost.
func ParseCost(costStr string) (*ManaCost, error) {
	costStr = strings.TrimSpace(costStr)
	cost := &ManaCost{}
	if costStr == "" || costStr == "0" || strings.EqualFold(costStr, "no cost") {
		return cost, nil
	}

	var symbols []string
	if strings.Contains(costStr, "{") {
		for _, match := range bracedSymbol.FindAllStringSubmatch(costStr, -1) {
			symbols = append(symbols, match[1])
		}
	} else {
		for _, field := range strings.Fields(costStr) {
			symbols = append(symbols, splitCompact(field)...)
		}
	}

	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))

		switch symbol {
		case "X":
			cost.X++
		case "W":
			cost.White++
		case "U":
			cost.Blue++
		case "B":
			cost.Black++
		case "R":
			cost.Red++
		case "G":
			cost.Green++
		case "C":
			cost.Colorless++
		default:
			if num, err := strconv.Atoi(symbol); err == nil && num >= 0 {
				cost.Generic += num
			} else if strings.Contains(symbol, "/") {
				hybrid := parseHybridCost(symbol)
				if hybrid == nil {
					return nil, fmt.Errorf("invalid hybrid mana symbol: %s", symbol)
				}
				cost.Hybrid = append(cost.Hybrid, *hybrid)
			} else {
				return nil, fmt.Errorf("unknown mana symbol: %s", symbol)
			}
		}
	}

	return cost, nil
}

// splitCompact breaks a token such as "2RR" into "2", "R", "R". Hybrid
// tokens ("W/U") and pure numbers are returned whole.
func splitCompact(field string) []string {
	if strings.Contains(field, "/") {
		return []string{field}
	}
	var out []string
	digits := ""
	for _, r := range field {
		if unicode.IsDigit(r) {
			digits += string(r)
			continue
		}
		if digits != "" {
			out = append(out, digits)
			digits = ""
		}
		out = append(out, string(r))
	}
	if digits != "" {
		out = append(out, digits)
	}
	return out
}

// parseHybridCost parses a hybrid mana symbol like "W/U" or "2/B".
func parseHybridCost(symbol string) *HybridCost {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 {
		return nil
	}

	left := parseManaTypes(strings.TrimSpace(parts[0]))
	right := parseManaTypes(strings.TrimSpace(parts[1]))
	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	return &HybridCost{
		Symbol:  strings.TrimSpace(parts[0]) + "/" + strings.TrimSpace(parts[1]),
		Options: [][]ManaType{left, right},
	}
}

// parseManaTypes parses a mana type string (e.g., "W", "2", "B").
func parseManaTypes(s string) []ManaType {
	switch s {
	case "W":
		return []ManaType{ManaWhite}
	case "U":
		return []ManaType{ManaBlue}
	case "B":
		return []ManaType{ManaBlack}
	case "R":
		return []ManaType{ManaRed}
	case "G":
		return []ManaType{ManaGreen}
	case "C":
		return []ManaType{ManaColorless}
	}
	if num, err := strconv.Atoi(s); err == nil && num > 0 {
		return []ManaType{ManaGeneric}
	}
	return nil
}

// String renders the cost in spaced card-script notation ("X 2 W U"),
// or "0" for a zero cost.
func (mc *ManaCost) String() string {
	var parts []string
	for i := 0; i < mc.X; i++ {
		parts = append(parts, "X")
	}
	if mc.Generic > 0 {
		parts = append(parts, strconv.Itoa(mc.Generic))
	}
	for _, h := range mc.Hybrid {
		parts = append(parts, h.Symbol)
	}
	appendN := func(symbol string, n int) {
		for i := 0; i < n; i++ {
			parts = append(parts, symbol)
		}
	}
	appendN("W", mc.White)
	appendN("U", mc.Blue)
	appendN("B", mc.Black)
	appendN("R", mc.Red)
	appendN("G", mc.Green)
	appendN("C", mc.Colorless)

	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " ")
}

// Braced renders the cost with one brace group per symbol ("{2}{W}{U}").
func (mc *ManaCost) Braced() string {
	s := mc.String()
	if s == "0" {
		return "{0}"
	}
	var b strings.Builder
	for _, part := range strings.Fields(s) {
		b.WriteString("{" + part + "}")
	}
	return b.String()
}

// IsZero reports whether the cost requires no mana at all.
func (mc *ManaCost) IsZero() bool {
	return mc.String() == "0"
}

// ConvertedManaCost returns the converted mana cost; X counts as zero and
// a hybrid symbol counts as its larger half.
func (mc *ManaCost) ConvertedManaCost() int {
	total := mc.Generic + mc.White + mc.Blue + mc.Black + mc.Red + mc.Green + mc.Colorless
	for _, h := range mc.Hybrid {
		best := 1
		for _, side := range strings.Split(h.Symbol, "/") {
			if n, err := strconv.Atoi(side); err == nil && n > best {
				best = n
			}
		}
		total += best
	}
	return total
}

// Colors returns the colors named by the cost's colored and hybrid symbols.
func (mc *ManaCost) Colors() ColorSet {
	var set ColorSet
	if mc.White > 0 {
		set = set.With(White)
	}
	if mc.Blue > 0 {
		set = set.With(Blue)
	}
	if mc.Black > 0 {
		set = set.With(Black)
	}
	if mc.Red > 0 {
		set = set.With(Red)
	}
	if mc.Green > 0 {
		set = set.With(Green)
	}
	for _, h := range mc.Hybrid {
		for _, option := range h.Options {
			for _, mt := range option {
				if c, ok := colorOfType(mt); ok {
					set = set.With(c)
				}
			}
		}
	}
	return set
}

// Combine returns the sum of two costs. Neither input is modified.
func (mc *ManaCost) Combine(other *ManaCost) *ManaCost {
	if other == nil {
		other = &ManaCost{}
	}
	return &ManaCost{
		Generic:   mc.Generic + other.Generic,
		White:     mc.White + other.White,
		Blue:      mc.Blue + other.Blue,
		Black:     mc.Black + other.Black,
		Red:       mc.Red + other.Red,
		Green:     mc.Green + other.Green,
		Colorless: mc.Colorless + other.Colorless,
		X:         mc.X + other.X,
		Hybrid:    append(append([]HybridCost(nil), mc.Hybrid...), other.Hybrid...),
	}
}

// AddCosts parses two cost strings and returns their sum in spaced notation.
func AddCosts(a, b string) (string, error) {
	left, err := ParseCost(a)
	if err != nil {
		return "", err
	}
	right, err := ParseCost(b)
	if err != nil {
		return "", err
	}
	return left.Combine(right).String(), nil
}

// CanPay checks if a mana pool can pay for this cost with the given X value.
// Hybrid symbols are satisfied by any mana, which is enough for the
// playability checks made before payment.
func (mc *ManaCost) CanPay(pool *ManaPool, xValue int) bool {
	if mc.X > 0 && xValue < 0 {
		return false
	}

	colored := map[ManaType]int{
		ManaWhite:     mc.White,
		ManaBlue:      mc.Blue,
		ManaBlack:     mc.Black,
		ManaRed:       mc.Red,
		ManaGreen:     mc.Green,
		ManaColorless: mc.Colorless,
	}
	required := 0
	for mt, n := range colored {
		if pool.GetTotal(mt) < n {
			return false
		}
		required += n
	}

	required += mc.Generic + len(mc.Hybrid) + mc.X*xValue
	return pool.GetTotalMana() >= required
}
