package mana

import "strings"

// Color is one of the five Magic colors.
type Color uint8

const (
	White Color = 1 << iota
	Blue
	Black
	Red
	Green
)

var colorOrder = []Color{White, Blue, Black, Red, Green}

// String returns the lower-case color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Blue:
		return "blue"
	case Black:
		return "black"
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return "colorless"
	}
}

// Short returns the single letter mana symbol for the color.
func (c Color) Short() string {
	switch c {
	case White:
		return "W"
	case Blue:
		return "U"
	case Black:
		return "B"
	case Red:
		return "R"
	case Green:
		return "G"
	default:
		return "1"
	}
}

// ManaType returns the pool mana type produced by this color.
func (c Color) ManaType() ManaType {
	switch c {
	case White:
		return ManaWhite
	case Blue:
		return ManaBlue
	case Black:
		return ManaBlack
	case Red:
		return ManaRed
	case Green:
		return ManaGreen
	default:
		return ManaColorless
	}
}

// ParseColor accepts a color name ("blue"), a mana letter ("U") or either
// with surrounding punctuation ("blue.").
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), "."))
	switch s {
	case "white", "w":
		return White, true
	case "blue", "u":
		return Blue, true
	case "black", "b":
		return Black, true
	case "red", "r":
		return Red, true
	case "green", "g":
		return Green, true
	}
	return 0, false
}

// AllColors returns the five colors in WUBRG order.
func AllColors() []Color {
	return append([]Color(nil), colorOrder...)
}

// ColorSet is a set of colors; the zero value is colorless.
type ColorSet uint8

// With returns the set plus c.
func (s ColorSet) With(c Color) ColorSet { return s | ColorSet(c) }

// Union returns the union of two sets.
func (s ColorSet) Union(o ColorSet) ColorSet { return s | o }

// Has reports whether c is in the set.
func (s ColorSet) Has(c Color) bool { return s&ColorSet(c) != 0 }

// IsColorless reports whether the set is empty.
func (s ColorSet) IsColorless() bool { return s == 0 }

// SharesColorWith reports whether the two sets have a color in common.
func (s ColorSet) SharesColorWith(o ColorSet) bool { return s&o != 0 }

// Colors lists the members in WUBRG order.
func (s ColorSet) Colors() []Color {
	var out []Color
	for _, c := range colorOrder {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// String joins the color names, or returns "colorless".
func (s ColorSet) String() string {
	if s.IsColorless() {
		return "colorless"
	}
	names := make([]string, 0, 5)
	for _, c := range s.Colors() {
		names = append(names, c.String())
	}
	return strings.Join(names, " ")
}

// ColorsOf parses a cost string and returns its colors; unparseable costs
// are colorless.
func ColorsOf(cost string) ColorSet {
	mc, err := ParseCost(cost)
	if err != nil {
		return 0
	}
	return mc.Colors()
}

func colorOfType(mt ManaType) (Color, bool) {
	switch mt {
	case ManaWhite:
		return White, true
	case ManaBlue:
		return Blue, true
	case ManaBlack:
		return Black, true
	case ManaRed:
		return Red, true
	case ManaGreen:
		return Green, true
	}
	return 0, false
}
