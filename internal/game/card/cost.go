package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

// Cost is a parsed ability cost such as "1 T Sac<1/CARDNAME>".
type Cost struct {
	Mana        string // spaced notation, "" for no mana
	Tap         bool
	Untap       bool
	SacAmount   int
	SacType     string // CARDNAME for the source itself
	PayLife     int
	Discard     int
	DiscardType string // Card, Hand, Random, or a card type
	SubCounters int
	SubCounter  counters.CounterType
	AddCounters int
	AddCounter  counters.CounterType
}

// ParseCost parses a cost script. Mana symbols may appear anywhere among
// the other parts and are combined.
func ParseCost(raw string) (Cost, error) {
	var (
		c     Cost
		manas []string
	)
	for _, part := range strings.Fields(raw) {
		switch {
		case part == "T":
			c.Tap = true
		case part == "Q":
			c.Untap = true
		case strings.HasPrefix(part, "Sac<"):
			n, typ, err := costArgs(part, "Sac")
			if err != nil {
				return Cost{}, err
			}
			c.SacAmount, c.SacType = n, typ
		case strings.HasPrefix(part, "PayLife<"):
			n, _, err := costArgs(part, "PayLife")
			if err != nil {
				return Cost{}, err
			}
			c.PayLife = n
		case strings.HasPrefix(part, "Discard<"):
			n, typ, err := costArgs(part, "Discard")
			if err != nil {
				return Cost{}, err
			}
			c.Discard, c.DiscardType = n, typ
		case strings.HasPrefix(part, "SubCounter<"), strings.HasPrefix(part, "AddCounter<"):
			name, _, _ := strings.Cut(part, "<")
			n, typ, err := costArgs(part, name)
			if err != nil {
				return Cost{}, err
			}
			ct, err := counters.ParseType(typ)
			if err != nil {
				return Cost{}, fmt.Errorf("cost %q: %w", raw, err)
			}
			if name == "SubCounter" {
				c.SubCounters, c.SubCounter = n, ct
			} else {
				c.AddCounters, c.AddCounter = n, ct
			}
		default:
			manas = append(manas, part)
		}
	}
	if len(manas) > 0 {
		mc, err := mana.ParseCost(strings.Join(manas, " "))
		if err != nil {
			return Cost{}, fmt.Errorf("cost %q: %w", raw, err)
		}
		if !mc.IsZero() {
			c.Mana = mc.String()
		}
	}
	return c, nil
}

// MustParseCost is ParseCost for costs written in code.
func MustParseCost(raw string) Cost {
	c, err := ParseCost(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// costArgs reads "Name<n/type>" or "Name<n>".
func costArgs(part, name string) (int, string, error) {
	inner, ok := strings.CutPrefix(part, name+"<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return 0, "", fmt.Errorf("malformed cost part %q", part)
	}
	inner = strings.TrimSuffix(inner, ">")
	num, typ, _ := strings.Cut(inner, "/")
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, "", fmt.Errorf("malformed amount in cost part %q", part)
	}
	return n, typ, nil
}

// IsFree reports whether the cost has no parts at all.
func (c Cost) IsFree() bool {
	return c == Cost{}
}

// ManaCost parses the mana part.
func (c Cost) ManaCost() *mana.ManaCost {
	mc, err := mana.ParseCost(c.Mana)
	if err != nil {
		return &mana.ManaCost{}
	}
	return mc
}

// Script renders the cost back to script notation; ParseCost(c.Script()) == c.
func (c Cost) Script() string {
	var parts []string
	if c.Mana != "" {
		parts = append(parts, c.Mana)
	}
	if c.Tap {
		parts = append(parts, "T")
	}
	if c.Untap {
		parts = append(parts, "Q")
	}
	if c.SacAmount > 0 {
		parts = append(parts, fmt.Sprintf("Sac<%d/%s>", c.SacAmount, c.SacType))
	}
	if c.PayLife > 0 {
		parts = append(parts, fmt.Sprintf("PayLife<%d>", c.PayLife))
	}
	if c.Discard > 0 {
		parts = append(parts, fmt.Sprintf("Discard<%d/%s>", c.Discard, c.DiscardType))
	}
	if c.SubCounters > 0 {
		parts = append(parts, fmt.Sprintf("SubCounter<%d/%s>", c.SubCounters, c.SubCounter))
	}
	if c.AddCounters > 0 {
		parts = append(parts, fmt.Sprintf("AddCounter<%d/%s>", c.AddCounters, c.AddCounter))
	}
	return strings.Join(parts, " ")
}

// Describe renders the cost for display, e.g. "{1}, {T}, Sacrifice Cursed Scroll".
func (c Cost) Describe(cardName string) string {
	var parts []string
	if c.Mana != "" {
		parts = append(parts, c.ManaCost().Braced())
	}
	if c.Tap {
		parts = append(parts, "{T}")
	}
	if c.Untap {
		parts = append(parts, "{Q}")
	}
	if c.SacAmount > 0 {
		if c.SacType == "CARDNAME" {
			parts = append(parts, "Sacrifice "+cardName)
		} else {
			parts = append(parts, fmt.Sprintf("Sacrifice %d %s", c.SacAmount, c.SacType))
		}
	}
	if c.PayLife > 0 {
		parts = append(parts, fmt.Sprintf("Pay %d life", c.PayLife))
	}
	if c.Discard > 0 {
		switch c.DiscardType {
		case "Hand":
			parts = append(parts, "Discard your hand")
		case "CARDNAME":
			parts = append(parts, "Discard "+cardName)
		default:
			parts = append(parts, fmt.Sprintf("Discard %d %s", c.Discard, strings.ToLower(c.DiscardType)))
		}
	}
	if c.SubCounters > 0 {
		parts = append(parts, fmt.Sprintf("Remove %d %s counter(s) from %s", c.SubCounters, c.SubCounter.DisplayName(), cardName))
	}
	if c.AddCounters > 0 {
		parts = append(parts, fmt.Sprintf("Put %d %s counter(s) on %s", c.AddCounters, c.AddCounter.DisplayName(), cardName))
	}
	if len(parts) == 0 {
		return "{0}"
	}
	return strings.Join(parts, ", ")
}

// WithMana returns a copy whose mana part is the sum of c's and extra.
func (c Cost) WithMana(extra string) (Cost, error) {
	sum, err := mana.AddCosts(c.Mana, extra)
	if err != nil {
		return c, err
	}
	if sum == "0" {
		sum = ""
	}
	c.Mana = sum
	return c, nil
}
