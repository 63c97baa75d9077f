package keyword

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

const (
	etbTappedText          = "CARDNAME enters the battlefield tapped."
	etbTappedFewLandsText  = "CARDNAME enters the battlefield tapped unless you control two or fewer other lands."
	etbTappedUnlessControl = "CARDNAME enters the battlefield tapped unless you control a"
	isColorPrefix          = "CARDNAME is "
)

// signature matches one kind. Signatures are tried in table order, so more
// specific patterns come before patterns that share their prefix.
type signature struct {
	kind   Kind
	match  func(raw string) bool
	decode func(raw string) ([]string, error)
}

func prefix(p string) func(string) bool {
	return func(raw string) bool { return strings.HasPrefix(raw, p) }
}

func exact(s string) func(string) bool {
	return func(raw string) bool { return raw == s }
}

var signatures = []signature{
	{ETBTappedUnlessFewLands, exact(etbTappedFewLandsText), noParams},
	{ETBTappedUnlessControl, prefix(etbTappedUnlessControl), decodeUnlessControl},
	{ETBTapped, exact(etbTappedText), noParams},
	{IsColor, isColorKeyword, decodeIsColor},
	{Sunburst, prefix("Sunburst"), noParams},
	{SearchRebel, prefix("SearchRebel"), colonCost},
	{Morph, prefix("Morph"), colonCost},
	{Unearth, prefix("Unearth"), colonCost},
	{Madness, prefix("Madness"), colonCost},
	{Devour, prefix("Devour"), colonInt},
	{Modular, prefix("Modular"), decodeModular},
	{ETBCounter, prefix("etbCounter"), decodeETBCounter},
	{Bloodthirst, prefix("Bloodthirst"), spaceInt},
	{Multikicker, prefix("Multikicker"), splitCost("kicker ")},
	{Kicker, prefix("Kicker"), colonCost},
	{Replicate, prefix("Replicate"), splitCost("cate ")},
	{Evoke, prefix("Evoke"), colonCost},
	{TypeCycling, prefix("TypeCycling"), decodeTypeCycling},
	{Cycling, prefix("Cycling"), colonCost},
	{Flashback, prefix("Flashback"), colonCost},
	{Transmute, prefix("Transmute"), colonCost},
	{Soulshift, prefix("Soulshift"), colonInt},
	{Echo, prefix("Echo"), colonCost},
	{HandSize, prefix("HandSize"), decodeHandSize},
	{Suspend, prefix("Suspend"), decodeSuspend},
	{Fading, prefix("Fading"), colonInt},
	{Vanishing, prefix("Vanishing"), colonInt},
}

// ParseOne decodes a single keyword. ok is false when raw matches no known
// kind; such keywords are plain rules text. A recognised keyword with bad
// parameters returns a *ParseError.
func ParseOne(raw string) (d Directive, ok bool, err error) {
	for _, sig := range signatures {
		if !sig.match(raw) {
			continue
		}
		params, err := sig.decode(raw)
		if err != nil {
			return Directive{}, true, &ParseError{Raw: raw, Err: err}
		}
		return Directive{Kind: sig.kind, Raw: raw, Params: params}, true, nil
	}
	return Directive{}, false, nil
}

// Parse decodes every keyword in order. Unknown keywords produce no
// directive. Malformed keywords are reported in the joined error while the
// remaining directives are still returned. raw is not modified.
func Parse(raw []string) ([]Directive, error) {
	var (
		out  []Directive
		errs []error
	)
	for i, kw := range raw {
		d, ok, err := ParseOne(kw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		d.Index = i
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}

func noParams(string) ([]string, error) { return nil, nil }

// colonFields splits "Kind:a:b" and returns the fields after the kind.
func colonFields(raw string, want int) ([]string, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < want+1 {
		return nil, fmt.Errorf("expected %d parameter(s)", want)
	}
	fields := parts[1:]
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func colonCost(raw string) ([]string, error) {
	fields, err := colonFields(raw, 1)
	if err != nil {
		return nil, err
	}
	if fields[0] == "" {
		return nil, errors.New("empty cost")
	}
	return fields[:1], nil
}

func colonInt(raw string) ([]string, error) {
	fields, err := colonFields(raw, 1)
	if err != nil {
		return nil, err
	}
	if err := checkCount(fields[0]); err != nil {
		return nil, err
	}
	return fields[:1], nil
}

func spaceInt(raw string) ([]string, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return nil, errors.New("expected a count")
	}
	if err := checkCount(fields[1]); err != nil {
		return nil, err
	}
	return fields[1:2], nil
}

func splitCost(sep string) func(string) ([]string, error) {
	return func(raw string) ([]string, error) {
		_, cost, found := strings.Cut(raw, sep)
		cost = strings.TrimSpace(cost)
		if !found || cost == "" {
			return nil, errors.New("missing cost")
		}
		if _, err := mana.ParseCost(cost); err != nil {
			return nil, err
		}
		return []string{cost}, nil
	}
}

func checkCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("count %q is not a number", s)
	}
	if n < 0 {
		return fmt.Errorf("count %d is negative", n)
	}
	return nil
}

func decodeUnlessControl(raw string) ([]string, error) {
	rest := strings.TrimPrefix(raw, etbTappedUnlessControl)
	rest = strings.TrimPrefix(rest, "n") // "... control an Island."
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ".")
	if rest == "" {
		return nil, errors.New("missing land types")
	}
	sep := " or a "
	if strings.Contains(rest, " or an ") {
		sep = " or an "
	}
	var types []string
	for _, t := range strings.Split(rest, sep) {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types, nil
}

// isColorKeyword matches "CARDNAME is blue." but not other "CARDNAME is"
// keywords such as "CARDNAME is unblockable.".
func isColorKeyword(raw string) bool {
	rest, ok := strings.CutPrefix(raw, isColorPrefix)
	if !ok {
		return false
	}
	_, ok = mana.ParseColor(rest)
	return ok
}

func decodeIsColor(raw string) ([]string, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(raw, isColorPrefix), ".")
	c, ok := mana.ParseColor(name)
	if !ok {
		return nil, fmt.Errorf("unknown color %q", name)
	}
	return []string{c.String()}, nil
}

// decodeModular accepts "Modular 2" and "Modular:2".
func decodeModular(raw string) ([]string, error) {
	n := strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(raw, "Modular"), ": "))
	if err := checkCount(n); err != nil {
		return nil, err
	}
	return []string{n}, nil
}

// decodeETBCounter reads etbCounter:Type:Amount[:Condition[:Description]].
// Params are always [type, amount, condition, description].
func decodeETBCounter(raw string) ([]string, error) {
	parts := strings.SplitN(raw, ":", 5)
	if len(parts) < 3 {
		return nil, errors.New("expected etbCounter:Type:Amount")
	}
	ct, err := counters.ParseType(parts[1])
	if err != nil {
		return nil, err
	}
	amount := strings.TrimSpace(parts[2])
	if amount != "X" {
		if err := checkCount(amount); err != nil {
			return nil, err
		}
	}
	params := []string{string(ct), amount, "", ""}
	if len(parts) > 3 {
		params[2] = parts[3]
	}
	if len(parts) > 4 {
		params[3] = parts[4]
	}
	return params, nil
}

func decodeTypeCycling(raw string) ([]string, error) {
	fields, err := colonFields(raw, 2)
	if err != nil {
		return nil, err
	}
	if fields[0] == "" || fields[1] == "" {
		return nil, errors.New("expected TypeCycling:Type:Cost")
	}
	return fields[:2], nil
}

// decodeHandSize reads "HandSize Mode Amount Target".
func decodeHandSize(raw string) ([]string, error) {
	fields := strings.Fields(raw)
	if len(fields) != 4 {
		return nil, errors.New("expected HandSize <Mode> <Amount|INF> <Self|Opponent|All>")
	}
	mode, amount, target := fields[1], fields[2], fields[3]
	switch mode {
	case "=", "+", "-", "Set", "Add", "Subtract":
	default:
		return nil, fmt.Errorf("unknown hand size mode %q", mode)
	}
	if amount != "INF" {
		if err := checkCount(amount); err != nil {
			return nil, err
		}
	}
	switch target {
	case "Self", "Opponent", "All":
	default:
		return nil, fmt.Errorf("unknown hand size target %q", target)
	}
	return []string{mode, amount, target}, nil
}

// decodeSuspend reads Suspend:<time counters>:<cost>.
func decodeSuspend(raw string) ([]string, error) {
	fields, err := colonFields(raw, 2)
	if err != nil {
		return nil, err
	}
	if err := checkCount(fields[0]); err != nil {
		return nil, err
	}
	if _, err := mana.ParseCost(fields[1]); err != nil {
		return nil, err
	}
	return fields[:2], nil
}
