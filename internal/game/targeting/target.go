package targeting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoFilter is returned when a target requirement has no filters.
var ErrNoFilter = errors.New("empty target filter")

// Filter is one alternative of a ValidTgts expression, e.g. "Creature.OppCtrl+tapped".
type Filter struct {
	// Type is the object type: Card, Permanent, Creature, Artifact, Player, Opponent, ...
	Type string
	// Props are the dot/plus separated restrictions: YouCtrl, nonBlack, tapped, Other, ...
	Props []string
}

// String renders the filter back to script notation.
func (f Filter) String() string {
	if len(f.Props) == 0 {
		return f.Type
	}
	return f.Type + "." + strings.Join(f.Props, "+")
}

// IsPlayerFilter reports whether the filter selects players.
func (f Filter) IsPlayerFilter() bool {
	switch f.Type {
	case "Player", "Opponent", "You":
		return true
	}
	return false
}

// TargetRequirement defines what targets a spell or ability requires.
type TargetRequirement struct {
	// Filters are alternatives; a target is legal if it matches any of them.
	Filters []Filter
	// MinTargets is the minimum number of targets required (usually 1)
	MinTargets int
	// MaxTargets is the maximum number of targets allowed
	MaxTargets int
	// Prompt is shown when choosing targets
	Prompt string
}

// ParseFilters parses a ValidTgts/ValidCards expression such as
// "Creature,Player" or "Artifact.YouCtrl+untapped".
func ParseFilters(expr string) ([]Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrNoFilter
	}
	var filters []Filter
	for _, alt := range strings.Split(expr, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, fmt.Errorf("empty alternative in %q", expr)
		}
		typ, rest, _ := strings.Cut(alt, ".")
		f := Filter{Type: typ}
		if rest != "" {
			f.Props = strings.Split(rest, "+")
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// NewRequirement builds a requirement from a ValidTgts expression and the
// optional TargetMin/TargetMax/TgtPrompt parameters (empty strings use defaults
// of one target).
func NewRequirement(validTgts, minStr, maxStr, prompt string) (TargetRequirement, error) {
	filters, err := ParseFilters(validTgts)
	if err != nil {
		return TargetRequirement{}, err
	}
	req := TargetRequirement{Filters: filters, MinTargets: 1, MaxTargets: 1, Prompt: prompt}
	if minStr != "" {
		if req.MinTargets, err = strconv.Atoi(minStr); err != nil || req.MinTargets < 0 {
			return TargetRequirement{}, fmt.Errorf("invalid TargetMin %q", minStr)
		}
	}
	if maxStr != "" {
		if req.MaxTargets, err = strconv.Atoi(maxStr); err != nil || req.MaxTargets < 1 {
			return TargetRequirement{}, fmt.Errorf("invalid TargetMax %q", maxStr)
		}
	}
	if req.MinTargets > req.MaxTargets {
		return TargetRequirement{}, fmt.Errorf("TargetMin %d exceeds TargetMax %d", req.MinTargets, req.MaxTargets)
	}
	if req.Prompt == "" {
		req.Prompt = "Select target " + strings.ToLower(req.Describe())
	}
	return req, nil
}

// Describe renders the filters for prompts and stack descriptions,
// e.g. "creature or player".
func (tr TargetRequirement) Describe() string {
	parts := make([]string, 0, len(tr.Filters))
	for _, f := range tr.Filters {
		parts = append(parts, strings.ToLower(f.Type))
	}
	return strings.Join(parts, " or ")
}

// AllowsPlayers reports whether any alternative selects players.
func (tr TargetRequirement) AllowsPlayers() bool {
	for _, f := range tr.Filters {
		if f.IsPlayerFilter() {
			return true
		}
	}
	return false
}

// TargetSelection represents a player's target selection for a spell or ability.
type TargetSelection struct {
	// Targets is a list of target IDs (card IDs or player IDs)
	Targets []string
	// Requirement is the requirement this selection satisfies
	Requirement TargetRequirement
}

// Validate checks the number of chosen targets.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	count := len(ts.Targets)
	if count < ts.Requirement.MinTargets {
		return fmt.Errorf("not enough targets: need at least %d, got %d", ts.Requirement.MinTargets, count)
	}
	if count > ts.Requirement.MaxTargets {
		return fmt.Errorf("too many targets: need at most %d, got %d", ts.Requirement.MaxTargets, count)
	}
	return nil
}

// IsComplete checks if the target selection meets the requirement.
func (ts *TargetSelection) IsComplete() bool {
	return ts.Validate() == nil
}

// FormatTargets formats target IDs for metadata storage.
func FormatTargets(targets []string) string {
	return strings.Join(targets, ",")
}

// ParseTargets parses target IDs from a formatted string.
func ParseTargets(formatted string) []string {
	if formatted == "" {
		return []string{}
	}
	return strings.Split(formatted, ",")
}
