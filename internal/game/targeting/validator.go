package targeting

import (
	"fmt"
	"slices"
	"strings"
)

// TargetInfo describes a potential target.
type TargetInfo struct {
	ID         string
	IsPlayer   bool
	Name       string
	Types      []string // card types and subtypes, e.g. Creature, Artifact, Goblin
	Colors     []string // lower-case color names
	Controller string
	Owner      string
	Zone       string
	Tapped     bool
	Lost       bool
}

func (ti TargetInfo) hasType(t string) bool {
	return slices.ContainsFunc(ti.Types, func(s string) bool { return strings.EqualFold(s, t) })
}

func (ti TargetInfo) hasColor(c string) bool {
	return slices.ContainsFunc(ti.Colors, func(s string) bool { return strings.EqualFold(s, c) })
}

// TargetGameStateAccessor provides access to game state needed for target validation.
type TargetGameStateAccessor interface {
	// FindTarget returns info about a card or player by ID.
	FindTarget(id string) (TargetInfo, bool)
	// Candidates lists every card and player that could be targeted.
	Candidates() []TargetInfo
}

// Context carries who is choosing and for which source.
type Context struct {
	SourceID   string
	Controller string
}

// TargetValidator validates that selected targets are legal.
type TargetValidator struct {
	gameState TargetGameStateAccessor
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(gameState TargetGameStateAccessor) *TargetValidator {
	return &TargetValidator{gameState: gameState}
}

var colorNames = []string{"white", "blue", "black", "red", "green"}

// Matches reports whether info satisfies the filter from ctx's point of view.
func (f Filter) Matches(info TargetInfo, ctx Context) bool {
	switch f.Type {
	case "Player":
		if !info.IsPlayer {
			return false
		}
	case "Opponent":
		if !info.IsPlayer || info.ID == ctx.Controller {
			return false
		}
	case "You":
		if !info.IsPlayer || info.ID != ctx.Controller {
			return false
		}
	case "Card":
		if info.IsPlayer {
			return false
		}
	case "Permanent":
		if info.IsPlayer || info.Zone != "Battlefield" {
			return false
		}
	default:
		if info.IsPlayer || !info.hasType(f.Type) {
			return false
		}
	}
	for _, prop := range f.Props {
		if !matchProp(prop, info, ctx) {
			return false
		}
	}
	return true
}

func matchProp(prop string, info TargetInfo, ctx Context) bool {
	switch prop {
	case "YouCtrl":
		return info.Controller == ctx.Controller
	case "OppCtrl":
		return info.Controller != "" && info.Controller != ctx.Controller
	case "YouOwn":
		return info.Owner == ctx.Controller
	case "OppOwn":
		return info.Owner != "" && info.Owner != ctx.Controller
	case "tapped":
		return info.Tapped
	case "untapped":
		return !info.Tapped
	case "Other":
		return info.ID != ctx.SourceID
	case "Self":
		return info.ID == ctx.SourceID
	case "nonColorless", "Colored":
		return len(info.Colors) > 0
	case "Colorless":
		return len(info.Colors) == 0
	}
	if rest, ok := strings.CutPrefix(prop, "non"); ok {
		if isColor(rest) {
			return !info.hasColor(rest)
		}
		return !info.hasType(rest)
	}
	if isColor(prop) {
		return info.hasColor(prop)
	}
	return info.hasType(prop)
}

func isColor(s string) bool {
	return slices.Contains(colorNames, strings.ToLower(s))
}

// Matches reports whether info satisfies any of the requirement's filters.
func (tr TargetRequirement) Matches(info TargetInfo, ctx Context) bool {
	if info.IsPlayer && info.Lost {
		return false
	}
	for _, f := range tr.Filters {
		if f.Matches(info, ctx) {
			return true
		}
	}
	return false
}

// ValidateTarget checks if a single target ID is valid for the given requirement.
func (tv *TargetValidator) ValidateTarget(targetID string, requirement TargetRequirement, ctx Context) error {
	if tv == nil || tv.gameState == nil {
		return fmt.Errorf("target validator not initialized")
	}
	info, ok := tv.gameState.FindTarget(targetID)
	if !ok {
		return fmt.Errorf("target %s not found", targetID)
	}
	if !requirement.Matches(info, ctx) {
		name := info.Name
		if name == "" {
			name = targetID
		}
		return fmt.Errorf("target %s is not a legal %s", name, requirement.Describe())
	}
	return nil
}

// ValidateTargetSelection validates an entire target selection against its requirements.
func (tv *TargetValidator) ValidateTargetSelection(selection *TargetSelection, ctx Context) error {
	if err := selection.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(selection.Targets))
	for _, targetID := range selection.Targets {
		if seen[targetID] {
			return fmt.Errorf("duplicate target: %s", targetID)
		}
		seen[targetID] = true
		if err := tv.ValidateTarget(targetID, selection.Requirement, ctx); err != nil {
			return fmt.Errorf("invalid target %s: %w", targetID, err)
		}
	}
	return nil
}

// LegalTargets returns every candidate matching the requirement, in
// candidate order.
func (tv *TargetValidator) LegalTargets(requirement TargetRequirement, ctx Context) []TargetInfo {
	var out []TargetInfo
	for _, info := range tv.gameState.Candidates() {
		if requirement.Matches(info, ctx) {
			out = append(out, info)
		}
	}
	return out
}
