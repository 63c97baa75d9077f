package card

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/targeting"
)

// ErrAbilityState is returned for an illegal ability state transition.
var ErrAbilityState = errors.New("illegal ability state transition")

// AbilityKind classifies abilities.
type AbilityKind int

const (
	KindSpell AbilityKind = iota
	KindActivated
	KindStatic
	KindTriggered
	KindMana
)

func (k AbilityKind) String() string {
	switch k {
	case KindSpell:
		return "Spell"
	case KindActivated:
		return "Activated"
	case KindStatic:
		return "Static"
	case KindTriggered:
		return "Triggered"
	case KindMana:
		return "Mana"
	}
	return "Unknown"
}

// AbilityState tracks an ability through its lifecycle:
// Unattached -> Attached -> (Queued -> Resolving -> Resolved) | Removed.
type AbilityState int

const (
	Unattached AbilityState = iota
	Attached
	Queued
	Resolving
	Resolved
	Removed
)

func (s AbilityState) String() string {
	return [...]string{"Unattached", "Attached", "Queued", "Resolving", "Resolved", "Removed"}[s]
}

// Effect is what an ability does when it resolves.
type Effect func(g Game, a *Ability) error

// Predicate decides whether an ability may be played.
type Predicate func(g Game, a *Ability) bool

// Ability is a spell or ability attached to a card instance. It refers to
// its card by ID and looks it up through the Game when needed.
type Ability struct {
	Kind   AbilityKind
	Source ID
	// Tag names the ability for structural matching, e.g. "Kicked", "Cycling".
	Tag              string
	Description      string
	StackDescription string
	Cost             Cost
	// Zone the source must be in to play the ability. Defaults to Hand for
	// spells and Battlefield for activated abilities.
	ActivationZone Zone
	SorcerySpeed   bool
	Targets        *targeting.TargetRequirement

	Effect    Effect
	PlayCheck Predicate
	AICheck   Predicate
	// AIDisabled stops the computer from ever playing the ability.
	AIDisabled bool

	Kicker             bool
	AdditionalManaCost string
	MultiKicker        bool
	MultiKickerCost    string
	Replicate          bool
	ReplicateCost      string
	XCost              bool
	XManaCost          string
	Buyback            bool
	AltCost            bool
	FlashbackCast      bool

	// Values chosen while the ability is played or resolves.
	ChosenTargets []string
	Chosen        string
	Amount        int
	Number        int
	Magnitude     int
	XPaid         int
	// Params holds script parameters for scripted abilities.
	Params map[string]string
	// Sub resolves after this ability.
	Sub *Ability

	state AbilityState
}

// State returns the lifecycle state.
func (a *Ability) State() AbilityState { return a.state }

// IsSpell reports whether the ability is a spell.
func (a *Ability) IsSpell() bool { return a.Kind == KindSpell }

// TargetSpec returns the target requirement, or nil.
func (a *Ability) TargetSpec() *targeting.TargetRequirement { return a.Targets }

// zone returns the effective activation zone.
func (a *Ability) zone() Zone {
	if a.ActivationZone != ZoneNone {
		return a.ActivationZone
	}
	if a.Kind == KindSpell {
		return ZoneHand
	}
	return ZoneBattlefield
}

// CanPlay reports whether the controller of the source may play the
// ability now: it is attached, its source is in the activation zone and
// the non-mana parts of its cost can be paid.
func (a *Ability) CanPlay(g Game) bool {
	if a.state != Attached || a.Kind == KindStatic || a.Kind == KindTriggered {
		return false
	}
	src, ok := g.Card(a.Source)
	if !ok || g.ZoneOf(a.Source) != a.zone() {
		return false
	}
	if a.SorcerySpeed || (a.Kind == KindSpell && !src.IsType("Instant") && !src.HasKeyword("Flash")) {
		if g.ActivePlayer() != src.Controller() || !g.Phase().IsMain() {
			return false
		}
	}
	if !a.costPayable(g, src) {
		return false
	}
	if a.PlayCheck != nil && !a.PlayCheck(g, a) {
		return false
	}
	return true
}

func (a *Ability) costPayable(g Game, src *Instance) bool {
	c := a.Cost
	if (c.Tap && src.Tapped) || (c.Untap && !src.Tapped) {
		return false
	}
	if c.PayLife > 0 && g.Life(src.Controller()) < c.PayLife {
		return false
	}
	switch {
	case c.Discard == 0, c.DiscardType == "Hand":
	case c.DiscardType == "CARDNAME":
		if g.ZoneOf(src.ID()) != ZoneHand {
			return false
		}
	case len(g.Cards(ZoneHand, src.Controller())) < c.Discard+a.selfInHand(g):
		return false
	}
	if c.SubCounters > 0 && src.Counters.Count(c.SubCounter) < c.SubCounters {
		return false
	}
	if c.Mana != "" && !c.ManaCost().CanPay(g.ManaPool(src.Controller()), 0) {
		return false
	}
	return true
}

// selfInHand is 1 when the source is itself in hand and cannot pay a
// discard cost for its own ability.
func (a *Ability) selfInHand(g Game) int {
	if g.ZoneOf(a.Source) == ZoneHand {
		return 1
	}
	return 0
}

// CanPlayAI reports whether the computer wants to play the ability. It is
// a separate decision from CanPlay: an AI check may be stricter, and it is
// not required to imply CanPlay.
func (a *Ability) CanPlayAI(g Game) bool {
	if a.AIDisabled {
		return false
	}
	if a.AICheck != nil {
		return a.AICheck(g, a)
	}
	return a.CanPlay(g)
}

// Activate returns a queued copy of the ability, ready for the stack. The
// attached ability itself stays attached and can be activated again.
func (a *Ability) Activate() (*Ability, error) {
	if a.state != Attached && a.state != Unattached {
		return nil, fmt.Errorf("%w: activate from %s", ErrAbilityState, a.state)
	}
	cpy := a.Copy()
	cpy.state = Queued
	return cpy, nil
}

// Resolve runs the effect exactly once, then the sub-ability. Resolving
// may register or queue further abilities.
func (a *Ability) Resolve(g Game) error {
	if a.state != Queued {
		return fmt.Errorf("%w: resolve from %s", ErrAbilityState, a.state)
	}
	a.state = Resolving
	defer func() { a.state = Resolved }()

	if a.Effect != nil {
		if err := a.Effect(g, a); err != nil {
			return err
		}
	}
	if a.Sub != nil {
		sub := a.Sub.Copy()
		sub.state = Queued
		sub.Source = a.Source
		sub.XPaid = a.XPaid
		sub.ChosenTargets = append([]string(nil), a.ChosenTargets...)
		return sub.Resolve(g)
	}
	return nil
}

// Describe returns the display text, e.g. "{2}, {T}: Draw a card.".
func (a *Ability) Describe() string {
	return a.Description
}

// Copy returns an unattached copy sharing the effect and predicates but no
// mutable state.
func (a *Ability) Copy() *Ability {
	cpy := *a
	cpy.state = Unattached
	cpy.ChosenTargets = append([]string(nil), a.ChosenTargets...)
	cpy.Params = maps.Clone(a.Params)
	if a.Targets != nil {
		t := *a.Targets
		t.Filters = append([]targeting.Filter(nil), a.Targets.Filters...)
		cpy.Targets = &t
	}
	if a.Sub != nil {
		cpy.Sub = a.Sub.Copy()
	}
	return &cpy
}

// Matches reports whether other is structurally the same ability: same
// kind, tag, description, cost and cost flags. Used to find the ability on
// a copy of a card that corresponds to one on the original.
func (a *Ability) Matches(other *Ability) bool {
	if other == nil {
		return false
	}
	return a.Kind == other.Kind &&
		a.Tag == other.Tag &&
		a.Description == other.Description &&
		a.Cost == other.Cost &&
		a.Kicker == other.Kicker &&
		a.MultiKicker == other.MultiKicker &&
		a.Replicate == other.Replicate &&
		a.Buyback == other.Buyback &&
		a.AltCost == other.AltCost
}

// String is a short form for logs.
func (a *Ability) String() string {
	var b strings.Builder
	b.WriteString(a.Kind.String())
	if a.Tag != "" {
		b.WriteString("[" + a.Tag + "]")
	}
	if a.Description != "" {
		b.WriteString(" " + a.Description)
	}
	return b.String()
}
