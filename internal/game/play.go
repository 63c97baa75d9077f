package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/rules"
	"github.com/magefree/mage-cardfactory/internal/game/targeting"
)

// AddStack plays a: an attached ability must be playable now, its
// targets must be legal and its cost is paid before it goes on the stack.
func (s *State) AddStack(a *card.Ability) error {
	if a.State() == card.Attached && !a.CanPlay(s) {
		return fmt.Errorf("%w: %s", ErrNotPlayable, a)
	}
	act, err := s.queued(a)
	if err != nil {
		return err
	}
	if err := s.validateTargets(act, true); err != nil {
		return err
	}
	src, ok := s.Card(act.Source)
	if !ok {
		return fmt.Errorf("%w: source %d of %s", ErrNotPlayable, act.Source, act)
	}
	if err := s.payCost(act, src); err != nil {
		return err
	}
	return s.push(act, src)
}

// AddSimultaneous puts a triggered ability on the stack.
func (s *State) AddSimultaneous(a *card.Ability) error {
	return s.playFree(a)
}

// PlayForFree plays a for a human without paying its cost.
func (s *State) PlayForFree(a *card.Ability) error {
	return s.playFree(a)
}

// PlayStackFree plays a for the computer without paying its cost.
func (s *State) PlayStackFree(a *card.Ability) error {
	return s.playFree(a)
}

func (s *State) playFree(a *card.Ability) error {
	act, err := s.queued(a)
	if err != nil {
		return err
	}
	if err := s.validateTargets(act, false); err != nil {
		return err
	}
	src, ok := s.Card(act.Source)
	if !ok {
		return fmt.Errorf("%w: source %d of %s", ErrNotPlayable, act.Source, act)
	}
	return s.push(act, src)
}

func (s *State) queued(a *card.Ability) (*card.Ability, error) {
	if a.State() == card.Queued {
		return a, nil
	}
	return a.Activate()
}

// validateTargets checks the chosen targets: the first MaxTargets against
// the ability's own requirement and the rest against its sub-ability's.
// Unless strict, an ability played without choices is not checked.
func (s *State) validateTargets(a *card.Ability, strict bool) error {
	if a.Targets == nil || (!strict && len(a.ChosenTargets) == 0) {
		return nil
	}
	src, _ := s.Card(a.Source)
	ctx := targeting.Context{SourceID: a.Source.String()}
	if src != nil {
		ctx.Controller = string(src.Controller())
	}

	chosen := a.ChosenTargets
	n := min(len(chosen), a.Targets.MaxTargets)
	sel := &targeting.TargetSelection{Targets: chosen[:n], Requirement: *a.Targets}
	if err := s.validator.ValidateTargetSelection(sel, ctx); err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	rest := chosen[n:]
	if len(rest) == 0 {
		return nil
	}
	if a.Sub == nil || a.Sub.Targets == nil {
		return fmt.Errorf("%s: %d extra targets", a, len(rest))
	}
	sel = &targeting.TargetSelection{Targets: rest, Requirement: *a.Sub.Targets}
	if err := s.validator.ValidateTargetSelection(sel, ctx); err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	return nil
}

// payCost pays every part of a's cost for its source's controller. Mana is
// paid first and is the only part checked up front, so an ability that
// passed CanPlay always pays in full.
func (s *State) payCost(a *card.Ability, src *card.Instance) error {
	cost := a.Cost
	p := src.Controller()
	if cost.Mana != "" && !s.ManaPool(p).Pay(cost.ManaCost(), a.XPaid) {
		return fmt.Errorf("%w: %s for %s", ErrCannotPay, cost.Mana, a)
	}
	if cost.Tap {
		s.Tap(src)
	}
	if cost.Untap {
		s.Untap(src)
	}
	if cost.PayLife > 0 {
		s.LoseLife(p, cost.PayLife)
	}
	if cost.SubCounters > 0 {
		s.RemoveCounter(src, cost.SubCounter, cost.SubCounters)
	}
	if cost.AddCounters > 0 {
		s.AddCounter(src, cost.AddCounter, cost.AddCounters)
	}
	if cost.Discard > 0 {
		if err := s.payDiscard(a, src); err != nil {
			return err
		}
	}
	if cost.SacAmount > 0 {
		return s.paySacrifice(a, src)
	}
	return nil
}

func (s *State) payDiscard(a *card.Ability, src *card.Instance) error {
	cost := a.Cost
	p := src.Controller()
	hand := without(s.Cards(card.ZoneHand, p), src.ID())

	var picked []*card.Instance
	switch cost.DiscardType {
	case "CARDNAME":
		picked = []*card.Instance{src}
	case "Hand":
		picked = hand
	case "Random":
		s.rnd.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })
		picked = hand[:min(cost.Discard, len(hand))]
	default:
		if cost.DiscardType != "" && cost.DiscardType != "Card" {
			hand = ofType(hand, cost.DiscardType)
		}
		picked = s.pick(p, "Discard", hand, cost.Discard)
	}
	if cost.DiscardType != "Hand" && len(picked) < cost.Discard {
		return fmt.Errorf("%w: discard %d for %s", ErrCannotPay, cost.Discard, a)
	}
	for _, c := range picked {
		if err := s.Discard(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) paySacrifice(a *card.Ability, src *card.Instance) error {
	cost := a.Cost
	if cost.SacType == "CARDNAME" {
		return s.Sacrifice(src)
	}
	perms := s.Cards(card.ZoneBattlefield, src.Controller())
	if cost.SacType != "" && cost.SacType != "Permanent" {
		perms = ofType(perms, cost.SacType)
	}
	picked := s.pick(src.Controller(), "Sacrifice a "+cost.SacType, perms, cost.SacAmount)
	if len(picked) < cost.SacAmount {
		return fmt.Errorf("%w: sacrifice %d %s for %s", ErrCannotPay, cost.SacAmount, cost.SacType, a)
	}
	for _, c := range picked {
		if err := s.Sacrifice(c); err != nil {
			return err
		}
	}
	return nil
}

// pick has a human choose exactly n cards; the computer takes the first n.
func (s *State) pick(p card.PlayerID, prompt string, candidates []*card.Instance, n int) []*card.Instance {
	if len(candidates) < n {
		return nil
	}
	if s.IsHuman(p) {
		return s.ChooseCards(p, prompt, candidates, n, n)
	}
	return candidates[:n]
}

func without(cards []*card.Instance, id card.ID) []*card.Instance {
	out := make([]*card.Instance, 0, len(cards))
	for _, c := range cards {
		if c.ID() != id {
			out = append(out, c)
		}
	}
	return out
}

func ofType(cards []*card.Instance, typ string) []*card.Instance {
	out := make([]*card.Instance, 0, len(cards))
	for _, c := range cards {
		if c.IsType(typ) {
			out = append(out, c)
		}
	}
	return out
}

// push puts a queued ability on the stack. A spell's card moves onto the
// stack with it.
func (s *State) push(a *card.Ability, src *card.Instance) error {
	kind := rules.StackItemKindActivated
	evt := rules.EventActivatedAbility
	switch a.Kind {
	case card.KindSpell:
		kind, evt = rules.StackItemKindSpell, rules.EventSpellCast
		if err := s.MoveTo(src, card.ZoneStack); err != nil {
			return err
		}
	case card.KindTriggered:
		kind, evt = rules.StackItemKindTriggered, rules.EventTriggeredAbility
	}
	if src.CopiedSpell {
		evt = rules.EventCopiedStackObject
	}

	item := s.stackItem(a, kind)
	s.stack.Push(item)
	s.logger.Debug("ability on stack",
		zap.String("ability", a.String()),
		zap.Stringer("source", src),
	)
	pub := rules.NewEvent(evt, item.ID, a.Source.String(), string(src.Controller()))
	pub.Description = item.Description
	s.bus.Publish(pub)
	return nil
}

func (s *State) stackItem(a *card.Ability, kind rules.StackItemKind) rules.StackItem {
	controller := ""
	if src, ok := s.Card(a.Source); ok {
		controller = string(src.Controller())
	}
	desc := a.StackDescription
	if desc == "" {
		desc = a.Description
	}
	return rules.StackItem{
		ID:          uuid.NewString(),
		Controller:  controller,
		Description: desc,
		Kind:        kind,
		SourceID:    a.Source.String(),
		Metadata:    map[string]string{"targets": targeting.FormatTargets(a.ChosenTargets)},
		Resolve:     func() error { return s.resolve(a) },
	}
}

// resolve runs a and then finishes a spell: a spell still on the stack
// goes back to hand with buyback, otherwise to the graveyard. Copies of
// spells cease to exist.
func (s *State) resolve(a *card.Ability) error {
	err := a.Resolve(s)
	if a.Kind != card.KindSpell {
		return err
	}
	src, ok := s.Card(a.Source)
	if !ok || s.ZoneOf(src.ID()) != card.ZoneStack {
		return err
	}
	dest := card.ZoneGraveyard
	switch {
	case src.CopiedSpell:
		dest = card.ZoneNone
	case a.Buyback:
		dest = card.ZoneHand
	}
	return errors.Join(err, s.MoveTo(src, dest))
}

// ResolveTop resolves the topmost stack object.
func (s *State) ResolveTop() error {
	item, err := s.stack.ResolveTop()
	if err != nil {
		return err
	}
	s.bus.Publish(rules.NewEvent(rules.EventStackItemResolved, item.ID, item.SourceID, item.Controller))
	return nil
}

// ResolveStack resolves stack objects until the stack is empty, including
// anything added while resolving.
func (s *State) ResolveStack() error {
	for {
		err := s.ResolveTop()
		if errors.Is(err, rules.ErrStackEmpty) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// RegisterTriggers makes c's triggers live and records c as known. Any
// triggers registered for c before are replaced.
func (s *State) RegisterTriggers(c *card.Instance) {
	s.known[c.ID()] = c
	sourceID := c.ID().String()
	s.triggers.UnregisterSource(sourceID)

	for _, trig := range c.Triggers {
		if trig.Ability == nil {
			continue
		}
		evtType, cond, ok := s.triggerCondition(c, trig)
		if !ok {
			s.logger.Debug("unsupported trigger mode",
				zap.String("card", c.Name),
				zap.String("mode", trig.Mode()),
			)
			continue
		}
		tmpl := trig.Ability
		s.triggers.Register(rules.AbilityTrigger{
			SourceID:   sourceID,
			Controller: string(c.Controller()),
			EventType:  evtType,
			Condition:  cond,
			Build: func(rules.Event) rules.StackItem {
				ab := tmpl.Copy()
				ab.Source = c.ID()
				act, _ := ab.Activate()
				return s.stackItem(act, rules.StackItemKindTriggered)
			},
		})
	}
}

// triggerCondition maps a trigger's mode onto the event it waits for.
func (s *State) triggerCondition(c *card.Instance, trig *card.Trigger) (rules.EventType, func(rules.Event) bool, bool) {
	inZone := func(def card.Zone) bool {
		zone := card.Zone(trig.Param("TriggerZones"))
		if zone == card.ZoneNone {
			zone = def
		}
		return s.ZoneOf(c.ID()) == zone
	}
	switch trig.Mode() {
	case "Phase":
		if trig.Param("Phase") != "Upkeep" {
			return "", nil, false
		}
		return rules.EventUpkeepStep, func(evt rules.Event) bool {
			if trig.Param("ValidPlayer") == "You" && evt.PlayerID != string(c.Controller()) {
				return false
			}
			return inZone(card.ZoneBattlefield)
		}, true
	case "ChangesZone":
		return rules.EventZoneChange, func(evt rules.Event) bool {
			if trig.Param("ValidCard") == "Card.Self" && evt.TargetID != c.ID().String() {
				return false
			}
			return zoneMatches(trig.Param("Origin"), evt.FromZone) &&
				zoneMatches(trig.Param("Destination"), evt.Zone)
		}, true
	}
	return "", nil, false
}

func zoneMatches(want, got string) bool {
	return want == "" || want == "Any" || want == got
}

// RemoveTriggers stops c's triggers.
func (s *State) RemoveTriggers(c *card.Instance) {
	s.triggers.UnregisterSource(c.ID().String())
}
