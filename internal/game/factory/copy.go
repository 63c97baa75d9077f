package factory

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/card"
)

// CopyStats returns a bare instance carrying src's printed
// characteristics. It has no ID, owner, abilities or lifecycle commands,
// and src is left untouched.
func (f *Factory) CopyStats(src *card.Instance) *card.Instance {
	c := card.New(0, "")
	c.BaseAttack = src.BaseAttack
	c.BaseDefense = src.BaseDefense
	c.BaseLoyalty = src.BaseLoyalty
	c.BaseAttackString = src.BaseAttackString
	c.BaseDefenseString = src.BaseDefenseString
	c.SetIntrinsicKeywords(src.Keywords())
	c.Name = src.Name
	c.Types = slices.Clone(src.Types)
	c.Text = src.Text
	c.ManaCost = src.ManaCost
	c.Colors = src.Colors
	c.SVars = maps.Clone(src.SVars)
	c.Sets = slices.Clone(src.Sets)
	c.CurSetCode = src.CurSetCode
	c.IntrinsicAbilities = slices.Clone(src.IntrinsicAbilities)
	for _, t := range src.Triggers {
		c.Triggers = append(c.Triggers, t.Copy())
	}
	c.StaticAbilities = slices.Clone(src.StaticAbilities)
	return c
}

// CopyCard rebinds src's card and carries over its identity and state: the
// result has src's ID, SVars, printings and counters.
func (f *Factory) CopyCard(src *card.Instance) (*card.Instance, error) {
	out, err := f.Card(src.Name, src.Owner())
	if err != nil {
		return nil, err
	}
	out.SetID(src.ID())
	out.SVars = maps.Clone(src.SVars)
	out.Sets = slices.Clone(src.Sets)
	out.CurSetCode = src.CurSetCode
	out.Counters = src.Counters.Copy()
	return out, nil
}

// CopyCardIntoNew returns a fully bound copy of src with an ID above every
// ID the game knows about. The copy is marked as a copied spell and its
// triggers are registered with g.
func (f *Factory) CopyCardIntoNew(g card.Game, src *card.Instance) (*card.Instance, error) {
	out, err := f.copyIntoNew(g, src)
	if err != nil {
		return nil, err
	}
	g.RegisterTriggers(out)
	return out, nil
}

func (f *Factory) copyIntoNew(g card.Game, src *card.Instance) (*card.Instance, error) {
	out, err := f.bindCopy(g, src, src.Owner())
	if err != nil {
		return nil, err
	}
	out.CopiedSpell = true
	return out, nil
}

// bindCopy binds a new instance of src's card for owner, numbered above
// every ID g knows. Cards missing from the store are rebuilt from src's
// printed characteristics. The result takes src's base stats, colors and
// SVars and is controlled by owner.
func (f *Factory) bindCopy(g card.Game, src *card.Instance, owner card.PlayerID) (*card.Instance, error) {
	f.ids.Observe(g.MaxID())

	var out *card.Instance
	if t, err := f.store.Lookup(src.Name); err == nil {
		if out, err = f.Bind(t, owner); err != nil {
			return nil, err
		}
	} else {
		out = f.CopyStats(src)
		out.SetID(f.ids.Next())
		// keyword triggers are added again by the binder
		out.Triggers = slices.DeleteFunc(out.Triggers, func(t *card.Trigger) bool {
			return t.Ability != nil && t.Param("Execute") == ""
		})
		f.bindInstance(out)
	}

	out.BaseAttack, out.BaseDefense, out.BaseLoyalty = src.BaseAttack, src.BaseDefense, src.BaseLoyalty
	out.Colors = src.Colors
	maps.Copy(out.SVars, src.SVars)
	out.CurSetCode = src.CurSetCode
	out.SetOwner(owner)
	out.SetController(owner)
	return out, nil
}

// CopySpellOntoStack puts a copy of a spell on the stack for source's
// controller. sa is the ability of original being copied; nil means the
// ability original last used. With copyDetails the copy keeps the X,
// kicker, multikicker and replicate payments of the original.
//
// The copy's ability is found by structural match, so the copy never
// shares ability objects with original. ErrAmbiguousAbilityMatch is
// returned, before any state changes, when no ability matches.
func (f *Factory) CopySpellOntoStack(g card.Game, source, original *card.Instance, sa *card.Ability, copyDetails bool) error {
	if sa == nil {
		if sa = original.Ability(original.AbilityUsed); sa == nil {
			f.logger.Warn("no ability to copy",
				zap.Stringer("source", source),
				zap.Stringer("original", original),
				zap.Int("abilityUsed", original.AbilityUsed),
			)
			return fmt.Errorf("%w: %s has no ability %d", ErrAmbiguousAbilityMatch, original, original.AbilityUsed)
		}
	}

	c, err := f.copyIntoNew(g, original)
	if err != nil {
		return err
	}
	var copySA *card.Ability
	for _, a := range c.Abilities() {
		if a.Matches(sa) {
			copySA = a
			break
		}
	}
	if copySA == nil {
		f.logger.Warn("couldn't find matching ability to copy",
			zap.Stringer("source", source),
			zap.Stringer("spell", sa),
		)
		return fmt.Errorf("%w: %s on %s", ErrAmbiguousAbilityMatch, sa, original)
	}

	p := source.Controller()
	c.SetController(p)
	g.RegisterTriggers(c)
	if copyDetails {
		c.XManaPaid += original.XManaPaid
		c.MultiKickerMagnitude += original.MultiKickerMagnitude
		c.Kicked = c.Kicked || original.Kicked
		c.ReplicateMagnitude += original.ReplicateMagnitude
		if sa.Replicate {
			copySA.Replicate = true
		}
	}

	cast, err := copySA.Activate()
	if err != nil {
		return err
	}
	cast.ChosenTargets = append([]string(nil), sa.ChosenTargets...)
	cast.XPaid = sa.XPaid

	f.logger.Debug("copying spell",
		zap.Stringer("source", source),
		zap.Stringer("copy", c),
		zap.Stringer("spell", cast),
	)
	if g.IsHuman(p) {
		return g.PlayForFree(cast)
	}
	if aiWantsCopy(g, cast) {
		return g.PlayStackFree(cast)
	}
	return nil
}

// aiWantsCopy is CanPlayAI without the zone and cost checks: a copy is in
// no zone and is never paid for.
func aiWantsCopy(g card.Game, a *card.Ability) bool {
	if a.AIDisabled {
		return false
	}
	if a.AICheck != nil {
		return a.AICheck(g, a)
	}
	return true
}
