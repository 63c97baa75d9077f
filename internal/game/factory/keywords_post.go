package factory

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/keyword"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

// postSteps run once the ability list is fully assembled.
var postSteps = []keywordStep{
	{kind: keyword.Kicker, run: kicker},
	{kind: keyword.Multikicker, run: multikicker},
	{kind: keyword.Replicate, run: replicate},
	{kind: keyword.Evoke, run: evoke},
	{kind: keyword.Cycling, run: cycling},
	{kind: keyword.TypeCycling, run: typeCycling},
	{kind: keyword.Flashback, run: flashback},
	{kind: keyword.Transmute, run: transmute},
	{kind: keyword.Soulshift, run: soulshift},
	{kind: keyword.Echo, run: echo},
	{kind: keyword.HandSize, run: handSize},
	{kind: keyword.Suspend, run: suspend},
	{run: xCost},
	{kind: keyword.IsColor, run: isColor},
	{kind: keyword.Fading, run: fading},
	{kind: keyword.Vanishing, run: vanishing},
}

func kicker(_ *Factory, c *card.Instance, d keyword.Directive) error {
	base := c.FirstSpell()
	if base == nil {
		return fmt.Errorf("kicker on %s: no spell to kick", c.Name)
	}
	cost := d.Param(0)
	total, err := mana.AddCosts(c.ManaCost, cost)
	if err != nil {
		return err
	}
	c.RemoveIntrinsicKeyword(d.Raw)

	effect := base.Effect
	c.AddAbility(&card.Ability{
		Kind:               card.KindSpell,
		Tag:                "Kicked",
		Cost:               card.Cost{Mana: total},
		Kicker:             true,
		AdditionalManaCost: cost,
		Targets:            base.Targets,
		Description:        fmt.Sprintf("Kicker %s (You may pay an additional %s as you cast this spell.)", cost, cost),
		StackDescription:   c.Name + " (Kicked)",
		Effect: func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			src.Kicked = true
			if effect == nil {
				return nil
			}
			return effect(g, a)
		},
	})
	return nil
}

func multikicker(_ *Factory, c *card.Instance, d keyword.Directive) error {
	sa := c.Ability(0)
	if sa == nil {
		return nil
	}
	sa.MultiKicker = true
	sa.MultiKickerCost = d.Param(0)
	return nil
}

func replicate(_ *Factory, c *card.Instance, d keyword.Directive) error {
	sa := c.Ability(0)
	if sa == nil {
		return nil
	}
	sa.Replicate = true
	sa.ReplicateCost = d.Param(0)
	return nil
}

func evoke(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost, err := card.ParseCost(d.Param(0))
	if err != nil {
		return err
	}
	c.RemoveIntrinsicKeyword(d.Raw)

	c.AddAbility(&card.Ability{
		Kind:             card.KindSpell,
		Tag:              "Evoked",
		Cost:             cost,
		Description:      "Evoke " + d.Param(0) + " (You may cast this spell for its evoke cost. If you do, when it enters the battlefield, sacrifice it.)",
		StackDescription: c.Name + " (Evoked)",
		Effect: func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			src.Evoked = true
			return g.MoveTo(src, card.ZoneBattlefield)
		},
	})
	c.AddEnterCommand(card.Command{Name: "Evoke", Run: func(g card.Game, c *card.Instance) error {
		if !c.Evoked {
			return nil
		}
		return g.AddSimultaneous(triggered(c, "Evoke", c.Name+" - sacrifice "+c.Name+".", func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			src.Evoked = false
			if g.ZoneOf(src.ID()) != card.ZoneBattlefield {
				return nil
			}
			return g.Sacrifice(src)
		}))
	}})
	return nil
}

// withDiscardSelf adds "discard this card" to a cost.
func withDiscardSelf(raw string) (card.Cost, error) {
	cost, err := card.ParseCost(raw)
	if err != nil {
		return cost, err
	}
	cost.Discard, cost.DiscardType = 1, "CARDNAME"
	return cost, nil
}

func cycling(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost, err := withDiscardSelf(d.Param(0))
	if err != nil {
		return err
	}
	c.RemoveIntrinsicKeyword(d.Raw)

	ab := activated(c, "Cycling", cost, "Draw a card.", func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		return g.DrawCards(src.Controller(), 1)
	})
	ab.ActivationZone = card.ZoneHand
	ab.Description = fmt.Sprintf("Cycling %s (%s: Draw a card.)", d.Param(0), cost.Describe(c.Name))
	c.AddAbility(ab)
	return nil
}

func typeCycling(_ *Factory, c *card.Instance, d keyword.Directive) error {
	typ := d.Param(0)
	cost, err := withDiscardSelf(d.Param(1))
	if err != nil {
		return err
	}
	c.RemoveIntrinsicKeyword(d.Raw)

	text := fmt.Sprintf("Search your library for a %s card, reveal it, and put it into your hand. Then shuffle your library.", typ)
	ab := activated(c, "TypeCycling", cost, text, func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		want := a.Params["Type"]
		return searchLibrary(g, src.Controller(), "Select a "+want, ofType(want), card.ZoneHand)
	})
	ab.ActivationZone = card.ZoneHand
	ab.Params = map[string]string{"Type": typ}
	ab.Description = fmt.Sprintf("%scycling %s (%s: %s)", typ, d.Param(1), cost.Describe(c.Name), text)
	c.AddAbility(ab)
	return nil
}

func flashback(_ *Factory, c *card.Instance, d keyword.Directive) error {
	base := c.FirstSpell()
	if base == nil {
		return fmt.Errorf("flashback on %s: no spell", c.Name)
	}
	cost, err := card.ParseCost(d.Param(0))
	if err != nil {
		return err
	}
	c.Flashback = true

	fb := base.Copy()
	fb.Tag = "Flashback"
	fb.FlashbackCast = true
	fb.Cost = cost
	fb.ActivationZone = card.ZoneGraveyard
	fb.Description = "Flashback " + cost.Describe(c.Name)
	fb.StackDescription = c.Name + " (Flashback)"
	effect := base.Effect
	fb.Effect = func(g card.Game, a *card.Ability) error {
		if effect != nil {
			if err := effect(g, a); err != nil {
				return err
			}
		}
		src, err := source(g, a)
		if err != nil {
			return err
		}
		if z := g.ZoneOf(src.ID()); z == card.ZoneStack || z == card.ZoneGraveyard {
			return g.MoveTo(src, card.ZoneExile)
		}
		return nil
	}
	c.AddAbility(fb)
	return nil
}

func transmute(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost, err := withDiscardSelf(d.Param(0))
	if err != nil {
		return err
	}
	c.RemoveIntrinsicKeyword(d.Raw)

	want := cmc(c)
	text := "Search your library for a card with the same converted mana cost as this card, reveal it, and put it into your hand. Then shuffle your library. Transmute only as a sorcery."
	ab := activated(c, "Transmute", cost, text, func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		return searchLibrary(g, src.Controller(), "Select a card", func(x *card.Instance) bool {
			return cmc(x) == want
		}, card.ZoneHand)
	})
	ab.ActivationZone = card.ZoneHand
	ab.SorcerySpeed = true
	ab.Description = "Transmute " + cost.Describe(c.Name)
	c.AddAbility(ab)
	return nil
}

// soulshift adds one destroy command per occurrence, each with its own N.
func soulshift(_ *Factory, c *card.Instance, d keyword.Directive) error {
	n, err := d.Int(0)
	if err != nil {
		return err
	}
	name := "Soulshift " + strconv.Itoa(n)
	c.AddDestroyCommand(card.Command{Name: name, Run: func(g card.Game, c *card.Instance) error {
		desc := fmt.Sprintf("%s - you may return target Spirit card with converted mana cost %d or less from your graveyard to your hand.", name, n)
		ab := triggered(c, "Soulshift", desc, func(g card.Game, a *card.Ability) error {
			src, ok := g.Card(a.Source)
			if !ok {
				return nil
			}
			p := src.Owner()
			spirits := filterCards(without(g.Cards(card.ZoneGraveyard, p), src.ID()), func(x *card.Instance) bool {
				return x.IsType("Spirit") && cmc(x) <= a.Amount
			})
			chosen := pickOne(g, p, "Select a Spirit", spirits, cmc)
			if chosen == nil {
				return nil
			}
			return g.MoveTo(chosen, card.ZoneHand)
		})
		ab.Amount = n
		return g.AddSimultaneous(ab)
	}})
	return nil
}

const echoUnpaid = "(Echo unpaid)"

func echo(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost := d.Param(0)
	mc, err := mana.ParseCost(cost)
	if err != nil {
		return err
	}
	c.EchoCost = cost

	c.AddEnterCommand(card.Command{Name: "Echo", Run: func(_ card.Game, c *card.Instance) error {
		c.AddIntrinsicKeyword(echoUnpaid)
		return nil
	}})
	desc := "Echo " + mc.Braced() + " (At the beginning of your upkeep, if this came under your control since the beginning of your last upkeep, sacrifice it unless you pay its echo cost.)"
	return addUpkeepTrigger(c, card.ZoneBattlefield, "Echo", desc, func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		if !src.HasKeyword(echoUnpaid) {
			return nil
		}
		src.RemoveIntrinsicKeyword(echoUnpaid)

		p := src.Controller()
		pay := true
		if g.IsHuman(p) {
			choice, ok := g.ChooseOption(p, "Pay echo "+mc.Braced()+" for "+src.Name+"?", []string{"Yes", "No"})
			pay = ok && choice == "Yes"
		}
		if pay && g.ManaPool(p).Pay(mc, 0) {
			return nil
		}
		return g.Sacrifice(src)
	})
}

func handSize(_ *Factory, c *card.Instance, d keyword.Directive) error {
	mode, target := d.Param(0), d.Param(2)
	amount := -1
	if d.Param(1) != "INF" {
		n, err := d.Int(1)
		if err != nil {
			return err
		}
		amount = n
	}
	c.RemoveIntrinsicKeyword(d.Raw)

	// affected lists the players target refers to when p controls the card.
	affected := func(g card.Game, p card.PlayerID) []card.PlayerID {
		switch target {
		case "Self":
			return []card.PlayerID{p}
		case "Opponent":
			return []card.PlayerID{g.Opponent(p)}
		}
		return []card.PlayerID{p, g.Opponent(p)}
	}
	add := func(g card.Game, c *card.Instance) {
		for _, p := range affected(g, c.Controller()) {
			g.AddHandSizeOp(p, card.HandSizeOp{Mode: mode, Amount: amount, Stamp: c.HandSizeStamp})
		}
	}
	remove := func(g card.Game, c *card.Instance) {
		for _, p := range g.Players() {
			g.RemoveHandSizeOp(p, c.HandSizeStamp)
		}
	}

	c.AddEnterCommand(card.Command{Name: "HandSize", Run: func(g card.Game, c *card.Instance) error {
		c.HandSizeStamp = g.NextHandSizeStamp()
		c.SetSVar("HSStamp", strconv.Itoa(c.HandSizeStamp))
		add(g, c)
		return nil
	}})
	c.AddLeaveCommand(card.Command{Name: "HandSize", Run: func(g card.Game, c *card.Instance) error {
		remove(g, c)
		return nil
	}})
	c.AddControlChangeCommand(card.Command{Name: "HandSize", Run: func(g card.Game, c *card.Instance) error {
		remove(g, c)
		add(g, c)
		return nil
	}})
	return nil
}

// suspend reads Suspend:<time counters>:<cost>. The ability exiles the
// card from hand with that many time counters; one is removed each upkeep
// and the card is cast without paying its cost when the last one goes.
func suspend(_ *Factory, c *card.Instance, d keyword.Directive) error {
	n, err := d.Int(0)
	if err != nil {
		return err
	}
	cost, err := card.ParseCost(d.Param(1))
	if err != nil {
		return err
	}
	c.RemoveIntrinsicKeyword(d.Raw)
	c.Suspended = true

	text := fmt.Sprintf("Suspend %d - %s", n, cost.ManaCost().Braced())
	ab := &card.Ability{
		Kind:             card.KindActivated,
		Tag:              "Suspend",
		Cost:             cost,
		ActivationZone:   card.ZoneHand,
		Amount:           n,
		Description:      text,
		StackDescription: c.Name + " - suspending with " + strconv.Itoa(n) + " time counters.",
		Effect: func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			if err := g.MoveTo(src, card.ZoneExile); err != nil {
				return err
			}
			g.AddCounter(src, counters.Time, a.Amount)
			return nil
		},
	}
	if !c.IsType("Instant") && !c.HasKeyword("Flash") {
		ab.SorcerySpeed = true
	}
	c.AddAbility(ab)

	return addUpkeepTrigger(c, card.ZoneExile, "Suspend", "Remove a time counter from CARDNAME.", func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		if !src.Counters.Has(counters.Time) {
			return nil
		}
		g.RemoveCounter(src, counters.Time, 1)
		if src.Counters.Has(counters.Time) {
			return nil
		}
		sp := spellOf(src)
		if sp == nil {
			return nil
		}
		cast, err := sp.Activate()
		if err != nil {
			return err
		}
		return playFree(g, src.Owner(), cast)
	})
}

// xCost marks the first ability of cards with X in their mana cost.
func xCost(_ *Factory, c *card.Instance, _ keyword.Directive) error {
	mc, err := mana.ParseCost(c.ManaCost)
	if err != nil || mc.X == 0 {
		return nil
	}
	sa := c.Ability(0)
	if sa == nil {
		return nil
	}
	sa.XCost = true
	if mc.X >= 2 {
		sa.XManaCost = "2"
	} else {
		sa.XManaCost = "1"
	}
	return nil
}

func isColor(_ *Factory, c *card.Instance, d keyword.Directive) error {
	short, ok := shortColor(d.Param(0))
	if !ok {
		return fmt.Errorf("unknown color %q", d.Param(0))
	}
	c.RemoveIntrinsicKeyword(d.Raw)
	c.AddColor("1 " + short)
	return nil
}

func fading(_ *Factory, c *card.Instance, d keyword.Directive) error {
	n, err := d.Int(0)
	if err != nil {
		return err
	}
	c.AddEnterCommand(card.Command{Name: "Fading", Run: func(g card.Game, c *card.Instance) error {
		g.AddCounter(c, counters.Fade, n)
		return nil
	}})
	return addUpkeepTrigger(c, card.ZoneBattlefield, "Fading", "Remove a fade counter from CARDNAME. If you can't, sacrifice CARDNAME.", func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		if g.RemoveCounter(src, counters.Fade, 1) == 0 {
			return g.Sacrifice(src)
		}
		return nil
	})
}

func vanishing(_ *Factory, c *card.Instance, d keyword.Directive) error {
	n, err := d.Int(0)
	if err != nil {
		return err
	}
	c.AddEnterCommand(card.Command{Name: "Vanishing", Run: func(g card.Game, c *card.Instance) error {
		g.AddCounter(c, counters.Time, n)
		return nil
	}})
	return addUpkeepTrigger(c, card.ZoneBattlefield, "Vanishing", "Remove a time counter from CARDNAME. When the last is removed, sacrifice CARDNAME.", func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		if !src.Counters.Has(counters.Time) {
			return nil
		}
		g.RemoveCounter(src, counters.Time, 1)
		if !src.Counters.Has(counters.Time) {
			return g.Sacrifice(src)
		}
		return nil
	})
}

// altCost reads the AltCost SVar, "cost" or "cost$description", and adds
// a copy of the first spell payable with that cost instead.
func (f *Factory) altCost(c *card.Instance) {
	raw := c.SVar("AltCost")
	if raw == "" {
		return
	}
	sa := c.Ability(0)
	if sa == nil || !sa.IsSpell() {
		return
	}
	costScript, desc, hasDesc := strings.Cut(raw, "$")
	cost, err := card.ParseCost(costScript)
	if err != nil {
		f.logger.Warn("skipping malformed alternative cost",
			zap.String("card", c.Name),
			zap.String("cost", raw),
			zap.Error(err),
		)
		return
	}

	alt := sa.Copy()
	alt.Tag = "AltCost"
	alt.AltCost = true
	alt.Cost = cost
	if hasDesc {
		alt.Description = desc
	} else {
		alt.Description = fmt.Sprintf("You may %s rather than pay %s's mana cost.", lowerFirst(cost.Describe(c.Name)), c.Name)
	}
	c.AddAbility(alt)
}
