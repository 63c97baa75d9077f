package factory

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/magefree/mage-cardfactory/internal/game/abilityscript"
	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/keyword"
)

// earlySteps run before scripted abilities are attached.
var earlySteps = []keywordStep{
	{kind: keyword.ETBTapped, run: etbTapped},
	{kind: keyword.ETBTappedUnlessFewLands, run: etbTappedUnlessFewLands},
	{kind: keyword.ETBTappedUnlessControl, run: etbTappedUnlessControl},
	{kind: keyword.Sunburst, run: sunburst},
	{typ: "World", run: worldRule},
	{kind: keyword.SearchRebel, run: searchRebel},
	{kind: keyword.Morph, run: morph},
	{kind: keyword.Unearth, run: unearth},
	{kind: keyword.Madness, run: madness},
	{kind: keyword.Devour, run: devour},
	{kind: keyword.Modular, run: modular},
	{kind: keyword.ETBCounter, run: etbCounter},
	{kind: keyword.Bloodthirst, run: bloodthirst},
}

func etbTapped(_ *Factory, c *card.Instance, _ keyword.Directive) error {
	c.AddEnterCommand(card.Command{Name: "ETBTapped", Run: func(g card.Game, c *card.Instance) error {
		g.Tap(c)
		return nil
	}})
	return nil
}

func etbTappedUnlessFewLands(_ *Factory, c *card.Instance, _ keyword.Directive) error {
	c.AddEnterCommand(card.Command{Name: "ETBTappedUnlessFewLands", Run: func(g card.Game, c *card.Instance) error {
		lands := filterCards(without(g.Cards(card.ZoneBattlefield, c.Controller()), c.ID()), ofType("Land"))
		if len(lands) > 2 {
			g.Tap(c)
		}
		return nil
	}})
	return nil
}

func etbTappedUnlessControl(_ *Factory, c *card.Instance, d keyword.Directive) error {
	types := slices.Clone(d.Params)
	c.AddEnterCommand(card.Command{Name: "ETBTappedUnlessControl", Run: func(g card.Game, c *card.Instance) error {
		for _, other := range g.Cards(card.ZoneBattlefield, c.Controller()) {
			for _, typ := range types {
				if other.IsType(typ) {
					return nil
				}
			}
		}
		g.Tap(c)
		return nil
	}})
	return nil
}

func sunburst(_ *Factory, c *card.Instance, _ keyword.Directive) error {
	c.AddEnterCommand(card.Command{Name: "Sunburst", Run: func(g card.Game, c *card.Instance) error {
		if c.IsCreature() {
			g.AddCounter(c, counters.P1P1, c.SunburstValue)
		} else {
			g.AddCounter(c, counters.Charge, c.SunburstValue)
		}
		return nil
	}})
	c.AddLeaveCommand(card.Command{Name: "Sunburst", Run: func(_ card.Game, c *card.Instance) error {
		c.SunburstValue = 0
		return nil
	}})
	return nil
}

// worldRule puts every other World permanent into its owner's graveyard
// when a World enters the battlefield.
func worldRule(_ *Factory, c *card.Instance, _ keyword.Directive) error {
	c.AddEnterCommand(card.Command{Name: "World", Run: func(g card.Game, c *card.Instance) error {
		others := filterCards(without(g.Cards(card.ZoneBattlefield, ""), c.ID()), ofType("World"))
		for _, other := range others {
			if err := g.MoveTo(other, card.ZoneGraveyard); err != nil {
				return err
			}
		}
		return nil
	}})
	return nil
}

func searchRebel(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost, err := card.ParseCost(d.Param(0))
	if err != nil {
		return err
	}
	limit := cost.ManaCost().ConvertedManaCost() - 1
	cost.Tap = true
	c.RemoveIntrinsicKeyword(d.Raw)

	text := fmt.Sprintf("Search your library for a Rebel permanent card with converted mana cost %d or less and put it onto the battlefield. Then shuffle your library.", limit)
	c.AddAbility(activated(c, "SearchRebel", cost, text, func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		return searchLibrary(g, src.Controller(), "Select a Rebel", func(x *card.Instance) bool {
			return x.IsType("Rebel") && x.IsPermanent() && cmc(x) <= limit
		}, card.ZoneBattlefield)
	}))
	return nil
}

// morph attaches the face-down spell and the turn-face-up ability. The
// face-up characteristics are captured at bind time and restored by the
// face-up ability.
func morph(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost, err := card.ParseCost(d.Param(0))
	if err != nil {
		return err
	}
	c.PrevIntrinsicKeywords = c.IntrinsicKeywords()
	c.PrevTypes = slices.Clone(c.Types)
	c.RemoveIntrinsicKeyword(d.Raw)

	manaCost, attack, defense, colors := c.ManaCost, c.BaseAttack, c.BaseDefense, c.Colors

	up := activated(c, "MorphUp", cost, "Turn this face-down creature face up.", func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		src.FaceDown = false
		src.ManaCost = manaCost
		src.BaseAttack, src.BaseDefense = attack, defense
		src.Colors = colors
		src.Types = slices.Clone(src.PrevTypes)
		src.SetIntrinsicKeywords(src.PrevIntrinsicKeywords)
		return nil
	})
	up.PlayCheck = func(g card.Game, a *card.Ability) bool {
		src, ok := g.Card(a.Source)
		return ok && src.FaceDown
	}
	c.AddAbility(up)

	c.AddAbility(&card.Ability{
		Kind:             card.KindSpell,
		Tag:              "MorphDown",
		Cost:             card.Cost{Mana: "3"},
		Description:      "Morph - play " + c.Name + " face down as a 2/2 creature for {3}.",
		StackDescription: "Morph - Creature 2/2",
		Effect: func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			src.FaceDown = true
			src.ManaCost = ""
			src.BaseAttack, src.BaseDefense = 2, 2
			src.Colors = 0
			src.Types = []string{"Creature"}
			src.SetIntrinsicKeywords(nil)
			return g.MoveTo(src, card.ZoneBattlefield)
		},
	})
	return nil
}

func unearth(_ *Factory, c *card.Instance, d keyword.Directive) error {
	cost, err := card.ParseCost(d.Param(0))
	if err != nil {
		return err
	}
	c.Unearth = true

	ab := activated(c, "Unearth", cost, "Return CARDNAME from your graveyard to the battlefield. It gains haste. Exile it at the beginning of the next end step.", func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		if err := g.MoveTo(src, card.ZoneBattlefield); err != nil {
			return err
		}
		src.AddExtrinsicKeyword("Haste")
		g.AtEndOfTurn("Unearth "+src.String(), func(g card.Game) error {
			if g.ZoneOf(src.ID()) != card.ZoneBattlefield {
				return nil
			}
			return g.MoveTo(src, card.ZoneExile)
		})
		return nil
	})
	ab.Description = "Unearth " + cost.Describe(c.Name)
	ab.ActivationZone = card.ZoneGraveyard
	ab.SorcerySpeed = true
	c.AddAbility(ab)
	return nil
}

func madness(_ *Factory, c *card.Instance, d keyword.Directive) error {
	c.Madness = true
	c.MadnessCost = d.Param(0)
	return nil
}

// devour lets the controller sacrifice any number of other creatures as
// the card enters; it gets multiplier +1/+1 counters for each.
func devour(_ *Factory, c *card.Instance, d keyword.Directive) error {
	multiplier, err := d.Int(0)
	if err != nil {
		return err
	}
	c.AddEnterCommand(card.Command{Name: "Devour", Run: func(g card.Game, c *card.Instance) error {
		p := c.Controller()
		creatures := filterCards(without(g.Cards(card.ZoneBattlefield, p), c.ID()), ofType("Creature"))

		var eaten []*card.Instance
		if g.IsHuman(p) {
			if len(creatures) > 0 {
				eaten = g.ChooseCards(p, "Select creatures to sacrifice", creatures, 0, len(creatures))
			}
		} else {
			eaten = filterCards(creatures, func(x *card.Instance) bool {
				return x.NetAttack() <= 1 && x.NetAttack()+x.NetDefense() <= 3
			})
		}

		c.ClearDevoured()
		for _, x := range eaten {
			c.AddDevoured(x.ID())
			if err := g.Sacrifice(x); err != nil {
				return err
			}
		}
		g.AddCounter(c, counters.P1P1, len(eaten)*multiplier)
		return nil
	}})
	return nil
}

// modular enters with counters and, when destroyed, moves them to an
// artifact creature.
func modular(_ *Factory, c *card.Instance, d keyword.Directive) error {
	n, err := d.Int(0)
	if err != nil {
		return err
	}
	c.AddEnterCommand(card.Command{Name: "Modular", Run: func(g card.Game, c *card.Instance) error {
		g.AddCounter(c, counters.P1P1, n)
		return nil
	}})
	c.AddDestroyCommand(card.Command{Name: "Modular", Run: func(g card.Game, c *card.Instance) error {
		p := c.Controller()
		owner := card.PlayerID("")
		if !g.IsHuman(p) {
			owner = p
		}
		candidates := filterCards(without(g.Cards(card.ZoneBattlefield, owner), c.ID()), func(x *card.Instance) bool {
			return x.IsCreature() && x.IsType("Artifact")
		})
		target := pickOne(g, p, "Select target artifact creature", candidates, creatureValue)
		if target == nil {
			return nil
		}

		count := c.Counters.Count(counters.P1P1)
		ab := triggered(c, "Modular",
			fmt.Sprintf("Put %d +1/+1 counter/s from %s on %s", count, c, target),
			func(g card.Game, a *card.Ability) error {
				for _, raw := range a.ChosenTargets {
					id, ok := card.ParseID(raw)
					if !ok {
						continue
					}
					if t, ok := g.Card(id); ok && g.ZoneOf(id) == card.ZoneBattlefield {
						g.AddCounter(t, counters.P1P1, a.Amount)
					}
				}
				return nil
			})
		ab.Amount = count
		ab.ChosenTargets = []string{target.ID().String()}
		return g.AddSimultaneous(ab)
	}})
	return nil
}

// etbCounter reads etbCounter:Type:Amount[:Condition[:Description]].
func etbCounter(_ *Factory, c *card.Instance, d keyword.Directive) error {
	ct, err := counters.ParseType(d.Param(0))
	if err != nil {
		return err
	}
	amount, condition, desc := d.Param(1), d.Param(2), d.Param(3)
	c.RemoveIntrinsicKeyword(d.Raw)

	if desc == "" {
		plural := "s"
		if amount == "1" {
			plural = ""
		}
		desc = fmt.Sprintf("%s enters the battlefield with %s %s counter%s on it.", c.Name, amount, ct.DisplayName(), plural)
	}
	if c.Text != "" {
		c.Text += "\n"
	}
	c.Text += desc

	c.AddEnterCommand(card.Command{Name: "etbCounter", Run: func(g card.Game, c *card.Instance) error {
		if !conditionMet(g, c, condition) {
			return nil
		}
		n, err := strconv.Atoi(amount)
		if err != nil {
			n = abilityscript.XCount(c, c.SVar("X"))
		}
		g.AddCounter(c, ct, n)
		return nil
	}})
	return nil
}

// conditionMet checks the special conditions used by etbCounter.
// Unrecognised conditions are treated as met.
func conditionMet(g card.Game, c *card.Instance, condition string) bool {
	p := c.Controller()
	switch condition {
	case "Threshold":
		return len(g.Cards(card.ZoneGraveyard, p)) >= 7
	case "Hellbent":
		return len(g.Cards(card.ZoneHand, p)) == 0
	case "Metalcraft":
		return len(filterCards(g.Cards(card.ZoneBattlefield, p), ofType("Artifact"))) >= 3
	}
	return true
}

func bloodthirst(_ *Factory, c *card.Instance, d keyword.Directive) error {
	n, err := d.Int(0)
	if err != nil {
		return err
	}
	c.AddEnterCommand(card.Command{Name: "Bloodthirst", Run: func(g card.Game, c *card.Instance) error {
		if g.AssignedDamage(g.Opponent(c.Controller())) > 0 {
			g.AddCounter(c, counters.P1P1, n)
		}
		return nil
	}})
	return nil
}
