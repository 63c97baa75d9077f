package factory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
)

func goblinCharbelcher(_ *Factory, c *card.Instance) error {
	ab := activated(c, "Charbelcher", card.MustParseCost("3 T"),
		"Reveal cards from the top of your library until you reveal a land card. Goblin Charbelcher deals damage equal to the number of nonland cards revealed this way to target creature or player. If the revealed land card was a Mountain, Goblin Charbelcher deals double that damage instead.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			damage := 0
			for _, x := range g.Cards(card.ZoneLibrary, src.Controller()) {
				if x.IsLand() {
					if x.IsType("Mountain") {
						damage *= 2
					}
					break
				}
				damage++
			}
			for _, t := range a.ChosenTargets {
				if err := g.DealDamage(src, t, damage); err != nil {
					return err
				}
			}
			return nil
		})
	ab.Targets = requirement("Creature,Player", "Select target creature or player")
	c.AddAbility(ab)
	return nil
}

func lodestoneBauble(_ *Factory, c *card.Instance) error {
	ab := activated(c, "LodestoneBauble", card.MustParseCost("1 T Sac<1/CARDNAME>"),
		"Put up to four target basic land cards from a player's graveyard on top of his or her library in any order. That player draws a card at the beginning of the next turn's upkeep.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			for _, t := range a.ChosenTargets {
				p := card.PlayerID(t)
				basics := filterCards(g.Cards(card.ZoneGraveyard, p), ofType("Basic"))
				chosen := basics[:min(4, len(basics))]
				if g.IsHuman(src.Controller()) && len(basics) > 0 {
					chosen = g.ChooseCards(src.Controller(), "Select up to four basic lands", basics, 0, 4)
				}
				for i := len(chosen) - 1; i >= 0; i-- {
					if err := g.MoveTo(chosen[i], card.ZoneLibrary); err != nil {
						return err
					}
				}
				g.AtNextUpkeep("Lodestone Bauble", func(g card.Game) error {
					return g.DrawCards(p, 1)
				})
			}
			return nil
		})
	ab.Targets = requirement("Player", "Select target player")
	c.AddAbility(ab)
	return nil
}

func grindstone(_ *Factory, c *card.Instance) error {
	ab := activated(c, "Grindstone", card.MustParseCost("3 T"),
		"Target player puts the top two cards of his or her library into his or her graveyard. If both cards share a color, repeat this process.",
		func(g card.Game, a *card.Ability) error {
			for _, t := range a.ChosenTargets {
				p := card.PlayerID(t)
				for {
					lib := g.Cards(card.ZoneLibrary, p)
					if len(lib) == 0 {
						break
					}
					top := lib[:min(2, len(lib))]
					if err := g.Mill(p, 2); err != nil {
						return err
					}
					if len(top) < 2 || !top[0].Colors.SharesColorWith(top[1].Colors) {
						break
					}
				}
			}
			return nil
		})
	ab.Targets = requirement("Player", "Select target player")
	c.AddAbility(ab)
	return nil
}

func everflowingChalice(_ *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "Everflowing Chalice", Run: func(g card.Game, c *card.Instance) error {
		g.AddCounter(c, counters.Charge, c.MultiKickerMagnitude)
		c.MultiKickerMagnitude = 0
		return nil
	}})
	return nil
}

func mirrorUniverse(_ *Factory, c *card.Instance) error {
	ab := activated(c, "MirrorUniverse", card.MustParseCost("T Sac<1/CARDNAME>"),
		"Exchange life totals with target opponent. Activate this ability only during your upkeep.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			opp := g.Opponent(p)
			mine, theirs := g.Life(p), g.Life(opp)
			g.SetLife(p, theirs)
			g.SetLife(opp, mine)
			return nil
		})
	ab.StackDescription = c.Name + " - Exchange life totals with target opponent."
	ab.PlayCheck = func(g card.Game, a *card.Ability) bool {
		src, ok := g.Card(a.Source)
		return ok && g.Phase() == card.PhaseUpkeep && g.ActivePlayer() == src.Controller()
	}
	ab.AICheck = func(g card.Game, a *card.Ability) bool {
		src, ok := g.Card(a.Source)
		if !ok || !a.CanPlay(g) {
			return false
		}
		mine, theirs := g.Life(src.Controller()), g.Life(g.Opponent(src.Controller()))
		return (mine < 5 && theirs > 5) || mine == 1 || theirs-mine > 10
	}
	c.AddAbility(ab)
	return nil
}

func barlsCage(_ *Factory, c *card.Instance) error {
	const frozen = "This card doesn't untap during your next untap step."
	ab := activated(c, "BarlsCage", card.MustParseCost("3"),
		"Target creature doesn't untap during its controller's next untap step.",
		func(g card.Game, a *card.Ability) error {
			for _, t := range a.ChosenTargets {
				id, ok := card.ParseID(t)
				if !ok {
					continue
				}
				if x, ok := g.Card(id); ok && g.ZoneOf(id) == card.ZoneBattlefield {
					x.AddExtrinsicKeyword(frozen)
				}
			}
			return nil
		})
	ab.Targets = requirement("Creature", "Select target creature")
	c.AddAbility(ab)
	return nil
}

// manaBattery covers the five Mana Batteries: tap and remove any number of
// charge counters to add one mana plus one more per counter removed.
func manaBattery(_ *Factory, c *card.Instance) error {
	short, ok := shortColor(strings.ToLower(strings.Fields(c.Name)[0]))
	if !ok {
		return fmt.Errorf("%s: no color in name", c.Name)
	}
	desc := fmt.Sprintf("tap, Remove any number of charge counters from %s: Add %s to your mana pool, then add an additional %s to your mana pool for each charge counter removed this way.",
		c.Name, short, short)
	c.AddAbility(&card.Ability{
		Kind:             card.KindMana,
		Tag:              "ManaBattery",
		Cost:             card.MustParseCost("T"),
		AIDisabled:       true,
		Description:      desc,
		StackDescription: desc,
		Effect: func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			removed := 0
			if n := src.Counters.Count(counters.Charge); n > 0 {
				answer, ok := chooseOption(g, p, "Charge counters to remove", countOptions(n), "0")
				if ok {
					removed, _ = strconv.Atoi(answer)
				}
			}
			g.RemoveCounter(src, counters.Charge, removed)
			return g.AddMana(p, strings.TrimSpace(strings.Repeat(short+" ", removed+1)))
		},
	})
	return nil
}

func phyrexianProcessor(_ *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "Phyrexian Processor", Run: func(g card.Game, c *card.Instance) error {
		desc := "As Phyrexian Processor enters the battlefield, pay any amount of life."
		return g.AddSimultaneous(triggered(c, "PayLife", desc, func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			paid := 0
			if answer, ok := chooseOption(g, p, "Pay any amount of life", countOptions(max(g.Life(p), 0)), "0"); ok {
				paid, _ = strconv.Atoi(answer)
			}
			g.LoseLife(p, paid)
			src.XLifePaid = paid
			return nil
		}))
	}})
	return nil
}

// scrollRack only works for a human; the computer never activates it.
func scrollRack(_ *Factory, c *card.Instance) error {
	ab := activated(c, "ScrollRack", card.MustParseCost("1 T"),
		"Exile any number of cards from your hand face down. Put that many cards from the top of your library into your hand. Then look at the exiled cards and put them on top of your library in any order.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			if !g.IsHuman(p) {
				return nil
			}
			hand := g.Cards(card.ZoneHand, p)
			exiled := g.ChooseCards(p, "Exile cards from your hand", hand, 0, len(hand))
			for _, x := range exiled {
				if err := g.MoveTo(x, card.ZoneExile); err != nil {
					return err
				}
			}
			lib := g.Cards(card.ZoneLibrary, p)
			for _, x := range lib[:min(len(exiled), len(lib))] {
				if err := g.MoveTo(x, card.ZoneHand); err != nil {
					return err
				}
			}
			for len(exiled) > 0 {
				next := exiled[0]
				if len(exiled) > 1 {
					if chosen := g.ChooseCards(p, "Put a card on top of your library", exiled, 1, 1); len(chosen) == 1 {
						next = chosen[0]
					}
				}
				exiled = without(exiled, next.ID())
				if err := g.MoveTo(next, card.ZoneLibrary); err != nil {
					return err
				}
			}
			return nil
		})
	ab.AIDisabled = true
	c.AddAbility(ab)
	return nil
}

func cursedScroll(f *Factory, c *card.Instance) error {
	ab := activated(c, "CursedScroll", card.MustParseCost("3 T"),
		"Name a card. Reveal a card at random from your hand. If it's the named card, Cursed Scroll deals 2 damage to target creature or player.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			hand := g.Cards(card.ZoneHand, p)
			if len(hand) == 0 {
				return nil
			}
			var named string
			if g.IsHuman(p) {
				choice, ok := g.ChooseOption(p, "Name a card", f.store.Names())
				if !ok {
					return nil
				}
				named = choice
			} else {
				named = hand[g.Random().Intn(len(hand))].Name
			}
			revealed := hand[g.Random().Intn(len(hand))]
			if revealed.Name != named {
				return nil
			}
			for _, t := range a.ChosenTargets {
				if err := g.DealDamage(src, t, 2); err != nil {
					return err
				}
			}
			return nil
		})
	ab.Targets = requirement("Creature,Player", "Select target creature or player")
	c.AddAbility(ab)
	return nil
}

func temporalAperture(_ *Factory, c *card.Instance) error {
	const revealed = "Play with the top card of your library revealed."
	ab := activated(c, "TemporalAperture", card.MustParseCost("5 T"),
		"Shuffle your library, then reveal the top card. Until end of turn, for as long as that card remains on top of your library, play with the top card of your library revealed and you may play that card without paying its mana cost. (If it has X in its mana cost, X is 0.)",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			g.Shuffle(p)
			lib := g.Cards(card.ZoneLibrary, p)
			if len(lib) == 0 {
				return nil
			}
			top := lib[0]

			onTop := func(g card.Game) bool {
				lib := g.Cards(card.ZoneLibrary, p)
				return len(lib) > 0 && lib[0].ID() == top.ID()
			}
			free := &card.Ability{
				Kind:             card.KindActivated,
				Tag:              "TemporalApertureCast",
				Chosen:           top.ID().String(),
				Description:      "Play the previously revealed top card of your library for free.",
				StackDescription: src.Name + " - play card without paying its mana cost.",
				PlayCheck:        func(g card.Game, _ *card.Ability) bool { return onTop(g) },
				Effect: func(g card.Game, a *card.Ability) error {
					if !onTop(g) {
						return nil
					}
					if top.IsLand() {
						return g.MoveTo(top, card.ZoneBattlefield)
					}
					sp := spellOf(top)
					if sp == nil {
						return nil
					}
					cast, err := sp.Activate()
					if err != nil {
						return err
					}
					return playFree(g, p, cast)
				},
			}
			src.AddAbility(free)
			src.AddExtrinsicKeyword(revealed)
			g.AtEndOfTurn("Temporal Aperture", func(card.Game) error {
				src.RemoveAbility(free)
				src.RemoveExtrinsicKeyword(revealed)
				return nil
			})
			return nil
		})
	ab.AIDisabled = true
	c.AddAbility(ab)
	return nil
}

// triangleOfWar has its two creatures fight. ChosenTargets holds the
// controller's creature first, then the opponent's.
func triangleOfWar(_ *Factory, c *card.Instance) error {
	ab := activated(c, "TriangleOfWar", card.MustParseCost("2 Sac<1/CARDNAME>"),
		"Target creature you control fights target creature an opponent controls.", nil)
	ab.Targets = requirement("Creature.YouCtrl", "Select target creature you control")
	ab.AIDisabled = true
	ab.Sub = &card.Ability{
		Kind:    card.KindActivated,
		Tag:     "TriangleOfWarFight",
		Targets: requirement("Creature.OppCtrl", "Select target creature an opponent controls"),
		Effect: func(g card.Game, a *card.Ability) error {
			if len(a.ChosenTargets) < 2 {
				return nil
			}
			var fighters []*card.Instance
			for _, t := range a.ChosenTargets[:2] {
				id, ok := card.ParseID(t)
				if !ok {
					return nil
				}
				x, ok := g.Card(id)
				if !ok || g.ZoneOf(id) != card.ZoneBattlefield {
					return nil
				}
				fighters = append(fighters, x)
			}
			mine, theirs := fighters[0], fighters[1]
			if err := g.DealDamage(mine, theirs.ID().String(), mine.NetAttack()); err != nil {
				return err
			}
			return g.DealDamage(theirs, mine.ID().String(), theirs.NetAttack())
		},
	}
	c.AddAbility(ab)
	return nil
}

// copyArtifact covers Copy Artifact and Sculpting Steel: the card enters as
// a copy of an artifact. The copy stands in for the card until it leaves
// the battlefield, when a fresh instance of the card takes its place.
func copyArtifact(f *Factory, c *card.Instance) error {
	artifacts := func(g card.Game, self card.ID) []*card.Instance {
		return filterCards(without(g.Cards(card.ZoneBattlefield, ""), self), ofType("Artifact"))
	}
	c.ClearFirstSpell()
	sp := c.SpellPermanent()
	sp.Tag = "CopyArtifact"
	sp.AICheck = func(g card.Game, a *card.Ability) bool {
		return a.CanPlay(g) && len(artifacts(g, a.Source)) > 0
	}
	sp.Effect = func(g card.Game, a *card.Ability) error {
		src, err := source(g, a)
		if err != nil {
			return err
		}
		p := src.Controller()
		target := pickOne(g, p, "Select an artifact to copy", artifacts(g, src.ID()), cmc)
		if target == nil {
			return g.MoveTo(src, card.ZoneBattlefield)
		}

		clone, err := f.bindCopy(g, target, src.Owner())
		if err != nil {
			return err
		}
		clone.SetController(p)
		if src.Name == "Copy Artifact" {
			clone.Types = append(clone.Types, "Enchantment")
		}
		clone.CloneOrigin = src.ID()
		clone.CurSetCode = src.CurSetCode

		name, owner := src.Name, src.Owner()
		clone.AddLeaveCommand(card.Command{Name: "Restore " + name, Run: func(g card.Game, clone *card.Instance) error {
			g.RemoveTriggers(clone)
			original, err := f.Card(name, owner)
			if err != nil {
				return err
			}
			if err := g.MoveTo(original, g.ZoneOf(clone.ID())); err != nil {
				return err
			}
			return g.MoveTo(clone, card.ZoneNone)
		}})

		g.RegisterTriggers(clone)
		if err := g.MoveTo(clone, card.ZoneBattlefield); err != nil {
			return err
		}
		src.Cloning = clone.ID()
		return g.MoveTo(src, card.ZoneNone)
	}
	c.AddAbility(sp)
	return nil
}
