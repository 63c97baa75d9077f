package factory

import (
	"fmt"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

// source looks up the card an ability belongs to. Effects always go
// through the game rather than a captured instance, so that abilities
// copied onto another card act for that card.
func source(g card.Game, a *card.Ability) (*card.Instance, error) {
	src, ok := g.Card(a.Source)
	if !ok {
		return nil, fmt.Errorf("%s: source card %d is gone", a.Tag, a.Source)
	}
	return src, nil
}

// activated builds an activated ability whose description is
// "<cost>: <text>".
func activated(c *card.Instance, tag string, cost card.Cost, text string, effect card.Effect) *card.Ability {
	text = strings.ReplaceAll(text, "CARDNAME", c.Name)
	return &card.Ability{
		Kind:             card.KindActivated,
		Tag:              tag,
		Cost:             cost,
		Description:      cost.Describe(c.Name) + ": " + text,
		StackDescription: c.Name + " - " + text,
		Effect:           effect,
	}
}

// triggered builds an ability for the stack that is not attached to the
// card's ability list.
func triggered(c *card.Instance, tag, stackDesc string, effect card.Effect) *card.Ability {
	return &card.Ability{
		Kind:             card.KindTriggered,
		Source:           c.ID(),
		Tag:              tag,
		Description:      stackDesc,
		StackDescription: stackDesc,
		Effect:           effect,
	}
}

// addUpkeepTrigger gives c a "beginning of your upkeep" trigger that is
// live while c is in zone.
func addUpkeepTrigger(c *card.Instance, zone card.Zone, tag, desc string, effect card.Effect) error {
	trig, err := card.ParseTrigger("Mode$ Phase | Phase$ Upkeep | ValidPlayer$ You | TriggerZones$ " + string(zone) +
		" | TriggerDescription$ " + desc)
	if err != nil {
		return err
	}
	trig.Ability = triggered(c, tag, c.Name+" - "+desc, effect)
	c.Triggers = append(c.Triggers, trig)
	return nil
}

func filterCards(cards []*card.Instance, keep func(*card.Instance) bool) []*card.Instance {
	var out []*card.Instance
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func without(cards []*card.Instance, id card.ID) []*card.Instance {
	return filterCards(cards, func(c *card.Instance) bool { return c.ID() != id })
}

func ofType(typ string) func(*card.Instance) bool {
	return func(c *card.Instance) bool { return c.IsType(typ) }
}

// cmc is the converted mana cost of a card.
func cmc(c *card.Instance) int {
	mc, err := mana.ParseCost(c.ManaCost)
	if err != nil {
		return 0
	}
	return mc.ConvertedManaCost()
}

// creatureValue ranks creatures for the computer's choices.
func creatureValue(c *card.Instance) int {
	return 2*c.NetAttack() + c.NetDefense() + len(c.Keywords())
}

// pickOne lets p choose up to one card. A human is prompted; the computer
// takes the highest scoring candidate. nil means no selection.
func pickOne(g card.Game, p card.PlayerID, prompt string, candidates []*card.Instance, score func(*card.Instance) int) *card.Instance {
	if len(candidates) == 0 {
		return nil
	}
	if g.IsHuman(p) {
		chosen := g.ChooseCards(p, prompt, candidates, 0, 1)
		if len(chosen) == 0 {
			return nil
		}
		return chosen[0]
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if score(c) > score(best) {
			best = c
		}
	}
	return best
}

// playFree puts a onto the stack without paying its cost: a human plays
// it, the computer only when it wants to.
func playFree(g card.Game, p card.PlayerID, a *card.Ability) error {
	if g.IsHuman(p) {
		return g.PlayForFree(a)
	}
	if a.CanPlayAI(g) {
		return g.PlayStackFree(a)
	}
	return nil
}

// spellOf returns the spell a card is cast with.
func spellOf(c *card.Instance) *card.Ability {
	if sp := c.FirstSpell(); sp != nil {
		return sp
	}
	if c.IsPermanent() {
		sp := c.SpellPermanent()
		sp.Source = c.ID()
		return sp
	}
	return nil
}

// searchLibrary lets p pick a card matching keep from their library, puts
// it into zone and shuffles.
func searchLibrary(g card.Game, p card.PlayerID, prompt string, keep func(*card.Instance) bool, zone card.Zone) error {
	found := pickOne(g, p, prompt, filterCards(g.Cards(card.ZoneLibrary, p), keep), cmc)
	defer g.Shuffle(p)
	if found == nil {
		return nil
	}
	return g.MoveTo(found, zone)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func shortColor(name string) (string, bool) {
	col, ok := mana.ParseColor(name)
	if !ok {
		return "", false
	}
	return col.Short(), true
}
