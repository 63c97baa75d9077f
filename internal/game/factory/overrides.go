package factory

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
	"github.com/magefree/mage-cardfactory/internal/game/targeting"
)

// CreatureTypes are the types offered when a card asks for a creature type.
var CreatureTypes = []string{
	"Angel", "Ape", "Avatar", "Beast", "Bird", "Cat", "Cleric", "Construct",
	"Demon", "Djinn", "Dragon", "Drake", "Dwarf", "Elemental", "Elf", "Faerie",
	"Giant", "Goblin", "Golem", "Horror", "Human", "Illusion", "Insect", "Knight",
	"Kithkin", "Merfolk", "Minion", "Myr", "Ogre", "Rat", "Rebel", "Rogue",
	"Saproling", "Serpent", "Shaman", "Skeleton", "Sliver", "Soldier", "Spirit",
	"Thrull", "Treefolk", "Vampire", "Wall", "Warrior", "Wizard", "Wurm", "Zombie",
}

// creatureTypeChoosers all ask for a creature type as they enter the
// battlefield; what the type does is scripted.
var creatureTypeChoosers = []string{
	"Conspiracy", "Cover of Darkness", "Door of Destinies", "Engineered Plague",
	"Shared Triumph", "Belbe's Portal", "Steely Resolve", "Xenograft",
}

// overrides maps card names to behavior that no keyword or script covers.
func overrides() map[string]override {
	m := map[string]override{
		"Bridge from Below":           bridgeFromBelow,
		"Sarpadian Empires, Vol. VII": sarpadianEmpires,
		"Night Soil":                  nightSoil,
		"Necropotence":                necropotence,
		"Aluren":                      aluren,
		"Volrath's Dungeon":           volrathsDungeon,
		"Mox Diamond":                 moxDiamond,
		"Standstill":                  standstill,
		"Goblin Charbelcher":          goblinCharbelcher,
		"Lodestone Bauble":            lodestoneBauble,
		"Grindstone":                  grindstone,
		"Everflowing Chalice":         everflowingChalice,
		"Curse of Wizardry":           curseOfWizardry,
		"Mirror Universe":             mirrorUniverse,
		"Barl's Cage":                 barlsCage,
		"Pithing Needle":              pithingNeedle,
		"Bazaar of Wonders":           bazaarOfWonders,
		"Phyrexian Processor":         phyrexianProcessor,
		"Scroll Rack":                 scrollRack,
		"Cursed Scroll":               cursedScroll,
		"Temporal Aperture":           temporalAperture,
		"Lich":                        lich,
		"Triangle of War":             triangleOfWar,
		"Copy Artifact":               copyArtifact,
		"Sculpting Steel":             copyArtifact,
	}
	for _, name := range creatureTypeChoosers {
		m[name] = chooseCreatureType
	}
	for _, col := range []string{"Black", "Blue", "Green", "Red", "White"} {
		m[col+" Mana Battery"] = manaBattery
	}
	return m
}

func requirement(valid, prompt string) *targeting.TargetRequirement {
	req, err := targeting.NewRequirement(valid, "1", "1", prompt)
	if err != nil {
		panic(err)
	}
	return &req
}

// chooseOption asks a human; the computer takes fallback.
func chooseOption(g card.Game, p card.PlayerID, prompt string, options []string, fallback string) (string, bool) {
	if g.IsHuman(p) {
		return g.ChooseOption(p, prompt, options)
	}
	return fallback, fallback != ""
}

// countOptions lists "0" through "n".
func countOptions(n int) []string {
	out := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func bridgeFromBelow(_ *Factory, c *card.Instance) error {
	c.ClearFirstSpell()
	sp := c.SpellPermanent()
	sp.AIDisabled = true
	c.AddAbility(sp)
	return nil
}

func chooseCreatureType(_ *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "ChooseCreatureType", Run: func(g card.Game, c *card.Instance) error {
		desc := "As " + c.Name + " enters the battlefield, choose a creature type."
		return g.AddSimultaneous(triggered(c, "ChooseCreatureType", desc, func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			choice, ok := chooseOption(g, p, "Choose a creature type", CreatureTypes, mostCommonCreatureType(g, p))
			if ok {
				src.ChosenType = choice
			}
			return nil
		}))
	}})
	return nil
}

// mostCommonCreatureType looks at every card p owns or controls.
func mostCommonCreatureType(g card.Game, p card.PlayerID) string {
	counts := make(map[string]int)
	for _, zone := range []card.Zone{card.ZoneBattlefield, card.ZoneHand, card.ZoneLibrary, card.ZoneGraveyard} {
		for _, c := range g.Cards(zone, p) {
			for _, typ := range c.Types {
				if slices.Contains(CreatureTypes, typ) {
					counts[typ]++
				}
			}
		}
	}
	best, n := "Sliver", 0
	for _, typ := range CreatureTypes {
		if counts[typ] > n {
			best, n = typ, counts[typ]
		}
	}
	return best
}

type tokenChoice struct{ typ, color string }

var sarpadianChoices = []tokenChoice{
	{"Citizen", "W"}, {"Camarid", "U"}, {"Thrull", "B"}, {"Goblin", "R"}, {"Saproling", "G"},
}

func sarpadianEmpires(f *Factory, c *card.Instance) error {
	const (
		chooseText = "As Sarpadian Empires, Vol. VII enters the battlefield, choose white Citizen, blue Camarid, black Thrull, red Goblin, or green Saproling."
		tokenText  = "Put a 1/1 creature token of the chosen color and type onto the battlefield."
	)
	c.AddEnterCommand(card.Command{Name: "Sarpadian Empires", Run: func(g card.Game, c *card.Instance) error {
		return g.AddSimultaneous(triggered(c, "ChooseToken", chooseText, func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			var options []string
			for _, ch := range sarpadianChoices {
				options = append(options, ch.typ)
			}
			choice, ok := chooseOption(g, src.Controller(), "Select type of creature", options, "Thrull")
			if !ok {
				return nil
			}
			i := slices.IndexFunc(sarpadianChoices, func(ch tokenChoice) bool { return ch.typ == choice })
			if i < 0 {
				return fmt.Errorf("unknown token type %q", choice)
			}
			typ, color := sarpadianChoices[i].typ, sarpadianChoices[i].color
			src.ChosenType = typ

			for _, old := range src.Abilities() {
				if old.Tag == "SarpadianToken" {
					src.RemoveAbility(old)
				}
			}
			src.AddAbility(activated(src, "SarpadianToken", card.MustParseCost("3 T"),
				fmt.Sprintf("Put a 1/1 %s token onto the battlefield.", typ),
				func(g card.Game, a *card.Ability) error {
					src, err := source(g, a)
					if err != nil {
						return err
					}
					return g.PutToken(f.token(src.Controller(), typ, color, []string{"Creature", typ}, 1, 1))
				}))
			return nil
		}))
	}})
	c.Text = chooseText + "\n3, Tap: " + tokenText + "\n" + c.Text
	return nil
}

// token builds a token with a fresh ID.
func (f *Factory) token(owner card.PlayerID, name, color string, types []string, attack, defense int) *card.Instance {
	t := card.New(f.ids.Next(), owner)
	t.Name = name
	t.Types = types
	t.AddColor(color)
	t.BaseAttack, t.BaseDefense = attack, defense
	t.Token = true
	return t
}

func nightSoil(f *Factory, c *card.Instance) error {
	creaturesIn := func(g card.Game, p card.PlayerID) []*card.Instance {
		return filterCards(g.Cards(card.ZoneGraveyard, p), ofType("Creature"))
	}
	ab := activated(c, "NightSoil", card.MustParseCost("1"),
		"Exile two target creature cards from a single graveyard. Put a 1/1 green Saproling creature token onto the battlefield.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			var graveyards []string
			for _, pl := range g.Players() {
				if len(creaturesIn(g, pl)) >= 2 {
					graveyards = append(graveyards, string(pl))
				}
			}
			if len(graveyards) == 0 {
				return nil
			}
			from := graveyards[0]
			if len(graveyards) > 1 {
				var ok bool
				if from, ok = g.ChooseOption(p, "Choose a graveyard", graveyards); !ok {
					return nil
				}
			}
			exiled := g.ChooseCards(p, "Select two creatures to exile", creaturesIn(g, card.PlayerID(from)), 2, 2)
			if len(exiled) < 2 {
				return nil
			}
			for _, x := range exiled {
				if err := g.MoveTo(x, card.ZoneExile); err != nil {
					return err
				}
			}
			return g.PutToken(f.token(p, "Saproling", "G", []string{"Creature", "Saproling"}, 1, 1))
		})
	ab.AIDisabled = true
	ab.PlayCheck = func(g card.Game, _ *card.Ability) bool {
		return slices.ContainsFunc(g.Players(), func(p card.PlayerID) bool { return len(creaturesIn(g, p)) >= 2 })
	}
	c.AddAbility(ab)
	return nil
}

func necropotence(_ *Factory, c *card.Instance) error {
	ab := activated(c, "Necropotence", card.MustParseCost("PayLife<1>"),
		"Exile the top card of your library face down. Put that card into your hand at the beginning of your next end step.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			lib := g.Cards(card.ZoneLibrary, src.Controller())
			if len(lib) == 0 {
				return nil
			}
			top := lib[0]
			if err := g.MoveTo(top, card.ZoneExile); err != nil {
				return err
			}
			top.FaceDown = true
			g.AtEndOfTurn("Necropotence "+top.String(), func(g card.Game) error {
				if g.ZoneOf(top.ID()) != card.ZoneExile {
					return nil
				}
				top.FaceDown = false
				return g.MoveTo(top, card.ZoneHand)
			})
			return nil
		})
	ab.AIDisabled = true
	c.AddAbility(ab)
	return nil
}

func aluren(_ *Factory, c *card.Instance) error {
	ab := activated(c, "Aluren", card.Cost{},
		"You may cast a creature spell with converted mana cost 3 or less without paying its mana cost.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			creatures := filterCards(g.Cards(card.ZoneHand, p), func(x *card.Instance) bool {
				return x.IsCreature() && cmc(x) <= 3
			})
			chosen := pickOne(g, p, "Select a creature", creatures, creatureValue)
			if chosen == nil {
				return nil
			}
			sp := spellOf(chosen)
			if sp == nil {
				return nil
			}
			cast, err := sp.Activate()
			if err != nil {
				return err
			}
			return playFree(g, p, cast)
		})
	ab.AIDisabled = true
	c.AddAbility(ab)
	return nil
}

func volrathsDungeon(_ *Factory, c *card.Instance) error {
	dungeon := activated(c, "Dungeon", card.MustParseCost("Discard<1/Card>"),
		"Target player puts a card from his or her hand on top of his or her library. Activate this ability only any time you could cast a sorcery.",
		func(g card.Game, a *card.Ability) error {
			for _, t := range a.ChosenTargets {
				p := card.PlayerID(t)
				hand := g.Cards(card.ZoneHand, p)
				if len(hand) == 0 {
					continue
				}
				chosen := hand[:1]
				if g.IsHuman(p) {
					chosen = g.ChooseCards(p, "Put a card on top of your library", hand, 1, 1)
				}
				for _, x := range chosen {
					if err := g.MoveTo(x, card.ZoneLibrary); err != nil {
						return err
					}
				}
			}
			return nil
		})
	dungeon.Targets = requirement("Player", "Select target player")
	dungeon.SorcerySpeed = true
	c.AddAbility(dungeon)

	bail := activated(c, "DestroyDungeon", card.MustParseCost("PayLife<5>"),
		"Destroy Volrath's Dungeon. Any player may activate this ability but only during his or her turn.",
		func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			return g.Destroy(src)
		})
	bail.PlayCheck = func(g card.Game, a *card.Ability) bool {
		src, ok := g.Card(a.Source)
		return ok && g.ActivePlayer() == src.Controller()
	}
	c.AddAbility(bail)
	return nil
}

func moxDiamond(_ *Factory, c *card.Instance) error {
	otherLands := func(g card.Game, src *card.Instance) []*card.Instance {
		return filterCards(without(g.Cards(card.ZoneHand, src.Controller()), src.ID()), ofType("Land"))
	}
	c.ClearSpellKeepMana()
	sp := c.SpellPermanent()
	sp.AIDisabled = true
	sp.PlayCheck = func(g card.Game, a *card.Ability) bool {
		src, ok := g.Card(a.Source)
		return ok && len(otherLands(g, src)) > 0
	}
	c.AddAbility(sp)

	c.AddEnterCommand(card.Command{Name: "Mox Diamond", Run: func(g card.Game, c *card.Instance) error {
		desc := "If Mox Diamond would enter the battlefield, you may discard a land card instead. If you do, put Mox Diamond onto the battlefield. If you don't, put it into its owner's graveyard."
		return g.AddSimultaneous(triggered(c, "MoxDiamond", desc, func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			lands := otherLands(g, src)
			if discard := pickOne(g, src.Controller(), "Discard a land", lands, func(*card.Instance) int { return 0 }); discard != nil {
				return g.Discard(discard)
			}
			return g.Sacrifice(src)
		}))
	}})
	return nil
}

func standstill(_ *Factory, c *card.Instance) error {
	c.ClearFirstSpell()
	sp := c.SpellPermanent()
	sp.AICheck = func(g card.Game, a *card.Ability) bool {
		src, ok := g.Card(a.Source)
		if !ok || !a.CanPlay(g) {
			return false
		}
		p := src.Controller()
		mine := filterCards(g.Cards(card.ZoneBattlefield, p), ofType("Creature"))
		theirs := filterCards(g.Cards(card.ZoneBattlefield, g.Opponent(p)), ofType("Creature"))
		return len(mine) > len(theirs)
	}
	c.AddAbility(sp)
	return nil
}

func curseOfWizardry(_ *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "Curse of Wizardry", Run: func(g card.Game, c *card.Instance) error {
		desc := "As Curse of Wizardry enters the battlefield, choose a color."
		return g.AddSimultaneous(triggered(c, "ChooseColor", desc, func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			var names []string
			for _, col := range mana.AllColors() {
				names = append(names, col.String())
			}
			choice, ok := chooseOption(g, p, "Choose a color", names, mostProminentColor(g, g.Opponent(p)))
			if ok {
				src.ChosenColor = choice
			}
			return nil
		}))
	}})
	return nil
}

// mostProminentColor counts colors among p's permanents and hand.
func mostProminentColor(g card.Game, p card.PlayerID) string {
	counts := make(map[mana.Color]int)
	for _, zone := range []card.Zone{card.ZoneBattlefield, card.ZoneHand} {
		for _, c := range g.Cards(zone, p) {
			for _, col := range c.Colors.Colors() {
				counts[col]++
			}
		}
	}
	best, n := mana.Black, 0
	for _, col := range mana.AllColors() {
		if counts[col] > n {
			best, n = col, counts[col]
		}
	}
	return best.String()
}

func pithingNeedle(f *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "Pithing Needle", Run: func(g card.Game, c *card.Instance) error {
		desc := "As Pithing Needle enters the battlefield, name a card."
		return g.AddSimultaneous(triggered(c, "NameCard", desc, func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			choice, ok := chooseOption(g, p, "Name a card", f.store.Names(), needleTarget(g, g.Opponent(p)))
			if !ok {
				return nil
			}
			src.SetSVar("PithingTarget", choice)
			src.ChosenType = choice
			return nil
		}))
	}})
	c.AddLeaveCommand(card.Command{Name: "Pithing Needle", Run: func(_ card.Game, c *card.Instance) error {
		c.SetSVar("PithingTarget", "")
		return nil
	}})
	return nil
}

// needleTarget names the first opposing permanent with an activated ability.
func needleTarget(g card.Game, p card.PlayerID) string {
	for _, c := range g.Cards(card.ZoneBattlefield, p) {
		for _, a := range c.Abilities() {
			if a.Kind == card.KindActivated || a.Kind == card.KindMana {
				return c.Name
			}
		}
	}
	return ""
}

func bazaarOfWonders(_ *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "Bazaar of Wonders", Run: func(g card.Game, c *card.Instance) error {
		for _, x := range g.Cards(card.ZoneGraveyard, "") {
			if err := g.MoveTo(x, card.ZoneExile); err != nil {
				return err
			}
		}
		return nil
	}})
	return nil
}

func lich(_ *Factory, c *card.Instance) error {
	c.AddEnterCommand(card.Command{Name: "Lich", Run: func(g card.Game, c *card.Instance) error {
		return g.AddSimultaneous(triggered(c, "Lich", "Lich - you lose life equal to your life total.", func(g card.Game, a *card.Ability) error {
			src, err := source(g, a)
			if err != nil {
				return err
			}
			p := src.Controller()
			g.LoseLife(p, g.Life(p))
			return nil
		}))
	}})
	c.AddDestroyCommand(card.Command{Name: "Lich", Run: func(g card.Game, c *card.Instance) error {
		return g.AddSimultaneous(triggered(c, "LichLoses", "Lich - you lose the game.", func(g card.Game, a *card.Ability) error {
			src, ok := g.Card(a.Source)
			if !ok {
				return nil
			}
			g.LoseGame(src.Controller(), "Lich")
			return nil
		}))
	}})
	return nil
}
