package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-cardfactory/internal/game"
	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/rules"
	"github.com/magefree/mage-cardfactory/internal/game/targeting"
)

const (
	alice card.PlayerID = "Alice"
	bob   card.PlayerID = "Bob"
)

func newState(t *testing.T, opts ...game.StateOption) *game.State {
	t.Helper()
	opts = append([]game.StateOption{game.WithStateLogger(zaptest.NewLogger(t))}, opts...)
	return game.NewState(alice, bob, opts...)
}

func creature(id card.ID, owner card.PlayerID, name string, power, toughness int) *card.Instance {
	c := card.New(id, owner)
	c.Name = name
	c.Types = []string{"Creature", "Bear"}
	c.BaseAttack, c.BaseDefense = power, toughness
	return c
}

func TestMoveToRunsHooksAfterMoving(t *testing.T) {
	s := newState(t)
	c := creature(1, alice, "Grizzly Bears", 2, 2)
	s.Add(c, card.ZoneHand)

	var seen []card.Zone
	c.AddEnterCommand(card.Command{Name: "enter", Run: func(g card.Game, c *card.Instance) error {
		seen = append(seen, g.ZoneOf(c.ID()))
		return nil
	}})
	c.AddLeaveCommand(card.Command{Name: "leave", Run: func(g card.Game, c *card.Instance) error {
		seen = append(seen, g.ZoneOf(c.ID()))
		return nil
	}})

	require.NoError(t, s.MoveTo(c, card.ZoneBattlefield))
	c.Tapped = true
	require.NoError(t, s.MoveTo(c, card.ZoneGraveyard))

	assert.Equal(t, []card.Zone{card.ZoneBattlefield, card.ZoneGraveyard}, seen)
	assert.False(t, c.Tapped)
	assert.Empty(t, s.Cards(card.ZoneBattlefield, ""))
	assert.Equal(t, []*card.Instance{c}, s.Cards(card.ZoneGraveyard, alice))
}

func TestLibraryIsTopFirst(t *testing.T) {
	s := newState(t)
	first := creature(1, alice, "First", 1, 1)
	second := creature(2, alice, "Second", 1, 1)
	s.Add(first, card.ZoneLibrary)
	s.Add(second, card.ZoneLibrary)

	assert.Equal(t, []*card.Instance{second, first}, s.Cards(card.ZoneLibrary, alice))

	require.NoError(t, s.DrawCards(alice, 1))
	assert.Equal(t, []*card.Instance{second}, s.Cards(card.ZoneHand, alice))
	require.NoError(t, s.DrawCards(alice, 5))
	assert.Len(t, s.Cards(card.ZoneHand, alice), 2)
}

func TestZoneNoneForgetsCard(t *testing.T) {
	s := newState(t)
	c := creature(7, bob, "Ghost", 1, 1)
	s.Add(c, card.ZoneExile)
	assert.Equal(t, card.ID(7), s.MaxID())

	require.NoError(t, s.MoveTo(c, card.ZoneNone))
	_, ok := s.Card(7)
	assert.False(t, ok)
	assert.Equal(t, card.ZoneNone, s.ZoneOf(7))
	assert.Equal(t, card.ID(0), s.MaxID())
}

func TestTokenCeasesToExist(t *testing.T) {
	s := newState(t)
	tok := creature(3, alice, "Saproling", 1, 1)
	require.NoError(t, s.PutToken(tok))
	assert.Equal(t, card.ZoneBattlefield, s.ZoneOf(3))

	require.NoError(t, s.Sacrifice(tok))
	_, ok := s.Card(3)
	assert.False(t, ok)
	assert.Empty(t, s.Cards(card.ZoneGraveyard, alice))
}

func TestDealDamage(t *testing.T) {
	s := newState(t)
	bear := creature(1, bob, "Grizzly Bears", 2, 2)
	s.Add(bear, card.ZoneBattlefield)
	destroyed := false
	bear.AddDestroyCommand(card.Command{Name: "destroyed", Run: func(card.Game, *card.Instance) error {
		destroyed = true
		return nil
	}})

	require.NoError(t, s.DealDamage(nil, "1", 1))
	assert.Equal(t, 1, s.Damage(1))
	assert.Equal(t, card.ZoneBattlefield, s.ZoneOf(1))

	require.NoError(t, s.DealDamage(nil, "1", 1))
	assert.Equal(t, card.ZoneGraveyard, s.ZoneOf(1))
	assert.True(t, destroyed)

	require.NoError(t, s.DealDamage(nil, string(bob), 3))
	assert.Equal(t, game.DefaultStartingLife-3, s.Life(bob))
	assert.Equal(t, 3, s.AssignedDamage(bob))
}

func TestUpkeepTriggerFiresForController(t *testing.T) {
	s := newState(t)
	c := creature(1, alice, "Ticker", 1, 1)
	trig, err := card.ParseTrigger("Mode$ Phase | Phase$ Upkeep | ValidPlayer$ You | TriggerZones$ Battlefield")
	require.NoError(t, err)
	fired := 0
	trig.Ability = &card.Ability{
		Kind:   card.KindTriggered,
		Tag:    "Tick",
		Effect: func(card.Game, *card.Ability) error { fired++; return nil },
	}
	c.Triggers = append(c.Triggers, trig)
	s.Add(c, card.ZoneBattlefield)

	require.NoError(t, s.BeginTurn(bob))
	assert.Empty(t, s.Stack())

	require.NoError(t, s.BeginTurn(alice))
	require.Len(t, s.Stack(), 1)
	assert.Equal(t, rules.StackItemKindTriggered, s.Stack()[0].Kind)
	require.NoError(t, s.ResolveStack())
	assert.Equal(t, 1, fired)

	require.NoError(t, s.MoveTo(c, card.ZoneGraveyard))
	require.NoError(t, s.BeginTurn(alice))
	assert.Empty(t, s.Stack())
}

func TestBeginTurnSkipsUntapOnce(t *testing.T) {
	s := newState(t)
	c := creature(1, alice, "Sleeper", 1, 1)
	s.Add(c, card.ZoneBattlefield)
	c.Tapped = true
	c.AddExtrinsicKeyword("This card doesn't untap during your next untap step.")

	require.NoError(t, s.BeginTurn(alice))
	assert.True(t, c.Tapped)
	require.NoError(t, s.BeginTurn(alice))
	assert.False(t, c.Tapped)
}

func TestAddStackPaysAndResolves(t *testing.T) {
	s := newState(t)
	bolt := card.New(1, alice)
	bolt.Name = "Lightning Bolt"
	bolt.Types = []string{"Instant"}
	req, err := targeting.NewRequirement("Creature,Player", "1", "1", "Select target")
	require.NoError(t, err)
	spell := &card.Ability{
		Kind:    card.KindSpell,
		Cost:    card.Cost{Mana: "R"},
		Targets: &req,
		Effect: func(g card.Game, a *card.Ability) error {
			src, _ := g.Card(a.Source)
			return g.DealDamage(src, a.ChosenTargets[0], 3)
		},
	}
	bolt.AddAbility(spell)
	s.Add(bolt, card.ZoneHand)

	assert.False(t, spell.CanPlay(s), "no mana")
	require.NoError(t, s.AddMana(alice, "R"))
	require.True(t, spell.CanPlay(s))

	spell.ChosenTargets = []string{string(bob)}
	require.NoError(t, s.AddStack(spell))
	assert.Equal(t, card.ZoneStack, s.ZoneOf(1))
	assert.Equal(t, 0, s.ManaPool(alice).GetTotalMana())

	require.NoError(t, s.ResolveStack())
	assert.Equal(t, game.DefaultStartingLife-3, s.Life(bob))
	assert.Equal(t, card.ZoneGraveyard, s.ZoneOf(1))
}

func TestAddStackRejectsIllegalTarget(t *testing.T) {
	s := newState(t)
	src := creature(1, alice, "Prodigal Sorcerer", 1, 1)
	land := card.New(2, bob)
	land.Name = "Forest"
	land.Types = []string{"Land"}
	req, err := targeting.NewRequirement("Creature", "1", "1", "Select target creature")
	require.NoError(t, err)
	ping := &card.Ability{
		Kind:    card.KindActivated,
		Cost:    card.Cost{Tap: true},
		Targets: &req,
		Effect:  func(card.Game, *card.Ability) error { return nil },
	}
	src.AddAbility(ping)
	s.Add(src, card.ZoneBattlefield)
	s.Add(land, card.ZoneBattlefield)

	ping.ChosenTargets = []string{"2"}
	assert.Error(t, s.AddStack(ping))
	assert.False(t, src.Tapped)

	ping.ChosenTargets = []string{"1"}
	require.NoError(t, s.AddStack(ping))
	assert.True(t, src.Tapped)
	assert.False(t, ping.CanPlay(s), "already tapped")
}

func TestSacrificeAndCounterCosts(t *testing.T) {
	s := newState(t)
	src := card.New(1, alice)
	src.Name = "Bauble"
	src.Types = []string{"Artifact"}
	s.Add(src, card.ZoneBattlefield)
	s.AddCounter(src, counters.Charge, 2)

	ab := &card.Ability{
		Kind: card.KindActivated,
		Cost: card.Cost{SubCounters: 2, SubCounter: counters.Charge, SacAmount: 1, SacType: "CARDNAME"},
	}
	src.AddAbility(ab)
	require.NoError(t, s.AddStack(ab))

	assert.Equal(t, 0, src.Counters.Count(counters.Charge))
	assert.Equal(t, card.ZoneGraveyard, s.ZoneOf(1))
}

func TestBuybackReturnsToHand(t *testing.T) {
	s := newState(t)
	c := card.New(1, alice)
	c.Name = "Capsize"
	c.Types = []string{"Instant"}
	sp := &card.Ability{Kind: card.KindSpell, Buyback: true}
	c.AddAbility(sp)
	s.Add(c, card.ZoneHand)

	require.NoError(t, s.AddStack(sp))
	require.NoError(t, s.ResolveStack())
	assert.Equal(t, card.ZoneHand, s.ZoneOf(1))
}

func TestHandSizeOps(t *testing.T) {
	s := newState(t)
	assert.Equal(t, game.DefaultHandSize, s.MaxHandSize(bob))

	add := s.NextHandSizeStamp()
	s.AddHandSizeOp(bob, card.HandSizeOp{Mode: "+", Amount: 2, Stamp: add})
	set := s.NextHandSizeStamp()
	s.AddHandSizeOp(bob, card.HandSizeOp{Mode: "=", Amount: 5, Stamp: set})
	assert.Equal(t, 5, s.MaxHandSize(bob))

	assert.True(t, s.RemoveHandSizeOp(bob, set))
	assert.False(t, s.RemoveHandSizeOp(bob, set))
	assert.Equal(t, 9, s.MaxHandSize(bob))
	assert.Len(t, s.HandSizeOps(bob), 1)
}

func TestDelayedEffects(t *testing.T) {
	s := newState(t)
	var ran []string
	s.AtEndOfTurn("eot", func(card.Game) error { ran = append(ran, "eot"); return nil })
	s.AtNextUpkeep("upkeep", func(card.Game) error { ran = append(ran, "upkeep"); return nil })

	require.NoError(t, s.EndTurn())
	require.NoError(t, s.EndTurn())
	require.NoError(t, s.BeginTurn(bob))
	require.NoError(t, s.BeginTurn(alice))
	assert.Equal(t, []string{"eot", "upkeep"}, ran)
}

func TestChangeControllerRunsHook(t *testing.T) {
	s := newState(t)
	c := creature(1, alice, "Traitor", 1, 1)
	s.Add(c, card.ZoneBattlefield)
	runs := 0
	c.AddControlChangeCommand(card.Command{Name: "cc", Run: func(card.Game, *card.Instance) error {
		runs++
		return nil
	}})

	require.NoError(t, s.ChangeController(c, bob))
	require.NoError(t, s.ChangeController(c, bob))
	assert.Equal(t, 1, runs)
	assert.Equal(t, []*card.Instance{c}, s.Cards(card.ZoneBattlefield, bob))
}

func TestLoseGame(t *testing.T) {
	s := newState(t)
	var events []rules.Event
	s.Events().SubscribeTyped(rules.EventLost, func(e rules.Event) { events = append(events, e) })

	s.LoseGame(alice, "Lich")
	s.LoseGame(alice, "again")
	lost, reason := s.Lost(alice)
	assert.True(t, lost)
	assert.Equal(t, "Lich", reason)
	assert.Len(t, events, 1)
}

func TestScriptedPrompter(t *testing.T) {
	p := &game.ScriptedPrompter{}
	a, b := creature(1, alice, "A", 1, 1), creature(2, alice, "B", 1, 1)

	assert.Nil(t, p.ChooseCards(alice, "none queued", []*card.Instance{a, b}, 0, 1))

	p.QueueCards(1, 0, 5)
	assert.Equal(t, []*card.Instance{b}, p.ChooseCards(alice, "pick", []*card.Instance{a, b}, 0, 1))

	p.QueueOption("Maybe")
	_, ok := p.ChooseOption(alice, "yes or no", []string{"Yes", "No"})
	assert.False(t, ok)
	p.QueueOption("Yes")
	got, ok := p.ChooseOption(alice, "yes or no", []string{"Yes", "No"})
	assert.True(t, ok)
	assert.Equal(t, "Yes", got)
	assert.Len(t, p.Prompts, 4)
}
