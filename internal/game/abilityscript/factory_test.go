package abilityscript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-cardfactory/internal/game"
	"github.com/magefree/mage-cardfactory/internal/game/abilityscript"
	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
)

const (
	alice card.PlayerID = "Alice"
	bob   card.PlayerID = "Bob"
)

func newCard(id card.ID, owner card.PlayerID, name, cost string, types ...string) *card.Instance {
	c := card.New(id, owner)
	c.Name, c.ManaCost, c.Types = name, cost, types
	return c
}

func resolve(t *testing.T, g card.Game, a *card.Ability, targets ...string) {
	t.Helper()
	q, err := a.Activate()
	require.NoError(t, err)
	q.ChosenTargets = targets
	require.NoError(t, q.Resolve(g))
}

func TestSpellScript(t *testing.T) {
	f := abilityscript.New()
	bolt := newCard(1, alice, "Lightning Bolt", "R", "Instant")

	a, err := f.Ability("SP$ DealDamage | Tgt$ TgtCP | NumDmg$ 3 | SpellDescription$ CARDNAME deals 3 damage to target creature or player.", bolt)
	require.NoError(t, err)

	assert.Equal(t, card.KindSpell, a.Kind)
	assert.Equal(t, "DealDamage", a.Tag)
	assert.Equal(t, "R", a.Cost.Mana, "spell cost defaults to the mana cost")
	assert.Equal(t, "Lightning Bolt deals 3 damage to target creature or player.", a.Description)
	assert.Equal(t, "Lightning Bolt - Lightning Bolt deals 3 damage to target creature or player.", a.StackDescription)
	require.NotNil(t, a.Targets)
	assert.Equal(t, "creature or player", a.Targets.Describe())
}

func TestActivatedScript(t *testing.T) {
	f := abilityscript.New()
	pinger := newCard(1, alice, "Prodigal Sorcerer", "2 U", "Creature", "Human", "Wizard")

	a, err := f.Ability("AB$ DealDamage | Cost$ T | ValidTgts$ Creature,Player | NumDmg$ 1 | SpellDescription$ CARDNAME deals 1 damage to target creature or player.", pinger)
	require.NoError(t, err)

	assert.Equal(t, card.KindActivated, a.Kind)
	assert.True(t, a.Cost.Tap)
	assert.Empty(t, a.Cost.Mana)
	assert.Equal(t, "{T}: Prodigal Sorcerer deals 1 damage to target creature or player.", a.Description)
}

func TestScriptErrors(t *testing.T) {
	f := abilityscript.New()
	c := newCard(1, alice, "Test", "1", "Sorcery")

	tests := []struct {
		name   string
		script string
		is     error
	}{
		{name: "unknown api", script: "SP$ Fireworks | SpellDescription$ Boom.", is: abilityscript.ErrUnknownAPI},
		{name: "no kind", script: "NumDmg$ 3"},
		{name: "no dollar", script: "SP$ Draw | NumCards 2"},
		{name: "bad cost", script: "AB$ Draw | Cost$ Sac<x/Creature>"},
		{name: "missing sub svar", script: "SP$ Draw | SubAbility$ DBGain"},
		{name: "bad target bounds", script: "SP$ Destroy | ValidTgts$ Creature | TargetMin$ 2 | TargetMax$ 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Ability(tt.script, c)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestSubAbilityChain(t *testing.T) {
	f := abilityscript.New()
	c := newCard(1, alice, "Douse in Gloom", "2 B", "Instant")
	c.SetSVar("DBGain", "DB$ GainLife | LifeAmount$ 2")

	a, err := f.Ability("SP$ DealDamage | ValidTgts$ Creature | NumDmg$ 2 | SubAbility$ DBGain | SpellDescription$ CARDNAME deals 2 damage to target creature and you gain 2 life.", c)
	require.NoError(t, err)
	require.NotNil(t, a.Sub)
	assert.Equal(t, "GainLife", a.Sub.Tag)
	a.Source = c.ID()

	s := game.NewState(alice, bob, game.WithStateLogger(zaptest.NewLogger(t)))
	s.Add(c, card.ZoneHand)
	victim := newCard(2, bob, "Llanowar Elves", "G", "Creature", "Elf")
	victim.BaseAttack, victim.BaseDefense = 1, 1
	s.Add(victim, card.ZoneBattlefield)

	resolve(t, s, a, victim.ID().String())
	assert.Equal(t, card.ZoneGraveyard, s.ZoneOf(victim.ID()))
	assert.Equal(t, game.DefaultStartingLife+2, s.Life(alice))
}

func TestSelfReferencingSubAbilityStops(t *testing.T) {
	f := abilityscript.New()
	c := newCard(1, alice, "Loop", "1", "Sorcery")
	c.SetSVar("DBLoop", "DB$ Draw | SubAbility$ DBLoop")

	_, err := f.Ability("SP$ Draw | SubAbility$ DBLoop", c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too deep")
}

func TestEffects(t *testing.T) {
	f := abilityscript.New()
	s := game.NewState(alice, bob, game.WithStateLogger(zaptest.NewLogger(t)))

	src := newCard(1, alice, "Source", "1", "Artifact")
	s.Add(src, card.ZoneBattlefield)
	elf := newCard(2, bob, "Llanowar Elves", "G", "Creature", "Elf")
	elf.BaseAttack, elf.BaseDefense = 1, 1
	s.Add(elf, card.ZoneBattlefield)
	for id := card.ID(10); id < 13; id++ {
		s.Add(newCard(id, alice, "Island", "", "Basic", "Land", "Island"), card.ZoneLibrary)
	}

	build := func(script string) *card.Ability {
		a, err := f.Ability(script, src)
		require.NoError(t, err)
		a.Source = src.ID()
		return a
	}

	resolve(t, s, build("SP$ Draw | NumCards$ 2"))
	assert.Len(t, s.Cards(card.ZoneHand, alice), 2)

	resolve(t, s, build("SP$ Draw | Defined$ Opponent"))
	assert.Empty(t, s.Cards(card.ZoneHand, bob), "empty library draws nothing")

	resolve(t, s, build("SP$ LoseLife | LifeAmount$ 3 | Defined$ Opponent"))
	assert.Equal(t, game.DefaultStartingLife-3, s.Life(bob))

	resolve(t, s, build("SP$ GainLife | LifeAmount$ 4"))
	assert.Equal(t, game.DefaultStartingLife+4, s.Life(alice))

	resolve(t, s, build("SP$ DealDamage | Tgt$ TgtP | NumDmg$ 2"), string(bob))
	assert.Equal(t, 2, s.AssignedDamage(bob))

	resolve(t, s, build("SP$ Tap | ValidTgts$ Creature"), elf.ID().String())
	assert.True(t, elf.Tapped)

	resolve(t, s, build("SP$ PutCounter | CounterType$ P1P1 | CounterNum$ 2"))
	assert.Equal(t, 2, src.Counters.Count(counters.P1P1), "defaults to the source")

	resolve(t, s, build("SP$ PutCounter | ValidTgts$ Creature | CounterType$ M1M1"), elf.ID().String())
	assert.Equal(t, 1, elf.Counters.Count(counters.M1M1))

	resolve(t, s, build("SP$ Destroy | ValidTgts$ Creature"), elf.ID().String())
	assert.Equal(t, card.ZoneGraveyard, s.ZoneOf(elf.ID()))
}

func TestBadCounterTypeFailsOnResolve(t *testing.T) {
	f := abilityscript.New()
	s := game.NewState(alice, bob, game.WithStateLogger(zaptest.NewLogger(t)))
	src := newCard(1, alice, "Source", "1", "Artifact")
	s.Add(src, card.ZoneBattlefield)

	a, err := f.Ability("SP$ PutCounter | CounterType$ BOGUS", src)
	require.NoError(t, err)
	a.Source = src.ID()

	q, err := a.Activate()
	require.NoError(t, err)
	assert.Error(t, q.Resolve(s))
}

func TestXCount(t *testing.T) {
	c := card.New(1, alice)
	c.XManaPaid = 3
	c.Devoured = []card.ID{4, 5}
	c.SunburstValue = 2
	c.XLifePaid = 6
	c.MultiKickerMagnitude = 1

	assert.Equal(t, 7, abilityscript.XCount(c, "7"))
	assert.Equal(t, 3, abilityscript.XCount(c, "Count$xPaid"))
	assert.Equal(t, 2, abilityscript.XCount(c, "Count$Devoured"))
	assert.Equal(t, 2, abilityscript.XCount(c, "Count$Sunburst"))
	assert.Equal(t, 6, abilityscript.XCount(c, "Count$xLifePaid"))
	assert.Equal(t, 1, abilityscript.XCount(c, "Count$MultiKicker"))
	assert.Zero(t, abilityscript.XCount(c, "Count$Unknown"))
}

func TestAPIs(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"DealDamage", "GainLife", "LoseLife", "Draw", "Destroy", "Tap", "PutCounter"},
		abilityscript.New().APIs())
}
