package card

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/magefree/mage-cardfactory/internal/game/cardb"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

// Instance is a runtime card. Template fields are copied in, so changing
// an instance never changes its template.
type Instance struct {
	id         ID
	owner      PlayerID
	controller PlayerID

	Name     string
	ManaCost string
	Colors   mana.ColorSet
	Types    []string
	Text     string

	BaseAttack        int
	BaseDefense       int
	BaseLoyalty       int
	BaseAttackString  string
	BaseDefenseString string

	intrinsicKeywords []string
	extrinsicKeywords []string

	SVars              map[string]string
	Sets               []cardb.Printing
	CurSetCode         string
	IntrinsicAbilities []string
	Triggers           []*Trigger
	StaticAbilities    []string

	abilities []*Ability
	statics   []*Ability
	hooks     [4][]Command

	Counters *counters.Counters
	Tapped   bool
	Token    bool
	FaceDown bool

	Kicked        bool
	Evoked        bool
	CopiedSpell   bool
	Madness       bool
	MadnessCost   string
	Suspended     bool
	Flashback     bool
	Unearth       bool
	EchoCost      string
	SunburstValue int
	XLifePaid     int

	XManaPaid            int
	MultiKickerMagnitude int
	ReplicateMagnitude   int
	// AbilityUsed is the index in Abilities() of the ability last played.
	AbilityUsed int

	ChosenType  string
	ChosenColor string
	Devoured    []ID
	// HandSizeStamp pairs the hand size operation added on entering the
	// battlefield with the one removed on leaving.
	HandSizeStamp int

	PrevIntrinsicKeywords []string
	PrevTypes             []string

	// CloneOrigin is the card that made this instance as a copy, or 0.
	CloneOrigin ID
	// Cloning is the copy this card currently stands in for, or 0.
	Cloning ID
}

// New creates an empty instance.
func New(id ID, owner PlayerID) *Instance {
	return &Instance{
		id:          id,
		owner:       owner,
		controller:  owner,
		SVars:       make(map[string]string),
		Counters:    counters.NewCounters(),
		AbilityUsed: -1,
	}
}

// FromTemplate copies every template field into a fresh instance.
func FromTemplate(id ID, owner PlayerID, t *cardb.Template) (*Instance, error) {
	c := New(id, owner)
	c.Name = t.Name
	c.ManaCost = t.ManaCost
	c.Types = slices.Clone(t.Types)
	c.Text = t.Text
	c.intrinsicKeywords = slices.Clone(t.Keywords)
	c.SVars = maps.Clone(t.SVars)
	if c.SVars == nil {
		c.SVars = make(map[string]string)
	}
	c.Sets = slices.Clone(t.Sets)
	if len(t.Sets) > 0 {
		c.CurSetCode = t.Sets[len(t.Sets)-1].Code
	}
	c.IntrinsicAbilities = slices.Clone(t.Abilities)
	c.StaticAbilities = slices.Clone(t.Statics)

	c.BaseAttackString, c.BaseAttack = statValue(t.Power)
	c.BaseDefenseString, c.BaseDefense = statValue(t.Toughness)
	_, c.BaseLoyalty = statValue(t.Loyalty)

	for _, name := range t.Colors {
		col, ok := mana.ParseColor(name)
		if !ok {
			return nil, fmt.Errorf("card %q: unknown color %q", t.Name, name)
		}
		c.Colors = c.Colors.With(col)
	}

	var errs []error
	for _, raw := range t.Triggers {
		trig, err := ParseTrigger(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.Triggers = append(c.Triggers, trig)
	}
	return c, errors.Join(errs...)
}

// statValue returns the symbolic string and its numeric value; symbolic
// values such as "*" or "X" count as 0.
func statValue(s string) (string, int) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s, 0
	}
	return s, n
}

func (c *Instance) ID() ID { return c.id }
func (c *Instance) Owner() PlayerID { return c.owner }
func (c *Instance) Controller() PlayerID { return c.controller }
func (c *Instance) SetOwner(p PlayerID) { c.owner = p }
func (c *Instance) SetController(p PlayerID) { c.controller = p }

// SetID changes the card's ID. Attached abilities, statics and trigger
// abilities follow it, so they keep resolving against this card.
func (c *Instance) SetID(id ID) {
	c.id = id
	for _, a := range c.abilities {
		a.Source = id
	}
	for _, a := range c.statics {
		a.Source = id
	}
	for _, t := range c.Triggers {
		if t.Ability != nil {
			t.Ability.Source = id
		}
	}
}

// IsType reports whether the type line contains typ.
func (c *Instance) IsType(typ string) bool {
	return slices.ContainsFunc(c.Types, func(s string) bool { return strings.EqualFold(s, typ) })
}

func (c *Instance) IsCreature() bool { return c.IsType("Creature") }
func (c *Instance) IsLand() bool { return c.IsType("Land") }

// IsPermanent reports whether the card stays on the battlefield when it resolves.
func (c *Instance) IsPermanent() bool {
	return !c.IsType("Instant") && !c.IsType("Sorcery")
}

// IsAura reports whether the card is an Aura.
func (c *Instance) IsAura() bool { return c.IsType("Enchantment") && c.IsType("Aura") }

// NetAttack is base power plus boost counters.
func (c *Instance) NetAttack() int {
	p, _ := c.Counters.Boost()
	return c.BaseAttack + p
}

// NetDefense is base toughness plus boost counters.
func (c *Instance) NetDefense() int {
	_, t := c.Counters.Boost()
	return c.BaseDefense + t
}

// SVar returns a script variable, or "".
func (c *Instance) SVar(name string) string { return c.SVars[name] }

// SetSVar sets a script variable.
func (c *Instance) SetSVar(name, value string) { c.SVars[name] = value }

// Keywords returns the displayed keyword list: intrinsic then extrinsic.
func (c *Instance) Keywords() []string {
	return append(slices.Clone(c.intrinsicKeywords), c.extrinsicKeywords...)
}

// IntrinsicKeywords returns a copy of the card's own keyword list.
func (c *Instance) IntrinsicKeywords() []string { return slices.Clone(c.intrinsicKeywords) }

// SetIntrinsicKeywords replaces the intrinsic keyword list with a copy of kws.
func (c *Instance) SetIntrinsicKeywords(kws []string) { c.intrinsicKeywords = slices.Clone(kws) }

// HasKeyword reports whether kw is present verbatim.
func (c *Instance) HasKeyword(kw string) bool {
	return slices.Contains(c.intrinsicKeywords, kw) || slices.Contains(c.extrinsicKeywords, kw)
}

// KeywordIndex returns the index in Keywords() of the first keyword at or
// after from starting with prefix, or -1.
func (c *Instance) KeywordIndex(prefix string, from int) int {
	for i, kw := range c.Keywords() {
		if i >= from && strings.HasPrefix(kw, prefix) {
			return i
		}
	}
	return -1
}

// AddIntrinsicKeyword appends kw to the card's own keywords.
func (c *Instance) AddIntrinsicKeyword(kw string) {
	c.intrinsicKeywords = append(c.intrinsicKeywords, kw)
}

// RemoveIntrinsicKeyword removes the first occurrence of kw from this
// instance's own keyword list.
func (c *Instance) RemoveIntrinsicKeyword(kw string) bool {
	i := slices.Index(c.intrinsicKeywords, kw)
	if i < 0 {
		return false
	}
	c.intrinsicKeywords = slices.Delete(slices.Clone(c.intrinsicKeywords), i, i+1)
	return true
}

// AddExtrinsicKeyword grants a keyword from an outside effect.
func (c *Instance) AddExtrinsicKeyword(kw string) {
	c.extrinsicKeywords = append(c.extrinsicKeywords, kw)
}

// RemoveExtrinsicKeyword removes the first granted occurrence of kw.
func (c *Instance) RemoveExtrinsicKeyword(kw string) bool {
	i := slices.Index(c.extrinsicKeywords, kw)
	if i < 0 {
		return false
	}
	c.extrinsicKeywords = slices.Delete(c.extrinsicKeywords, i, i+1)
	return true
}

// AddAbility attaches a to the card. The source is set to this card.
func (c *Instance) AddAbility(a *Ability) {
	a.Source = c.id
	a.state = Attached
	c.abilities = append(c.abilities, a)
}

// RemoveAbility detaches a without resolving it.
func (c *Instance) RemoveAbility(a *Ability) bool {
	i := slices.Index(c.abilities, a)
	if i < 0 {
		return false
	}
	a.state = Removed
	c.abilities = slices.Delete(c.abilities, i, i+1)
	return true
}

// Abilities returns the attached abilities in attachment order.
func (c *Instance) Abilities() []*Ability {
	return slices.Clone(c.abilities)
}

// Ability returns the ability at index i, or nil.
func (c *Instance) Ability(i int) *Ability {
	if i < 0 || i >= len(c.abilities) {
		return nil
	}
	return c.abilities[i]
}

// AbilityIndex returns the position of a in the ability list, or -1.
func (c *Instance) AbilityIndex(a *Ability) int {
	return slices.Index(c.abilities, a)
}

// FirstSpell returns the first attached spell, or nil.
func (c *Instance) FirstSpell() *Ability {
	for _, a := range c.abilities {
		if a.IsSpell() {
			return a
		}
	}
	return nil
}

// ClearFirstSpell removes the first attached spell.
func (c *Instance) ClearFirstSpell() {
	if sp := c.FirstSpell(); sp != nil {
		c.RemoveAbility(sp)
	}
}

// ClearSpellKeepMana removes every spell but keeps mana abilities and
// other activated abilities. Used by overrides that replace the spell.
func (c *Instance) ClearSpellKeepMana() {
	for _, a := range c.Abilities() {
		if a.IsSpell() {
			c.RemoveAbility(a)
		}
	}
}

// ClearAbilities removes every attached ability.
func (c *Instance) ClearAbilities() {
	for _, a := range c.Abilities() {
		c.RemoveAbility(a)
	}
}

// AddStaticAbility registers a static ability. Statics are kept apart from
// the playable ability list so they never shift ability indexes.
func (c *Instance) AddStaticAbility(a *Ability) {
	a.Source = c.id
	a.Kind = KindStatic
	a.state = Attached
	c.statics = append(c.statics, a)
}

// Statics returns the registered static abilities.
func (c *Instance) Statics() []*Ability { return slices.Clone(c.statics) }

// AddCommand appends cmd to the given hook list.
func (c *Instance) AddCommand(h Hook, cmd Command) {
	c.hooks[h] = append(c.hooks[h], cmd)
}

func (c *Instance) AddEnterCommand(cmd Command) { c.AddCommand(HookEnter, cmd) }
func (c *Instance) AddLeaveCommand(cmd Command) { c.AddCommand(HookLeave, cmd) }
func (c *Instance) AddDestroyCommand(cmd Command) { c.AddCommand(HookDestroy, cmd) }
func (c *Instance) AddControlChangeCommand(cmd Command) { c.AddCommand(HookControlChange, cmd) }

// Commands returns the commands registered on a hook, in order.
func (c *Instance) Commands(h Hook) []Command {
	return slices.Clone(c.hooks[h])
}

// RunHook executes the hook's commands in registration order. A failing
// command does not stop later ones; all errors are returned joined.
func (c *Instance) RunHook(g Game, h Hook) error {
	var errs []error
	for _, cmd := range c.Commands(h) {
		if err := cmd.Run(g, c); err != nil {
			errs = append(errs, fmt.Errorf("%s %s command %q: %w", c.Name, h, cmd.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Instance) RunEnter(g Game) error { return c.RunHook(g, HookEnter) }
func (c *Instance) RunLeave(g Game) error { return c.RunHook(g, HookLeave) }
func (c *Instance) RunDestroy(g Game) error { return c.RunHook(g, HookDestroy) }
func (c *Instance) RunControlChange(g Game) error { return c.RunHook(g, HookControlChange) }

// AddDevoured records a creature sacrificed to Devour.
func (c *Instance) AddDevoured(id ID) { c.Devoured = append(c.Devoured, id) }

// ClearDevoured forgets previously devoured creatures.
func (c *Instance) ClearDevoured() { c.Devoured = nil }

// AddColor adds the colors of a cost-like string such as "1 U" or "W B".
func (c *Instance) AddColor(cost string) {
	c.Colors = c.Colors.Union(mana.ColorsOf(cost))
}

// String is "Name (id)", as shown in logs and prompts.
func (c *Instance) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.id)
}

// SpellPermanent returns the default spell for a permanent card: casting
// it puts the card onto the battlefield.
func (c *Instance) SpellPermanent() *Ability {
	return &Ability{
		Kind:             KindSpell,
		Tag:              "Permanent",
		Cost:             Cost{Mana: normalizeMana(c.ManaCost)},
		Description:      c.Name,
		StackDescription: c.Name,
		Effect: func(g Game, a *Ability) error {
			src, ok := g.Card(a.Source)
			if !ok {
				return fmt.Errorf("permanent spell: card %d is gone", a.Source)
			}
			return g.MoveTo(src, ZoneBattlefield)
		},
	}
}

// normalizeMana renders a template mana cost in spaced notation, "" for
// zero costs.
func normalizeMana(raw string) string {
	mc, err := mana.ParseCost(raw)
	if err != nil || mc.IsZero() {
		return ""
	}
	return mc.String()
}
