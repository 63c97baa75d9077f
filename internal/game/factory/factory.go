// Package factory builds runtime card instances from templates and attaches
// their behavior: keyword routines, scripted abilities, static abilities,
// type sub-binders and the per-name override table. It also copies cards
// and spells and exposes the bound card pool.
package factory

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/abilityscript"
	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/cardb"
)

// RemovedCardName is the name of the blank card handed out for removed cards.
const RemovedCardName = "Removed Card"

// AbilityFactory expands a scripted ability for a card.
type AbilityFactory interface {
	Ability(script string, c *card.Instance) (*card.Ability, error)
}

// SubBinder attaches type-specific behavior. It reports true when it fully
// bound the card, in which case the override table is skipped.
type SubBinder interface {
	Bind(c *card.Instance, f *Factory) (bool, error)
}

// Type kinds a SubBinder can be registered for, in dispatch order.
const (
	KindCreature     = "Creature"
	KindAura         = "Aura"
	KindEquipment    = "Equipment"
	KindPlaneswalker = "Planeswalker"
	KindLand         = "Land"
	KindInstant      = "Instant"
	KindSorcery      = "Sorcery"
)

var subBinderOrder = []string{KindCreature, KindAura, KindEquipment, KindPlaneswalker, KindLand, KindInstant, KindSorcery}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithAbilityFactory replaces the scripted ability factory.
func WithAbilityFactory(af AbilityFactory) Option {
	return func(f *Factory) { f.abilities = af }
}

// WithSubBinder registers b for one of the Kind* type kinds.
func WithSubBinder(kind string, b SubBinder) Option {
	return func(f *Factory) { f.subBinders[kind] = b }
}

// WithIDAllocator shares an allocator with the rest of the game, so that
// tokens and copies made elsewhere never collide with bound cards.
func WithIDAllocator(ids *card.IDAllocator) Option {
	return func(f *Factory) { f.ids = ids }
}

// WithRand sets the random source used by RandomCombination.
func WithRand(r *rand.Rand) Option {
	return func(f *Factory) { f.rnd = r }
}

// WithPoolOwner sets the owner of the cards in the pool.
func WithPoolOwner(p card.PlayerID) Option {
	return func(f *Factory) { f.poolOwner = p }
}

// Factory binds cards. It keeps no reference to the cards it returns,
// except for the instances making up the card pool.
type Factory struct {
	store      *cardb.Store
	logger     *zap.Logger
	abilities  AbilityFactory
	subBinders map[string]SubBinder
	overrides  map[string]override
	ids        *card.IDAllocator
	poolOwner  card.PlayerID

	rndMu sync.Mutex
	rnd   *rand.Rand

	poolOnce sync.Once
	pool     []*card.Instance
}

// New returns a factory over store.
func New(store *cardb.Store, opts ...Option) *Factory {
	f := &Factory{
		store:      store,
		logger:     zap.NewNop(),
		abilities:  abilityscript.New(),
		subBinders: make(map[string]SubBinder),
		ids:        &card.IDAllocator{},
		poolOwner:  "human",
		rnd:        rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.overrides = overrides()
	return f
}

// Store returns the template store the factory binds from.
func (f *Factory) Store() *cardb.Store { return f.store }

// IDs returns the allocator shared by every instance the factory creates.
func (f *Factory) IDs() *card.IDAllocator { return f.ids }

// Card returns a freshly bound instance of the named card owned by owner.
// Removed cards come back as a blank card that can never be played.
func (f *Factory) Card(name string, owner card.PlayerID) (*card.Instance, error) {
	if name == RemovedCardName || f.store.Removed(name) {
		return f.removedCard(owner), nil
	}
	t, err := f.store.Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.Bind(t, owner)
}

func (f *Factory) removedCard(owner card.PlayerID) *card.Instance {
	c := card.New(f.ids.Next(), owner)
	c.Name = RemovedCardName
	c.AddAbility(&card.Ability{
		Kind:        card.KindSpell,
		Tag:         "Removed",
		Cost:        card.Cost{Mana: "1"},
		Description: RemovedCardName,
		PlayCheck:   func(card.Game, *card.Ability) bool { return false },
		AIDisabled:  true,
	})
	return c
}

// HasOverride reports whether name has an entry in the override table.
func (f *Factory) HasOverride(name string) bool {
	_, ok := f.overrides[name]
	return ok
}
