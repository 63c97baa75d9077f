package card

import (
	"math/rand"

	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
)

// Zones answers questions about where cards are.
type Zones interface {
	// Card returns a live instance by ID.
	Card(id ID) (*Instance, bool)
	// Cards lists a zone in order. For the battlefield player filters by
	// controller, for other zones by owner; "" means every player. A
	// library is listed top card first.
	Cards(zone Zone, player PlayerID) []*Instance
	// ZoneOf returns the zone holding id, or ZoneNone.
	ZoneOf(id ID) Zone
	// MaxID returns the largest ID of any instance the game knows about.
	MaxID() ID
}

// Players answers questions about players.
type Players interface {
	Players() []PlayerID
	Opponent(p PlayerID) PlayerID
	IsHuman(p PlayerID) bool
	Life(p PlayerID) int
	// AssignedDamage is the damage dealt to p this turn.
	AssignedDamage(p PlayerID) int
	ManaPool(p PlayerID) *mana.ManaPool
}

// Actions change the game state. Moves run the lifecycle hooks of the
// cards involved.
type Actions interface {
	Tap(c *Instance)
	Untap(c *Instance)
	// MoveTo moves c into zone. A library move puts c on top; ZoneNone
	// takes c out of the game state entirely.
	MoveTo(c *Instance, zone Zone) error
	Sacrifice(c *Instance) error
	Destroy(c *Instance) error
	ChangeController(c *Instance, p PlayerID) error
	PutToken(c *Instance) error
	DrawCards(p PlayerID, n int) error
	Discard(c *Instance) error
	Mill(p PlayerID, n int) error
	Shuffle(p PlayerID)
	GainLife(p PlayerID, n int)
	LoseLife(p PlayerID, n int)
	SetLife(p PlayerID, n int)
	DealDamage(source *Instance, target string, n int) error
	AddMana(p PlayerID, produced string) error
	AddCounter(c *Instance, ct counters.CounterType, n int)
	RemoveCounter(c *Instance, ct counters.CounterType, n int) int
	LoseGame(p PlayerID, reason string)
}

// Stack accepts abilities for resolution.
type Stack interface {
	// AddStack queues an activation of a on the stack.
	AddStack(a *Ability) error
	// AddSimultaneous queues a triggered ability created while another
	// object is resolving.
	AddSimultaneous(a *Ability) error
	// PlayForFree lets a human play a copy without paying its cost.
	PlayForFree(a *Ability) error
	// PlayStackFree puts a computer's copy on the stack without paying.
	PlayStackFree(a *Ability) error
}

// Turn exposes the turn structure and delayed effects.
type Turn interface {
	Phase() Phase
	ActivePlayer() PlayerID
	// AtEndOfTurn schedules fn for the cleanup of the current turn.
	AtEndOfTurn(name string, fn func(g Game) error)
	// AtNextUpkeep schedules fn for the beginning of the next upkeep.
	AtNextUpkeep(name string, fn func(g Game) error)
}

// HandSizes manages per-player maximum hand size operations.
type HandSizes interface {
	NextHandSizeStamp() int
	AddHandSizeOp(p PlayerID, op HandSizeOp)
	RemoveHandSizeOp(p PlayerID, stamp int) bool
	HandSizeOps(p PlayerID) []HandSizeOp
}

// Triggers registers card triggers, which are keyed by instance ID.
type Triggers interface {
	RegisterTriggers(c *Instance)
	RemoveTriggers(c *Instance)
}

// Chooser suspends resolution until a player makes a choice. An empty
// result means "no selection" and must be treated as a no-op, not an error.
type Chooser interface {
	ChooseCards(p PlayerID, prompt string, candidates []*Instance, min, max int) []*Instance
	ChooseOption(p PlayerID, prompt string, options []string) (string, bool)
	Random() *rand.Rand
}

// Game is the context passed to every resolve and hook call.
type Game interface {
	Zones
	Players
	Actions
	Stack
	Turn
	HandSizes
	Triggers
	Chooser
}
