// Package game is an in-memory two-player game: zones, life, mana pools,
// the stack and triggers. It is what card behavior runs against.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/counters"
	"github.com/magefree/mage-cardfactory/internal/game/mana"
	"github.com/magefree/mage-cardfactory/internal/game/rules"
	"github.com/magefree/mage-cardfactory/internal/game/targeting"
)

const (
	// DefaultStartingLife is the life total players begin with.
	DefaultStartingLife = 20
	// DefaultHandSize is the maximum hand size before hand size operations.
	DefaultHandSize = 7
)

var (
	// ErrNotPlayable is returned when an ability cannot be played now.
	ErrNotPlayable = errors.New("ability cannot be played")
	// ErrCannotPay is returned when a cost cannot be paid.
	ErrCannotPay = errors.New("cost cannot be paid")
	// ErrUnknownPlayer is returned for a player that is not in the game.
	ErrUnknownPlayer = errors.New("unknown player")
)

// Prompter collects choices from players. An empty result is "no
// selection".
type Prompter interface {
	ChooseCards(p card.PlayerID, prompt string, candidates []*card.Instance, min, max int) []*card.Instance
	ChooseOption(p card.PlayerID, prompt string, options []string) (string, bool)
}

// playerState is one player's side of the table.
type playerState struct {
	id             card.PlayerID
	human          bool
	life           int
	assignedDamage int
	library        []*card.Instance // top card first
	hand           []*card.Instance
	graveyard      []*card.Instance
	pool           *mana.ManaPool
	handSizeOps    []card.HandSizeOp
	lost           bool
	lostReason     string
}

type delayed struct {
	name string
	fn   func(g card.Game) error
}

// State is an in-memory two player game implementing card.Game. It runs
// on one goroutine; nothing in it is safe for concurrent use.
type State struct {
	logger     *zap.Logger
	bus        *rules.EventBus
	stack      *rules.Stack
	triggers   *rules.TriggerManager
	counterOps *counters.CounterOperations
	validator  *targeting.TargetValidator
	prompter   Prompter
	rnd        *rand.Rand

	order       []card.PlayerID
	players     map[card.PlayerID]*playerState
	battlefield []*card.Instance
	exile       []*card.Instance
	onStack     []*card.Instance
	known       map[card.ID]*card.Instance
	zones       map[card.ID]card.Zone
	damage      map[card.ID]int

	phase      card.Phase
	active     card.PlayerID
	endOfTurn  []delayed
	nextUpkeep []delayed
	stamp      int
}

// StateOption configures a State.
type StateOption func(*State)

// WithStateLogger sets the logger. A nil logger is ignored.
func WithStateLogger(logger *zap.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPrompter sets where human choices come from.
func WithPrompter(p Prompter) StateOption {
	return func(s *State) { s.prompter = p }
}

// WithSeed makes shuffles and random choices repeatable.
func WithSeed(seed int64) StateOption {
	return func(s *State) { s.rnd = rand.New(rand.NewSource(seed)) }
}

// WithStartingLife overrides DefaultStartingLife.
func WithStartingLife(life int) StateOption {
	return func(s *State) {
		for _, p := range s.players {
			p.life = life
		}
	}
}

// NewState seats a human and a computer player. The human is the active
// player and the game starts in the first main phase.
func NewState(human, computer card.PlayerID, opts ...StateOption) *State {
	s := &State{
		logger:   zap.NewNop(),
		bus:      rules.NewEventBus(),
		stack:    rules.NewStack(),
		triggers: rules.NewTriggerManager(),
		prompter: &ScriptedPrompter{},
		rnd:      rand.New(rand.NewSource(1)),
		order:    []card.PlayerID{human, computer},
		players:  make(map[card.PlayerID]*playerState),
		known:    make(map[card.ID]*card.Instance),
		zones:    make(map[card.ID]card.Zone),
		damage:   make(map[card.ID]int),
		phase:    card.PhaseMain1,
		active:   human,
	}
	for _, id := range s.order {
		s.players[id] = &playerState{
			id:    id,
			human: id == human,
			life:  DefaultStartingLife,
			pool:  mana.NewManaPool(),
		}
	}
	s.counterOps = counters.NewCounterOperations(s.bus)
	s.validator = targeting.NewTargetValidator(s)
	s.bus.Subscribe(func(evt rules.Event) {
		s.stack.Push(s.triggers.Handle(evt)...)
	})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the bus every state change is published on.
func (s *State) Events() *rules.EventBus { return s.bus }

// Stack returns the stack, topmost last.
func (s *State) Stack() []rules.StackItem { return s.stack.Items() }

func (s *State) player(p card.PlayerID) *playerState {
	ps, ok := s.players[p]
	if !ok {
		panic(fmt.Sprintf("%v: %q", ErrUnknownPlayer, p))
	}
	return ps
}

// Card returns a live instance by ID.
func (s *State) Card(id card.ID) (*card.Instance, bool) {
	c, ok := s.known[id]
	return c, ok
}

// Cards lists a zone in order.
func (s *State) Cards(zone card.Zone, player card.PlayerID) []*card.Instance {
	var lists [][]*card.Instance
	switch zone {
	case card.ZoneBattlefield:
		return filterBy(s.battlefield, player, (*card.Instance).Controller)
	case card.ZoneExile:
		return filterBy(s.exile, player, (*card.Instance).Owner)
	case card.ZoneStack:
		return filterBy(s.onStack, player, (*card.Instance).Controller)
	}
	for _, id := range s.order {
		if player != "" && id != player {
			continue
		}
		ps := s.players[id]
		switch zone {
		case card.ZoneLibrary:
			lists = append(lists, ps.library)
		case card.ZoneHand:
			lists = append(lists, ps.hand)
		case card.ZoneGraveyard:
			lists = append(lists, ps.graveyard)
		}
	}
	return slices.Concat(lists...)
}

func filterBy(cards []*card.Instance, player card.PlayerID, who func(*card.Instance) card.PlayerID) []*card.Instance {
	out := make([]*card.Instance, 0, len(cards))
	for _, c := range cards {
		if player == "" || who(c) == player {
			out = append(out, c)
		}
	}
	return out
}

// ZoneOf returns the zone holding id.
func (s *State) ZoneOf(id card.ID) card.Zone { return s.zones[id] }

// MaxID returns the largest known instance ID.
func (s *State) MaxID() card.ID {
	var top card.ID
	for id := range s.known {
		top = max(top, id)
	}
	return top
}

func (s *State) Players() []card.PlayerID { return slices.Clone(s.order) }

func (s *State) Opponent(p card.PlayerID) card.PlayerID {
	for _, id := range s.order {
		if id != p {
			return id
		}
	}
	return ""
}

func (s *State) IsHuman(p card.PlayerID) bool { return s.player(p).human }

func (s *State) Life(p card.PlayerID) int { return s.player(p).life }

func (s *State) AssignedDamage(p card.PlayerID) int { return s.player(p).assignedDamage }

func (s *State) ManaPool(p card.PlayerID) *mana.ManaPool { return s.player(p).pool }

// Lost reports whether p has lost, and why.
func (s *State) Lost(p card.PlayerID) (bool, string) {
	ps := s.player(p)
	return ps.lost, ps.lostReason
}

// Add puts c into zone without running any hooks, for setting up a game.
// A library add puts c on top.
func (s *State) Add(c *card.Instance, zone card.Zone) {
	s.RegisterTriggers(c)
	s.place(c, zone)
}

// place inserts c into zone and records it.
func (s *State) place(c *card.Instance, zone card.Zone) {
	switch zone {
	case card.ZoneNone:
		delete(s.zones, c.ID())
		return
	case card.ZoneBattlefield:
		s.battlefield = append(s.battlefield, c)
	case card.ZoneExile:
		s.exile = append(s.exile, c)
	case card.ZoneStack:
		s.onStack = append(s.onStack, c)
	case card.ZoneLibrary:
		ps := s.player(c.Owner())
		ps.library = slices.Insert(ps.library, 0, c)
	case card.ZoneHand:
		ps := s.player(c.Owner())
		ps.hand = append(ps.hand, c)
	case card.ZoneGraveyard:
		ps := s.player(c.Owner())
		ps.graveyard = append(ps.graveyard, c)
	}
	s.zones[c.ID()] = zone
}

// unplace takes c out of whatever zone holds it.
func (s *State) unplace(c *card.Instance) {
	drop := func(list []*card.Instance) []*card.Instance {
		return slices.DeleteFunc(list, func(x *card.Instance) bool { return x.ID() == c.ID() })
	}
	switch s.zones[c.ID()] {
	case card.ZoneBattlefield:
		s.battlefield = drop(s.battlefield)
	case card.ZoneExile:
		s.exile = drop(s.exile)
	case card.ZoneStack:
		s.onStack = drop(s.onStack)
	case card.ZoneLibrary, card.ZoneHand, card.ZoneGraveyard:
		ps := s.player(c.Owner())
		ps.library = drop(ps.library)
		ps.hand = drop(ps.hand)
		ps.graveyard = drop(ps.graveyard)
	}
	delete(s.zones, c.ID())
}

func (s *State) Tap(c *card.Instance) {
	if c.Tapped {
		return
	}
	c.Tapped = true
	s.bus.Publish(rules.NewEvent(rules.EventTapped, c.ID().String(), c.ID().String(), string(c.Controller())))
}

func (s *State) Untap(c *card.Instance) {
	if !c.Tapped {
		return
	}
	c.Tapped = false
	s.bus.Publish(rules.NewEvent(rules.EventUntapped, c.ID().String(), c.ID().String(), string(c.Controller())))
}

// MoveTo moves c into zone. Leaving the battlefield runs the leave
// commands after the move, entering it runs the enter commands. Tokens
// cease to exist once they leave the battlefield.
func (s *State) MoveTo(c *card.Instance, zone card.Zone) error {
	from, tracked := s.zones[c.ID()]
	if tracked && from == zone && zone != card.ZoneLibrary {
		return nil
	}
	if _, ok := s.known[c.ID()]; !ok {
		s.RegisterTriggers(c)
	}
	if tracked {
		s.unplace(c)
	}
	if zone == card.ZoneBattlefield && from != card.ZoneBattlefield {
		c.SetController(c.Owner())
	}
	s.place(c, zone)
	if zone == card.ZoneNone {
		delete(s.known, c.ID())
		s.triggers.UnregisterSource(c.ID().String())
	}

	s.logger.Debug("card moved",
		zap.Stringer("card", c),
		zap.String("from", string(from)),
		zap.String("to", string(zone)),
	)
	s.bus.Publish(rules.NewZoneChangeEvent(c.ID().String(), string(c.Controller()), string(from), string(zone)))

	if from == card.ZoneBattlefield && zone != card.ZoneBattlefield {
		c.Tapped = false
		delete(s.damage, c.ID())
		if err := c.RunLeave(s); err != nil {
			return err
		}
		if c.Token && s.zones[c.ID()] == zone && zone != card.ZoneNone {
			s.unplace(c)
			delete(s.known, c.ID())
			s.triggers.UnregisterSource(c.ID().String())
		}
	}
	if zone == card.ZoneBattlefield && from != card.ZoneBattlefield {
		return c.RunEnter(s)
	}
	return nil
}

// toGraveyard runs the destroy commands of a permanent put into its
// owner's graveyard.
func (s *State) toGraveyard(c *card.Instance, evt rules.EventType) error {
	onBattlefield := s.zones[c.ID()] == card.ZoneBattlefield
	if err := s.MoveTo(c, card.ZoneGraveyard); err != nil {
		return err
	}
	if !onBattlefield {
		return nil
	}
	s.bus.Publish(rules.NewEvent(evt, c.ID().String(), c.ID().String(), string(c.Controller())))
	return c.RunDestroy(s)
}

func (s *State) Sacrifice(c *card.Instance) error {
	return s.toGraveyard(c, rules.EventSacrificedPermanent)
}

func (s *State) Destroy(c *card.Instance) error {
	return s.toGraveyard(c, rules.EventDestroyedPermanent)
}

func (s *State) ChangeController(c *card.Instance, p card.PlayerID) error {
	if c.Controller() == p {
		return nil
	}
	old := c.Controller()
	c.SetController(p)
	s.bus.Publish(rules.NewEvent(rules.EventLostControl, c.ID().String(), c.ID().String(), string(old)))
	s.bus.Publish(rules.NewEvent(rules.EventGainControl, c.ID().String(), c.ID().String(), string(p)))
	return c.RunControlChange(s)
}

func (s *State) PutToken(c *card.Instance) error {
	c.Token = true
	s.bus.Publish(rules.NewEvent(rules.EventCreatedToken, c.ID().String(), c.ID().String(), string(c.Controller())))
	return s.MoveTo(c, card.ZoneBattlefield)
}

// DrawCards draws from the top. Drawing from an empty library draws
// nothing.
func (s *State) DrawCards(p card.PlayerID, n int) error {
	for range n {
		ps := s.player(p)
		if len(ps.library) == 0 {
			return nil
		}
		top := ps.library[0]
		if err := s.MoveTo(top, card.ZoneHand); err != nil {
			return err
		}
		s.bus.Publish(rules.NewEvent(rules.EventDrewCard, top.ID().String(), top.ID().String(), string(p)))
	}
	return nil
}

func (s *State) Discard(c *card.Instance) error {
	if err := s.MoveTo(c, card.ZoneGraveyard); err != nil {
		return err
	}
	s.bus.Publish(rules.NewEvent(rules.EventDiscardedCard, c.ID().String(), c.ID().String(), string(c.Owner())))
	return nil
}

func (s *State) Mill(p card.PlayerID, n int) error {
	for range n {
		ps := s.player(p)
		if len(ps.library) == 0 {
			return nil
		}
		top := ps.library[0]
		if err := s.MoveTo(top, card.ZoneGraveyard); err != nil {
			return err
		}
		s.bus.Publish(rules.NewEvent(rules.EventMilledCard, top.ID().String(), top.ID().String(), string(p)))
	}
	return nil
}

func (s *State) Shuffle(p card.PlayerID) {
	ps := s.player(p)
	s.rnd.Shuffle(len(ps.library), func(i, j int) {
		ps.library[i], ps.library[j] = ps.library[j], ps.library[i]
	})
	s.bus.Publish(rules.NewEvent(rules.EventShuffled, string(p), "", string(p)))
}

func (s *State) GainLife(p card.PlayerID, n int) {
	if n <= 0 {
		return
	}
	s.player(p).life += n
	s.bus.Publish(rules.NewEventWithAmount(rules.EventGainedLife, string(p), "", string(p), n))
}

func (s *State) LoseLife(p card.PlayerID, n int) {
	if n <= 0 {
		return
	}
	s.player(p).life -= n
	s.bus.Publish(rules.NewEventWithAmount(rules.EventLostLife, string(p), "", string(p), n))
}

func (s *State) SetLife(p card.PlayerID, n int) {
	ps := s.player(p)
	switch {
	case n > ps.life:
		s.GainLife(p, n-ps.life)
	case n < ps.life:
		s.LoseLife(p, ps.life-n)
	}
}

// DealDamage deals n damage from source to a player or a permanent. A
// creature with lethal damage is destroyed.
func (s *State) DealDamage(source *card.Instance, target string, n int) error {
	if n <= 0 {
		return nil
	}
	srcID := ""
	if source != nil {
		srcID = source.ID().String()
	}
	if ps, ok := s.players[card.PlayerID(target)]; ok {
		ps.assignedDamage += n
		s.bus.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, target, srcID, string(ps.id), n))
		s.LoseLife(ps.id, n)
		return nil
	}
	id, ok := card.ParseID(target)
	if !ok || s.zones[id] != card.ZoneBattlefield {
		return nil
	}
	c := s.known[id]
	s.damage[id] += n
	s.bus.Publish(rules.NewEventWithAmount(rules.EventDamagedPermanent, target, srcID, string(c.Controller()), n))
	if c.IsCreature() && s.damage[id] >= c.NetDefense() {
		return s.Destroy(c)
	}
	return nil
}

// Damage is the damage marked on a permanent this turn.
func (s *State) Damage(id card.ID) int { return s.damage[id] }

func (s *State) AddMana(p card.PlayerID, produced string) error {
	if err := s.player(p).pool.AddProduced(produced); err != nil {
		return err
	}
	s.bus.Publish(rules.Event{Type: rules.EventManaAdded, PlayerID: string(p), Controller: string(p), Data: produced})
	return nil
}

func (s *State) AddCounter(c *card.Instance, ct counters.CounterType, n int) {
	s.counterOps.Add(c.Counters, c.ID().String(), string(c.Controller()), ct, n)
}

func (s *State) RemoveCounter(c *card.Instance, ct counters.CounterType, n int) int {
	return s.counterOps.Remove(c.Counters, c.ID().String(), string(c.Controller()), ct, n)
}

func (s *State) LoseGame(p card.PlayerID, reason string) {
	ps := s.player(p)
	if ps.lost {
		return
	}
	ps.lost, ps.lostReason = true, reason
	s.logger.Info("player lost", zap.String("player", string(p)), zap.String("reason", reason))
	evt := rules.NewEvent(rules.EventLost, string(p), "", string(p))
	evt.Data = reason
	s.bus.Publish(evt)
}

func (s *State) Phase() card.Phase { return s.phase }

// SetPhase moves to phase without running any turn-based actions.
func (s *State) SetPhase(phase card.Phase) { s.phase = phase }

func (s *State) ActivePlayer() card.PlayerID { return s.active }

func (s *State) AtEndOfTurn(name string, fn func(g card.Game) error) {
	s.endOfTurn = append(s.endOfTurn, delayed{name: name, fn: fn})
}

func (s *State) AtNextUpkeep(name string, fn func(g card.Game) error) {
	s.nextUpkeep = append(s.nextUpkeep, delayed{name: name, fn: fn})
}

func (s *State) runDelayed(queue []delayed) error {
	var errs []error
	for _, d := range queue {
		s.logger.Debug("running delayed effect", zap.String("effect", d.name))
		if err := d.fn(s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
		}
	}
	return errors.Join(errs...)
}

const skipUntap = "This card doesn't untap during your next untap step."

// BeginTurn makes p the active player, untaps their permanents and starts
// the upkeep: delayed upkeep effects run and upkeep triggers go on the
// stack.
func (s *State) BeginTurn(p card.PlayerID) error {
	s.active = p
	for _, ps := range s.players {
		ps.assignedDamage = 0
	}
	for _, c := range s.Cards(card.ZoneBattlefield, p) {
		if c.RemoveExtrinsicKeyword(skipUntap) {
			continue
		}
		s.Untap(c)
	}

	s.phase = card.PhaseUpkeep
	queue := s.nextUpkeep
	s.nextUpkeep = nil
	err := s.runDelayed(queue)

	evt := rules.NewEvent(rules.EventUpkeepStep, string(p), "", string(p))
	s.bus.Publish(evt)
	return err
}

// EndTurn runs the end of turn effects, clears damage and empties mana
// pools.
func (s *State) EndTurn() error {
	s.phase = card.PhaseEndOfTurn
	queue := s.endOfTurn
	s.endOfTurn = nil
	err := s.runDelayed(queue)

	s.phase = card.PhaseCleanup
	clear(s.damage)
	for _, ps := range s.players {
		ps.pool.Empty()
	}
	return err
}

func (s *State) NextHandSizeStamp() int {
	s.stamp++
	return s.stamp
}

func (s *State) AddHandSizeOp(p card.PlayerID, op card.HandSizeOp) {
	ps := s.player(p)
	ps.handSizeOps = append(ps.handSizeOps, op)
	slices.SortStableFunc(ps.handSizeOps, func(a, b card.HandSizeOp) int { return a.Stamp - b.Stamp })
	s.bus.Publish(rules.NewEventWithAmount(rules.EventHandSizeChanged, string(p), "", string(p), op.Amount))
}

func (s *State) RemoveHandSizeOp(p card.PlayerID, stamp int) bool {
	ps := s.player(p)
	i := slices.IndexFunc(ps.handSizeOps, func(op card.HandSizeOp) bool { return op.Stamp == stamp })
	if i < 0 {
		return false
	}
	ps.handSizeOps = slices.Delete(ps.handSizeOps, i, i+1)
	s.bus.Publish(rules.NewEvent(rules.EventHandSizeChanged, string(p), "", string(p)))
	return true
}

func (s *State) HandSizeOps(p card.PlayerID) []card.HandSizeOp {
	return slices.Clone(s.player(p).handSizeOps)
}

// MaxHandSize is p's maximum hand size, -1 for no maximum.
func (s *State) MaxHandSize(p card.PlayerID) int {
	return card.ApplyHandSize(DefaultHandSize, s.player(p).handSizeOps)
}

func (s *State) ChooseCards(p card.PlayerID, prompt string, candidates []*card.Instance, min, max int) []*card.Instance {
	return s.prompter.ChooseCards(p, prompt, candidates, min, max)
}

func (s *State) ChooseOption(p card.PlayerID, prompt string, options []string) (string, bool) {
	return s.prompter.ChooseOption(p, prompt, options)
}

func (s *State) Random() *rand.Rand { return s.rnd }

// FindTarget describes a player or a permanent.
func (s *State) FindTarget(id string) (targeting.TargetInfo, bool) {
	if ps, ok := s.players[card.PlayerID(id)]; ok {
		return targeting.TargetInfo{ID: id, IsPlayer: true, Name: id, Lost: ps.lost}, true
	}
	cid, ok := card.ParseID(id)
	if !ok || s.zones[cid] != card.ZoneBattlefield {
		return targeting.TargetInfo{}, false
	}
	return targetInfo(s.known[cid]), true
}

// Candidates lists both players and every permanent.
func (s *State) Candidates() []targeting.TargetInfo {
	var out []targeting.TargetInfo
	for _, id := range s.order {
		info, _ := s.FindTarget(string(id))
		out = append(out, info)
	}
	for _, c := range s.battlefield {
		out = append(out, targetInfo(c))
	}
	return out
}

func targetInfo(c *card.Instance) targeting.TargetInfo {
	var colors []string
	for _, col := range c.Colors.Colors() {
		colors = append(colors, col.String())
	}
	return targeting.TargetInfo{
		ID:         c.ID().String(),
		Name:       c.Name,
		Types:      slices.Clone(c.Types),
		Colors:     colors,
		Controller: string(c.Controller()),
		Owner:      string(c.Owner()),
		Zone:       string(card.ZoneBattlefield),
		Tapped:     c.Tapped,
	}
}
