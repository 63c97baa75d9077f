package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn structure
	EventUpkeepStep    EventType = "UPKEEP_STEP"
	EventDrawStep      EventType = "DRAW_STEP"
	EventEndTurnStep   EventType = "END_TURN_STEP"
	EventCleanupStep   EventType = "CLEANUP_STEP"
	EventEmptyManaPool EventType = "EMPTY_MANA_POOL"

	// Zone events
	EventZoneChange EventType = "ZONE_CHANGE"

	// Card events
	EventDrewCard      EventType = "DREW_CARD"
	EventDiscardedCard EventType = "DISCARDED_CARD"
	EventMilledCard    EventType = "MILLED_CARD"
	EventShuffled      EventType = "LIBRARY_SHUFFLED"
	EventCycledCard    EventType = "CYCLED_CARD"
	EventKicked        EventType = "KICKED"
	EventEchoPaid      EventType = "ECHO_PAID"

	// Life/damage events
	EventDamagedPlayer    EventType = "DAMAGED_PLAYER"
	EventDamagedPermanent EventType = "DAMAGED_PERMANENT"
	EventGainedLife       EventType = "GAINED_LIFE"
	EventLostLife         EventType = "LOST_LIFE"
	EventLost             EventType = "LOST"

	// Stack events
	EventSpellCast          EventType = "SPELL_CAST"
	EventActivatedAbility   EventType = "ACTIVATED_ABILITY"
	EventTriggeredAbility   EventType = "TRIGGERED_ABILITY"
	EventCopiedStackObject  EventType = "COPIED_STACKOBJECT"
	EventStackItemResolving EventType = "STACK_ITEM_RESOLVING"
	EventStackItemResolved  EventType = "STACK_ITEM_RESOLVED"

	// Permanent events
	EventTapped              EventType = "TAPPED"
	EventUntapped            EventType = "UNTAPPED"
	EventDestroyedPermanent  EventType = "DESTROYED_PERMANENT"
	EventSacrificedPermanent EventType = "SACRIFICED_PERMANENT"
	EventCreatedToken        EventType = "CREATED_TOKEN"
	EventGainControl         EventType = "GAIN_CONTROL"
	EventLostControl         EventType = "LOST_CONTROL"

	// Counter events
	EventCounterAdded    EventType = "COUNTER_ADDED"
	EventCountersAdded   EventType = "COUNTERS_ADDED"
	EventCounterRemoved  EventType = "COUNTER_REMOVED"
	EventCountersRemoved EventType = "COUNTERS_REMOVED"

	// Mana events
	EventManaAdded EventType = "MANA_ADDED"

	// Player state
	EventHandSizeChanged EventType = "HAND_SIZE_CHANGED"
)

// IsBatch returns true if this event type combines several sub-events.
func (et EventType) IsBatch() bool {
	return et == EventCountersAdded || et == EventCountersRemoved
}

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string            // Unique event ID
	TargetID    string            // ID of the target (card, player, etc.)
	SourceID    string            // ID of the source ability/object
	Controller  string            // Player ID of the controller
	PlayerID    string            // Player ID (often same as Controller, but can differ)
	Amount      int               // Numeric value (damage, life, counters, etc.)
	Data        string            // Additional string data
	Zone        string            // Destination zone for zone changes
	FromZone    string            // Origin zone for zone changes
	Timestamp   time.Time         // When the event occurred
	Metadata    map[string]string // Additional metadata
	Description string            // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners run in subscription order.
type EventBus struct {
	mu             sync.RWMutex
	listeners      []handledListener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

type handledListener struct {
	handle   int
	listener Listener
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, handledListener{handle: handle, listener: listener})
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, l := range bus.listeners {
		if l.handle == handle {
			bus.listeners = append(bus.listeners[:i:i], bus.listeners[i+1:]...)
			return
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i, l := range listeners {
			if l.Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners may subscribe or publish from inside a callback.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	all := make([]Listener, 0, len(bus.listeners))
	for _, l := range bus.listeners {
		all = append(all, l.listener)
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range all {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  time.Now(),
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}

// NewZoneChangeEvent creates a zone change event for a card moving from one zone to another.
func NewZoneChangeEvent(cardID, controllerID, from, to string) Event {
	evt := NewEvent(EventZoneChange, cardID, cardID, controllerID)
	evt.FromZone = from
	evt.Zone = to
	return evt
}
