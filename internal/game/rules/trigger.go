package rules

import (
	"sync"

	"github.com/google/uuid"
)

// AbilityTrigger encapsulates the logic for reacting to a specific event and
// producing stack items when the conditions are satisfied.
type AbilityTrigger struct {
	ID         string
	SourceID   string
	Controller string
	EventType  EventType
	Condition  func(Event) bool
	Build      func(Event) StackItem
	Once       bool
}

// TriggerManager stores and evaluates ability triggers against events.
// Triggers are evaluated in registration order.
type TriggerManager struct {
	mu       sync.Mutex
	order    []string
	triggers map[string]AbilityTrigger
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{
		triggers: make(map[string]AbilityTrigger),
	}
}

// Register adds a new trigger to the manager and returns its ID.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	if _, exists := tm.triggers[trigger.ID]; !exists {
		tm.order = append(tm.order, trigger.ID)
	}
	tm.triggers[trigger.ID] = trigger
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.removeLocked(id)
}

// UnregisterSource removes every trigger registered for sourceID and
// returns how many were removed.
func (tm *TriggerManager) UnregisterSource(sourceID string) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	var ids []string
	for _, id := range tm.order {
		if tm.triggers[id].SourceID == sourceID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		tm.removeLocked(id)
	}
	return len(ids)
}

// CountForSource returns the number of triggers registered for sourceID.
func (tm *TriggerManager) CountForSource(sourceID string) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	n := 0
	for _, trigger := range tm.triggers {
		if trigger.SourceID == sourceID {
			n++
		}
	}
	return n
}

func (tm *TriggerManager) removeLocked(id string) {
	if _, ok := tm.triggers[id]; !ok {
		return
	}
	delete(tm.triggers, id)
	for i, existing := range tm.order {
		if existing == id {
			tm.order = append(tm.order[:i:i], tm.order[i+1:]...)
			break
		}
	}
}

// Handle evaluates the provided event against all registered triggers and
// returns the stack items they produce.
func (tm *TriggerManager) Handle(event Event) []StackItem {
	tm.mu.Lock()
	var matched []AbilityTrigger
	for _, id := range tm.order {
		trigger := tm.triggers[id]
		if trigger.EventType != event.Type || trigger.Build == nil {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		matched = append(matched, trigger)
	}
	for _, trigger := range matched {
		if trigger.Once {
			tm.removeLocked(trigger.ID)
		}
	}
	tm.mu.Unlock()

	// Build runs unlocked so it may register or remove triggers.
	stackItems := make([]StackItem, 0, len(matched))
	for _, trigger := range matched {
		item := trigger.Build(event)
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Kind == "" {
			item.Kind = StackItemKindTriggered
		}
		if item.SourceID == "" {
			item.SourceID = trigger.SourceID
		}
		if item.Controller == "" {
			item.Controller = trigger.Controller
		}
		stackItems = append(stackItems, item)
	}
	return stackItems
}
