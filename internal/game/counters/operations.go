package counters

import (
	"fmt"
	"time"

	"github.com/magefree/mage-cardfactory/internal/game/rules"
)

// CounterOperations changes counters on game objects and publishes the
// matching rules events.
type CounterOperations struct {
	eventBus *rules.EventBus
	now      func() time.Time
}

// NewCounterOperations creates a new CounterOperations instance.
func NewCounterOperations(eventBus *rules.EventBus) *CounterOperations {
	return &CounterOperations{
		eventBus: eventBus,
		now:      time.Now,
	}
}

// Add puts amount counters of type ct on target and emits COUNTER_ADDED.
func (co *CounterOperations) Add(target *Counters, objectID, controllerID string, ct CounterType, amount int) {
	if target == nil || amount <= 0 {
		return
	}
	target.Add(ct, amount)

	timestamp := co.now()
	co.publish(rules.Event{
		Type:       rules.EventCounterAdded,
		ID:         fmt.Sprintf("event-counter-added-%s-%d", objectID, timestamp.UnixNano()),
		TargetID:   objectID,
		SourceID:   objectID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Amount:     amount,
		Data:       string(ct),
		Timestamp:  timestamp,
		Metadata: map[string]string{
			"counter_name":  string(ct),
			"counter_count": fmt.Sprintf("%d", target.Count(ct)),
		},
		Description: fmt.Sprintf("Added %d %s counter(s) to %s", amount, ct.DisplayName(), objectID),
	})
}

// Remove takes up to amount counters of type ct off target, emits
// COUNTER_REMOVED when any were removed, and returns the number removed.
func (co *CounterOperations) Remove(target *Counters, objectID, controllerID string, ct CounterType, amount int) int {
	if target == nil {
		return 0
	}
	removed := target.Remove(ct, amount)
	if removed == 0 {
		return 0
	}

	timestamp := co.now()
	co.publish(rules.Event{
		Type:       rules.EventCounterRemoved,
		ID:         fmt.Sprintf("event-counter-removed-%s-%d", objectID, timestamp.UnixNano()),
		TargetID:   objectID,
		SourceID:   objectID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Amount:     removed,
		Data:       string(ct),
		Timestamp:  timestamp,
		Metadata: map[string]string{
			"counter_name":  string(ct),
			"counter_count": fmt.Sprintf("%d", target.Count(ct)),
		},
		Description: fmt.Sprintf("Removed %d %s counter(s) from %s", removed, ct.DisplayName(), objectID),
	})
	return removed
}

// Move transfers every counter of type ct from one object to another, as
// when a Modular creature dies.
func (co *CounterOperations) Move(from *Counters, fromID string, to *Counters, toID, controllerID string, ct CounterType) int {
	n := co.Remove(from, fromID, controllerID, ct, from.Count(ct))
	co.Add(to, toID, controllerID, ct, n)
	return n
}

// AddAll adds several counter types at once and emits COUNTERS_ADDED
// followed by one COUNTER_ADDED per type, in type order.
func (co *CounterOperations) AddAll(target *Counters, objectID, controllerID string, amounts map[CounterType]int) {
	if target == nil || len(amounts) == 0 {
		return
	}
	batch := NewCounters()
	for ct, n := range amounts {
		batch.Add(ct, n)
	}

	timestamp := co.now()
	co.publish(rules.Event{
		Type:        rules.EventCountersAdded,
		ID:          fmt.Sprintf("event-counters-added-%s-%d", objectID, timestamp.UnixNano()),
		TargetID:    objectID,
		SourceID:    objectID,
		Controller:  controllerID,
		PlayerID:    controllerID,
		Amount:      batch.Total(),
		Timestamp:   timestamp,
		Metadata:    map[string]string{"counter_types": fmt.Sprintf("%d", len(batch.Types()))},
		Description: fmt.Sprintf("Added %d counter(s) to %s", batch.Total(), objectID),
	})

	for _, ct := range batch.Types() {
		co.Add(target, objectID, controllerID, ct, batch.Count(ct))
	}
}

func (co *CounterOperations) publish(evt rules.Event) {
	if co.eventBus != nil {
		co.eventBus.Publish(evt)
	}
}
