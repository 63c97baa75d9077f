package rules

import (
	"testing"
	"time"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	castCount := 0
	lifeGainCount := 0

	handle1 := bus.SubscribeTyped(EventSpellCast, func(e Event) {
		castCount++
	})
	handle2 := bus.SubscribeTyped(EventGainedLife, func(e Event) {
		lifeGainCount++
	})

	bus.Publish(NewEvent(EventSpellCast, "12", "12", "human"))
	if castCount != 1 {
		t.Fatalf("expected spell cast count 1, got %d", castCount)
	}
	if lifeGainCount != 0 {
		t.Fatalf("expected life gain count 0, got %d", lifeGainCount)
	}

	bus.Publish(NewEventWithAmount(EventGainedLife, "human", "12", "human", 5))
	if lifeGainCount != 1 {
		t.Fatalf("expected life gain count 1, got %d", lifeGainCount)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventSpellCast, "13", "13", "human"))
	if castCount != 1 {
		t.Fatalf("expected spell cast count still 1 after unsubscribe, got %d", castCount)
	}

	bus.Unsubscribe(handle2)
	bus.Publish(NewEventWithAmount(EventGainedLife, "human", "13", "human", 2))
	if lifeGainCount != 1 {
		t.Fatalf("expected life gain count still 1 after unsubscribe, got %d", lifeGainCount)
	}
}

func TestEventBusSubscribeAllInOrder(t *testing.T) {
	bus := NewEventBus()

	var order []string
	handle := bus.Subscribe(func(e Event) { order = append(order, "first:"+string(e.Type)) })
	bus.Subscribe(func(e Event) { order = append(order, "second:"+string(e.Type)) })

	bus.PublishBatch([]Event{
		NewEvent(EventSpellCast, "1", "1", "human"),
		NewZoneChangeEvent("2", "human", "Hand", "Battlefield"),
	})

	want := []string{"first:SPELL_CAST", "second:SPELL_CAST", "first:ZONE_CHANGE", "second:ZONE_CHANGE"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("delivery %d: expected %s, got %s", i, want[i], order[i])
		}
	}

	bus.Unsubscribe(handle)
	order = nil
	bus.Publish(NewEvent(EventTapped, "1", "1", "human"))
	if len(order) != 1 || order[0] != "second:TAPPED" {
		t.Fatalf("expected only the second listener after unsubscribe, got %v", order)
	}
}

func TestEventBusPublishFromListener(t *testing.T) {
	bus := NewEventBus()

	destroyed := 0
	bus.SubscribeTyped(EventDestroyedPermanent, func(e Event) { destroyed++ })
	bus.SubscribeTyped(EventSacrificedPermanent, func(e Event) {
		bus.Publish(NewEvent(EventDestroyedPermanent, e.TargetID, e.SourceID, e.Controller))
	})

	bus.Publish(NewEvent(EventSacrificedPermanent, "5", "5", "computer"))
	if destroyed != 1 {
		t.Fatalf("expected nested publish to be delivered, got %d", destroyed)
	}
}

func TestNewZoneChangeEvent(t *testing.T) {
	evt := NewZoneChangeEvent("7", "human", "Hand", "Battlefield")
	if evt.Type != EventZoneChange {
		t.Fatalf("expected zone change, got %s", evt.Type)
	}
	if evt.FromZone != "Hand" || evt.Zone != "Battlefield" {
		t.Fatalf("unexpected zones %s -> %s", evt.FromZone, evt.Zone)
	}
	if EventZoneChange.IsBatch() || !EventCountersAdded.IsBatch() {
		t.Fatal("unexpected batch classification")
	}
}

func TestEventTimestamp(t *testing.T) {
	before := time.Now()
	evt := NewEvent(EventSpellCast, "1", "1", "human")
	after := time.Now()

	if evt.Timestamp.Before(before) || evt.Timestamp.After(after) {
		t.Fatal("event timestamp should be between before and after")
	}

	var got time.Time
	bus := NewEventBus()
	bus.Subscribe(func(e Event) { got = e.Timestamp })
	bus.Publish(Event{Type: EventTapped})
	if got.IsZero() {
		t.Fatal("expected publish to stamp a zero timestamp")
	}
}
