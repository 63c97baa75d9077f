package rules

import (
	"testing"
)

func TestTriggerManagerHandle(t *testing.T) {
	manager := NewTriggerManager()

	callCount := 0
	manager.Register(AbilityTrigger{
		SourceID:   "42",
		Controller: "human",
		EventType:  EventSpellCast,
		Condition: func(e Event) bool {
			return e.Metadata["card_name"] == "Lightning Bolt"
		},
		Build: func(e Event) StackItem {
			callCount++
			return StackItem{Description: "Deal 3 damage"}
		},
	})

	evt := NewEvent(EventSpellCast, "9", "9", "computer")
	evt.Metadata["card_name"] = "Lightning Bolt"
	items := manager.Handle(evt)

	if len(items) != 1 {
		t.Fatalf("expected 1 stack item, got %d", len(items))
	}
	if items[0].Controller != "human" || items[0].SourceID != "42" {
		t.Fatalf("expected trigger controller and source to be filled in, got %+v", items[0])
	}
	if items[0].Kind != StackItemKindTriggered || items[0].ID == "" {
		t.Fatalf("expected triggered kind and generated id, got %+v", items[0])
	}
	if callCount != 1 {
		t.Fatalf("expected build to be called once, got %d", callCount)
	}

	evt.Metadata["card_name"] = "Shock"
	if items := manager.Handle(evt); len(items) != 0 {
		t.Fatalf("expected condition to filter event, got %d items", len(items))
	}
}

func TestTriggerManagerOrderOnceAndSource(t *testing.T) {
	manager := NewTriggerManager()

	for _, desc := range []string{"a", "b", "c"} {
		manager.Register(AbilityTrigger{
			SourceID:  "1",
			EventType: EventUpkeepStep,
			Once:      desc == "b",
			Build:     func(Event) StackItem { return StackItem{Description: desc} },
		})
	}
	manager.Register(AbilityTrigger{
		SourceID:  "2",
		EventType: EventUpkeepStep,
		Build:     func(Event) StackItem { return StackItem{Description: "d"} },
	})

	items := manager.Handle(NewEvent(EventUpkeepStep, "", "", "human"))
	got := ""
	for _, item := range items {
		got += item.Description
	}
	if got != "abcd" {
		t.Fatalf("expected registration order abcd, got %s", got)
	}

	if n := manager.CountForSource("1"); n != 2 {
		t.Fatalf("expected once trigger to be removed, %d left", n)
	}
	if n := manager.UnregisterSource("1"); n != 2 {
		t.Fatalf("expected 2 triggers removed, got %d", n)
	}
	items = manager.Handle(NewEvent(EventUpkeepStep, "", "", "human"))
	if len(items) != 1 || items[0].Description != "d" {
		t.Fatalf("expected only source 2 trigger, got %+v", items)
	}
}
