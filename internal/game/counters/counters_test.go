package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-cardfactory/internal/game/rules"
)

func TestParseType(t *testing.T) {
	tests := map[string]CounterType{
		"P1P1":  P1P1,
		"+1/+1": P1P1,
		"-1/-1": M1M1,
		"-1/-0": M1M0,
		"+0/+1": P0P1,
		"time":  Time,
		"FADE":  Fade,
	}
	for input, want := range tests {
		got, err := ParseType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseType("BANANA")
	assert.Error(t, err)
}

func TestCounterTypeDisplay(t *testing.T) {
	assert.Equal(t, "+1/+1", P1P1.DisplayName())
	assert.Equal(t, "-1/-0", M1M0.DisplayName())
	assert.Equal(t, "time", Time.DisplayName())

	p, tough, ok := M2M2.Boost()
	require.True(t, ok)
	assert.Equal(t, -2, p)
	assert.Equal(t, -2, tough)

	_, _, ok = Charge.Boost()
	assert.False(t, ok)
}

func TestCounters_AddRemove(t *testing.T) {
	cs := NewCounters()
	cs.Add(P1P1, 2)
	cs.Add(P1P1, 1)
	cs.Add(Time, 3)
	cs.Add(Charge, 0)

	assert.Equal(t, 3, cs.Count(P1P1))
	assert.Equal(t, 6, cs.Total())
	assert.Equal(t, []CounterType{P1P1, Time}, cs.Types())

	assert.Equal(t, 2, cs.Remove(Time, 2))
	assert.Equal(t, 1, cs.Remove(Time, 5))
	assert.False(t, cs.Has(Time))
	assert.Equal(t, 0, cs.Remove(Time, 1))

	cs.Add(M1M1, 1)
	p, tough := cs.Boost()
	assert.Equal(t, 2, p)
	assert.Equal(t, 2, tough)

	assert.Equal(t, []CounterView{{Name: "+1/+1", Count: 3}, {Name: "-1/-1", Count: 1}}, cs.ToView())
}

func TestCounters_CopyIsIndependent(t *testing.T) {
	cs := NewCounters()
	cs.Add(Charge, 2)

	cpy := cs.Copy()
	cpy.Add(Charge, 5)
	cs.RemoveAll(Charge)

	assert.Equal(t, 0, cs.Count(Charge))
	assert.Equal(t, 7, cpy.Count(Charge))
}

func TestCounterOperations_PublishesEvents(t *testing.T) {
	bus := rules.NewEventBus()
	var events []rules.Event
	bus.Subscribe(func(e rules.Event) { events = append(events, e) })

	ops := NewCounterOperations(bus)
	from := NewCounters()
	to := NewCounters()

	ops.Add(from, "10", "human", P1P1, 2)
	moved := ops.Move(from, "10", to, "11", "human", P1P1)

	assert.Equal(t, 2, moved)
	assert.Equal(t, 0, from.Count(P1P1))
	assert.Equal(t, 2, to.Count(P1P1))

	require.Len(t, events, 3)
	assert.Equal(t, rules.EventCounterAdded, events[0].Type)
	assert.Equal(t, rules.EventCounterRemoved, events[1].Type)
	assert.Equal(t, "10", events[1].TargetID)
	assert.Equal(t, rules.EventCounterAdded, events[2].Type)
	assert.Equal(t, "11", events[2].TargetID)
	assert.Equal(t, "P1P1", events[2].Data)

	events = nil
	assert.Equal(t, 0, ops.Remove(from, "10", "human", Time, 1))
	assert.Empty(t, events, "removing absent counters publishes nothing")

	ops.AddAll(to, "11", "human", map[CounterType]int{Time: 1, Fade: 2})
	require.Len(t, events, 3)
	assert.Equal(t, rules.EventCountersAdded, events[0].Type)
	assert.Equal(t, 3, events[0].Amount)
	assert.Equal(t, "FADE", events[1].Data)
	assert.Equal(t, "TIME", events[2].Data)
}
