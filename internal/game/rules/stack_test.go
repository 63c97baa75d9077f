package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackResolvesTopFirst(t *testing.T) {
	st := NewStack()
	var order []string
	item := func(id string) StackItem {
		return StackItem{ID: id, Resolve: func() error {
			order = append(order, id)
			return nil
		}}
	}
	st.Push(item("bolt"))
	st.Push(item("soulshift"), item("vanishing"))
	require.Len(t, st.Items(), 3)
	assert.Equal(t, "bolt", st.Items()[0].ID)

	for range 3 {
		_, err := st.ResolveTop()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"vanishing", "soulshift", "bolt"}, order)

	_, err := st.ResolveTop()
	assert.ErrorIs(t, err, ErrStackEmpty)
}

func TestStackPushWhileResolving(t *testing.T) {
	st := NewStack()
	var order []string
	st.Push(StackItem{ID: "below", Resolve: func() error {
		order = append(order, "below")
		return nil
	}})
	st.Push(StackItem{ID: "top", Resolve: func() error {
		order = append(order, "top")
		st.Push(StackItem{ID: "trigger", Resolve: func() error {
			order = append(order, "trigger")
			return nil
		}})
		return nil
	}})

	for len(st.Items()) > 0 {
		_, err := st.ResolveTop()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"top", "trigger", "below"}, order)
}

func TestStackItemWithoutResolve(t *testing.T) {
	st := NewStack()
	st.Push(StackItem{ID: "marker", Kind: StackItemKindTriggered})
	item, err := st.ResolveTop()
	require.NoError(t, err)
	assert.Equal(t, "marker", item.ID)
	assert.Empty(t, st.Items())
}
