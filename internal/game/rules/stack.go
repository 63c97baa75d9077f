package rules

import (
	"errors"
	"slices"
)

// ErrStackEmpty is returned when resolving an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// StackItemKind says what put an item on the stack.
type StackItemKind string

const (
	StackItemKindSpell     StackItemKind = "SPELL"
	StackItemKindActivated StackItemKind = "ACTIVATED"
	StackItemKindTriggered StackItemKind = "TRIGGERED"
)

// StackItem is a spell or ability waiting to resolve. SourceID names the
// card it came from.
type StackItem struct {
	ID          string
	Controller  string
	Description string
	Kind        StackItemKind
	SourceID    string
	Metadata    map[string]string
	Resolve     func() error
}

// Stack holds the items waiting to resolve, topmost last. It belongs to a
// single game and is not safe for concurrent use.
type Stack struct {
	items []StackItem
}

func NewStack() *Stack {
	return &Stack{}
}

// Push puts items on the stack in order; the last one ends up on top.
func (st *Stack) Push(items ...StackItem) {
	st.items = append(st.items, items...)
}

// ResolveTop takes the top item off the stack and then resolves it, so
// anything pushed while resolving lands above the items below it.
func (st *Stack) ResolveTop() (StackItem, error) {
	n := len(st.items)
	if n == 0 {
		return StackItem{}, ErrStackEmpty
	}
	item := st.items[n-1]
	st.items = st.items[:n-1]
	if item.Resolve == nil {
		return item, nil
	}
	return item, item.Resolve()
}

// Items returns the stack bottom first.
func (st *Stack) Items() []StackItem {
	return slices.Clone(st.items)
}
