package cardb

import (
	"errors"
	"fmt"
)

// ErrUnknownCard is matched by every UnknownCardError.
var ErrUnknownCard = errors.New("unknown card")

// UnknownCardError reports a lookup of a name that is not in the store.
type UnknownCardError struct {
	Name string
}

func (e *UnknownCardError) Error() string {
	return fmt.Sprintf("unknown card %q", e.Name)
}

// Is makes errors.Is(err, ErrUnknownCard) true.
func (e *UnknownCardError) Is(target error) bool {
	return target == ErrUnknownCard
}

// LoadError reports a malformed row in a card source. Any LoadError aborts
// the whole load.
type LoadError struct {
	Source string
	Row    int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("load %s row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
