package keyword

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformed is matched by every ParseError.
var ErrMalformed = errors.New("malformed keyword")

// ParseError reports a recognised keyword whose parameters are invalid.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("keyword %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformed) true.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// Directive is one decoded keyword.
type Directive struct {
	Kind Kind
	// Raw is the keyword exactly as it appeared on the card.
	Raw string
	// Index is the position of Raw in the parsed keyword list.
	Index int
	// Params are the positional parameters, already validated.
	Params []string
}

// Param returns the i-th parameter or "".
func (d Directive) Param(i int) string {
	if i < 0 || i >= len(d.Params) {
		return ""
	}
	return d.Params[i]
}

// Int returns the i-th parameter as an int. Counts are checked at parse
// time; Int fails only for symbolic values such as INF or X.
func (d Directive) Int(i int) (int, error) {
	return strconv.Atoi(d.Param(i))
}
