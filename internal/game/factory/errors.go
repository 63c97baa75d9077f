package factory

import "errors"

var (
	// ErrInvalidArgument is returned for a bad combinatorial query, such as
	// asking for more distinct cards than the pool can supply.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAmbiguousAbilityMatch is returned when a spell copy cannot find the
	// ability the original card was played with.
	ErrAmbiguousAbilityMatch = errors.New("no matching ability to copy")
)
