package cosmos

import "errors"

// Domain errors for body construction.
var (
	// ErrNonPositiveMass indicates a zero, negative or undefined mass.
	ErrNonPositiveMass = errors.New("cosmos: mass must be strictly positive")

	// ErrInvalidState indicates NaN or Inf in position or velocity.
	ErrInvalidState = errors.New("cosmos: invalid kinematic state (NaN or Inf detected)")

	// ErrInvalidRadius indicates a negative display radius.
	ErrInvalidRadius = errors.New("cosmos: display radius must not be negative")

	// ErrUnknownKind indicates a kind token other than star, planet or satellite.
	ErrUnknownKind = errors.New("cosmos: unknown space object kind")

	// ErrInvalidTag indicates a malformed system or constellation tag.
	ErrInvalidTag = errors.New("cosmos: invalid grouping tag")
)
