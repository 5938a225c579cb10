package op

import "errors"

var (
	// ErrKindNotFound reports a lookup for an operator kind that was never
	// registered.
	ErrKindNotFound = errors.New("op: kind not found")

	// ErrNotDifferentiable reports a gradient derivation request for a kind
	// with no registered gradient constructor.
	ErrNotDifferentiable = errors.New("op: kind has no gradient")

	// ErrValidation reports a schema or attribute constraint violation:
	// duplicate declared names, a missing required attribute, a type
	// mismatch, or a failed value predicate.
	ErrValidation = errors.New("op: validation failed")
)
