package generator

import "errors"

var (
	// ErrConfiguration reports invalid counts, empty catalogs or a project
	// pool too small for the requested fan-out under the strict policy.
	ErrConfiguration = errors.New("configuration error")

	// ErrReferentialViolation reports a record that references an id no
	// earlier stage produced. It signals a generator bug, not bad input.
	ErrReferentialViolation = errors.New("referential violation")

	// ErrSinkFailure wraps any error returned by the storage sink.
	ErrSinkFailure = errors.New("sink failure")
)
