package resolve

import "errors"

// Caller-misuse errors: conditions the resolver detects defensively
// rather than producing a bogus result or panicking.
var (
	// ErrEmptyFringeSet is returned by LowestFringe when called with no
	// fringes to compare.
	ErrEmptyFringeSet = errors.New("resolve: lowest fringe requested over an empty fringe set")

	// ErrCyclicDependency is returned by WithDependencies when the
	// supplied dependency map contains a cycle. The algorithm assumes
	// acyclic dependencies; this is the guard against a caller violating
	// that assumption.
	ErrCyclicDependency = errors.New("resolve: dependency relation contains a cycle")
)
