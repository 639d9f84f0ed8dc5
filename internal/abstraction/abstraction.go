// Package abstraction implements the state-collapsing abstraction interface
// of spec §4.5 and its two concrete strategies: predicate-language
// abstraction (§4.5.1) and finite-length-language abstraction (§4.5.2). Both
// strategies drive internal/sfa.Collapse with an internal/sfa.Equivalence
// built from their own notion of "same behaviour".
package abstraction

import (
	"github.com/matejchalk/armc/internal/sfa"
)

// Direction selects whether a strategy compares states by what they can
// still produce going forward (their suffix/forward language) or by what
// reached them going backward (their prefix/backward language).
type Direction int

const (
	// Forward compares states by forward (suffix-ward) behaviour.
	Forward Direction = iota
	// Backward compares states by backward (prefix-ward) behaviour.
	Backward
)

// Strategy is the abstraction interface of spec §4.5: three operations any
// collapsing strategy must provide.
type Strategy[S comparable] interface {
	// Collapse returns M^α with L(M) ⊆ L(M^α).
	Collapse(m *sfa.SFA[S]) (*sfa.SFA[S], error)
	// StatesAreEquivalent is the equivalence Collapse quotients by.
	StatesAreEquivalent(m *sfa.SFA[S], q, qPrime int) bool
	// Refine strengthens the abstraction so that, after it returns,
	// X ⊄ Collapse(M) — monotonically: previously-distinguished pairs of
	// states stay distinguished.
	Refine(m, x *sfa.SFA[S]) error
}
