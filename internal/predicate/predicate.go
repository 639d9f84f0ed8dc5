// Package predicate implements the predicate algebra of spec §4.1: a tagged
// value (kind, S) denoting either S itself (IN) or its complement relative
// to an owning alphabet (NOT_IN). Predicates are immutable; every operation
// returns a fresh value.
package predicate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matejchalk/armc/internal/util"
)

// Kind tags which side of the complement a Predicate's set describes.
type Kind int

const (
	// In denotes exactly the symbols in the predicate's set.
	In Kind = iota
	// NotIn denotes Σ minus the symbols in the predicate's set.
	NotIn
)

func (k Kind) String() string {
	if k == In {
		return "IN"
	}
	return "NOT_IN"
}

// Predicate is an immutable (kind, S) pair over some alphabet Σ.
type Predicate[S comparable] struct {
	kind Kind
	set  util.KeySet[S]
}

// Kind returns the predicate's tag.
func (p Predicate[S]) Kind() Kind { return p.kind }

// RawSet returns the predicate's literal S, i.e. ⟦p⟧ if Kind is In, or the
// complement's excluded set if Kind is NotIn. Callers wanting the full
// denotation restricted to Σ should use Algebra.InclusiveSet.
func (p Predicate[S]) RawSet() util.KeySet[S] {
	return p.set.Copy().(util.KeySet[S])
}

func inPred[S comparable](set util.KeySet[S]) Predicate[S] {
	return Predicate[S]{kind: In, set: set}
}

func notInPred[S comparable](set util.KeySet[S]) Predicate[S] {
	return Predicate[S]{kind: NotIn, set: set}
}

// String renders the predicate in Timbuk-ish notation, e.g. in{a,b} or
// not_in{a}.
func (p Predicate[S]) String() string {
	elems := make([]string, 0, p.set.Len())
	for _, e := range p.set.Elements() {
		elems = append(elems, fmt.Sprintf("%v", e))
	}
	sort.Strings(elems)
	tag := "in"
	if p.kind == NotIn {
		tag = "not_in"
	}
	return fmt.Sprintf("%s{%s}", tag, strings.Join(elems, ","))
}
