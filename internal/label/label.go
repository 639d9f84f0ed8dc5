// Package label implements the transducer label algebra of spec §4.2: a
// tagged variant Identity(P) | Pair(Pin, Pout), either predicate of which may
// be the nullable marker ε (an explicit variant, never encoded as an
// unsatisfiable predicate — see spec §9 on nullable-predicate ε-encoding).
package label

import (
	"fmt"

	"github.com/matejchalk/armc/internal/predicate"
)

// Tag distinguishes the two label shapes.
type Tag int

const (
	// Identity denotes {(a,a) : a ∈ ⟦In⟧}.
	Identity Tag = iota
	// Pair denotes ⟦In⟧ × ⟦Out⟧.
	Pair
)

// Label is an immutable transducer edge label. A nil In or Out predicate
// pointer represents ε on that side.
type Label[S comparable] struct {
	tag Tag
	in  *predicate.Predicate[S]
	out *predicate.Predicate[S]
}

// NewIdentity builds IDENTITY(p).
func NewIdentity[S comparable](p predicate.Predicate[S]) Label[S] {
	return Label[S]{tag: Identity, in: &p}
}

// NewPair builds PAIR(in, out). Either argument may be nil to denote ε on
// that side of the edge.
func NewPair[S comparable](in, out *predicate.Predicate[S]) Label[S] {
	return Label[S]{tag: Pair, in: in, out: out}
}

// Tag returns whether the label is Identity or Pair.
func (l Label[S]) Tag() Tag { return l.tag }

// In returns the label's input predicate, or nil if the input side is ε.
func (l Label[S]) In() *predicate.Predicate[S] { return l.in }

// Out returns the label's output predicate. For Identity labels this is the
// same predicate as In (identity emits what it reads). Returns nil if the
// output side is ε.
func (l Label[S]) Out() *predicate.Predicate[S] {
	if l.tag == Identity {
		return l.in
	}
	return l.out
}

// EpsilonIn reports whether the label has no input (an ε-input transducer
// edge, e.g. a pure insertion).
func (l Label[S]) EpsilonIn() bool { return l.in == nil }

// EpsilonOut reports whether the label has no output (an ε-output edge, a
// pure deletion). Identity labels never have ε output since In == Out.
func (l Label[S]) EpsilonOut() bool { return l.Out() == nil }

// Algebra is the label algebra over a fixed predicate.Algebra.
type Algebra[S comparable] struct {
	preds *predicate.Algebra[S]
}

// NewAlgebra builds a label Algebra backed by the given predicate algebra.
func NewAlgebra[S comparable](preds *predicate.Algebra[S]) *Algebra[S] {
	return &Algebra[S]{preds: preds}
}

// Preds returns the predicate algebra backing this label algebra, for
// callers (e.g. internal/sft) that need to build predicates or SFAs sharing
// the same alphabet.
func (a *Algebra[S]) Preds() *predicate.Algebra[S] {
	return a.preds
}

// Satisfiable reports whether a label's input side (if present) denotes a
// non-empty set; ε-input labels are trivially satisfiable.
func (a *Algebra[S]) Satisfiable(l Label[S]) bool {
	if l.in == nil {
		return true
	}
	return a.preds.Satisfiable(*l.in)
}

// Combine implements spec §4.2's series composition `Combine(L1, L2)`.
// out(L) is L's output predicate (Pout for Pair, Pin for Identity); if
// out(L1) ∧ L2.in is unsatisfiable the composite is FALSE — represented here
// as a Pair whose input predicate is the algebra's False (callers check
// Combine's ok return before using the label).
func (a *Algebra[S]) Combine(l1, l2 Label[S]) (Label[S], bool) {
	out1 := l1.Out()
	in2 := l2.In()

	if out1 == nil || in2 == nil {
		// ε on either side of the seam: propagate ε rather than compute a
		// conjunction that has no predicate to conjoin.
		if l1.tag == Identity && l2.tag == Identity {
			return NewIdentity(a.preds.True()), true
		}
		return NewPair(l1.In(), l2.Out()), true
	}

	conj := a.preds.And(*out1, *in2)
	if !a.preds.Satisfiable(conj) {
		f := a.preds.False()
		return NewPair(&f, nil), false
	}

	if l1.tag == Identity || l2.tag == Identity {
		return NewIdentity(conj), true
	}
	return NewPair(l1.In(), l2.Out()), true
}

// And returns the component-wise conjunction of two labels. If either
// operand is Identity, only input predicates are conjoined and the result is
// Identity over that conjunction (matching Combine's identity-propagation
// rule); otherwise inputs and outputs are conjoined pairwise.
func (a *Algebra[S]) And(l1, l2 Label[S]) Label[S] {
	in := a.conjoin(l1.In(), l2.In())
	if l1.tag == Identity || l2.tag == Identity {
		return NewIdentity(*in)
	}
	out := a.conjoin(l1.Out(), l2.Out())
	return NewPair(in, out)
}

// Or returns the component-wise disjunction of two labels, following the
// same identity-propagation shape as And.
func (a *Algebra[S]) Or(l1, l2 Label[S]) Label[S] {
	in := a.disjoin(l1.In(), l2.In())
	if l1.tag == Identity || l2.tag == Identity {
		return NewIdentity(*in)
	}
	out := a.disjoin(l1.Out(), l2.Out())
	return NewPair(in, out)
}

func (a *Algebra[S]) conjoin(p, q *predicate.Predicate[S]) *predicate.Predicate[S] {
	if p == nil || q == nil {
		return nil
	}
	r := a.preds.And(*p, *q)
	return &r
}

func (a *Algebra[S]) disjoin(p, q *predicate.Predicate[S]) *predicate.Predicate[S] {
	if p == nil {
		return q
	}
	if q == nil {
		return p
	}
	r := a.preds.Or(*p, *q)
	return &r
}

// String renders the label Timbuk-style: X/Y for a pair, @P/@P for identity,
// ε for an absent side.
func (l Label[S]) String() string {
	sideStr := func(p *predicate.Predicate[S]) string {
		if p == nil {
			return "ε"
		}
		return p.String()
	}
	if l.tag == Identity {
		s := sideStr(l.in)
		return fmt.Sprintf("@%s/@%s", s, s)
	}
	return fmt.Sprintf("%s/%s", sideStr(l.in), sideStr(l.out))
}
