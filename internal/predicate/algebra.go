package predicate

import (
	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/util"
)

// Algebra is the boolean algebra of predicates over a fixed alphabet. All
// predicates produced by an Algebra's methods are owned by that instance;
// combining predicates from algebras over different alphabets is a
// programming error the caller must guard against (SFA/SFT operations
// surface it as an incompatible-alphabets error, see internal/armcerr).
type Algebra[S comparable] struct {
	sigma *alphabet.Alphabet[S]
}

// NewAlgebra constructs an Algebra directly. Most callers should instead go
// through a Registry so that automata sharing Σ share one Algebra instance
// (spec §3).
func NewAlgebra[S comparable](sigma *alphabet.Alphabet[S]) *Algebra[S] {
	return &Algebra[S]{sigma: sigma}
}

// Sigma returns the algebra's alphabet.
func (a *Algebra[S]) Sigma() *alphabet.Alphabet[S] {
	return a.sigma
}

// True is (NOT_IN, ∅): the predicate satisfied by every symbol of Σ.
func (a *Algebra[S]) True() Predicate[S] {
	return notInPred(util.NewKeySet[S]())
}

// False is (IN, ∅): the predicate satisfied by no symbol.
func (a *Algebra[S]) False() Predicate[S] {
	return inPred(util.NewKeySet[S]())
}

// In builds the (IN, S) predicate for the given symbols, intersected with Σ.
func (a *Algebra[S]) In(symbols ...S) Predicate[S] {
	s := util.KeySetOf(symbols).Intersection(a.sigma.Set()).(util.KeySet[S])
	return inPred(s)
}

// NotIn builds the (NOT_IN, S) predicate for the given symbols, intersected
// with Σ.
func (a *Algebra[S]) NotIn(symbols ...S) Predicate[S] {
	s := util.KeySetOf(symbols).Intersection(a.sigma.Set()).(util.KeySet[S])
	return notInPred(s)
}

// Not negates a predicate: the set is unchanged, only the tag flips.
func (a *Algebra[S]) Not(p Predicate[S]) Predicate[S] {
	if p.kind == In {
		return notInPred(p.set)
	}
	return inPred(p.set)
}

// And returns the conjunction of p and q, per the table in spec §4.1.
func (a *Algebra[S]) And(p, q Predicate[S]) Predicate[S] {
	switch {
	case p.kind == In && q.kind == In:
		return inPred(p.set.Intersection(q.set).(util.KeySet[S]))
	case p.kind == In && q.kind == NotIn:
		return inPred(p.set.Difference(q.set).(util.KeySet[S]))
	case p.kind == NotIn && q.kind == In:
		return inPred(q.set.Difference(p.set).(util.KeySet[S]))
	default: // NotIn, NotIn
		return notInPred(p.set.Union(q.set).(util.KeySet[S]))
	}
}

// Or returns the disjunction of p and q; derived from And/Not via De Morgan.
func (a *Algebra[S]) Or(p, q Predicate[S]) Predicate[S] {
	return a.Not(a.And(a.Not(p), a.Not(q)))
}

// Sub returns p ∖ q, i.e. p ∧ ¬q.
func (a *Algebra[S]) Sub(p, q Predicate[S]) Predicate[S] {
	return a.And(p, a.Not(q))
}

// Xor returns the symmetric difference p △ q.
func (a *Algebra[S]) Xor(p, q Predicate[S]) Predicate[S] {
	return a.Or(a.Sub(p, q), a.Sub(q, p))
}

// InclusiveSet materialises ⟦p⟧ ∩ Σ as a finite set.
func (a *Algebra[S]) InclusiveSet(p Predicate[S]) util.KeySet[S] {
	if p.kind == In {
		return p.set.Intersection(a.sigma.Set()).(util.KeySet[S])
	}
	return a.sigma.Set().Difference(p.set).(util.KeySet[S])
}

// Satisfiable reports whether ⟦p⟧ ∩ Σ ≠ ∅.
func (a *Algebra[S]) Satisfiable(p Predicate[S]) bool {
	return !a.InclusiveSet(p).Empty()
}

// Equivalent reports whether p and q denote the same subset of Σ, even if
// their (kind, S) representations differ (§3: predicates are non-extensional
// — all comparisons must go through this, never struct equality).
func (a *Algebra[S]) Equivalent(p, q Predicate[S]) bool {
	return a.InclusiveSet(p).Equal(a.InclusiveSet(q))
}

// Implies reports whether ⟦p⟧ ∩ Σ ⊆ ⟦q⟧ ∩ Σ.
func (a *Algebra[S]) Implies(p, q Predicate[S]) bool {
	ps := a.InclusiveSet(p)
	qs := a.InclusiveSet(q)
	for _, e := range ps.Elements() {
		if !qs.Has(e) {
			return false
		}
	}
	return true
}

// Simplify chooses the (kind, S) representation with the smaller literal
// set, to keep predicates compact even when Σ is large. The alternate
// representation of (kind, S) is (¬kind, Σ∖S); unlike Not, which only flips
// the tag and keeps the same literal set, Simplify complements it against Σ
// to get the other denotation-preserving encoding.
func (a *Algebra[S]) Simplify(p Predicate[S]) Predicate[S] {
	altSet := a.sigma.Set().Difference(p.set).(util.KeySet[S])
	if altSet.Len() >= p.set.Len() {
		return p
	}
	if p.kind == In {
		return notInPred(altSet)
	}
	return inPred(altSet)
}

// Minterms enumerates every non-empty intersection of each of ps or its
// complement: the partition of Σ used by determinisation and minimisation.
func (a *Algebra[S]) Minterms(ps ...Predicate[S]) []Predicate[S] {
	if len(ps) == 0 {
		if a.Satisfiable(a.True()) {
			return []Predicate[S]{a.True()}
		}
		return nil
	}

	var minterms []Predicate[S]
	n := len(ps)
	for mask := 0; mask < (1 << n); mask++ {
		cur := a.True()
		for i := 0; i < n; i++ {
			term := ps[i]
			if mask&(1<<i) == 0 {
				term = a.Not(term)
			}
			cur = a.And(cur, term)
		}
		if a.Satisfiable(cur) {
			minterms = append(minterms, a.Simplify(cur))
		}
	}
	return minterms
}
