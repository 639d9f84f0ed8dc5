package sfa

import (
	"sort"

	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/util"
)

// Emptiness reports whether L(M) = ∅, i.e. no final state is reachable from
// the initial state. Builder.Build already trims states that cannot reach a
// final state, so an automaton is empty iff it has no final states at all.
func Emptiness[S comparable](m *SFA[S]) bool {
	return len(m.Finals()) == 0
}

// ProductIsEmpty reports whether L(M1) ∩ L(M2) = ∅; the hot check of the
// CEGAR driver's inner loop (spec §4.3).
func ProductIsEmpty[S comparable](m1, m2 *SFA[S]) (bool, error) {
	p, err := Product(m1, m2)
	if err != nil {
		return false, err
	}
	return Emptiness(p), nil
}

// Witness is a word distinguishing two automata: a sequence of predicates
// read along an accepting path of their symmetric difference.
type Witness[S comparable] []predicate.Predicate[S]

// Equivalent reports whether L(M1) = L(M2). If not, it also returns a
// witness word in the symmetric difference.
func Equivalent[S comparable](m1, m2 *SFA[S]) (bool, Witness[S], error) {
	d1, err := Difference(m1, m2)
	if err != nil {
		return false, nil, err
	}
	d2, err := Difference(m2, m1)
	if err != nil {
		return false, nil, err
	}
	sym, err := Union(d1, d2)
	if err != nil {
		return false, nil, err
	}
	if Emptiness(sym) {
		return true, nil, nil
	}
	return false, shortestWitness(sym), nil
}

// shortestWitness does a breadth-first search from the initial state to any
// final state, recording the predicate read on each edge (ε-moves
// contribute no symbol). Explicit queue, not recursion (spec §9).
func shortestWitness[S comparable](m *SFA[S]) Witness[S] {
	type frame struct {
		state int
		path  Witness[S]
	}
	visited := util.NewKeySet[int]()
	queue := []frame{{state: m.initial, path: nil}}
	visited.Add(m.initial)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if m.IsFinal(cur.state) {
			return cur.path
		}
		moves := append([]Move[S]{}, m.Moves(cur.state)...)
		sort.Slice(moves, func(i, j int) bool { return moves[i].Target < moves[j].Target })
		for _, mv := range moves {
			if visited.Has(mv.Target) {
				continue
			}
			visited.Add(mv.Target)
			path := append(Witness[S]{}, cur.path...)
			if !mv.IsEpsilon() {
				path = append(path, *mv.Pred)
			}
			queue = append(queue, frame{state: mv.Target, path: path})
		}
	}
	return nil
}

// Reverse returns M^R: every edge direction flips, the old finals become the
// (possibly several, joined by ε from a fresh start) initial states, and the
// old initial becomes the sole final state.
func Reverse[S comparable](m *SFA[S]) (*SFA[S], error) {
	b := NewBuilder[S](m.alg)
	for _, q := range m.States() {
		b.AddState(q, q == m.initial)
	}
	for _, q := range m.States() {
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(mv.Target, q)
			} else {
				b.AddMove(mv.Target, *mv.Pred, q)
			}
		}
	}
	newStart := maxState(m.States()) + 1
	b.AddState(newStart, false)
	for _, f := range m.Finals() {
		b.AddEpsilon(newStart, f)
	}
	b.SetInitial(newStart)
	return b.Build()
}

// PrefixLanguage returns the automaton accepting every prefix of every word
// in L(M): every state reachable from the initial state becomes final.
func PrefixLanguage[S comparable](m *SFA[S]) (*SFA[S], error) {
	b := NewBuilder[S](m.alg)
	b.SetInitial(m.initial)
	for _, q := range m.States() {
		b.AddState(q, true)
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
			} else {
				b.AddMove(q, *mv.Pred, mv.Target)
			}
		}
	}
	return b.Build()
}

// SuffixLanguage returns the automaton accepting every suffix of every word
// in L(M): a fresh initial state reaches every original state by ε, finals
// are unchanged.
func SuffixLanguage[S comparable](m *SFA[S]) (*SFA[S], error) {
	b := NewBuilder[S](m.alg)
	for _, q := range m.States() {
		b.AddState(q, m.IsFinal(q))
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
			} else {
				b.AddMove(q, *mv.Pred, mv.Target)
			}
		}
	}
	newStart := maxState(m.States()) + 1
	b.AddState(newStart, m.IsFinal(m.initial))
	for _, q := range m.States() {
		b.AddEpsilon(newStart, q)
	}
	b.SetInitial(newStart)
	return b.Build()
}

// BoundedLanguage returns M restricted to words of length ≤ n, computed as
// the product of M with a chain of n+1 states, all final, every edge TRUE
// (spec §4.3).
func BoundedLanguage[S comparable](m *SFA[S], n int) (*SFA[S], error) {
	if n < 0 {
		n = 0
	}
	alg := m.alg
	cb := NewBuilder[S](alg)
	cb.SetInitial(0)
	for i := 0; i <= n; i++ {
		cb.AddState(i, true)
		if i < n {
			cb.AddMove(i, alg.True(), i+1)
		}
	}
	chain, err := cb.Build()
	if err != nil {
		return nil, err
	}
	return Product(m, chain)
}

// ForwardStateLanguage returns Lf(q): M with its initial state moved to q,
// finals unchanged.
func ForwardStateLanguage[S comparable](m *SFA[S], q int) (*SFA[S], error) {
	b := NewBuilder[S](m.alg)
	b.SetInitial(q)
	for _, r := range m.States() {
		b.AddState(r, m.IsFinal(r))
		for _, mv := range m.Moves(r) {
			if mv.IsEpsilon() {
				b.AddEpsilon(r, mv.Target)
			} else {
				b.AddMove(r, *mv.Pred, mv.Target)
			}
		}
	}
	return b.Build()
}

// BackwardStateLanguage returns Lb(q): M with its only final state set to q.
func BackwardStateLanguage[S comparable](m *SFA[S], q int) (*SFA[S], error) {
	b := NewBuilder[S](m.alg)
	b.SetInitial(m.initial)
	for _, r := range m.States() {
		b.AddState(r, r == q)
		for _, mv := range m.Moves(r) {
			if mv.IsEpsilon() {
				b.AddEpsilon(r, mv.Target)
			} else {
				b.AddMove(r, *mv.Pred, mv.Target)
			}
		}
	}
	return b.Build()
}

// ForwardTraceLanguage returns the prefixes of Lf(q).
func ForwardTraceLanguage[S comparable](m *SFA[S], q int) (*SFA[S], error) {
	fwd, err := ForwardStateLanguage(m, q)
	if err != nil {
		return nil, err
	}
	return PrefixLanguage(fwd)
}

// BackwardTraceLanguage returns the suffixes of Lb(q), dually to
// ForwardTraceLanguage.
func BackwardTraceLanguage[S comparable](m *SFA[S], q int) (*SFA[S], error) {
	bwd, err := BackwardStateLanguage(m, q)
	if err != nil {
		return nil, err
	}
	return SuffixLanguage(bwd)
}

// Normalize renumbers states so the initial state is offset, the final
// states (other than the initial, if it is itself final) form the next
// contiguous block, and the remaining states follow — a canonical form used
// to compare or key automata by shape rather than by incidental state ids
// (spec §4.3).
func Normalize[S comparable](m *SFA[S], offset int) (*SFA[S], error) {
	var finals, rest []int
	for _, q := range m.States() {
		if q == m.initial {
			continue
		}
		if m.IsFinal(q) {
			finals = append(finals, q)
		} else {
			rest = append(rest, q)
		}
	}
	sort.Ints(finals)
	sort.Ints(rest)

	order := append([]int{m.initial}, finals...)
	order = append(order, rest...)

	newID := make(map[int]int, len(order))
	for i, q := range order {
		newID[q] = offset + i
	}

	b := NewBuilder[S](m.alg)
	b.SetInitial(newID[m.initial])
	for _, q := range m.States() {
		b.AddState(newID[q], m.IsFinal(q))
		if name := m.stateNameOrEmpty(q); name != "" {
			b.SetStateName(newID[q], name)
		}
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(newID[q], newID[mv.Target])
			} else {
				b.AddMove(newID[q], *mv.Pred, newID[mv.Target])
			}
		}
	}
	return b.Build()
}

func (m *SFA[S]) stateNameOrEmpty(q int) string {
	if m.stateNames == nil {
		return ""
	}
	return m.stateNames[q]
}
