package sfa

import (
	"github.com/matejchalk/armc/internal/armcerr"
)

func checkAlgebra[S comparable](a, b *SFA[S]) error {
	if a.alg.Sigma().Key() != b.alg.Sigma().Key() {
		return armcerr.New(armcerr.KindSFA, "incompatible alphabets")
	}
	return nil
}

type pair struct{ a, b int }

// Product computes the synchronous product M1 × M2: L(M1 × M2) = L(M1) ∩
// L(M2). Final iff both components are final. ε-moves on one side step only
// that side, a standard generalisation needed because neither operand is
// guaranteed ε-free.
func Product[S comparable](m1, m2 *SFA[S]) (*SFA[S], error) {
	if err := checkAlgebra(m1, m2); err != nil {
		return nil, err
	}
	alg := m1.alg

	ids := map[pair]int{}
	next := 0
	idOf := func(p pair) int {
		if id, ok := ids[p]; ok {
			return id
		}
		id := next
		next++
		ids[p] = id
		return id
	}

	b := NewBuilder[S](alg)
	start := pair{m1.initial, m2.initial}
	startID := idOf(start)
	b.SetInitial(startID)
	if m1.IsFinal(start.a) && m2.IsFinal(start.b) {
		b.AddState(startID, true)
	}

	seen := map[pair]bool{start: true}
	var stack []pair
	stack = append(stack, start)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		curID := idOf(cur)

		for _, mv1 := range m1.Moves(cur.a) {
			if mv1.IsEpsilon() {
				np := pair{mv1.Target, cur.b}
				npID := idOf(np)
				b.AddEpsilon(curID, npID)
				if !seen[np] {
					seen[np] = true
					stack = append(stack, np)
					b.AddState(npID, m1.IsFinal(np.a) && m2.IsFinal(np.b))
				}
				continue
			}
			for _, mv2 := range m2.Moves(cur.b) {
				if mv2.IsEpsilon() {
					continue
				}
				conj := alg.And(*mv1.Pred, *mv2.Pred)
				if !alg.Satisfiable(conj) {
					continue
				}
				np := pair{mv1.Target, mv2.Target}
				npID := idOf(np)
				b.AddMove(curID, conj, npID)
				if !seen[np] {
					seen[np] = true
					stack = append(stack, np)
					b.AddState(npID, m1.IsFinal(np.a) && m2.IsFinal(np.b))
				}
			}
		}
		for _, mv2 := range m2.Moves(cur.b) {
			if !mv2.IsEpsilon() {
				continue
			}
			np := pair{cur.a, mv2.Target}
			npID := idOf(np)
			b.AddEpsilon(curID, npID)
			if !seen[np] {
				seen[np] = true
				stack = append(stack, np)
				b.AddState(npID, m1.IsFinal(np.a) && m2.IsFinal(np.b))
			}
		}
	}

	return b.Build()
}

// Union builds the classical sum of ms via a fresh start state with ε-moves
// to each operand's (renumbered, disjoint) start.
func Union[S comparable](ms ...*SFA[S]) (*SFA[S], error) {
	if len(ms) == 0 {
		return nil, armcerr.New(armcerr.KindSFA, "union of zero automata")
	}
	alg := ms[0].alg
	for _, m := range ms[1:] {
		if err := checkAlgebra(ms[0], m); err != nil {
			return nil, err
		}
	}

	b := NewBuilder[S](alg)
	newStart := 0
	b.SetInitial(newStart)
	offset := 1

	for _, m := range ms {
		for _, q := range m.States() {
			b.AddState(offset+q, m.IsFinal(q))
		}
		b.AddEpsilon(newStart, offset+m.initial)
		for _, q := range m.States() {
			for _, mv := range m.Moves(q) {
				if mv.IsEpsilon() {
					b.AddEpsilon(offset+q, offset+mv.Target)
				} else {
					b.AddMove(offset+q, *mv.Pred, offset+mv.Target)
				}
			}
		}
		offset += len(m.States())
	}

	return b.Build()
}

// MakeTotal adds a dead state and, for every state whose out-edges do not
// already cover Σ, a move on the remainder to that dead state, which has a
// True self-loop. Each state's own out-predicates plus its remainder
// partition Σ, so the result is total even though the partition differs
// state to state.
func MakeTotal[S comparable](m *SFA[S]) (*SFA[S], error) {
	alg := m.alg
	b := NewBuilder[S](alg)
	b.SetInitial(m.initial)
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

	dead := maxState(m.States()) + 1
	b.AddState(dead, false)
	b.AddMove(dead, alg.True(), dead)

	for _, q := range m.States() {
		union := alg.False()
		for _, mv := range m.Moves(q) {
			if !mv.IsEpsilon() {
				union = alg.Or(union, *mv.Pred)
			}
		}
		remainder := alg.Sub(alg.True(), union)
		if alg.Satisfiable(remainder) {
			b.AddMove(q, remainder, dead)
		}
	}

	// MakeTotal's dead sink is non-final and has no path to a final state,
	// so ordinary trimming would delete it right before Complement needs to
	// flip it into the accepting sink of the complemented language.
	return b.buildKeepAll()
}

func maxState(ids []int) int {
	max := -1
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max
}

// Complement returns ¬M via Determinize → MakeTotal → flip finality (spec
// §4.3).
func Complement[S comparable](m *SFA[S]) (*SFA[S], error) {
	det, err := Determinize(m)
	if err != nil {
		return nil, err
	}
	total, err := MakeTotal(det)
	if err != nil {
		return nil, err
	}

	b := NewBuilder[S](total.alg)
	b.SetInitial(total.initial)
	for _, q := range total.States() {
		b.AddState(q, !total.IsFinal(q))
		for _, mv := range total.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
			} else {
				b.AddMove(q, *mv.Pred, mv.Target)
			}
		}
	}
	return b.Build()
}

// Difference returns M1 ∧ ¬M2.
func Difference[S comparable](m1, m2 *SFA[S]) (*SFA[S], error) {
	comp, err := Complement(m2)
	if err != nil {
		return nil, err
	}
	return Product(m1, comp)
}
