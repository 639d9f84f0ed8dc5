package sfa

import (
	"sort"

	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/util"
)

// RemoveEpsilons returns an ε-free SFA with the same language: every state's
// moves are closed over ε first (explicit work-list, spec §9), and a state
// is final if its ε-closure contains an original final state.
func RemoveEpsilons[S comparable](m *SFA[S]) (*SFA[S], error) {
	closure := make(map[int]util.KeySet[int], len(m.States()))
	for _, q := range m.States() {
		closure[q] = epsilonClosure(m, q)
	}

	b := NewBuilder[S](m.alg)
	b.SetInitial(m.initial)
	for _, q := range m.States() {
		final := false
		for _, r := range closure[q].Elements() {
			if m.IsFinal(r) {
				final = true
				break
			}
		}
		b.AddState(q, final)
		for _, r := range closure[q].Elements() {
			for _, mv := range m.Moves(r) {
				if !mv.IsEpsilon() {
					b.AddMove(q, *mv.Pred, mv.Target)
				}
			}
		}
	}
	return b.Build()
}

func epsilonClosure[S comparable](m *SFA[S], from int) util.KeySet[int] {
	closure := util.NewKeySet[int]()
	var stack util.Stack[int]
	stack.Push(from)
	closure.Add(from)
	for stack.Len() > 0 {
		q := stack.Pop()
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() && !closure.Has(mv.Target) {
				closure.Add(mv.Target)
				stack.Push(mv.Target)
			}
		}
	}
	return closure
}

// Determinize returns a deterministic SFA with L(Determinize(M)) = L(M).
// States of the result are subsets of M's states; moves are labelled by the
// minterms of every predicate appearing in M, which partition Σ, so at most
// one out-move per minterm leaves each state; a minterm on which no move of
// the subset applies gets no move (spec §4.3).
func Determinize[S comparable](m *SFA[S]) (*SFA[S], error) {
	free, err := RemoveEpsilons(m)
	if err != nil {
		return nil, err
	}
	alg := free.alg

	var preds []predicate.Predicate[S]
	for _, q := range free.States() {
		for _, mv := range free.Moves(q) {
			preds = append(preds, *mv.Pred)
		}
	}
	minterms := alg.Minterms(preds...)

	keyOf := func(s util.KeySet[int]) string {
		ids := s.Elements()
		sort.Ints(ids)
		key := ""
		for _, id := range ids {
			key += "," + itoa(id)
		}
		return key
	}

	b := NewBuilder[S](alg)
	start := util.NewKeySet[int]()
	start.Add(free.initial)

	byKey := map[string]util.KeySet[int]{keyOf(start): start}
	ids := map[string]int{keyOf(start): 0}
	nextID := 1

	idOf := func(s util.KeySet[int]) int {
		k := keyOf(s)
		if id, ok := ids[k]; ok {
			return id
		}
		id := nextID
		nextID++
		ids[k] = id
		byKey[k] = s
		return id
	}

	startID := idOf(start)
	b.SetInitial(startID)

	var stack []string
	stack = append(stack, keyOf(start))
	seen := map[string]bool{keyOf(start): true}

	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		T := byKey[k]
		id := ids[k]

		final := false
		for _, q := range T.Elements() {
			if free.IsFinal(q) {
				final = true
				break
			}
		}
		b.AddState(id, final)

		for _, mt := range minterms {
			U := util.NewKeySet[int]()
			for _, q := range T.Elements() {
				for _, mv := range free.Moves(q) {
					if alg.Satisfiable(alg.And(*mv.Pred, mt)) {
						U.Add(mv.Target)
					}
				}
			}
			if U.Empty() {
				continue
			}
			uk := keyOf(U)
			uID := idOf(U)
			b.AddMove(id, mt, uID)
			if !seen[uk] {
				seen[uk] = true
				stack = append(stack, uk)
			}
		}
	}

	return b.Build()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
