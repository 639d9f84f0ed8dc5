package sft

import (
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
)

type pair struct{ tau, m int }

// Apply computes an SFA accepting {τ(w) : w ∈ L(M)} via a forward product
// traversal from (τ.q0, M.q0) (spec §4.4). Every τ-edge with ε-input steps
// τ alone, emitting its output (or ε, for an identity ε-input edge — which
// cannot occur, since identity labels never have ε in and out independently,
// but is handled defensively). Every τ-edge with real input is paired
// against every M-edge whose predicate intersects that input.
func Apply[S comparable](t *SFT[S], m *sfa.SFA[S]) (*sfa.SFA[S], error) {
	preds := t.alg.Preds()

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

	b := sfa.NewBuilder[S](preds)
	start := pair{t.initial, m.Initial()}
	startID := idOf(start)
	b.SetInitial(startID)
	b.AddState(startID, t.IsFinal(start.tau) && m.IsFinal(start.m))

	seen := map[pair]bool{start: true}
	var stack []pair
	stack = append(stack, start)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		curID := idOf(cur)

		for _, tmv := range t.Moves(cur.tau) {
			if tmv.IsEpsilon() {
				np := pair{tmv.Target, cur.m}
				npID := idOf(np)
				b.AddEpsilon(curID, npID)
				addIfNew(b, t, m, seen, &stack, np, npID)
				continue
			}
			l := *tmv.Label
			if l.EpsilonIn() {
				np := pair{tmv.Target, cur.m}
				npID := idOf(np)
				// identity's output equals its (ε) input, so the edge
				// carries no symbol at all.
				if l.Tag() == label.Identity || l.Out() == nil {
					b.AddEpsilon(curID, npID)
				} else {
					b.AddMove(curID, *l.Out(), npID)
				}
				addIfNew(b, t, m, seen, &stack, np, npID)
				continue
			}
			for _, mmv := range m.Moves(cur.m) {
				if mmv.IsEpsilon() {
					continue
				}
				if !preds.Satisfiable(preds.And(*l.In(), *mmv.Pred)) {
					continue
				}
				var emit predicate.Predicate[S]
				if l.Tag() == label.Identity {
					emit = preds.And(*l.In(), *mmv.Pred)
				} else if l.Out() != nil {
					emit = *l.Out()
				} else {
					continue
				}
				np := pair{tmv.Target, mmv.Target}
				npID := idOf(np)
				b.AddMove(curID, emit, npID)
				addIfNew(b, t, m, seen, &stack, np, npID)
			}
		}
	}

	return b.Build()
}

func addIfNew[S comparable](b *sfa.Builder[S], t *SFT[S], m *sfa.SFA[S], seen map[pair]bool, stack *[]pair, np pair, npID int) {
	if seen[np] {
		return
	}
	seen[np] = true
	b.AddState(npID, t.IsFinal(np.tau) && m.IsFinal(np.m))
	*stack = append(*stack, np)
}

// Invert swaps input and output on every non-identity label; identity
// labels, being symmetric, are unchanged (spec §4.4).
func Invert[S comparable](t *SFT[S]) (*SFT[S], error) {
	b := NewBuilder[S](t.alg)
	b.SetInitial(t.initial)
	for _, q := range t.States() {
		b.AddState(q, t.IsFinal(q))
		for _, mv := range t.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
				continue
			}
			l := *mv.Label
			if l.Tag() == label.Identity {
				b.AddMove(q, l, mv.Target)
			} else {
				b.AddMove(q, label.NewPair(l.Out(), l.In()), mv.Target)
			}
		}
	}
	return b.Build()
}

// Compose returns τ1 ∘ τ2: a synchronous product with Combine applied to
// each pair of edge labels, dropping unsatisfiable composites (spec §4.4).
func Compose[S comparable](t1, t2 *SFT[S]) (*SFT[S], error) {
	if t1.alg.Preds().Sigma().Key() != t2.alg.Preds().Sigma().Key() {
		return nil, armcerr.New(armcerr.KindSFT, "incompatible alphabets")
	}
	alg := t1.alg

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
	start := pair{t1.initial, t2.initial}
	startID := idOf(start)
	b.SetInitial(startID)
	b.AddState(startID, t1.IsFinal(start.tau) && t2.IsFinal(start.m))

	seen := map[pair]bool{start: true}
	var stack []pair
	stack = append(stack, start)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		curID := idOf(cur)

		for _, m1 := range t1.Moves(cur.tau) {
			if m1.IsEpsilon() {
				np := pair{m1.Target, cur.m}
				npID := idOf(np)
				b.AddEpsilon(curID, npID)
				composeAddIfNew(b, t1, t2, seen, &stack, np, npID)
				continue
			}
			for _, m2 := range t2.Moves(cur.m) {
				if m2.IsEpsilon() {
					continue
				}
				combined, ok := alg.Combine(*m1.Label, *m2.Label)
				if !ok {
					continue
				}
				np := pair{m1.Target, m2.Target}
				npID := idOf(np)
				b.AddMove(curID, combined, npID)
				composeAddIfNew(b, t1, t2, seen, &stack, np, npID)
			}
		}
		for _, m2 := range t2.Moves(cur.m) {
			if !m2.IsEpsilon() {
				continue
			}
			np := pair{cur.tau, m2.Target}
			npID := idOf(np)
			b.AddEpsilon(curID, npID)
			composeAddIfNew(b, t1, t2, seen, &stack, np, npID)
		}
	}

	return b.Build()
}

func composeAddIfNew[S comparable](b *Builder[S], t1, t2 *SFT[S], seen map[pair]bool, stack *[]pair, np pair, npID int) {
	if seen[np] {
		return
	}
	seen[np] = true
	b.AddState(npID, t1.IsFinal(np.tau) && t2.IsFinal(np.m))
	*stack = append(*stack, np)
}

// Union builds the sum of ts via a fresh start state with ε-moves to each
// operand's (renumbered, disjoint) start (spec §4.4).
func Union[S comparable](ts ...*SFT[S]) (*SFT[S], error) {
	if len(ts) == 0 {
		return nil, armcerr.New(armcerr.KindSFT, "union of zero transducers")
	}
	alg := ts[0].alg
	for _, t := range ts[1:] {
		if alg.Preds().Sigma().Key() != t.alg.Preds().Sigma().Key() {
			return nil, armcerr.New(armcerr.KindSFT, "incompatible alphabets")
		}
	}

	b := NewBuilder[S](alg)
	newStart := 0
	b.SetInitial(newStart)
	offset := 1

	for _, t := range ts {
		for _, q := range t.States() {
			b.AddState(offset+q, t.IsFinal(q))
		}
		b.AddEpsilon(newStart, offset+t.initial)
		for _, q := range t.States() {
			for _, mv := range t.Moves(q) {
				if mv.IsEpsilon() {
					b.AddEpsilon(offset+q, offset+mv.Target)
				} else {
					b.AddMove(offset+q, *mv.Label, offset+mv.Target)
				}
			}
		}
		offset += len(t.States())
	}

	return b.Build()
}

// Domain projects every label to its input predicate (identity labels
// project to their single predicate) and reinterprets the result as an SFA
// (spec §4.4). ε-input edges become ε-moves.
func Domain[S comparable](t *SFT[S]) (*sfa.SFA[S], error) {
	return project(t, func(l label.Label[S]) *predicate.Predicate[S] { return l.In() })
}

// Range projects every label to its output predicate and reinterprets the
// result as an SFA (spec §4.4).
func Range[S comparable](t *SFT[S]) (*sfa.SFA[S], error) {
	return project(t, func(l label.Label[S]) *predicate.Predicate[S] { return l.Out() })
}

func project[S comparable](t *SFT[S], side func(label.Label[S]) *predicate.Predicate[S]) (*sfa.SFA[S], error) {
	b := sfa.NewBuilder[S](t.alg.Preds())
	b.SetInitial(t.initial)
	for _, q := range t.States() {
		b.AddState(q, t.IsFinal(q))
		for _, mv := range t.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
				continue
			}
			p := side(*mv.Label)
			if p == nil {
				b.AddEpsilon(q, mv.Target)
			} else {
				b.AddMove(q, *p, mv.Target)
			}
		}
	}
	return b.Build()
}
