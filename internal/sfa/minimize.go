package sfa

import (
	"github.com/matejchalk/armc/internal/predicate"
)

// Minimize returns the automaton with the fewest states recognising L(M),
// via Determinize → MakeTotal → Moore partition refinement over the
// minterms of the totalized automaton (which, being global, already
// partition Σ uniformly across every state) → merge of minterm-edges that
// land in the same block (spec §4.3).
func Minimize[S comparable](m *SFA[S]) (*SFA[S], error) {
	det, err := Determinize(m)
	if err != nil {
		return nil, err
	}
	total, err := MakeTotal(det)
	if err != nil {
		return nil, err
	}
	alg := total.alg

	states := total.States()

	// MakeTotal's per-state "remainder" edge is a union of whatever minterms
	// were missing at that state, not itself a minterm, so the labels across
	// states don't share one partition yet. Recompute minterms over every
	// edge predicate in the totalized automaton to get a single global
	// partition, then resolve each minterm to the (unique, by totality) edge
	// whose predicate implies it.
	var allPreds []predicate.Predicate[S]
	for _, q := range states {
		for _, mv := range total.Moves(q) {
			allPreds = append(allPreds, *mv.Pred)
		}
	}
	minterms := alg.Minterms(allPreds...)

	target := make(map[int]map[int]int, len(states)) // state -> minterm index -> target state
	for _, q := range states {
		target[q] = map[int]int{}
		for i, mt := range minterms {
			for _, mv := range total.Moves(q) {
				if alg.Implies(mt, *mv.Pred) {
					target[q][i] = mv.Target
					break
				}
			}
		}
	}

	block := map[int]int{}
	for _, q := range states {
		if total.IsFinal(q) {
			block[q] = 1
		} else {
			block[q] = 0
		}
	}

	for {
		type sig struct {
			block int
			trans string
		}
		sigOf := func(q int) sig {
			s := ""
			for i := range minterms {
				s += "," + itoa(block[target[q][i]])
			}
			return sig{block: block[q], trans: s}
		}

		sigToBlock := map[sig]int{}
		newBlock := make(map[int]int, len(states))
		nextID := 0
		for _, q := range states {
			s := sigOf(q)
			id, ok := sigToBlock[s]
			if !ok {
				id = nextID
				nextID++
				sigToBlock[s] = id
			}
			newBlock[q] = id
		}

		changed := false
		for _, q := range states {
			if newBlock[q] != block[q] {
				changed = true
				break
			}
		}
		numOld := distinctCount(block)
		numNew := distinctCount(newBlock)
		block = newBlock
		if !changed || numOld == numNew {
			break
		}
	}

	rep := map[int]int{} // block -> a representative original state
	for _, q := range states {
		if _, ok := rep[block[q]]; !ok {
			rep[block[q]] = q
		}
	}

	b := NewBuilder[S](alg)
	b.SetInitial(block[total.initial])
	for _, q := range states {
		b.AddState(block[q], total.IsFinal(q))
	}
	for blk, q := range rep {
		for i, mt := range minterms {
			b.AddMove(blk, mt, block[target[q][i]])
		}
	}

	return b.Build()
}

func distinctCount(m map[int]int) int {
	seen := map[int]bool{}
	for _, v := range m {
		seen[v] = true
	}
	return len(seen)
}
