package abstraction

import (
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/util"
)

// HeuristicKind selects an optional refinement heuristic for pruning which
// states of a newly-added predicate automaton participate in the
// equivalence signature (spec §4.5.1).
type HeuristicKind int

const (
	// NoHeuristic uses every state of every Π-member in the signature.
	NoHeuristic HeuristicKind = iota
	// ImportantStates restricts a Π-member to the states that actually
	// appear in some M-state's λ.
	ImportantStates
	// KeyStates tries a single important state first, then unordered
	// pairs, falling back to ImportantStates.
	KeyStates
)

// predicateEntry is one member of Π together with the subset of its states
// currently considered in the equivalence signature. active == nil means
// every state of the automaton participates.
type predicateEntry[S comparable] struct {
	automaton *sfa.SFA[S]
	active    util.KeySet[int]
}

// PredicateLanguage implements spec §4.5.1: two states of M are equivalent
// iff, for every automaton p ∈ Π, the set of p's (active) states whose state
// language intersects the corresponding state language of the M-state is
// the same.
type PredicateLanguage[S comparable] struct {
	alg       *predicate.Algebra[S]
	direction Direction
	heuristic HeuristicKind
	entries   []*predicateEntry[S]
}

// NewPredicateLanguage seeds Π from the given automata (spec §4.5.1: any
// subset of {Init, Bad, dom(τᵢ), range(τᵢ)}).
func NewPredicateLanguage[S comparable](alg *predicate.Algebra[S], dir Direction, heuristic HeuristicKind, seed ...*sfa.SFA[S]) *PredicateLanguage[S] {
	pl := &PredicateLanguage[S]{alg: alg, direction: dir, heuristic: heuristic}
	for _, a := range seed {
		pl.entries = append(pl.entries, &predicateEntry[S]{automaton: a})
	}
	return pl
}

type labelledEdge[S comparable] struct {
	pred  predicate.Predicate[S]
	other int
}

func reverseEdges[S comparable](a *sfa.SFA[S]) map[int][]labelledEdge[S] {
	in := map[int][]labelledEdge[S]{}
	for _, q := range a.States() {
		for _, mv := range a.Moves(q) {
			if mv.IsEpsilon() {
				continue
			}
			in[mv.Target] = append(in[mv.Target], labelledEdge[S]{pred: *mv.Pred, other: q})
		}
	}
	return in
}

func forwardEdges[S comparable](a *sfa.SFA[S], q int) []labelledEdge[S] {
	var out []labelledEdge[S]
	for _, mv := range a.Moves(q) {
		if mv.IsEpsilon() {
			continue
		}
		out = append(out, labelledEdge[S]{pred: *mv.Pred, other: mv.Target})
	}
	return out
}

// lambda computes λ : states(M) → per-entry sets of p-states, by fixed-point
// propagation over a work-list (spec §4.5.1, §9 — explicit stack, no
// recursion, so cyclic automata cannot overflow the call stack).
func (pl *PredicateLanguage[S]) lambda(m *sfa.SFA[S]) map[int]map[int]util.KeySet[int] {
	lambda := map[int]map[int]util.KeySet[int]{}
	mark := func(sM, idx, sP int) bool {
		if lambda[sM] == nil {
			lambda[sM] = map[int]util.KeySet[int]{}
		}
		if lambda[sM][idx] == nil {
			lambda[sM][idx] = util.NewKeySet[int]()
		}
		if lambda[sM][idx].Has(sP) {
			return false
		}
		lambda[sM][idx].Add(sP)
		return true
	}

	type pos struct{ m, p int }

	for idx, entry := range pl.entries {
		p := entry.automaton

		var seeds []pos
		if pl.direction == Forward {
			for _, fm := range m.Finals() {
				for _, fp := range p.Finals() {
					seeds = append(seeds, pos{fm, fp})
				}
			}
		} else {
			seeds = append(seeds, pos{m.Initial(), p.Initial()})
		}

		var mEdges, pEdges map[int][]labelledEdge[S]
		if pl.direction == Forward {
			mEdges = reverseEdges(m)
			pEdges = reverseEdges(p)
		}

		visited := map[pos]bool{}
		var stack []pos
		for _, s := range seeds {
			if !visited[s] {
				visited[s] = true
				mark(s.m, idx, s.p)
				stack = append(stack, s)
			}
		}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			var mOut, pOut []labelledEdge[S]
			if pl.direction == Forward {
				mOut = mEdges[cur.m]
				pOut = pEdges[cur.p]
			} else {
				mOut = forwardEdges(m, cur.m)
				pOut = forwardEdges(p, cur.p)
			}
			for _, em := range mOut {
				for _, ep := range pOut {
					if !pl.alg.Satisfiable(pl.alg.And(em.pred, ep.pred)) {
						continue
					}
					next := pos{em.other, ep.other}
					mark(next.m, idx, next.p)
					if !visited[next] {
						visited[next] = true
						stack = append(stack, next)
					}
				}
			}
		}
	}

	return lambda
}

// signature returns the filtered, comparable form of λ(q): for entries with
// an active subset, only members of that subset count.
func (pl *PredicateLanguage[S]) signature(lambda map[int]map[int]util.KeySet[int], q int) string {
	perEntry := lambda[q]
	out := ""
	for idx, entry := range pl.entries {
		set := perEntry[idx]
		var ids []int
		for _, r := range set.Elements() {
			if entry.active == nil || entry.active.Has(r) {
				ids = append(ids, r)
			}
		}
		out += "|" + keyOfInts(ids)
	}
	return out
}

func keyOfInts(ids []int) string {
	sorted := append([]int{}, ids...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	s := ""
	for _, id := range sorted {
		s += "," + itoa(id)
	}
	return s
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

// Collapse quotients M by signature equality (spec §4.5.1).
func (pl *PredicateLanguage[S]) Collapse(m *sfa.SFA[S]) (*sfa.SFA[S], error) {
	lambda := pl.lambda(m)
	sigs := map[int]string{}
	for _, q := range m.States() {
		sigs[q] = pl.signature(lambda, q)
	}
	return sfa.Collapse(m, func(_ *sfa.SFA[S], q, qPrime int) bool {
		return sigs[q] == sigs[qPrime]
	})
}

// StatesAreEquivalent recomputes λ and compares q's and q''s signatures.
func (pl *PredicateLanguage[S]) StatesAreEquivalent(m *sfa.SFA[S], q, qPrime int) bool {
	lambda := pl.lambda(m)
	return pl.signature(lambda, q) == pl.signature(lambda, qPrime)
}

// Refine appends X to Π, then — per the configured heuristic — narrows the
// subset of X's states that participate in the signature to the smallest
// one that still keeps Collapse(M) ∩ X empty (spec §4.5.1). Every call
// appends a new entry with its own active set; entries added by earlier
// calls keep theirs unchanged.
func (pl *PredicateLanguage[S]) Refine(m, x *sfa.SFA[S]) error {
	entry := &predicateEntry[S]{automaton: x}
	pl.entries = append(pl.entries, entry)

	if pl.heuristic == NoHeuristic {
		return nil
	}

	lambda := pl.lambda(m)
	idx := len(pl.entries) - 1

	important := util.NewKeySet[int]()
	for _, q := range m.States() {
		if perEntry, ok := lambda[q]; ok {
			if set, ok := perEntry[idx]; ok {
				important.AddAll(set)
			}
		}
	}

	stillEmpty := func(active util.KeySet[int]) bool {
		entry.active = active
		collapsed, err := pl.Collapse(m)
		if err != nil {
			entry.active = nil
			return false
		}
		empty, err := sfa.ProductIsEmpty(collapsed, x)
		entry.active = nil
		return err == nil && empty
	}

	if pl.heuristic == KeyStates {
		for _, k := range important.Elements() {
			single := util.NewKeySet[int]()
			single.Add(k)
			if stillEmpty(single) {
				entry.active = single
				return nil
			}
		}
		ids := important.Elements()
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pairSet := util.NewKeySet[int]()
				pairSet.Add(ids[i])
				pairSet.Add(ids[j])
				if stillEmpty(pairSet) {
					entry.active = pairSet
					return nil
				}
			}
		}
	}

	// ImportantStates, or KeyStates falling back: ignore every X-state that
	// never appears in any λ(s_M).
	entry.active = important
	return nil
}
