package sfa

import (
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/util"
)

// Builder accumulates states and moves before Build validates the invariants
// of spec §3 and trims unreachable/dead states.
type Builder[S comparable] struct {
	alg        *predicate.Algebra[S]
	initial    int
	hasInitial bool
	finals     util.KeySet[int]
	states     util.KeySet[int]
	moves      []Move[S]
	name       string
	stateNames map[int]string
}

// NewBuilder starts a builder over the given algebra.
func NewBuilder[S comparable](alg *predicate.Algebra[S]) *Builder[S] {
	return &Builder[S]{
		alg:    alg,
		finals: util.NewKeySet[int](),
		states: util.NewKeySet[int](),
	}
}

// AddState registers a state id, optionally marking it final.
func (b *Builder[S]) AddState(q int, final bool) *Builder[S] {
	b.states.Add(q)
	if final {
		b.finals.Add(q)
	}
	return b
}

// SetInitial sets the initial state, adding it if not already present.
func (b *Builder[S]) SetInitial(q int) *Builder[S] {
	b.states.Add(q)
	b.initial = q
	b.hasInitial = true
	return b
}

// SetName sets the automaton's optional display name.
func (b *Builder[S]) SetName(name string) *Builder[S] {
	b.name = name
	return b
}

// SetStateName assigns a display name to q.
func (b *Builder[S]) SetStateName(q int, name string) *Builder[S] {
	if b.stateNames == nil {
		b.stateNames = map[int]string{}
	}
	b.stateNames[q] = name
	return b
}

// AddMove adds a predicate-labelled edge.
func (b *Builder[S]) AddMove(from int, pred predicate.Predicate[S], to int) *Builder[S] {
	b.states.Add(from)
	b.states.Add(to)
	b.moves = append(b.moves, Move[S]{Source: from, Target: to, Pred: &pred})
	return b
}

// AddEpsilon adds an ε-move.
func (b *Builder[S]) AddEpsilon(from, to int) *Builder[S] {
	b.states.Add(from)
	b.states.Add(to)
	b.moves = append(b.moves, Move[S]{Source: from, Target: to})
	return b
}

// Build validates the automaton's invariants and returns a trimmed,
// immutable SFA: unreachable states and states that cannot reach a final
// state are removed (spec §3).
func (b *Builder[S]) Build() (*SFA[S], error) {
	return b.build(true)
}

// buildKeepAll validates like Build but skips dead-state elimination. Used
// only by MakeTotal, whose dead sink is intentionally non-final and would
// otherwise be trimmed away before Complement gets a chance to flip it.
func (b *Builder[S]) buildKeepAll() (*SFA[S], error) {
	return b.build(false)
}

func (b *Builder[S]) build(trimDead bool) (*SFA[S], error) {
	if !b.hasInitial {
		return nil, armcerr.New(armcerr.KindAutomaton, "automaton has no initial state set")
	}
	if !b.states.Has(b.initial) {
		return nil, armcerr.New(armcerr.KindAutomaton, "initial state not in state set")
	}
	for _, f := range b.finals.Elements() {
		if !b.states.Has(f) {
			return nil, armcerr.New(armcerr.KindAutomaton, "final state not in state set")
		}
	}
	for _, mv := range b.moves {
		if !b.states.Has(mv.Source) || !b.states.Has(mv.Target) {
			return nil, armcerr.New(armcerr.KindSFA, "move references state not in state set")
		}
	}
	if b.stateNames != nil {
		seen := map[string]bool{}
		for q, name := range b.stateNames {
			if !b.states.Has(q) {
				return nil, armcerr.New(armcerr.KindAutomaton, "state-name map has key not in state set")
			}
			if seen[name] {
				return nil, armcerr.New(armcerr.KindAutomaton, "state-name map has duplicate value")
			}
			seen[name] = true
		}
	}

	out := map[int][]Move[S]{}
	for _, mv := range b.moves {
		out[mv.Source] = append(out[mv.Source], mv)
	}

	var keep util.KeySet[int]
	if trimDead {
		keep = trim(b.initial, b.finals, out, b.states)
	} else {
		keep = reachableOnly(b.initial, out, b.states)
	}

	m := &SFA[S]{
		alg:     b.alg,
		initial: b.initial,
		finals:  util.NewKeySet[int](),
		out:     map[int][]Move[S]{},
		states:  util.NewKeySet[int](),
		name:    b.name,
	}
	for _, q := range keep.Elements() {
		m.states.Add(q)
		if b.finals.Has(q) {
			m.finals.Add(q)
		}
	}
	for from, mvs := range out {
		if !keep.Has(from) {
			continue
		}
		for _, mv := range mvs {
			if keep.Has(mv.Target) {
				m.out[from] = append(m.out[from], mv)
			}
		}
	}
	if b.stateNames != nil {
		m.stateNames = map[int]string{}
		for q, name := range b.stateNames {
			if keep.Has(q) {
				m.stateNames[q] = name
			}
		}
	}
	return m, nil
}

// reachableOnly keeps every state reachable from initial, without the
// co-reachability (dead-state) pass.
func reachableOnly[S comparable](initial int, out map[int][]Move[S], all util.KeySet[int]) util.KeySet[int] {
	reachable := util.NewKeySet[int]()
	var stack util.Stack[int]
	stack.Push(initial)
	reachable.Add(initial)
	for stack.Len() > 0 {
		q := stack.Pop()
		for _, mv := range out[q] {
			if !reachable.Has(mv.Target) {
				reachable.Add(mv.Target)
				stack.Push(mv.Target)
			}
		}
	}
	keep := util.NewKeySet[int]()
	for _, q := range all.Elements() {
		if reachable.Has(q) {
			keep.Add(q)
		}
	}
	return keep
}

// trim computes the set of states reachable from initial that can also
// reach a final state, using explicit work-lists (spec §9: no recursion on
// graph traversals that may be cyclic).
func trim[S comparable](initial int, finals util.KeySet[int], out map[int][]Move[S], all util.KeySet[int]) util.KeySet[int] {
	reachable := util.NewKeySet[int]()
	var stack util.Stack[int]
	stack.Push(initial)
	reachable.Add(initial)
	for stack.Len() > 0 {
		q := stack.Pop()
		for _, mv := range out[q] {
			if !reachable.Has(mv.Target) {
				reachable.Add(mv.Target)
				stack.Push(mv.Target)
			}
		}
	}

	in := map[int][]int{}
	for from, mvs := range out {
		for _, mv := range mvs {
			in[mv.Target] = append(in[mv.Target], from)
		}
	}

	coReachable := util.NewKeySet[int]()
	var stack2 util.Stack[int]
	for _, f := range finals.Elements() {
		if !coReachable.Has(f) {
			coReachable.Add(f)
			stack2.Push(f)
		}
	}
	for stack2.Len() > 0 {
		q := stack2.Pop()
		for _, p := range in[q] {
			if !coReachable.Has(p) {
				coReachable.Add(p)
				stack2.Push(p)
			}
		}
	}

	keep := util.NewKeySet[int]()
	for _, q := range all.Elements() {
		if reachable.Has(q) && coReachable.Has(q) {
			keep.Add(q)
		}
	}
	// the initial state is always kept even with no path to a final state,
	// so that an empty-language automaton remains well-formed with >=1 state.
	if !keep.Has(initial) {
		keep.Add(initial)
	}
	return keep
}
