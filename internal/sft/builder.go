package sft

import (
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/util"
)

// Builder accumulates states and moves before Build validates invariants and
// trims unreachable/dead states, mirroring internal/sfa.Builder.
type Builder[S comparable] struct {
	alg        *label.Algebra[S]
	initial    int
	hasInitial bool
	finals     util.KeySet[int]
	states     util.KeySet[int]
	moves      []Move[S]
	name       string
	stateNames map[int]string
}

// NewBuilder starts a builder over the given label algebra.
func NewBuilder[S comparable](alg *label.Algebra[S]) *Builder[S] {
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

// SetName sets the transducer's optional display name.
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

// AddMove adds a label-labelled edge.
func (b *Builder[S]) AddMove(from int, l label.Label[S], to int) *Builder[S] {
	b.states.Add(from)
	b.states.Add(to)
	b.moves = append(b.moves, Move[S]{Source: from, Target: to, Label: &l})
	return b
}

// AddEpsilon adds an ε-move.
func (b *Builder[S]) AddEpsilon(from, to int) *Builder[S] {
	b.states.Add(from)
	b.states.Add(to)
	b.moves = append(b.moves, Move[S]{Source: from, Target: to})
	return b
}

// Build validates the transducer's invariants and returns a trimmed,
// immutable SFT.
func (b *Builder[S]) Build() (*SFT[S], error) {
	if !b.hasInitial {
		return nil, armcerr.New(armcerr.KindAutomaton, "transducer has no initial state set")
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
			return nil, armcerr.New(armcerr.KindSFT, "move references state not in state set")
		}
	}

	out := map[int][]Move[S]{}
	for _, mv := range b.moves {
		out[mv.Source] = append(out[mv.Source], mv)
	}

	keep := trim(b.initial, b.finals, out, b.states)

	t := &SFT[S]{
		alg:     b.alg,
		initial: b.initial,
		finals:  util.NewKeySet[int](),
		out:     map[int][]Move[S]{},
		states:  util.NewKeySet[int](),
		name:    b.name,
	}
	for _, q := range keep.Elements() {
		t.states.Add(q)
		if b.finals.Has(q) {
			t.finals.Add(q)
		}
	}
	for from, mvs := range out {
		if !keep.Has(from) {
			continue
		}
		for _, mv := range mvs {
			if keep.Has(mv.Target) {
				t.out[from] = append(t.out[from], mv)
			}
		}
	}
	if b.stateNames != nil {
		t.stateNames = map[int]string{}
		for q, name := range b.stateNames {
			if keep.Has(q) {
				t.stateNames[q] = name
			}
		}
	}
	return t, nil
}

// trim computes the set of states reachable from initial that can also reach
// a final state, using explicit work-lists (spec §9).
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
	if !keep.Has(initial) {
		keep.Add(initial)
	}
	return keep
}
