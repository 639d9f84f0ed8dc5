// Package sft implements the symbolic finite transducer of spec §4.4:
// states and moves labelled by the label algebra of internal/label, plus the
// transducer operations the CEGAR driver applies to step the abstraction
// forward and backward across the transition relation τ.
//
// Like internal/sfa, transducers are value-like: every operator returns a
// fresh SFT and never mutates its receiver or arguments.
package sft

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/util"
)

// Move is a transducer edge. Label == nil marks an ε-move (neither input nor
// output consumed), distinct from a move labelled with an unsatisfiable
// label.
type Move[S comparable] struct {
	Source int
	Target int
	Label  *label.Label[S]
}

// IsEpsilon reports whether this move has no label.
func (m Move[S]) IsEpsilon() bool { return m.Label == nil }

// SFT is a symbolic finite transducer over alphabet S.
type SFT[S comparable] struct {
	alg        *label.Algebra[S]
	initial    int
	finals     util.KeySet[int]
	out        map[int][]Move[S]
	states     util.KeySet[int]
	name       string
	stateNames map[int]string
}

// Algebra returns the label algebra the transducer's edges belong to.
func (t *SFT[S]) Algebra() *label.Algebra[S] { return t.alg }

// Initial returns the initial state id.
func (t *SFT[S]) Initial() int { return t.initial }

// States returns the transducer's state ids, sorted.
func (t *SFT[S]) States() []int {
	ids := t.states.Elements()
	sort.Ints(ids)
	return ids
}

// IsFinal reports whether q is one of the transducer's final states.
func (t *SFT[S]) IsFinal(q int) bool { return t.finals.Has(q) }

// Finals returns the transducer's final state ids, sorted.
func (t *SFT[S]) Finals() []int {
	ids := t.finals.Elements()
	sort.Ints(ids)
	return ids
}

// Moves returns the out-edges of state q, or nil if q has none.
func (t *SFT[S]) Moves(q int) []Move[S] {
	return t.out[q]
}

// Name returns the transducer's optional display name.
func (t *SFT[S]) Name() string { return t.name }

// StateName returns the display name of q, if a state-name map was set, else
// its numeric id as a string.
func (t *SFT[S]) StateName(q int) string {
	if t.stateNames != nil {
		if n, ok := t.stateNames[q]; ok {
			return n
		}
	}
	return fmt.Sprintf("%d", q)
}

// String renders the transducer for debug output and test fixtures.
func (t *SFT[S]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<START: %s, STATES:", t.StateName(t.initial))
	for _, q := range t.States() {
		sb.WriteString("\n\t")
		if t.IsFinal(q) {
			sb.WriteByte('(')
		}
		fmt.Fprintf(&sb, "%s [", t.StateName(q))
		moves := append([]Move[S]{}, t.out[q]...)
		sort.Slice(moves, func(i, j int) bool {
			if moves[i].Target != moves[j].Target {
				return moves[i].Target < moves[j].Target
			}
			return moves[i].String() < moves[j].String()
		})
		for i, mv := range moves {
			sb.WriteString(mv.String())
			if i+1 < len(moves) {
				sb.WriteString(", ")
			}
		}
		sb.WriteByte(']')
		if t.IsFinal(q) {
			sb.WriteByte(')')
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}

// String renders one move in "=(label)=> target" form, ε for epsilon.
func (mv Move[S]) String() string {
	lbl := "ε"
	if mv.Label != nil {
		lbl = mv.Label.String()
	}
	return fmt.Sprintf("=(%s)=> %d", lbl, mv.Target)
}
