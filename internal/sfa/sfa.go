// Package sfa implements the symbolic finite automaton of spec §4.3: states
// and moves labelled by predicates over a shared alphabet, plus the
// automata-algebra operations the abstraction and ARMC-driver packages are
// built on.
//
// Automata are value-like (spec §3 "Lifecycle"): every operator returns a
// fresh SFA and never mutates its receiver or arguments. State identifiers
// are local integers, not preserved across operations except where Normalize
// is explicitly used.
package sfa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/util"
)

// Move is an edge of the automaton. Pred == nil marks an ε-move, distinct
// from an edge labelled with an unsatisfiable predicate (spec §3, §9).
type Move[S comparable] struct {
	Source int
	Target int
	Pred   *predicate.Predicate[S]
}

// IsEpsilon reports whether this move has no predicate.
func (m Move[S]) IsEpsilon() bool { return m.Pred == nil }

// SFA is a symbolic finite automaton over alphabet S.
type SFA[S comparable] struct {
	alg        *predicate.Algebra[S]
	initial    int
	finals     util.KeySet[int]
	out        map[int][]Move[S]
	states     util.KeySet[int]
	name       string
	stateNames map[int]string
}

// Algebra returns the predicate algebra the automaton's labels belong to.
func (m *SFA[S]) Algebra() *predicate.Algebra[S] { return m.alg }

// Initial returns the initial state id.
func (m *SFA[S]) Initial() int { return m.initial }

// States returns the automaton's state ids.
func (m *SFA[S]) States() []int {
	ids := m.states.Elements()
	sort.Ints(ids)
	return ids
}

// IsFinal reports whether q is one of the automaton's final states.
func (m *SFA[S]) IsFinal(q int) bool { return m.finals.Has(q) }

// Finals returns the automaton's final state ids.
func (m *SFA[S]) Finals() []int {
	ids := m.finals.Elements()
	sort.Ints(ids)
	return ids
}

// Moves returns the out-edges of state q, or nil if q has none.
func (m *SFA[S]) Moves(q int) []Move[S] {
	return m.out[q]
}

// Name returns the automaton's optional display name.
func (m *SFA[S]) Name() string { return m.name }

// StateName returns the display name of q, if a state-name map was set, else
// its numeric id as a string.
func (m *SFA[S]) StateName(q int) string {
	if m.stateNames != nil {
		if n, ok := m.stateNames[q]; ok {
			return n
		}
	}
	return fmt.Sprintf("%d", q)
}

// String renders the automaton for debug output and test fixtures.
func (m *SFA[S]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<START: %s, STATES:", m.StateName(m.initial))
	for _, q := range m.States() {
		sb.WriteString("\n\t")
		if m.IsFinal(q) {
			sb.WriteByte('(')
		}
		fmt.Fprintf(&sb, "%s [", m.StateName(q))
		moves := append([]Move[S]{}, m.out[q]...)
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
		if m.IsFinal(q) {
			sb.WriteByte(')')
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}

// String renders one move in "=(pred)=> target" form, ε for epsilon.
func (mv Move[S]) String() string {
	label := "ε"
	if mv.Pred != nil {
		label = mv.Pred.String()
	}
	return fmt.Sprintf("=(%s)=> %d", label, mv.Target)
}
