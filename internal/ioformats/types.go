// Package ioformats implements the automaton file-format collaborator
// contract of spec §6: parsers and printers for Timbuk, FSA, FSM, and DOT,
// each returning or consuming (initial, finals, moves, optional alphabet,
// optional name, optional state-name map). Grounded on the teacher's
// internal/ictiobus/automaton text format (a DFA/NFA serialisation using the
// same initial/finals/transitions shape) generalised to symbolic predicate
// labels and, for SFTs, label-algebra pairs.
package ioformats

import (
	"sort"

	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
)

// sfaMove is a parsed SFA edge before alphabet/predicate resolution: either
// an explicit symbol set (kind distinguishes IN/NOT_IN) or an epsilon move.
type sfaMove struct {
	from, to int
	epsilon  bool
	notIn    bool
	symbols  []string
}

// sftMove is a parsed SFT edge: in/out symbol sets, or an identity edge
// (out mirrors in), or an epsilon move on one or both sides.
type sftMove struct {
	from, to          int
	epsilon           bool
	identity          bool
	inNotIn, outNotIn bool
	epsilonIn         bool
	epsilonOut        bool
	inSymbols         []string
	outSymbols        []string
}

// ParsedSFA is the collaborator-contract tuple for an SFA: (initial, finals,
// moves, optional alphabet, optional name, optional state-name map).
type ParsedSFA struct {
	Initial    int
	Finals     []int
	Moves      []sfaMove
	Alphabet   []string // explicit Σ, if the format declared one; else inferred
	Name       string
	StateNames map[int]string
}

// ParsedSFT mirrors ParsedSFA for transducers.
type ParsedSFT struct {
	Initial    int
	Finals     []int
	Moves      []sftMove
	Alphabet   []string
	Name       string
	StateNames map[int]string
}

// collectSFASymbols gathers every symbol mentioned by moves or an explicit
// alphabet declaration, for formats that don't require Σ to be declared
// up front.
func collectSFASymbols(p ParsedSFA) []string {
	set := map[string]bool{}
	for _, s := range p.Alphabet {
		set[s] = true
	}
	for _, mv := range p.Moves {
		for _, s := range mv.symbols {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func collectSFTSymbols(p ParsedSFT) []string {
	set := map[string]bool{}
	for _, s := range p.Alphabet {
		set[s] = true
	}
	for _, mv := range p.Moves {
		for _, s := range mv.inSymbols {
			set[s] = true
		}
		for _, s := range mv.outSymbols {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// BuildSFA resolves a ParsedSFA into an *sfa.SFA[string] over a fresh
// predicate.Algebra[string] keyed by the symbols the parse discovered.
func BuildSFA(p ParsedSFA) (*sfa.SFA[string], error) {
	symbols := collectSFASymbols(p)
	sigma := alphabet.New(alphabet.StringLess, symbols...)
	alg := predicate.NewAlgebra[string](sigma)

	b := sfa.NewBuilder[string](alg)
	b.SetInitial(p.Initial)
	if p.Name != "" {
		b.SetName(p.Name)
	}
	for q, name := range p.StateNames {
		b.SetStateName(q, name)
	}
	finalSet := map[int]bool{}
	for _, q := range p.Finals {
		finalSet[q] = true
	}
	states := map[int]bool{p.Initial: true}
	for _, q := range p.Finals {
		states[q] = true
	}
	for _, mv := range p.Moves {
		states[mv.from] = true
		states[mv.to] = true
	}
	for q := range states {
		b.AddState(q, finalSet[q])
	}
	for _, mv := range p.Moves {
		if mv.epsilon {
			b.AddEpsilon(mv.from, mv.to)
			continue
		}
		var pred predicate.Predicate[string]
		if mv.notIn {
			pred = alg.NotIn(mv.symbols...)
		} else {
			pred = alg.In(mv.symbols...)
		}
		b.AddMove(mv.from, pred, mv.to)
	}
	return b.Build()
}

// BuildSFT resolves a ParsedSFT into an *sft.SFT[string].
func BuildSFT(p ParsedSFT) (*sft.SFT[string], error) {
	symbols := collectSFTSymbols(p)
	sigma := alphabet.New(alphabet.StringLess, symbols...)
	predAlg := predicate.NewAlgebra[string](sigma)
	labelAlg := label.NewAlgebra[string](predAlg)

	b := sft.NewBuilder[string](labelAlg)
	b.SetInitial(p.Initial)
	if p.Name != "" {
		b.SetName(p.Name)
	}
	for q, name := range p.StateNames {
		b.SetStateName(q, name)
	}
	finalSet := map[int]bool{}
	for _, q := range p.Finals {
		finalSet[q] = true
	}
	states := map[int]bool{p.Initial: true}
	for _, q := range p.Finals {
		states[q] = true
	}
	for _, mv := range p.Moves {
		states[mv.from] = true
		states[mv.to] = true
	}
	for q := range states {
		b.AddState(q, finalSet[q])
	}
	for _, mv := range p.Moves {
		if mv.epsilon {
			b.AddEpsilon(mv.from, mv.to)
			continue
		}
		lbl, err := buildLabel(predAlg, mv)
		if err != nil {
			return nil, err
		}
		b.AddMove(mv.from, lbl, mv.to)
	}
	return b.Build()
}

func buildLabel(alg *predicate.Algebra[string], mv sftMove) (label.Label[string], error) {
	if mv.identity {
		var in predicate.Predicate[string]
		if mv.inNotIn {
			in = alg.NotIn(mv.inSymbols...)
		} else {
			in = alg.In(mv.inSymbols...)
		}
		return label.NewIdentity(in), nil
	}

	var inP, outP *predicate.Predicate[string]
	if !mv.epsilonIn {
		p := symbolsToPredicate(alg, mv.inNotIn, mv.inSymbols)
		inP = &p
	}
	if !mv.epsilonOut {
		p := symbolsToPredicate(alg, mv.outNotIn, mv.outSymbols)
		outP = &p
	}
	if inP == nil && outP == nil {
		return label.Label[string]{}, armcerr.New(armcerr.KindParser, "transducer edge has no input and no output")
	}
	return label.NewPair(inP, outP), nil
}

func symbolsToPredicate(alg *predicate.Algebra[string], notIn bool, symbols []string) predicate.Predicate[string] {
	if notIn {
		return alg.NotIn(symbols...)
	}
	return alg.In(symbols...)
}
