package abstraction

import (
	"github.com/matejchalk/armc/internal/sfa"
)

// Flavour selects whether finite-length equivalence compares state
// languages (words from/to a fixed endpoint) or trace languages (their
// prefixes/suffixes) — spec §4.5.2.
type Flavour int

const (
	// StateLanguageFlavour compares Lf(q)/Lb(q) directly.
	StateLanguageFlavour Flavour = iota
	// TraceLanguageFlavour compares the prefixes (forward) or suffixes
	// (backward) of Lf(q)/Lb(q).
	TraceLanguageFlavour
)

// IncrementKind selects how much Refine grows the bound by.
type IncrementKind int

const (
	// IncrementOne grows the bound by a fixed 1.
	IncrementOne IncrementKind = iota
	// IncrementSizeM grows the bound by |M|'s state count.
	IncrementSizeM
	// IncrementSizeX grows the bound by |X|'s state count.
	IncrementSizeX
)

// FiniteLengthLanguage implements spec §4.5.2: two states are equivalent
// iff their bounded forward/backward (state or trace) languages up to
// length n coincide.
type FiniteLengthLanguage[S comparable] struct {
	direction Direction
	flavour   Flavour
	increment IncrementKind
	halved    bool
	bound     int
}

// NewFiniteLengthLanguage seeds the bound from configuration: 1, |Init|, or
// |Bad| are the configured seeds (spec §4.5.2); callers compute that seed
// and pass it here.
func NewFiniteLengthLanguage[S comparable](dir Direction, flavour Flavour, increment IncrementKind, halved bool, seedBound int) *FiniteLengthLanguage[S] {
	if seedBound < 0 {
		seedBound = 0
	}
	return &FiniteLengthLanguage[S]{direction: dir, flavour: flavour, increment: increment, halved: halved, bound: seedBound}
}

// Bound returns the current length bound n.
func (fl *FiniteLengthLanguage[S]) Bound() int { return fl.bound }

func (fl *FiniteLengthLanguage[S]) boundedLanguage(m *sfa.SFA[S], q int) (*sfa.SFA[S], error) {
	var lang *sfa.SFA[S]
	var err error
	switch {
	case fl.direction == Forward && fl.flavour == StateLanguageFlavour:
		lang, err = sfa.ForwardStateLanguage(m, q)
	case fl.direction == Forward && fl.flavour == TraceLanguageFlavour:
		lang, err = sfa.ForwardTraceLanguage(m, q)
	case fl.direction == Backward && fl.flavour == StateLanguageFlavour:
		lang, err = sfa.BackwardStateLanguage(m, q)
	default:
		lang, err = sfa.BackwardTraceLanguage(m, q)
	}
	if err != nil {
		return nil, err
	}
	return sfa.BoundedLanguage(lang, fl.bound)
}

// StatesAreEquivalent reports whether q and q' have the same bounded
// language, per the configured direction and flavour.
func (fl *FiniteLengthLanguage[S]) StatesAreEquivalent(m *sfa.SFA[S], q, qPrime int) bool {
	a, err := fl.boundedLanguage(m, q)
	if err != nil {
		return false
	}
	b, err := fl.boundedLanguage(m, qPrime)
	if err != nil {
		return false
	}
	eq, _, err := sfa.Equivalent(a, b)
	return err == nil && eq
}

// Collapse quotients M by bounded-language equality, precomputing each
// state's bounded language once up front and then comparing it with
// sfa.Equivalent against the bounded language of each class representative.
func (fl *FiniteLengthLanguage[S]) Collapse(m *sfa.SFA[S]) (*sfa.SFA[S], error) {
	langs := make(map[int]*sfa.SFA[S], len(m.States()))
	for _, q := range m.States() {
		lang, err := fl.boundedLanguage(m, q)
		if err != nil {
			return nil, err
		}
		langs[q] = lang
	}

	rep := make(map[int]int, len(m.States())) // state -> representative
	var reps []int
	for _, q := range m.States() {
		joined := false
		for _, r := range reps {
			eq, _, err := sfa.Equivalent(langs[q], langs[r])
			if err != nil {
				return nil, err
			}
			if eq {
				rep[q] = r
				joined = true
				break
			}
		}
		if !joined {
			reps = append(reps, q)
			rep[q] = q
		}
	}

	return sfa.Collapse(m, func(_ *sfa.SFA[S], a, b int) bool {
		return rep[a] == rep[b]
	})
}

// Refine grows the bound n by the configured increment (spec §4.5.2). The
// new bound is guaranteed to be strictly larger, which alone need not make
// X ⊄ Collapse(M) — the driver re-checks and calls Refine again if it
// doesn't — but it always makes the equivalence strictly finer or equal,
// which is what monotonicity requires.
func (fl *FiniteLengthLanguage[S]) Refine(m, x *sfa.SFA[S]) error {
	var delta int
	switch fl.increment {
	case IncrementSizeM:
		delta = len(m.States())
	case IncrementSizeX:
		delta = len(x.States())
	default:
		delta = 1
	}
	if delta < 1 {
		delta = 1
	}
	if fl.halved {
		delta = delta/2 + delta%2
	}
	fl.bound += delta
	return nil
}
