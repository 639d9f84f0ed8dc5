// Package armc implements the CEGAR driver of spec §4.6: the outer loop
// that computes successive overapproximations of reachable configurations
// via an internal/abstraction.Strategy, sequencing internal/sfa and
// internal/sft operations to prove or refute post*(Init) ∩ Bad = ∅.
package armc

import (
	"github.com/matejchalk/armc/internal/abstraction"
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
)

// Outcome is the driver's verdict.
type Outcome int

const (
	// Holds means post*(Init) ∩ Bad = ∅ was proven (a fixed point was
	// reached).
	Holds Outcome = iota
	// Violated means a real counterexample trace was found.
	Violated
)

func (o Outcome) String() string {
	if o == Holds {
		return "HOLDS"
	}
	return "VIOLATED"
}

// ConfigPair is one entry of the sequence S = [(M0, M0^α), (M1, M1^α), …]. A
// nil MAlpha marks the trailing pair (Mℓ, _) of a counterexample (spec
// §4.6).
type ConfigPair[S comparable] struct {
	M      *sfa.SFA[S]
	MAlpha *sfa.SFA[S]
}

// Counterexample is the witness trace of a VIOLATED result: the sequence of
// configurations from Init to Bad, paired with the accumulated intersection
// witnesses (spec glossary "Counterexample"). Configs runs from step 0 to
// step ℓ; X holds Xℓ first and X0 last, in the order replay produced them.
type Counterexample[S comparable] struct {
	Configs []ConfigPair[S]
	X       []*sfa.SFA[S]
}

// Result is the outcome of Verify.
type Result[S comparable] struct {
	Outcome        Outcome
	Counterexample *Counterexample[S]
	Loops          int
}

// Config configures one Verify run.
type Config struct {
	// Direction selects forward (Init → Bad) or backward (Bad → Init, with
	// τ replaced by τ⁻¹) analysis (spec §4.6 setup step 5).
	Direction abstraction.Direction
	// MaxLoops bounds the outer CEGAR loop; exceeding it is a timeout
	// failure (spec §4.6 "Termination", §5).
	MaxLoops int
}

// Verify runs the CEGAR loop of spec §4.6 to decide post*(Init) ∩ Bad = ∅.
func Verify[S comparable](
	registry *predicate.Registry[S],
	init, bad *sfa.SFA[S],
	taus []*sft.SFT[S],
	strat abstraction.Strategy[S],
	cfg Config,
) (*Result[S], error) {
	sharedAlg, sharedLabelAlg, err := mergeAlgebras(registry, init, bad, taus)
	if err != nil {
		return nil, err
	}

	init = rebindSFA(sharedAlg, init)
	bad = rebindSFA(sharedAlg, bad)
	rebound := make([]*sft.SFT[S], len(taus))
	for i, t := range taus {
		rebound[i] = rebindSFT(sharedLabelAlg, t)
	}

	tau, err := sft.Union(rebound...)
	if err != nil {
		return nil, armcerr.Wrap(armcerr.KindARMC, err, "building transducer union")
	}
	tauInv, err := sft.Invert(tau)
	if err != nil {
		return nil, armcerr.Wrap(armcerr.KindARMC, err, "inverting transducer union")
	}

	if cfg.Direction == abstraction.Backward {
		init, bad = bad, init
		tau, tauInv = tauInv, tau
	}

	emptyAtStart, err := sfa.ProductIsEmpty(init, bad)
	if err != nil {
		return nil, err
	}
	if !emptyAtStart {
		return nil, armcerr.New(armcerr.KindARMC, "initial property violation: Init and Bad already intersect")
	}

	return runOuterLoop(init, bad, tau, tauInv, strat, cfg)
}

func mergeAlgebras[S comparable](registry *predicate.Registry[S], init, bad *sfa.SFA[S], taus []*sft.SFT[S]) (*predicate.Algebra[S], *label.Algebra[S], error) {
	merged := init.Algebra().Sigma().Union(bad.Algebra().Sigma())
	for _, t := range taus {
		merged = merged.Union(t.Algebra().Preds().Sigma())
	}
	// the union keeps init's alphabet's ordering function; fine for display
	// purposes, order carries no denotational meaning (spec §3).
	sharedAlg := registry.For(merged)
	return sharedAlg, label.NewAlgebra(sharedAlg), nil
}

// rebindSFA re-targets m at a new predicate algebra. Predicate values carry
// no algebra pointer of their own (spec §4.1) — the Algebra they're
// evaluated against determines their denotation — so copying m's states and
// moves unchanged under the new algebra is all "rebind" requires.
func rebindSFA[S comparable](alg *predicate.Algebra[S], m *sfa.SFA[S]) *sfa.SFA[S] {
	b := sfa.NewBuilder[S](alg)
	b.SetInitial(m.Initial())
	for _, q := range m.States() {
		b.AddState(q, m.IsFinal(q))
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
			} else {
				b.AddMove(q, *mv.Pred, mv.Target)
			}
		}
	}
	rebuilt, err := b.Build()
	if err != nil {
		// states/moves are copied verbatim from an already-valid automaton,
		// so Build cannot fail here.
		panic(err)
	}
	return rebuilt
}

func rebindSFT[S comparable](alg *label.Algebra[S], t *sft.SFT[S]) *sft.SFT[S] {
	b := sft.NewBuilder[S](alg)
	b.SetInitial(t.Initial())
	for _, q := range t.States() {
		b.AddState(q, t.IsFinal(q))
		for _, mv := range t.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(q, mv.Target)
			} else {
				b.AddMove(q, *mv.Label, mv.Target)
			}
		}
	}
	rebuilt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rebuilt
}
