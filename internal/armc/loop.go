package armc

import (
	"github.com/matejchalk/armc/internal/abstraction"
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
)

// runOuterLoop is the CEGAR outer loop of spec §4.6: each iteration runs one
// VerifyStep (inner forward phase, then — on a non-empty intersection with
// Bad — a replay/spuriousness phase and a decision).
func runOuterLoop[S comparable](init, bad *sfa.SFA[S], tau, tauInv *sft.SFT[S], strat abstraction.Strategy[S], cfg Config) (*Result[S], error) {
	loops := 0
	for {
		if cfg.MaxLoops > 0 && loops >= cfg.MaxLoops {
			return nil, armcerr.New(armcerr.KindARMC, "timeout: exceeded configured outer-loop budget")
		}

		outcome, cex, undecided, err := verifyStep(init, bad, tau, tauInv, strat, cfg.MaxLoops)
		if err != nil {
			return nil, err
		}
		if !undecided {
			return &Result[S]{Outcome: outcome, Counterexample: cex, Loops: loops + 1}, nil
		}
		loops++
	}
}

// verifyStep runs one CEGAR iteration: the inner forward phase builds the
// sequence S until either a fixed point is reached (HOLDS) or the
// abstraction intersects Bad; in the latter case the replay phase walks S
// backward to decide whether the witness is real (VIOLATED) or spurious
// (Refine and return undecided so the outer loop iterates).
func verifyStep[S comparable](init, bad *sfa.SFA[S], tau, tauInv *sft.SFT[S], strat abstraction.Strategy[S], maxLoops int) (Outcome, *Counterexample[S], bool, error) {
	var seq []ConfigPair[S]
	m := init

	var x *sfa.SFA[S]

	for i := 0; ; i++ {
		if maxLoops > 0 && i > maxLoops*8 {
			return 0, nil, false, armcerr.New(armcerr.KindARMC, "timeout: inner loop exceeded its step budget")
		}

		if i > 0 {
			empty, err := sfa.ProductIsEmpty(m, bad)
			if err != nil {
				return 0, nil, false, err
			}
			if !empty {
				inter, err := sfa.Product(m, bad)
				if err != nil {
					return 0, nil, false, err
				}
				det, err := sfa.Determinize(inter)
				if err != nil {
					return 0, nil, false, err
				}
				x, err = sfa.Minimize(det)
				if err != nil {
					return 0, nil, false, err
				}
				break
			}
		}

		mAlphaRaw, err := strat.Collapse(m)
		if err != nil {
			return 0, nil, false, err
		}
		mAlphaDet, err := sfa.Determinize(mAlphaRaw)
		if err != nil {
			return 0, nil, false, err
		}
		mAlpha, err := sfa.Minimize(mAlphaDet)
		if err != nil {
			return 0, nil, false, err
		}

		if i > 0 {
			prevAlpha := seq[len(seq)-1].MAlpha
			eq, _, err := sfa.Equivalent(mAlpha, prevAlpha)
			if err != nil {
				return 0, nil, false, err
			}
			if eq {
				return Holds, nil, false, nil
			}
		}

		seq = append(seq, ConfigPair[S]{M: m, MAlpha: mAlpha})

		applied, err := sft.Apply(tau, mAlpha)
		if err != nil {
			return 0, nil, false, err
		}
		appliedDet, err := sfa.Determinize(applied)
		if err != nil {
			return 0, nil, false, err
		}
		m, err = sfa.Minimize(appliedDet)
		if err != nil {
			return 0, nil, false, err
		}
	}

	return replay(seq, m, x, tauInv, strat)
}

// replay walks S from top (most recent, index ell-1) to bottom (index 0),
// pulling X back through τ⁻¹ at each step and checking against M. It stops
// as soon as it finds a step at which X no longer intersects M (spurious);
// otherwise a real counterexample reached all the way to Init (spec §4.6).
func replay[S comparable](seq []ConfigPair[S], mEll, x *sfa.SFA[S], tauInv *sft.SFT[S], strat abstraction.Strategy[S]) (Outcome, *Counterexample[S], bool, error) {
	xs := make([]*sfa.SFA[S], 0, len(seq)+1)
	xs = append(xs, x)

	spuriousAt := -1
	var spuriousM *sfa.SFA[S]

	for i := len(seq) - 1; i >= 0; i-- {
		pulled, err := sft.Apply(tauInv, x)
		if err != nil {
			return 0, nil, false, err
		}
		inter, err := sfa.Product(pulled, seq[i].MAlpha)
		if err != nil {
			return 0, nil, false, err
		}
		det, err := sfa.Determinize(inter)
		if err != nil {
			return 0, nil, false, err
		}
		x, err = sfa.Minimize(det)
		if err != nil {
			return 0, nil, false, err
		}
		xs = append(xs, x)

		empty, err := sfa.ProductIsEmpty(x, seq[i].M)
		if err != nil {
			return 0, nil, false, err
		}
		if empty {
			spuriousAt = i
			spuriousM = seq[i].M
			break
		}
	}

	if spuriousAt >= 0 {
		if err := strat.Refine(spuriousM, x); err != nil {
			return 0, nil, false, err
		}
		return 0, nil, true, nil
	}

	configs := make([]ConfigPair[S], 0, len(seq)+1)
	configs = append(configs, seq...)
	configs = append(configs, ConfigPair[S]{M: mEll})

	// xs was built from ell down to 0 (most recent pull first); spec's
	// ordering writes Xi indices from ℓ down to 0, which is exactly xs'
	// current order, so no reversal is needed.
	cex := &Counterexample[S]{Configs: configs, X: xs}
	return Violated, cex, false, nil
}
