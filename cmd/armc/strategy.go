package main

import (
	"github.com/matejchalk/armc/internal/abstraction"
	"github.com/matejchalk/armc/internal/config"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
)

// buildStrategy constructs the abstraction.Strategy named by cfg, seeding it
// from init/bad/taus as the Predicate-abstraction / Finite-length-abstraction
// key groups (spec §6) direct.
//
// registry must be the same Registry later passed to armc.Verify: a
// PredicateLanguage evaluates its Π-members' predicates against a fixed
// Algebra, and Verify independently derives its own shared Algebra for the
// same Init/Bad/taus union by looking it up in this registry, so asking for
// it here first guarantees both sides land on the identical cached Algebra
// (predicate.Registry.For is keyed by alphabet, not by call site).
func buildStrategy(registry *predicate.Registry[string], cfg config.Config, initAut, badAut *sfa.SFA[string], taus []*sft.SFT[string]) (abstraction.Strategy[string], error) {
	if cfg.PredicateLanguages {
		return buildPredicateLanguage(registry, cfg, initAut, badAut, taus)
	}
	return buildFiniteLengthLanguage(cfg, initAut, badAut), nil
}

func buildPredicateLanguage(registry *predicate.Registry[string], cfg config.Config, initAut, badAut *sfa.SFA[string], taus []*sft.SFT[string]) (abstraction.Strategy[string], error) {
	merged := initAut.Algebra().Sigma().Union(badAut.Algebra().Sigma())
	for _, t := range taus {
		merged = merged.Union(t.Algebra().Preds().Sigma())
	}
	sharedAlg := registry.For(merged)

	var seed []*sfa.SFA[string]
	switch cfg.InitialPredicate {
	case config.SeedInit:
		seed = append(seed, initAut)
	case config.SeedBad:
		seed = append(seed, badAut)
	case config.SeedBoth:
		seed = append(seed, initAut, badAut)
	}

	if cfg.IncludeGuard || cfg.IncludeAction {
		for _, t := range taus {
			if cfg.IncludeGuard {
				dom, err := sft.Domain(t)
				if err != nil {
					return nil, err
				}
				seed = append(seed, dom)
			}
			if cfg.IncludeAction {
				rng, err := sft.Range(t)
				if err != nil {
					return nil, err
				}
				seed = append(seed, rng)
			}
		}
	}

	return abstraction.NewPredicateLanguage[string](sharedAlg, cfg.LanguageDirection, cfg.Heuristic, seed...), nil
}

func buildFiniteLengthLanguage(cfg config.Config, initAut, badAut *sfa.SFA[string]) abstraction.Strategy[string] {
	seedBound := 1
	switch cfg.InitialBound {
	case config.BoundOne:
		seedBound = 1
	case config.BoundInit:
		seedBound = len(initAut.States())
	case config.BoundBad:
		seedBound = len(badAut.States())
	}
	if cfg.HalveInitialBound {
		seedBound /= 2
	}

	flavour := abstraction.StateLanguageFlavour
	if cfg.TraceLanguages {
		flavour = abstraction.TraceLanguageFlavour
	}

	return abstraction.NewFiniteLengthLanguage[string](
		cfg.LanguageDirection,
		flavour,
		cfg.BoundIncrement,
		cfg.HalveBoundIncrement,
		seedBound,
	)
}
