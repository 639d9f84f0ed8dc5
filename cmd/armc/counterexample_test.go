package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/armc"
	"github.com/matejchalk/armc/internal/config"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
)

func counterexampleTestAutomaton(alg *predicate.Algebra[string]) *sfa.SFA[string] {
	b := sfa.NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func Test_AutomataExt_matchesFormat(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(".timbuk", automataExt(config.Timbuk))
	assert.Equal(".fsa", automataExt(config.FSA))
	assert.Equal(".fsm", automataExt(config.FSM))
	assert.Equal(".dot", automataExt(config.DOT))
}

func Test_WriteCounterexample_nilCounterexampleIsNoop(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(t.TempDir(), "cex")
	result := &armc.Result[string]{Outcome: armc.Holds}

	if !assert.NoError(writeCounterexample(dir, result, config.Defaults(), "run-1")) {
		return
	}
	_, err := os.Stat(dir)
	assert.True(os.IsNotExist(err), "no directory should be created when there's no counterexample")
}

func Test_WriteCounterexample_alwaysWritesRunID(t *testing.T) {
	assert := assert.New(t)

	alg := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a"))
	m := counterexampleTestAutomaton(alg)

	dir := filepath.Join(t.TempDir(), "cex")
	result := &armc.Result[string]{
		Outcome: armc.Violated,
		Counterexample: &armc.Counterexample[string]{
			Configs: []armc.ConfigPair[string]{{M: m}},
			X:       []*sfa.SFA[string]{m},
		},
	}

	cfg := config.Defaults()
	cfg.PrintAutomata = false

	if !assert.NoError(writeCounterexample(dir, result, cfg, "run-2")) {
		return
	}
	got, err := os.ReadFile(filepath.Join(dir, "run-id.txt"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("run-2\n", string(got))

	entries, err := os.ReadDir(dir)
	if !assert.NoError(err) {
		return
	}
	for _, e := range entries {
		assert.NotContains(e.Name(), "step-", "PRINT_AUTOMATA=NO must suppress per-step dumps")
	}
}

func Test_WriteCounterexample_printAutomataWritesStepDirs(t *testing.T) {
	assert := assert.New(t)

	alg := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a"))
	m := counterexampleTestAutomaton(alg)

	dir := filepath.Join(t.TempDir(), "cex")
	result := &armc.Result[string]{
		Outcome: armc.Violated,
		Counterexample: &armc.Counterexample[string]{
			Configs: []armc.ConfigPair[string]{{M: m, MAlpha: m}},
			X:       []*sfa.SFA[string]{m},
		},
	}

	cfg := config.Defaults()
	cfg.PrintAutomata = true
	cfg.AutomataFormat = config.Timbuk

	if !assert.NoError(writeCounterexample(dir, result, cfg, "run-3")) {
		return
	}

	step0 := filepath.Join(dir, "step-0")
	for _, base := range []string{"M.timbuk", "M_alpha.timbuk", "X.timbuk"} {
		_, err := os.Stat(filepath.Join(step0, base))
		assert.NoError(err, "expected %s to exist", base)
	}
}
