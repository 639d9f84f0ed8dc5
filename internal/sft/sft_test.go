package sft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
)

func testLabelAlgebra(symbols ...string) *label.Algebra[string] {
	preds := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, symbols...))
	return label.NewAlgebra(preds)
}

// identityOnA builds a one-state transducer that reads/writes any number of
// "a"s unchanged: q0 --@in{a}--> q0, q0 final.
func identityOnA(alg *label.Algebra[string]) *SFT[string] {
	b := NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	b.AddMove(0, label.NewIdentity(alg.Preds().In("a")), 0)
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// rewriteAtoB builds a transducer mapping every "a" to "b": q0 --a/b--> q0.
func rewriteAtoB(alg *label.Algebra[string]) *SFT[string] {
	b := NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	a := alg.Preds().In("a")
	bp := alg.Preds().In("b")
	b.AddMove(0, label.NewPair(&a, &bp), 0)
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// rewriteBtoC builds a transducer mapping every "b" to "c": q0 --b/c--> q0.
func rewriteBtoC(alg *label.Algebra[string]) *SFT[string] {
	b := NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	bp := alg.Preds().In("b")
	c := alg.Preds().In("c")
	b.AddMove(0, label.NewPair(&bp, &c), 0)
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// rewriteBtoA builds a transducer mapping every "b" to "a": q0 --b/a--> q0.
func rewriteBtoA(alg *label.Algebra[string]) *SFT[string] {
	b := NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	bp := alg.Preds().In("b")
	a := alg.Preds().In("a")
	b.AddMove(0, label.NewPair(&bp, &a), 0)
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func aaaAutomaton(alg *predicate.Algebra[string]) *sfa.SFA[string] {
	b := sfa.NewBuilder(alg)
	b.AddState(0, false).AddState(1, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 0)
	b.AddMove(0, alg.In("a"), 1)
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func Test_Build_rejectsNoInitial(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a")

	_, err := NewBuilder(alg).AddState(0, true).Build()

	assert.Error(err)
}

func Test_Apply_identityPreservesLanguage(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")

	m := aaaAutomaton(alg.Preds())
	out, err := Apply(identityOnA(alg), m)
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := sfa.Equivalent(m, out)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv)
}

func Test_Apply_rewritesSymbols(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")

	m := aaaAutomaton(alg.Preds())
	out, err := Apply(rewriteAtoB(alg), m)
	if !assert.NoError(err) {
		return
	}

	// out should accept b+, the rewritten image of m's a+
	expectedBuilder := sfa.NewBuilder(alg.Preds())
	expectedBuilder.AddState(0, false).AddState(1, true).SetInitial(0)
	expectedBuilder.AddMove(0, alg.Preds().In("b"), 0)
	expectedBuilder.AddMove(0, alg.Preds().In("b"), 1)
	expected, err := expectedBuilder.Build()
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := sfa.Equivalent(expected, out)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv)
}

func Test_Invert_swapsInputOutput(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")

	t1 := rewriteAtoB(alg)
	inv, err := Invert(t1)
	if !assert.NoError(err) {
		return
	}

	mv := inv.Moves(inv.Initial())[0]
	assert.True(alg.Preds().Equivalent(*mv.Label.In(), alg.Preds().In("b")))
	assert.True(alg.Preds().Equivalent(*mv.Label.Out(), alg.Preds().In("a")))
}

func Test_Domain_projectsInputSide(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")

	dom, err := Domain(rewriteAtoB(alg))
	if !assert.NoError(err) {
		return
	}

	accepted := sfa.NewBuilder(alg.Preds())
	accepted.AddState(0, true).SetInitial(0)
	accepted.AddMove(0, alg.Preds().In("a"), 0)
	expected, err := accepted.Build()
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := sfa.Equivalent(expected, dom)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv)
}

func Test_Range_projectsOutputSide(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")

	rng, err := Range(rewriteAtoB(alg))
	if !assert.NoError(err) {
		return
	}

	accepted := sfa.NewBuilder(alg.Preds())
	accepted.AddState(0, true).SetInitial(0)
	accepted.AddMove(0, alg.Preds().In("b"), 0)
	expected, err := accepted.Build()
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := sfa.Equivalent(expected, rng)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv)
}

func Test_Compose_chainsTwoRewrites(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b", "c")

	composed, err := Compose(rewriteAtoB(alg), rewriteBtoC(alg))
	if !assert.NoError(err) {
		return
	}

	mv := composed.Moves(composed.Initial())[0]
	assert.True(alg.Preds().Equivalent(*mv.Label.In(), alg.Preds().In("a")))
	assert.True(alg.Preds().Equivalent(*mv.Label.Out(), alg.Preds().In("c")))

	m := aaaAutomaton(alg.Preds())
	out, err := Apply(composed, m)
	if !assert.NoError(err) {
		return
	}
	expectedBuilder := sfa.NewBuilder(alg.Preds())
	expectedBuilder.AddState(0, false).AddState(1, true).SetInitial(0)
	expectedBuilder.AddMove(0, alg.Preds().In("c"), 0)
	expectedBuilder.AddMove(0, alg.Preds().In("c"), 1)
	expected, err := expectedBuilder.Build()
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := sfa.Equivalent(expected, out)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv, "a-then-b-to-c composition should rewrite a+ to c+")
}

func Test_Compose_dropsUnsatisfiableSeam(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b", "c")

	// rewriteAtoB's own output ("b") can never satisfy its own input ("a"),
	// so composing it with itself leaves the seam unsatisfiable.
	composed, err := Compose(rewriteAtoB(alg), rewriteAtoB(alg))
	if !assert.NoError(err) {
		return
	}
	// The seam is unsatisfiable for every reachable pair, so only the start
	// state (final, since both operands' initial states are final) survives
	// with no outgoing moves.
	assert.Empty(composed.Moves(composed.Initial()))
}

func Test_Union_acceptsEitherOperandsDomain(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")

	t1 := rewriteAtoB(alg)
	t2 := rewriteBtoA(alg)

	u, err := Union(t1, t2)
	if !assert.NoError(err) {
		return
	}

	dom, err := Domain(u)
	if !assert.NoError(err) {
		return
	}

	dom1, err := Domain(t1)
	if !assert.NoError(err) {
		return
	}
	dom2, err := Domain(t2)
	if !assert.NoError(err) {
		return
	}
	expected, err := sfa.Union(dom1, dom2)
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := sfa.Equivalent(expected, dom)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv, "Union's domain must be the union of each operand's domain")
}

func Test_Union_rejectsZeroOperands(t *testing.T) {
	assert := assert.New(t)

	_, err := Union[string]()
	assert.Error(err)
}
