package label

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/predicate"
)

func testLabelAlgebra(symbols ...string) *Algebra[string] {
	preds := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, symbols...))
	return NewAlgebra(preds)
}

func Test_Identity_inOutSame(t *testing.T) {
	assert := assert.New(t)
	preds := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a", "b"))

	p := preds.In("a")
	l := NewIdentity(p)

	assert.Equal(Identity, l.Tag())
	assert.Same(l.In(), l.Out())
	assert.False(l.EpsilonIn())
	assert.False(l.EpsilonOut())
}

func Test_Pair_epsilonSides(t *testing.T) {
	assert := assert.New(t)
	preds := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a", "b"))

	p := preds.In("a")

	insertion := NewPair[string](nil, &p)
	assert.True(insertion.EpsilonIn())
	assert.False(insertion.EpsilonOut())

	deletion := NewPair(&p, nil)
	assert.False(deletion.EpsilonIn())
	assert.True(deletion.EpsilonOut())
}

func Test_Combine_identitySeamConjunction(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b", "c")
	preds := alg.Preds()

	ab := preds.In("a", "b")
	bc := preds.In("b", "c")

	l1 := NewIdentity(ab)
	l2 := NewIdentity(bc)

	combined, ok := alg.Combine(l1, l2)
	assert.True(ok)
	assert.Equal(Identity, combined.Tag())
	assert.True(preds.Equivalent(*combined.In(), preds.In("b")))
}

func Test_Combine_pairKeepsOriginalEdges(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b", "c")
	preds := alg.Preds()

	ab := preds.In("a", "b")
	bc := preds.In("b", "c")

	l1 := NewPair(&ab, &ab)
	l2 := NewPair(&bc, &bc)

	combined, ok := alg.Combine(l1, l2)
	assert.True(ok)
	assert.True(preds.Equivalent(*combined.In(), ab))
	assert.True(preds.Equivalent(*combined.Out(), bc))
}

func Test_Combine_unsatisfiableSeam(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b", "c")
	preds := alg.Preds()

	a := preds.In("a")
	c := preds.In("c")

	l1 := NewPair(&a, &a)
	l2 := NewPair(&c, &c)

	_, ok := alg.Combine(l1, l2)
	assert.False(ok)
}

func Test_Combine_propagatesEpsilon(t *testing.T) {
	assert := assert.New(t)
	alg := testLabelAlgebra("a", "b")
	preds := alg.Preds()

	a := preds.In("a")
	deletion := NewPair(&a, nil)
	identity := NewIdentity(preds.In("b"))

	combined, ok := alg.Combine(deletion, identity)
	assert.True(ok)
	assert.True(preds.Equivalent(*combined.In(), a))
	assert.True(preds.Equivalent(*combined.Out(), preds.In("b")))
}

func Test_String_identityAndPair(t *testing.T) {
	assert := assert.New(t)
	preds := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a"))

	p := preds.In("a")
	assert.Equal("@in{a}/@in{a}", NewIdentity(p).String())

	pair := NewPair(&p, nil)
	assert.Equal("in{a}/ε", pair.String())
}
