package sfa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/predicate"
)

func testAlgebra(symbols ...string) *predicate.Algebra[string] {
	return predicate.NewAlgebra(alphabet.New(alphabet.StringLess, symbols...))
}

// buildAStarB builds an automaton for a*b over {a,b}: q0 --a--> q0,
// q0 --b--> q1 (final).
func buildAStarB(alg *predicate.Algebra[string]) *SFA[string] {
	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 0)
	b.AddMove(0, alg.In("b"), 1)
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// buildB builds an automaton accepting just "b".
func buildB(alg *predicate.Algebra[string]) *SFA[string] {
	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, true).SetInitial(0)
	b.AddMove(0, alg.In("b"), 1)
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func Test_Build_rejectsNoInitial(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a")

	_, err := NewBuilder(alg).AddState(0, true).Build()

	assert.Error(err)
}

func Test_Build_trimsDeadStates(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, true).AddState(2, false).SetInitial(0)
	b.AddMove(0, alg.In("a"), 1)
	b.AddMove(0, alg.In("b"), 2) // state 2 is a dead end, never final
	m, err := b.Build()

	if !assert.NoError(err) {
		return
	}
	assert.NotContains(m.States(), 2)
}

func Test_Emptiness(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	assert.False(Emptiness(buildAStarB(alg)))

	empty := NewBuilder(alg)
	empty.AddState(0, false).SetInitial(0)
	m, err := empty.Build()
	if !assert.NoError(err) {
		return
	}
	assert.True(Emptiness(m))
}

func Test_ProductIsEmpty(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	aStarB := buildAStarB(alg)
	justB := buildB(alg)

	empty, err := ProductIsEmpty(aStarB, justB)
	if !assert.NoError(err) {
		return
	}
	assert.False(empty, "a*b and b share the word \"b\"")
}

func Test_Union(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b", "c")

	m1 := buildB(alg)

	bldr := NewBuilder(alg)
	bldr.AddState(0, false).AddState(1, true).SetInitial(0)
	bldr.AddMove(0, alg.In("c"), 1)
	m2, err := bldr.Build()
	if !assert.NoError(err) {
		return
	}

	u, err := Union(m1, m2)
	if !assert.NoError(err) {
		return
	}

	emptyWithB, err := ProductIsEmpty(u, buildB(alg))
	assert.NoError(err)
	assert.False(emptyWithB)
}

func Test_Complement_rejectsWhatOriginalAccepts(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	m := buildAStarB(alg)
	comp, err := Complement(m)
	if !assert.NoError(err) {
		return
	}

	empty, err := ProductIsEmpty(m, comp)
	if !assert.NoError(err) {
		return
	}
	assert.True(empty, "an automaton and its complement share no accepted word")
}

func Test_Determinize_preservesLanguage(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, false).AddState(2, true).SetInitial(0)
	b.AddEpsilon(0, 1)
	b.AddMove(1, alg.In("a"), 1)
	b.AddMove(1, alg.In("b"), 2)
	nfa, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	dfa, err := Determinize(nfa)
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := Equivalent(nfa, dfa)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv)
}

func Test_MakeTotal_addsDeadStateCoveringRemainder(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	m := buildB(alg)
	total, err := MakeTotal(m)
	if !assert.NoError(err) {
		return
	}

	for _, q := range total.States() {
		union := alg.False()
		for _, mv := range total.Moves(q) {
			union = alg.Or(union, *mv.Pred)
		}
		assert.True(alg.Equivalent(union, alg.True()), "every state of a totalized automaton must have an out-edge covering all of Sigma")
	}

	equiv, _, err := Equivalent(m, total)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv, "MakeTotal must not change the accepted language")
}

func Test_Minimize_preservesLanguage(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, false).AddState(2, true).AddState(3, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 1)
	b.AddMove(1, alg.In("b"), 2)
	b.AddMove(0, alg.In("b"), 3)
	b.AddMove(3, alg.In("a"), 2)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	min, err := Minimize(m)
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := Equivalent(m, min)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv)
	assert.LessOrEqual(len(min.States()), len(m.States()))
}

func Test_Difference_excludesSecondOperand(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	aStarB := buildAStarB(alg)
	justB := buildB(alg)

	diff, err := Difference(aStarB, justB)
	if !assert.NoError(err) {
		return
	}

	// diff should still accept "ab" (in a*b, not in just-b)...
	ab := NewBuilder(alg)
	ab.AddState(0, false).AddState(1, false).AddState(2, true).SetInitial(0)
	ab.AddMove(0, alg.In("a"), 1)
	ab.AddMove(1, alg.In("b"), 2)
	abM, err := ab.Build()
	if !assert.NoError(err) {
		return
	}
	empty, err := ProductIsEmpty(diff, abM)
	if !assert.NoError(err) {
		return
	}
	assert.False(empty, "a*b minus b should still accept \"ab\"")

	// ...but must not accept "b" any more, since that's exactly justB.
	emptyWithB, err := ProductIsEmpty(diff, justB)
	if !assert.NoError(err) {
		return
	}
	assert.True(emptyWithB, "a*b minus b must not accept \"b\"")
}

func Test_Reverse_reversesLanguage(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	// ab only.
	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, false).AddState(2, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 1)
	b.AddMove(1, alg.In("b"), 2)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	rev, err := Reverse(m)
	if !assert.NoError(err) {
		return
	}

	// ba only.
	ba := NewBuilder(alg)
	ba.AddState(0, false).AddState(1, false).AddState(2, true).SetInitial(0)
	ba.AddMove(0, alg.In("b"), 1)
	ba.AddMove(1, alg.In("a"), 2)
	baM, err := ba.Build()
	if !assert.NoError(err) {
		return
	}

	equiv, _, err := Equivalent(rev, baM)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv, "Reverse(ab) must accept exactly \"ba\"")
}

func Test_PrefixLanguage_acceptsEveryPrefix(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	// ab only.
	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, false).AddState(2, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 1)
	b.AddMove(1, alg.In("b"), 2)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	prefixes, err := PrefixLanguage(m)
	if !assert.NoError(err) {
		return
	}

	// empty word and "a" are prefixes of "ab"; both should now be accepted.
	emptyWord := NewBuilder(alg)
	emptyWord.AddState(0, true).SetInitial(0)
	eps, err := emptyWord.Build()
	if !assert.NoError(err) {
		return
	}
	empty, err := ProductIsEmpty(prefixes, eps)
	if !assert.NoError(err) {
		return
	}
	assert.False(empty, "the empty word is a prefix of every word")

	justA := NewBuilder(alg)
	justA.AddState(0, false).AddState(1, true).SetInitial(0)
	justA.AddMove(0, alg.In("a"), 1)
	aM, err := justA.Build()
	if !assert.NoError(err) {
		return
	}
	emptyWithA, err := ProductIsEmpty(prefixes, aM)
	if !assert.NoError(err) {
		return
	}
	assert.False(emptyWithA, "\"a\" is a prefix of \"ab\"")
}

func Test_SuffixLanguage_acceptsEverySuffix(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	// ab only.
	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, false).AddState(2, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 1)
	b.AddMove(1, alg.In("b"), 2)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	suffixes, err := SuffixLanguage(m)
	if !assert.NoError(err) {
		return
	}

	justB := buildB(alg)
	empty, err := ProductIsEmpty(suffixes, justB)
	if !assert.NoError(err) {
		return
	}
	assert.False(empty, "\"b\" is a suffix of \"ab\"")
}

func Test_Collapse_mergesStatesJoinedByEquivalence(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a")

	b := NewBuilder(alg)
	b.AddState(0, false).AddState(1, true).AddState(2, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 1)
	b.AddMove(0, alg.In("a"), 2)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	collapsed, err := Collapse(m, func(_ *SFA[string], q, qPrime int) bool {
		return m.IsFinal(q) && m.IsFinal(qPrime)
	})
	if !assert.NoError(err) {
		return
	}
	assert.Len(collapsed.States(), 2, "the two final states should merge into one")

	equiv, _, err := Equivalent(m, collapsed)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv, "merging equivalent states must not change the language")
}

func Test_Normalize_movesInitialToOffset(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a")

	b := NewBuilder(alg)
	b.AddState(5, false).AddState(9, true).SetInitial(5)
	b.AddMove(5, alg.In("a"), 9)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	norm, err := Normalize(m, 0)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, norm.Initial())

	equiv, _, err := Equivalent(m, norm)
	if !assert.NoError(err) {
		return
	}
	assert.True(equiv, "renumbering states must not change the language")
}

func Test_Equivalent_detectsDifference(t *testing.T) {
	assert := assert.New(t)
	alg := testAlgebra("a", "b")

	aStarB := buildAStarB(alg)
	justB := buildB(alg)

	equiv, witness, err := Equivalent(aStarB, justB)
	if !assert.NoError(err) {
		return
	}
	assert.False(equiv)
	assert.NotNil(witness)
}
