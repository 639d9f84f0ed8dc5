package ioformats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/sfa"
)

func Test_ParseSFATimbuk_basic(t *testing.T) {
	assert := assert.New(t)

	input := `Name: example
Initial: 0
Final: 1
0 a -> 1
1 in{a,b} -> 1
1 not_in{a} -> 0
0 eps -> 1
`
	p, err := ParseSFATimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("example", p.Name)
	assert.Equal(0, p.Initial)
	assert.Equal([]int{1}, p.Finals)
	if !assert.Len(p.Moves, 4) {
		return
	}
	assert.Equal([]string{"a"}, p.Moves[0].symbols)
	assert.False(p.Moves[0].notIn)
	assert.Equal([]string{"a", "b"}, p.Moves[1].symbols)
	assert.True(p.Moves[2].notIn)
	assert.True(p.Moves[3].epsilon)
}

func Test_ParseSFATimbuk_namedStatesGetStableIds(t *testing.T) {
	assert := assert.New(t)

	input := `Initial: q0
Final: q1
q0 a -> q1
q1 b -> q0
`
	p, err := ParseSFATimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	q0 := p.Initial
	q1 := p.Finals[0]
	assert.NotEqual(q0, q1)
	assert.Equal(q0, p.Moves[1].to, "q0 should resolve to the same id every time it's referenced")
	assert.Equal(q1, p.Moves[0].to)
}

func Test_ParseSFATimbuk_missingInitialIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseSFATimbuk(strings.NewReader("Final: 0\n0 a -> 0\n"))
	assert.Error(err)
}

func Test_ParseSFATimbuk_malformedTransitionIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseSFATimbuk(strings.NewReader("Initial: 0\nthis is not a transition\n"))
	assert.Error(err)
}

func Test_ParseSFATimbuk_skipsCommentsAndBlankLines(t *testing.T) {
	assert := assert.New(t)

	input := `# a comment
Initial: 0

Final: 0
`
	p, err := ParseSFATimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, p.Initial)
	assert.Equal([]int{0}, p.Finals)
}

func Test_BuildSFA_fromParsed(t *testing.T) {
	assert := assert.New(t)

	input := `Initial: 0
Final: 1
0 a -> 1
1 in{a,b} -> 1
`
	p, err := ParseSFATimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	m, err := BuildSFA(p)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, m.Initial())
	assert.ElementsMatch([]int{1}, m.Finals())
	assert.Len(m.States(), 2)
}

func Test_WriteSFATimbuk_roundTrips(t *testing.T) {
	assert := assert.New(t)

	input := `Initial: 0
Final: 1
0 a -> 1
1 in{a,b} -> 1
`
	p, err := ParseSFATimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	m, err := BuildSFA(p)
	if !assert.NoError(err) {
		return
	}

	var buf strings.Builder
	if !assert.NoError(WriteSFATimbuk(&buf, m)) {
		return
	}

	p2, err := ParseSFATimbuk(strings.NewReader(buf.String()))
	if !assert.NoError(err) {
		return
	}
	m2, err := BuildSFA(p2)
	if !assert.NoError(err) {
		return
	}

	equal, _, err := sfa.Equivalent(m, m2)
	if !assert.NoError(err) {
		return
	}
	assert.True(equal, "writing then re-reading an automaton must preserve its language")
}

func Test_ParseSFTTimbuk_identityAndPairLabels(t *testing.T) {
	assert := assert.New(t)

	input := `Initial: 0
Final: 1
0 @a -> 0
0 a/b -> 1
1 eps/c -> 1
1 d/eps -> 0
`
	p, err := ParseSFTTimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(p.Moves, 4) {
		return
	}
	assert.True(p.Moves[0].identity)
	assert.Equal([]string{"a"}, p.Moves[0].inSymbols)

	assert.False(p.Moves[1].identity)
	assert.Equal([]string{"a"}, p.Moves[1].inSymbols)
	assert.Equal([]string{"b"}, p.Moves[1].outSymbols)

	assert.True(p.Moves[2].epsilonIn)
	assert.Equal([]string{"c"}, p.Moves[2].outSymbols)

	assert.True(p.Moves[3].epsilonOut)
	assert.Equal([]string{"d"}, p.Moves[3].inSymbols)
}

func Test_ParseSFTTimbuk_malformedLabelIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseSFTTimbuk(strings.NewReader("Initial: 0\nFinal: 0\n0 nosep -> 0\n"))
	assert.Error(err)
}

func Test_BuildSFT_fromParsed(t *testing.T) {
	assert := assert.New(t)

	input := `Initial: 0
Final: 0
0 a/b -> 0
`
	p, err := ParseSFTTimbuk(strings.NewReader(input))
	if !assert.NoError(err) {
		return
	}
	tr, err := BuildSFT(p)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, tr.Initial())
	assert.Len(tr.States(), 1)
}
