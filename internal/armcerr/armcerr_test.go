package armcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_formatsKindAndMessage(t *testing.T) {
	assert := assert.New(t)

	err := New(KindConfig, "bad value")

	assert.Equal("ConfigError: bad value", err.Error())
	assert.Equal(KindConfig, err.Kind())
}

func Test_Wrap_includesCause(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("disk full")
	err := Wrap(KindSFA, cause, "writing automaton")

	assert.Equal("SFAError: writing automaton: disk full", err.Error())
	assert.Same(cause, errors.Unwrap(err))
}

func Test_Newf_formatsArgs(t *testing.T) {
	assert := assert.New(t)

	err := Newf(KindParser, "line %d: unexpected %q", 3, "foo")

	assert.Equal(`ParserError: line 3: unexpected "foo"`, err.Error())
}

func Test_Is_matchesOutermostKindOnly(t *testing.T) {
	assert := assert.New(t)

	inner := New(KindARMC, "timeout")
	outer := Wrap(KindConfig, inner, "loading config")

	assert.True(Is(outer, KindConfig))
	assert.False(Is(outer, KindARMC), "Is checks the outermost Error's own kind, not a wrapped *Error's kind")
}

func Test_Is_falseForPlainError(t *testing.T) {
	assert := assert.New(t)

	assert.False(Is(errors.New("plain"), KindConfig))
}
