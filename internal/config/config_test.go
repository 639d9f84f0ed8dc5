package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/abstraction"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "armc.properties")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_Load_minimalPredicateConfig(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = init.timbuk
BAD_FILE_PATH = bad.timbuk
TAU_FILE_PATHS = tau.timbuk
PREDICATE_LANGUAGES = YES
FINITE_LENGTH_LANGUAGES = NO
`)

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("init.timbuk", cfg.InitFilePath)
	assert.True(cfg.PredicateLanguages)
	assert.False(cfg.FiniteLengthLanguages)
}

func Test_Load_rejectsBothAbstractionsSelected(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = init.timbuk
BAD_FILE_PATH = bad.timbuk
TAU_FILE_PATHS = tau.timbuk
PREDICATE_LANGUAGES = YES
FINITE_LENGTH_LANGUAGES = YES
`)

	_, err := Load(path)
	assert.Error(err)
}

func Test_Load_rejectsNeitherAbstractionSelected(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = init.timbuk
BAD_FILE_PATH = bad.timbuk
TAU_FILE_PATHS = tau.timbuk
PREDICATE_LANGUAGES = NO
FINITE_LENGTH_LANGUAGES = NO
`)

	_, err := Load(path)
	assert.Error(err)
}

func Test_Load_rejectsDuplicateKey(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = a.timbuk
INIT_FILE_PATH = b.timbuk
`)

	_, err := Load(path)
	assert.Error(err)
}

func Test_Load_rejectsMalformedLine(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, "this line has no equals sign\n")

	_, err := Load(path)
	assert.Error(err)
}

func Test_Load_rejectsUnknownKey(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = a.timbuk
BAD_FILE_PATH = b.timbuk
TAU_FILE_PATHS = t.timbuk
PREDICATE_LANGUAGES = YES
FINITE_LENGTH_LANGUAGES = NO
TIMEOTU = 00:05:00
`)

	_, err := Load(path)
	assert.Error(err)
}

func Test_Load_rejectsBadYesNo(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = a.timbuk
BAD_FILE_PATH = b.timbuk
TAU_FILE_PATHS = t.timbuk
PREDICATE_LANGUAGES = maybe
`)

	_, err := Load(path)
	assert.Error(err)
}

func Test_Load_parsesTimeoutWithDaysAndFraction(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = a.timbuk
BAD_FILE_PATH = b.timbuk
TAU_FILE_PATHS = t.timbuk
PREDICATE_LANGUAGES = YES
TIMEOUT = 1.02:03:04.5
`)

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	expected := 24*3600e9 + 2*3600e9 + 3*60e9 + 4e9 + 0.5e9
	assert.Equal(int64(expected), cfg.Timeout.Nanoseconds())
}

func Test_Load_zeroTimeoutDisables(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = a.timbuk
BAD_FILE_PATH = b.timbuk
TAU_FILE_PATHS = t.timbuk
PREDICATE_LANGUAGES = YES
TIMEOUT = 0.00:00:00
`)

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(int64(0), cfg.Timeout.Nanoseconds())
}

func Test_Load_ignoresCommentsAndBlankLines(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
# this is a comment
INIT_FILE_PATH = a.timbuk

BAD_FILE_PATH = b.timbuk
TAU_FILE_PATHS = t.timbuk
PREDICATE_LANGUAGES = YES
`)

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("a.timbuk", cfg.InitFilePath)
}

func Test_Validate_requiresInitFilePath(t *testing.T) {
	assert := assert.New(t)

	cfg := Defaults()
	cfg.InitFilePath = ""

	assert.Error(cfg.Validate())
}

func Test_GenerateDefault_roundTrips(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "armc.properties")

	if !assert.NoError(GenerateDefault(path)) {
		return
	}

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(Defaults(), cfg)
}

func Test_AutomataFormat_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("TIMBUK", Timbuk.String())
	assert.Equal("FSA", FSA.String())
	assert.Equal("FSM", FSM.String())
	assert.Equal("DOT", DOT.String())
}

func Test_Direction_roundTrip(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, `
INIT_FILE_PATH = a.timbuk
BAD_FILE_PATH = b.timbuk
TAU_FILE_PATHS = t.timbuk
PREDICATE_LANGUAGES = YES
COMPUTATION_DIRECTION = Backward
`)

	cfg, err := Load(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(abstraction.Backward, cfg.ComputationDirection)
}
