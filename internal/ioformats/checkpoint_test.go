package ioformats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_WriteCheckpoint_thenRead_roundTrips(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	c := Checkpoint{
		Loop:        3,
		M:           "Initial: 0\nFinal: 0\n",
		MAlpha:      "Initial: 0\nFinal: 0\n",
		X:           "Initial: 0\nFinal: 1\n0 a -> 1\n",
		HasX:        true,
		Description: "spurious witness at loop 3",
	}

	if !assert.NoError(WriteCheckpoint(dir, c)) {
		return
	}

	got, err := ReadCheckpoint(filepath.Join(dir, "checkpoint.rezi"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(c, got)
}

func Test_ReadCheckpoint_missingFileIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := ReadCheckpoint(filepath.Join(t.TempDir(), "nope.rezi"))
	assert.Error(err)
}
