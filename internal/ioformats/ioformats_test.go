package ioformats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matejchalk/armc/internal/alphabet"
	"github.com/matejchalk/armc/internal/config"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
)

func Test_ParseSFAFile_dispatchesOnFormat(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "m.timbuk")
	if !assert.NoError(os.WriteFile(path, []byte("Initial: 0\nFinal: 0\n0 a -> 0\n"), 0644)) {
		return
	}

	m, err := ParseSFAFile(path, config.Timbuk)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, m.Initial())
}

func Test_ParseSFAFile_rejectsDOT(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "m.dot")
	if !assert.NoError(os.WriteFile(path, []byte("digraph {}"), 0644)) {
		return
	}

	_, err := ParseSFAFile(path, config.DOT)
	assert.Error(err)
}

func Test_ParseSFAFile_missingFileIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseSFAFile(filepath.Join(t.TempDir(), "nope.timbuk"), config.Timbuk)
	assert.Error(err)
}

func Test_ParseSFTFile_rejectsNonTimbuk(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "t.fsm")
	if !assert.NoError(os.WriteFile(path, []byte("1 0 0\n\n"), 0644)) {
		return
	}

	_, err := ParseSFTFile(path, config.FSM)
	assert.Error(err)
}

func Test_WriteSFAFile_thenParseSFAFile_roundTrips(t *testing.T) {
	assert := assert.New(t)

	alg := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a"))
	b := sfa.NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	b.AddMove(0, alg.In("a"), 0)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "m.timbuk")
	if !assert.NoError(WriteSFAFile(path, m, config.Timbuk)) {
		return
	}

	m2, err := ParseSFAFile(path, config.Timbuk)
	if !assert.NoError(err) {
		return
	}

	equal, _, err := sfa.Equivalent(m, m2)
	if !assert.NoError(err) {
		return
	}
	assert.True(equal)
}

func Test_WriteSFAFile_rejectsUnrecognisedFormat(t *testing.T) {
	assert := assert.New(t)

	alg := predicate.NewAlgebra(alphabet.New(alphabet.StringLess, "a"))
	b := sfa.NewBuilder(alg)
	b.AddState(0, true).SetInitial(0)
	m, err := b.Build()
	if !assert.NoError(err) {
		return
	}

	err = WriteSFAFile(filepath.Join(t.TempDir(), "m.out"), m, config.AutomataFormat(99))
	assert.Error(err)
}

func Test_CopyFile_copiesContentsVerbatim(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	content := []byte("hello world")
	if !assert.NoError(os.WriteFile(src, content, 0644)) {
		return
	}

	if !assert.NoError(CopyFile(src, dst)) {
		return
	}

	got, err := os.ReadFile(dst)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(content, got)
}

func Test_CopyFile_missingSourceIsError(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "dst.txt"))
	assert.Error(err)
}
