package ioformats

import (
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/matejchalk/armc/internal/armcerr"
)

// Checkpoint is the binary-encoded sibling of a loop's textual dumps: the
// Timbuk rendering of (Mi, Mi^alpha, Xi) plus the loop index, so a
// checkpoint can be replayed without re-parsing the textual files.
// Grounded on the teacher's server/dao/sqlite use of rezi.EncBinary /
// rezi.DecBinary to persist a *game.State as an opaque byte blob alongside
// the session's other (textual/relational) fields.
type Checkpoint struct {
	Loop        int
	M           string
	MAlpha      string
	X           string
	HasX        bool
	Description string
}

// WriteCheckpoint rezi-encodes a Checkpoint to <dir>/checkpoint.rezi.
func WriteCheckpoint(dir string, c Checkpoint) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return armcerr.Wrap(armcerr.KindConfig, err, "creating loop output directory")
	}
	data := rezi.EncBinary(c)
	return os.WriteFile(filepath.Join(dir, "checkpoint.rezi"), data, 0644)
}

// ReadCheckpoint decodes a checkpoint written by WriteCheckpoint.
func ReadCheckpoint(path string) (Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Checkpoint{}, armcerr.Wrapf(armcerr.KindConfig, err, "reading checkpoint %s", path)
	}
	var c Checkpoint
	n, err := rezi.DecBinary(data, &c)
	if err != nil {
		return Checkpoint{}, armcerr.Wrap(armcerr.KindConfig, err, "decoding checkpoint")
	}
	if n != len(data) {
		return Checkpoint{}, armcerr.Newf(armcerr.KindConfig, "checkpoint decode consumed %d/%d bytes", n, len(data))
	}
	return c, nil
}
