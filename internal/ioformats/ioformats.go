package ioformats

import (
	"bytes"
	"io"
	"os"

	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/config"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
)

// ParseSFAFile loads an SFA from path, dispatching on the configured
// textual format (spec §6's parser collaborator contract). DOT is
// visualisation-only and is rejected here.
func ParseSFAFile(path string, format config.AutomataFormat) (*sfa.SFA[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, armcerr.Wrapf(armcerr.KindParser, err, "opening automaton file %s", path)
	}
	defer f.Close()

	var parsed ParsedSFA
	switch format {
	case config.Timbuk:
		parsed, err = ParseSFATimbuk(f)
	case config.FSA:
		parsed, err = ParseSFAFSA(f)
	case config.FSM:
		parsed, err = ParseSFAFSM(f)
	default:
		return nil, armcerr.Newf(armcerr.KindParser, "format %s is not a valid automaton input format", format)
	}
	if err != nil {
		return nil, err
	}
	return BuildSFA(parsed)
}

// ParseSFTFile loads an SFT from path. Only Timbuk currently supports
// transducer labels (FSA/FSM describe acceptors, spec §6); other formats
// are rejected with a parser error.
func ParseSFTFile(path string, format config.AutomataFormat) (*sft.SFT[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, armcerr.Wrapf(armcerr.KindParser, err, "opening transducer file %s", path)
	}
	defer f.Close()

	if format != config.Timbuk {
		return nil, armcerr.Newf(armcerr.KindParser, "format %s does not support transducer labels", format)
	}
	parsed, err := ParseSFTTimbuk(f)
	if err != nil {
		return nil, err
	}
	return BuildSFT(parsed)
}

// WriteSFAFile prints m to path in the configured format.
func WriteSFAFile(path string, m *sfa.SFA[string], format config.AutomataFormat) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case config.Timbuk:
		err = WriteSFATimbuk(&buf, m)
	case config.FSA:
		err = WriteSFAFSA(&buf, m)
	case config.FSM:
		err = WriteSFAFSM(&buf, m)
	case config.DOT:
		err = WriteSFADOT(&buf, m)
	default:
		return armcerr.Newf(armcerr.KindParser, "unrecognised automaton format %s", format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteSFTFile prints t to path in the configured format (Timbuk only, see
// ParseSFTFile).
func WriteSFTFile(path string, t *sft.SFT[string], format config.AutomataFormat) error {
	var buf bytes.Buffer
	if format != config.Timbuk {
		return armcerr.Newf(armcerr.KindParser, "format %s does not support transducer labels", format)
	}
	if err := WriteSFTTimbuk(&buf, t); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// CopyFile copies src to dst verbatim, used to snapshot original input
// automaton files into armc-input/ regardless of format.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return armcerr.Wrapf(armcerr.KindParser, err, "opening %s", src)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return armcerr.Wrapf(armcerr.KindParser, err, "creating %s", dst)
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
