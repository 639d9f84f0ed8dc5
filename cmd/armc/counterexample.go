package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matejchalk/armc/internal/armc"
	"github.com/matejchalk/armc/internal/config"
	"github.com/matejchalk/armc/internal/ioformats"
	"github.com/matejchalk/armc/internal/sfa"
)

// writeCounterexample dumps a VIOLATED run's witness trace to cexDir: one
// subdirectory per step of the sequence S = [(M0, M0^α), ...], each holding
// that step's M, M^α (when present) and the accumulated intersection
// witness Xi, all in the configured automaton format. Per-step automaton
// dumps are gated on PRINT_AUTOMATA (spec §6); the run-id stamp is always
// written so a VIOLATED verdict can always be correlated to its manifest.
func writeCounterexample(cexDir string, result *armc.Result[string], cfg config.Config, runID string) error {
	cex := result.Counterexample
	if cex == nil {
		return nil
	}
	ext := automataExt(cfg.AutomataFormat)

	if err := os.MkdirAll(cexDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(cexDir, "run-id.txt"), []byte(runID+"\n"), 0644); err != nil {
		return err
	}
	if !cfg.PrintAutomata {
		return nil
	}

	for i, pair := range cex.Configs {
		stepDir := filepath.Join(cexDir, fmt.Sprintf("step-%d", i))
		if err := os.MkdirAll(stepDir, 0755); err != nil {
			return err
		}
		if pair.M != nil {
			if err := writeAutomatonArtifact(stepDir, "M", pair.M, cfg, ext); err != nil {
				return err
			}
		}
		if pair.MAlpha != nil {
			if err := writeAutomatonArtifact(stepDir, "M_alpha", pair.MAlpha, cfg, ext); err != nil {
				return err
			}
		}
		// cex.X runs from Xℓ down to X0, so step i's Xi sits at the mirrored index.
		if j := len(cex.X) - 1 - i; j >= 0 && cex.X[j] != nil {
			if err := writeAutomatonArtifact(stepDir, "X", cex.X[j], cfg, ext); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeAutomatonArtifact writes m in the configured text format, plus a
// rasterised image alongside it when the format is DOT and IMAGE_FORMAT
// names a Graphviz output type (spec §6's "external dot process... when
// image output is configured").
func writeAutomatonArtifact(dir, base string, m *sfa.SFA[string], cfg config.Config, ext string) error {
	path := filepath.Join(dir, base+ext)
	if err := ioformats.WriteSFAFile(path, m, cfg.AutomataFormat); err != nil {
		return err
	}
	if cfg.AutomataFormat != config.DOT || cfg.ImageFormat == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := ioformats.WriteSFADOT(&buf, m); err != nil {
		return err
	}
	img, err := ioformats.RenderImage(buf.String(), cfg.ImageFormat)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, base+"."+cfg.ImageFormat), img, 0644)
}
