/*
Armc verifies Abstract Regular Model Checking properties of a symbolic
transition system: given an initial-configuration automaton, a bad-
configuration automaton, and one or more transducers encoding the system's
transition relation, it decides whether any bad configuration is reachable
from an initial one.

Usage:

	armc [flags]

The flags are:

	-c, --config PATH
		Configuration file to load. Defaults to "armc.properties".

	-i, --init PATH
		Override the initial automaton's file path.

	-b, --bad PATH
		Override the bad automaton's file path.

	-t, --tau PATH
		Override the transducer file path, replacing the configured list
		with this single path.

	-g, --generate-config
		Write a default configuration file to the path given by -c/--config
		and exit.

	-h, --help
		Print usage and exit.

On success, HOLDS or VIOLATED is printed to stdout along with the number of
outer-loop iterations; on VIOLATED a counterexample directory is written
under the configured OUTPUT_DIRECTORY. Any error is printed to stderr
prefixed "Error - " and the process exits 1.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/matejchalk/armc/internal/abstraction"
	"github.com/matejchalk/armc/internal/armc"
	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/armclog"
	"github.com/matejchalk/armc/internal/config"
	"github.com/matejchalk/armc/internal/ioformats"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
	"github.com/matejchalk/armc/internal/version"
)

const (
	ExitSuccess = iota
	ExitError
)

var (
	returnCode = ExitSuccess

	flagConfig   = pflag.StringP("config", "c", "armc.properties", "Configuration file to load")
	flagInit     = pflag.StringP("init", "i", "", "Override the initial automaton file path")
	flagBad      = pflag.StringP("bad", "b", "", "Override the bad automaton file path")
	flagTau      = pflag.StringP("tau", "t", "", "Override the transducer file path (single path)")
	flagGenerate = pflag.BoolP("generate-config", "g", false, "Write a default config file and exit")
	flagHelp     = pflag.BoolP("help", "h", false, "Print usage and exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagHelp {
		fmt.Println(ioformats.WrapUsage(usageText(), 80))
		return
	}

	if *flagGenerate {
		if err := config.GenerateDefault(*flagConfig); err != nil {
			fail(err)
			return
		}
		fmt.Printf("wrote default configuration to %s\n", *flagConfig)
		return
	}

	if err := run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error - %s\n", err.Error())
	returnCode = ExitError
}

func usageText() string {
	return fmt.Sprintf("armc %s\n\n%s", version.Current,
		"armc [flags]\n\n"+
			"  -c, --config PATH     configuration file (default armc.properties)\n"+
			"  -i, --init PATH       override initial automaton path\n"+
			"  -b, --bad PATH        override bad automaton path\n"+
			"  -t, --tau PATH        override transducer path (single path)\n"+
			"  -g, --generate-config write a default config and exit\n"+
			"  -h, --help            print usage and exit\n")
}

func run() error {
	cfg, err := config.Load(*flagConfig)
	if err != nil {
		return err
	}
	if *flagInit != "" {
		cfg.InitFilePath = *flagInit
	}
	if *flagBad != "" {
		cfg.BadFilePath = *flagBad
	}
	if *flagTau != "" {
		cfg.TauFilePaths = []string{*flagTau}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	armclog.SetVerbose(cfg.Verbose)
	runID := uuid.New().String()

	if err := os.RemoveAll(cfg.OutputDirectory); err != nil {
		return armcerr.Wrap(armcerr.KindConfig, err, "clearing output directory")
	}
	inputDir := filepath.Join(cfg.OutputDirectory, "armc-input")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		return armcerr.Wrap(armcerr.KindConfig, err, "creating armc-input directory")
	}
	if err := cfg.WriteTOMLSnapshot(inputDir); err != nil {
		return err
	}
	if err := cfg.WriteYAMLManifest(inputDir, runID); err != nil {
		return err
	}

	initAut, err := ioformats.ParseSFAFile(cfg.InitFilePath, cfg.AutomataFormat)
	if err != nil {
		return err
	}
	badAut, err := ioformats.ParseSFAFile(cfg.BadFilePath, cfg.AutomataFormat)
	if err != nil {
		return err
	}
	if err := ioformats.CopyFile(cfg.InitFilePath, filepath.Join(inputDir, "init"+automataExt(cfg.AutomataFormat))); err != nil {
		return err
	}
	if err := ioformats.CopyFile(cfg.BadFilePath, filepath.Join(inputDir, "bad"+automataExt(cfg.AutomataFormat))); err != nil {
		return err
	}

	taus := make([]*sft.SFT[string], 0, len(cfg.TauFilePaths))
	for i, path := range cfg.TauFilePaths {
		t, err := ioformats.ParseSFTFile(path, cfg.AutomataFormat)
		if err != nil {
			return err
		}
		taus = append(taus, t)
		dst := filepath.Join(inputDir, fmt.Sprintf("tau%d%s", i, automataExt(cfg.AutomataFormat)))
		if err := ioformats.CopyFile(path, dst); err != nil {
			return err
		}
	}

	registry := predicate.NewRegistry[string]()
	strat, err := buildStrategy(registry, cfg, initAut, badAut, taus)
	if err != nil {
		return err
	}

	result, err := verifyWithTimeout(registry, initAut, badAut, taus, strat, cfg)
	if err != nil {
		return err
	}

	armclog.Verdict(result.Outcome == armc.Holds, result.Loops)

	if result.Outcome == armc.Violated {
		cexDir := filepath.Join(cfg.OutputDirectory, "armc-counterexample")
		if err := writeCounterexample(cexDir, result, cfg, runID); err != nil {
			return err
		}
	}

	fmt.Printf("%s (%d loop(s))\n", result.Outcome, result.Loops)
	return nil
}

// verifyWithTimeout runs armc.Verify on its own goroutine and races it
// against cfg.Timeout (spec §6's TIMEOUT key), since Verify itself has no
// notion of wall-clock deadlines — only the outer-loop MaxLoops bound, which
// this CLI leaves unset (spec names no configured loop cap, only a time
// budget).
func verifyWithTimeout(
	registry *predicate.Registry[string],
	initAut, badAut *sfa.SFA[string],
	taus []*sft.SFT[string],
	strat abstraction.Strategy[string],
	cfg config.Config,
) (*armc.Result[string], error) {
	type outcome struct {
		result *armc.Result[string]
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := armc.Verify(registry, initAut, badAut, taus, strat, armc.Config{
			Direction: cfg.ComputationDirection,
		})
		done <- outcome{result, err}
	}()

	if cfg.Timeout <= 0 {
		o := <-done
		return o.result, o.err
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-time.After(cfg.Timeout):
		return nil, armcerr.Newf(armcerr.KindARMC, "verification did not converge within the configured timeout (%s)", cfg.Timeout)
	}
}

func automataExt(f config.AutomataFormat) string {
	switch f {
	case config.FSA:
		return ".fsa"
	case config.FSM:
		return ".fsm"
	case config.DOT:
		return ".dot"
	default:
		return ".timbuk"
	}
}
