package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/matejchalk/armc/internal/abstraction"
)

// tomlSnapshot mirrors Config into a serialisable shape for
// armc-input/config.toml — the teacher's own config lives in a database
// connection string, not a TOML file, so this shape is new, but the
// "snapshot whatever ran into a durable sibling of the output" habit is
// grounded on the teacher's per-session state dumps in server/dao/sqlite.
type tomlSnapshot struct {
	InitFilePath         string   `toml:"init_file_path"`
	BadFilePath          string   `toml:"bad_file_path"`
	TauFilePaths         []string `toml:"tau_file_paths"`
	ComputationDirection string   `toml:"computation_direction"`
	LanguageDirection    string   `toml:"language_direction"`
	Timeout              string   `toml:"timeout"`
	Verbose              bool     `toml:"verbose"`
	PrintAutomata        bool     `toml:"print_automata"`
	AutomataFormat       string   `toml:"automata_format"`
	OutputDirectory      string   `toml:"output_directory"`
	ImageFormat          string   `toml:"image_format"`

	PredicateLanguages bool   `toml:"predicate_languages"`
	InitialPredicate   string `toml:"initial_predicate"`
	IncludeGuard       bool   `toml:"include_guard"`
	IncludeAction      bool   `toml:"include_action"`
	Heuristic          string `toml:"heuristic"`

	FiniteLengthLanguages bool   `toml:"finite_length_languages"`
	TraceLanguages        bool   `toml:"trace_languages"`
	InitialBound          string `toml:"initial_bound"`
	HalveInitialBound     bool   `toml:"halve_initial_bound"`
	BoundIncrement        string `toml:"bound_increment"`
	HalveBoundIncrement   bool   `toml:"halve_bound_increment"`
}

func (c Config) toSnapshot() tomlSnapshot {
	heuristic := ""
	switch c.Heuristic {
	case abstraction.ImportantStates:
		heuristic = "ImportantStates"
	case abstraction.KeyStates:
		heuristic = "KeyStates"
	}
	increment := "One"
	switch c.BoundIncrement {
	case abstraction.IncrementSizeM:
		increment = "M"
	case abstraction.IncrementSizeX:
		increment = "X"
	}
	return tomlSnapshot{
		InitFilePath:         c.InitFilePath,
		BadFilePath:          c.BadFilePath,
		TauFilePaths:         c.TauFilePaths,
		ComputationDirection: directionString(c.ComputationDirection),
		LanguageDirection:    directionString(c.LanguageDirection),
		Timeout:              formatTimeout(c.Timeout),
		Verbose:              c.Verbose,
		PrintAutomata:        c.PrintAutomata,
		AutomataFormat:       c.AutomataFormat.String(),
		OutputDirectory:      c.OutputDirectory,
		ImageFormat:          c.ImageFormat,

		PredicateLanguages: c.PredicateLanguages,
		InitialPredicate:   c.InitialPredicate.String(),
		IncludeGuard:       c.IncludeGuard,
		IncludeAction:      c.IncludeAction,
		Heuristic:          heuristic,

		FiniteLengthLanguages: c.FiniteLengthLanguages,
		TraceLanguages:        c.TraceLanguages,
		InitialBound:          c.InitialBound.String(),
		HalveInitialBound:     c.HalveInitialBound,
		BoundIncrement:        increment,
		HalveBoundIncrement:   c.HalveBoundIncrement,
	}
}

// WriteTOMLSnapshot writes the effective configuration to
// <dir>/config.toml, grounded on the teacher's go.mod dependency on
// BurntSushi/toml.
func (c Config) WriteTOMLSnapshot(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c.toSnapshot())
}

// runManifest is the shape written to armc-input/manifest.yaml: a terser,
// human-oriented companion to config.toml naming the run's inputs and
// chosen abstraction, in the style of projectdiscovery-alterx's
// runner/config.go YAML config.
type runManifest struct {
	RunID       string   `yaml:"run_id"`
	Init        string   `yaml:"init"`
	Bad         string   `yaml:"bad"`
	Tau         []string `yaml:"tau"`
	Direction   string   `yaml:"direction"`
	Abstraction string   `yaml:"abstraction"`
	OutputDir   string   `yaml:"output_dir"`
}

func (c Config) toManifest(runID string) runManifest {
	abstractionName := "finite-length-language"
	if c.PredicateLanguages {
		abstractionName = "predicate-language"
	}
	return runManifest{
		RunID:       runID,
		Init:        c.InitFilePath,
		Bad:         c.BadFilePath,
		Tau:         c.TauFilePaths,
		Direction:   directionString(c.ComputationDirection),
		Abstraction: abstractionName,
		OutputDir:   c.OutputDirectory,
	}
}

// WriteYAMLManifest writes <dir>/manifest.yaml, grounded on
// projectdiscovery-alterx's goccy/go-yaml usage. runID identifies this
// invocation (see cmd/armc's use of google/uuid to mint it) so the manifest
// and any counterexample directory it produced can be correlated later.
func (c Config) WriteYAMLManifest(dir, runID string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	out, err := yaml.Marshal(c.toManifest(runID))
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), out, 0644)
}
