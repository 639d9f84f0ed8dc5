// Package config loads and validates an armc run configuration: the
// line-based KEY = value format of spec §6, plus the -g/--generate-config
// default-writer and the effective-config snapshot writers (internal/config
// has no sibling package for those; they live alongside the loader since
// they all operate on the same Config value).
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matejchalk/armc/internal/abstraction"
	"github.com/matejchalk/armc/internal/armcerr"
)

// AutomataFormat selects the textual encoding used for automaton I/O.
type AutomataFormat int

const (
	Timbuk AutomataFormat = iota
	FSA
	FSM
	DOT
)

func (f AutomataFormat) String() string {
	switch f {
	case Timbuk:
		return "TIMBUK"
	case FSA:
		return "FSA"
	case FSM:
		return "FSM"
	case DOT:
		return "DOT"
	default:
		return "TIMBUK"
	}
}

// InitialPredicateSeed selects which automata seed Π for predicate-language
// abstraction (spec §4.5.1).
type InitialPredicateSeed int

const (
	SeedInit InitialPredicateSeed = iota
	SeedBad
	SeedBoth
)

func (s InitialPredicateSeed) String() string {
	switch s {
	case SeedInit:
		return "Init"
	case SeedBad:
		return "Bad"
	default:
		return "Both"
	}
}

// InitialBoundSeed selects the seed for the finite-length bound n (spec
// §4.5.2).
type InitialBoundSeed int

const (
	BoundOne InitialBoundSeed = iota
	BoundInit
	BoundBad
)

func (s InitialBoundSeed) String() string {
	switch s {
	case BoundOne:
		return "One"
	case BoundInit:
		return "Init"
	default:
		return "Bad"
	}
}

// Config is the fully-parsed, validated run configuration of spec §6.
type Config struct {
	// General
	InitFilePath         string
	BadFilePath          string
	TauFilePaths         []string
	ComputationDirection abstraction.Direction
	LanguageDirection    abstraction.Direction
	Timeout              time.Duration
	Verbose              bool
	PrintAutomata        bool
	AutomataFormat       AutomataFormat
	OutputDirectory      string
	ImageFormat          string

	// Predicate abstraction
	PredicateLanguages bool
	InitialPredicate   InitialPredicateSeed
	IncludeGuard       bool
	IncludeAction      bool
	Heuristic          abstraction.HeuristicKind
	HeuristicSet       bool

	// Finite-length abstraction
	FiniteLengthLanguages bool
	TraceLanguages        bool
	InitialBound          InitialBoundSeed
	HalveInitialBound     bool
	BoundIncrement        abstraction.IncrementKind
	HalveBoundIncrement   bool
}

// Defaults returns the configuration written by -g/--generate-config: a
// predicate-language forward verification with no heuristic, output under
// ./armc-output, and a ten-minute timeout.
func Defaults() Config {
	return Config{
		InitFilePath:         "init.timbuk",
		BadFilePath:          "bad.timbuk",
		TauFilePaths:         []string{"tau.timbuk"},
		ComputationDirection: abstraction.Forward,
		LanguageDirection:    abstraction.Forward,
		Timeout:              10 * time.Minute,
		Verbose:              false,
		PrintAutomata:        true,
		AutomataFormat:       Timbuk,
		OutputDirectory:      "armc-output",
		ImageFormat:          "",

		PredicateLanguages: true,
		InitialPredicate:   SeedBoth,
		IncludeGuard:       true,
		IncludeAction:      true,

		FiniteLengthLanguages: false,
		TraceLanguages:        false,
		InitialBound:          BoundOne,
		BoundIncrement:        abstraction.IncrementOne,
	}
}

// rawEntries is the parsed multiset of KEY = value lines, tracking
// duplicates so Load can reject them (spec §6: "Duplicate or missing keys
// are fatal").
type rawEntries struct {
	values map[string]string
	seen   map[string]int
	order  []string
}

func newRawEntries() *rawEntries {
	return &rawEntries{values: map[string]string{}, seen: map[string]int{}}
}

func (r *rawEntries) set(key, value string) {
	r.seen[key]++
	if _, ok := r.values[key]; !ok {
		r.order = append(r.order, key)
	}
	r.values[key] = value
}

// parseLines scans the bespoke KEY = value grammar: blank lines and lines
// whose first non-space character is '#' are skipped; every other line must
// contain '=', split once, both sides trimmed.
func parseLines(r io.Reader) (*rawEntries, error) {
	entries := newRawEntries()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, armcerr.Newf(armcerr.KindConfig, "line %d: expected KEY = value, got %q", lineNo, line)
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			return nil, armcerr.Newf(armcerr.KindConfig, "line %d: empty key", lineNo)
		}
		entries.set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, armcerr.Wrap(armcerr.KindConfig, err, "reading config file")
	}
	for key, n := range entries.seen {
		if n > 1 {
			return nil, armcerr.Newf(armcerr.KindConfig, "duplicate key %q", key)
		}
	}
	return entries, nil
}

// recognizedKeys is every KEY the loader below reads out of entries. Spec §7
// treats any other key present in the file as a fatal ConfigError.
var recognizedKeys = map[string]bool{
	"INIT_FILE_PATH":          true,
	"BAD_FILE_PATH":           true,
	"TAU_FILE_PATHS":          true,
	"COMPUTATION_DIRECTION":   true,
	"LANGUAGE_DIRECTION":      true,
	"TIMEOUT":                 true,
	"VERBOSE":                 true,
	"PRINT_AUTOMATA":          true,
	"AUTOMATA_FORMAT":         true,
	"OUTPUT_DIRECTORY":        true,
	"IMAGE_FORMAT":            true,
	"PREDICATE_LANGUAGES":     true,
	"INITIAL_PREDICATE":       true,
	"INCLUDE_GUARD":           true,
	"INCLUDE_ACTION":          true,
	"HEURISTIC":               true,
	"FINITE_LENGTH_LANGUAGES": true,
	"TRACE_LANGUAGES":         true,
	"INITIAL_BOUND":           true,
	"HALVE_INITIAL_BOUND":     true,
	"BOUND_INCREMENT":         true,
	"HALVE_BOUND_INCREMENT":   true,
}

// Load reads and validates a configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, armcerr.Wrapf(armcerr.KindConfig, err, "opening config file %s", path)
	}
	defer f.Close()

	entries, err := parseLines(f)
	if err != nil {
		return Config{}, err
	}
	for _, key := range entries.order {
		if !recognizedKeys[key] {
			return Config{}, armcerr.Newf(armcerr.KindConfig, "unknown property %q", key)
		}
	}

	cfg := Defaults()
	b := &builder{entries: entries, cfg: &cfg}
	b.loadGeneral()
	b.loadPredicate()
	b.loadFiniteLength()
	if b.err != nil {
		return Config{}, b.err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// builder accumulates the first error encountered while reading fields out
// of entries, so the call sites below read like a flat list of assignments
// (teacher's server/config.go favours the same shape for its DB-connstring
// parsing: accumulate, check once at the end).
type builder struct {
	entries *rawEntries
	cfg     *Config
	err     error
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *builder) str(key string, dst *string) {
	if b.err != nil {
		return
	}
	if v, ok := b.entries.values[key]; ok {
		*dst = v
	}
}

func (b *builder) boolYesNo(key string, dst *bool) {
	if b.err != nil {
		return
	}
	v, ok := b.entries.values[key]
	if !ok {
		return
	}
	switch strings.ToUpper(v) {
	case "YES":
		*dst = true
	case "NO":
		*dst = false
	default:
		b.fail(armcerr.Newf(armcerr.KindConfig, "%s: expected YES or NO, got %q", key, v))
	}
}

func (b *builder) direction(key string, dst *abstraction.Direction) {
	if b.err != nil {
		return
	}
	v, ok := b.entries.values[key]
	if !ok {
		return
	}
	switch v {
	case "Forward":
		*dst = abstraction.Forward
	case "Backward":
		*dst = abstraction.Backward
	default:
		b.fail(armcerr.Newf(armcerr.KindConfig, "%s: expected Forward or Backward, got %q", key, v))
	}
}

func (b *builder) loadGeneral() {
	b.str("INIT_FILE_PATH", &b.cfg.InitFilePath)
	b.str("BAD_FILE_PATH", &b.cfg.BadFilePath)
	if v, ok := b.entries.values["TAU_FILE_PATHS"]; ok && b.err == nil {
		b.cfg.TauFilePaths = strings.Split(v, string(filepath.ListSeparator))
	}
	b.direction("COMPUTATION_DIRECTION", &b.cfg.ComputationDirection)
	b.direction("LANGUAGE_DIRECTION", &b.cfg.LanguageDirection)
	if v, ok := b.entries.values["TIMEOUT"]; ok && b.err == nil {
		d, err := parseTimeout(v)
		if err != nil {
			b.fail(err)
		} else {
			b.cfg.Timeout = d
		}
	}
	b.boolYesNo("VERBOSE", &b.cfg.Verbose)
	b.boolYesNo("PRINT_AUTOMATA", &b.cfg.PrintAutomata)
	if v, ok := b.entries.values["AUTOMATA_FORMAT"]; ok && b.err == nil {
		switch v {
		case "DOT":
			b.cfg.AutomataFormat = DOT
		case "TIMBUK":
			b.cfg.AutomataFormat = Timbuk
		case "FSA":
			b.cfg.AutomataFormat = FSA
		case "FSM":
			b.cfg.AutomataFormat = FSM
		default:
			b.fail(armcerr.Newf(armcerr.KindConfig, "AUTOMATA_FORMAT: unrecognised %q", v))
		}
	}
	b.str("OUTPUT_DIRECTORY", &b.cfg.OutputDirectory)
	if v, ok := b.entries.values["IMAGE_FORMAT"]; ok && b.err == nil {
		switch v {
		case "", "gif", "jpg", "pdf", "png", "svg":
			b.cfg.ImageFormat = v
		default:
			b.fail(armcerr.Newf(armcerr.KindConfig, "IMAGE_FORMAT: unrecognised %q", v))
		}
	}
}

func (b *builder) loadPredicate() {
	b.boolYesNo("PREDICATE_LANGUAGES", &b.cfg.PredicateLanguages)
	if v, ok := b.entries.values["INITIAL_PREDICATE"]; ok && b.err == nil {
		switch v {
		case "Init":
			b.cfg.InitialPredicate = SeedInit
		case "Bad":
			b.cfg.InitialPredicate = SeedBad
		case "Both":
			b.cfg.InitialPredicate = SeedBoth
		default:
			b.fail(armcerr.Newf(armcerr.KindConfig, "INITIAL_PREDICATE: unrecognised %q", v))
		}
	}
	b.boolYesNo("INCLUDE_GUARD", &b.cfg.IncludeGuard)
	b.boolYesNo("INCLUDE_ACTION", &b.cfg.IncludeAction)
	if v, ok := b.entries.values["HEURISTIC"]; ok && b.err == nil {
		b.cfg.HeuristicSet = v != ""
		switch v {
		case "":
			b.cfg.Heuristic = abstraction.NoHeuristic
		case "ImportantStates":
			b.cfg.Heuristic = abstraction.ImportantStates
		case "KeyStates":
			b.cfg.Heuristic = abstraction.KeyStates
		default:
			b.fail(armcerr.Newf(armcerr.KindConfig, "HEURISTIC: unrecognised %q", v))
		}
	}
}

func (b *builder) loadFiniteLength() {
	b.boolYesNo("FINITE_LENGTH_LANGUAGES", &b.cfg.FiniteLengthLanguages)
	b.boolYesNo("TRACE_LANGUAGES", &b.cfg.TraceLanguages)
	if v, ok := b.entries.values["INITIAL_BOUND"]; ok && b.err == nil {
		switch v {
		case "One":
			b.cfg.InitialBound = BoundOne
		case "Init":
			b.cfg.InitialBound = BoundInit
		case "Bad":
			b.cfg.InitialBound = BoundBad
		default:
			b.fail(armcerr.Newf(armcerr.KindConfig, "INITIAL_BOUND: unrecognised %q", v))
		}
	}
	b.boolYesNo("HALVE_INITIAL_BOUND", &b.cfg.HalveInitialBound)
	if v, ok := b.entries.values["BOUND_INCREMENT"]; ok && b.err == nil {
		switch v {
		case "One":
			b.cfg.BoundIncrement = abstraction.IncrementOne
		case "M":
			b.cfg.BoundIncrement = abstraction.IncrementSizeM
		case "X":
			b.cfg.BoundIncrement = abstraction.IncrementSizeX
		default:
			b.fail(armcerr.Newf(armcerr.KindConfig, "BOUND_INCREMENT: unrecognised %q", v))
		}
	}
	b.boolYesNo("HALVE_BOUND_INCREMENT", &b.cfg.HalveBoundIncrement)
}

// parseTimeout parses the spec's "[d.]hh:mm:ss[.fffffff]" format. A
// zero duration disables the timeout.
func parseTimeout(s string) (time.Duration, error) {
	days := 0
	rest := s
	if dot := strings.Index(s, "."); dot >= 0 && strings.Count(s, ":") == 2 && dot < strings.Index(s, ":") {
		var err error
		days, err = strconv.Atoi(s[:dot])
		if err != nil {
			return 0, armcerr.Newf(armcerr.KindConfig, "TIMEOUT: bad day component in %q", s)
		}
		rest = s[dot+1:]
	}

	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return 0, armcerr.Newf(armcerr.KindConfig, "TIMEOUT: expected hh:mm:ss, got %q", s)
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	secPart := parts[2]
	frac := 0.0
	if fdot := strings.Index(secPart, "."); fdot >= 0 {
		f, err := strconv.ParseFloat(secPart[fdot:], 64)
		if err != nil {
			return 0, armcerr.Newf(armcerr.KindConfig, "TIMEOUT: bad fractional seconds in %q", s)
		}
		frac = f
		secPart = secPart[:fdot]
	}
	ss, err3 := strconv.Atoi(secPart)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, armcerr.Newf(armcerr.KindConfig, "TIMEOUT: malformed %q", s)
	}

	total := time.Duration(days)*24*time.Hour +
		time.Duration(hh)*time.Hour +
		time.Duration(mm)*time.Minute +
		time.Duration(ss)*time.Second +
		time.Duration(frac*float64(time.Second))
	return total, nil
}

// Validate enforces the cross-field rules of spec §6: exactly one
// abstraction family selected, INIT/BAD/TAU file paths present, and a
// non-negative timeout.
func (c Config) Validate() error {
	if c.PredicateLanguages == c.FiniteLengthLanguages {
		return armcerr.New(armcerr.KindConfig, "exactly one of PREDICATE_LANGUAGES or FINITE_LENGTH_LANGUAGES must be YES")
	}
	if c.InitFilePath == "" {
		return armcerr.New(armcerr.KindConfig, "INIT_FILE_PATH is required")
	}
	if c.BadFilePath == "" {
		return armcerr.New(armcerr.KindConfig, "BAD_FILE_PATH is required")
	}
	if len(c.TauFilePaths) == 0 || c.TauFilePaths[0] == "" {
		return armcerr.New(armcerr.KindConfig, "TAU_FILE_PATHS is required")
	}
	if c.Timeout < 0 {
		return armcerr.New(armcerr.KindConfig, "TIMEOUT must not be negative")
	}
	return nil
}

// GenerateDefault writes the default configuration to path in the KEY =
// value format, for -g/--generate-config.
func GenerateDefault(path string) error {
	cfg := Defaults()
	var sb strings.Builder
	writeSection := func(title string) {
		sb.WriteString("# ")
		sb.WriteString(title)
		sb.WriteString("\n")
	}
	kv := func(key, value string) {
		sb.WriteString(fmt.Sprintf("%s = %s\n", key, value))
	}
	yesNo := func(b bool) string {
		if b {
			return "YES"
		}
		return "NO"
	}

	writeSection("General")
	kv("INIT_FILE_PATH", cfg.InitFilePath)
	kv("BAD_FILE_PATH", cfg.BadFilePath)
	kv("TAU_FILE_PATHS", strings.Join(cfg.TauFilePaths, string(filepath.ListSeparator)))
	kv("COMPUTATION_DIRECTION", directionString(cfg.ComputationDirection))
	kv("LANGUAGE_DIRECTION", directionString(cfg.LanguageDirection))
	kv("TIMEOUT", formatTimeout(cfg.Timeout))
	kv("VERBOSE", yesNo(cfg.Verbose))
	kv("PRINT_AUTOMATA", yesNo(cfg.PrintAutomata))
	kv("AUTOMATA_FORMAT", cfg.AutomataFormat.String())
	kv("OUTPUT_DIRECTORY", cfg.OutputDirectory)
	kv("IMAGE_FORMAT", cfg.ImageFormat)
	sb.WriteString("\n")

	writeSection("Predicate abstraction")
	kv("PREDICATE_LANGUAGES", yesNo(cfg.PredicateLanguages))
	kv("INITIAL_PREDICATE", cfg.InitialPredicate.String())
	kv("INCLUDE_GUARD", yesNo(cfg.IncludeGuard))
	kv("INCLUDE_ACTION", yesNo(cfg.IncludeAction))
	kv("HEURISTIC", "")
	sb.WriteString("\n")

	writeSection("Finite-length abstraction")
	kv("FINITE_LENGTH_LANGUAGES", yesNo(cfg.FiniteLengthLanguages))
	kv("TRACE_LANGUAGES", yesNo(cfg.TraceLanguages))
	kv("INITIAL_BOUND", cfg.InitialBound.String())
	kv("HALVE_INITIAL_BOUND", yesNo(cfg.HalveInitialBound))
	kv("BOUND_INCREMENT", "One")
	kv("HALVE_BOUND_INCREMENT", yesNo(cfg.HalveBoundIncrement))

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func directionString(d abstraction.Direction) string {
	if d == abstraction.Backward {
		return "Backward"
	}
	return "Forward"
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return "0.00:00:00"
	}
	totalSec := int(d / time.Second)
	days := totalSec / 86400
	totalSec %= 86400
	hh := totalSec / 3600
	totalSec %= 3600
	mm := totalSec / 60
	ss := totalSec % 60
	return fmt.Sprintf("%d.%02d:%02d:%02d", days, hh, mm, ss)
}
