// Package armclog wraps github.com/projectdiscovery/gologger for the
// driver's progress output, grounded on the pack's
// projectdiscovery-alterx/internal/runner use of
// gologger.DefaultLogger.SetMaxLevel. The CLI's final result line and usage
// text bypass this package and go straight to stdout/stderr (spec §6). The
// CLI calls SetVerbose and Verdict; OuterLoop, Spurious, Debugf and Errorf
// format per-iteration, spuriousness and free-form lines but have no caller
// in the driver or the abstraction strategies.
package armclog

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

// SetVerbose raises the log level to Debug when VERBOSE = YES is
// configured, else leaves it at Info (spec §6).
func SetVerbose(verbose bool) {
	if verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	} else {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)
	}
}

// OuterLoop logs one line per outer CEGAR iteration: the loop count, the
// size of M and M^α, and elapsed compute time (stopwatch excludes I/O per
// spec §5).
func OuterLoop(loop, states, abstractedStates int, elapsed time.Duration) {
	gologger.Info().Msgf("loop %d: |M|=%s |M^a|=%s elapsed=%s",
		loop,
		humanize.Comma(int64(states)),
		humanize.Comma(int64(abstractedStates)),
		elapsed.Round(time.Millisecond),
	)
}

// Spurious logs a spuriousness verdict at the given replay step.
func Spurious(step int) {
	gologger.Debug().Msgf("replay step %d: counterexample is spurious, refining", step)
}

// Verdict logs the final outcome of a VerifyStep call.
func Verdict(holds bool, loops int) {
	if holds {
		gologger.Info().Msgf("fixed point reached after %d loop(s): HOLDS", loops)
		return
	}
	gologger.Info().Msgf("counterexample confirmed after %d loop(s): VIOLATED", loops)
}

// Debugf logs a free-form line at Debug level.
func Debugf(format string, args ...any) {
	gologger.Debug().Msgf(format, args...)
}

// Errorf logs a non-fatal warning — reserved for collaborator-level
// recoverable conditions (e.g. a malformed DOT rasterisation request that
// falls back to textual output only).
func Errorf(format string, args ...any) {
	gologger.Warning().Msgf(format, args...)
}
