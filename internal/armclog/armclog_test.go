package armclog

import (
	"testing"
	"time"
)

// These exercise the thin gologger wrapper for panics only — the underlying
// logger's formatting is gologger's own concern, not ours to re-verify.
func Test_LoggingCalls_doNotPanic(t *testing.T) {
	SetVerbose(true)
	SetVerbose(false)
	OuterLoop(1, 10, 4, 2*time.Millisecond)
	Spurious(2)
	Verdict(true, 3)
	Verdict(false, 5)
	Debugf("signature for state %d: %s", 7, "abc")
	Errorf("dot rasterisation failed: %s", "no such file")
}
