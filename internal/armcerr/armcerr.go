// Package armcerr defines the error kinds of spec §7 as a small tagged-error
// type, grounded on the teacher's internal/tqerrors wrap/unwrap shape: a
// technical message for logs/stderr, an optional wrapped cause, and a Kind
// for callers that need to branch on the class of error. A timeout and an
// initial-property violation are both KindARMC; only their messages differ.
//
// Propagation policy (spec §7): nothing in the core recovers from one of
// these; they unwind to the CLI, which prints "Error - <message>" to stderr
// and exits 1. Verification outcomes (HOLDS, VIOLATED) are never represented
// as an armcerr — they flow through armc.Result.
package armcerr

import "fmt"

// Kind tags which class of error occurred.
type Kind int

const (
	// KindConfig covers bad config file format, unknown/duplicate/missing
	// properties, bad values, and abstraction-selection conflicts.
	KindConfig Kind = iota
	// KindAutomaton covers invalid state-name maps and symbols outside Σ.
	KindAutomaton
	// KindSFA covers states missing from the state set and incompatible
	// alphabets between SFA operands.
	KindSFA
	// KindSFT covers incompatible alphabets and unioning zero transducers.
	KindSFT
	// KindParser covers format-specific syntax violations across Timbuk,
	// FSA, and FSM.
	KindParser
	// KindARMC covers the initial-property violation and timeout.
	KindARMC
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindAutomaton:
		return "AutomatonError"
	case KindSFA:
		return "SFAError"
	case KindSFT:
		return "SFTError"
	case KindParser:
		return "ParserError"
	case KindARMC:
		return "ARMCError"
	default:
		return "Error"
	}
}

// Error is the tagged error value used throughout the core.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's tag.
func (e *Error) Kind() Kind { return e.kind }

// New builds an Error of the given kind from a message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf builds an Error of the given kind from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind that wraps a lower-level cause.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

// Wrapf builds an Error of the given kind wrapping cause, with a formatted
// message.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if as(err, &e) {
		return e.kind == kind
	}
	return false
}

// as is a tiny local copy of errors.As for a single concrete type, kept here
// so this package does not need to import errors just for one call site used
// by Is (every other package uses the standard errors package directly).
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
