// Package alphabet models Σ: a finite set of opaque symbols supporting
// equality, hashing, and a total order. Ordering is supplied by the caller
// (it is used only for deterministic printing and tie-breaks, never for
// denotational meaning) since an arbitrary comparable type has no natural
// order of its own.
package alphabet

import (
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/matejchalk/armc/internal/util"
)

// Less is a strict total order over symbols of type S.
type Less[S comparable] func(a, b S) bool

// Alphabet is an immutable finite set of symbols plus the order used to
// print or break ties between them.
type Alphabet[S comparable] struct {
	symbols util.KeySet[S]
	ordered []S
	less    Less[S]
}

// New builds an Alphabet from the given symbols, deduplicating them, and
// caches their canonical order under less.
func New[S comparable](less Less[S], symbols ...S) *Alphabet[S] {
	set := util.KeySetOf(symbols)
	a := &Alphabet[S]{symbols: set, less: less}
	a.rebuildOrder()
	return a
}

func (a *Alphabet[S]) rebuildOrder() {
	elems := a.symbols.Elements()
	sort.Slice(elems, func(i, j int) bool { return a.less(elems[i], elems[j]) })
	a.ordered = elems
}

// Contains reports whether s is a member of Σ.
func (a *Alphabet[S]) Contains(s S) bool {
	return a.symbols.Has(s)
}

// Len returns |Σ|.
func (a *Alphabet[S]) Len() int {
	return a.symbols.Len()
}

// Ordered returns the symbols of Σ in their canonical (total) order.
func (a *Alphabet[S]) Ordered() []S {
	out := make([]S, len(a.ordered))
	copy(out, a.ordered)
	return out
}

// Set returns the underlying symbol set. The returned set must not be
// mutated by callers.
func (a *Alphabet[S]) Set() util.KeySet[S] {
	return a.symbols
}

// Less exposes the configured total order, e.g. for sorting derived slices.
func (a *Alphabet[S]) Less(x, y S) bool {
	return a.less(x, y)
}

// Union returns a new Alphabet containing the symbols of a and b, keeping
// a's order function.
func (a *Alphabet[S]) Union(b *Alphabet[S]) *Alphabet[S] {
	merged := a.symbols.Copy().(util.KeySet[S])
	merged.AddAll(b.symbols)
	return New(a.less, merged.Elements()...)
}

// Key returns a stable, content-addressed identifier for Σ, used to key the
// shared predicate-algebra registry (spec §3: "an in-memory table keyed by Σ
// as a set"). Two alphabets with the same symbols (any order) hash equal.
func (a *Alphabet[S]) Key() string {
	h, _ := blake2b.New256(nil)
	for _, s := range a.ordered {
		fmt.Fprintf(h, "%v\x00", s)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// StringLess is the canonical total order for string-valued alphabets: plain
// byte-wise less-than. Parsers read symbols off disk as strings, so this is
// the order in effect for every automaton loaded through internal/ioformats;
// a locale-aware order (internal/alphabet/collation.go) is available for
// callers that need it but is not the default, since file formats are not
// tied to any particular locale.
func StringLess(a, b string) bool {
	return a < b
}
