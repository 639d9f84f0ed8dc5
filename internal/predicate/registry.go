package predicate

import (
	"sync"

	"github.com/matejchalk/armc/internal/alphabet"
)

// Registry is the process-wide, alphabet-keyed algebra table described in
// spec §3: automata sharing the same Σ (as a set, irrespective of symbol
// order) share one Algebra instance. Entries are only ever added, never
// removed, so the zero-value Registry is ready to use. A single-writer
// discipline is sufficient (the driver populates it during setup, before the
// CEGAR loop starts, per spec §5); the mutex below merely protects against
// accidental concurrent use rather than being load-bearing for correctness.
type Registry[S comparable] struct {
	mu    sync.Mutex
	byKey map[string]*Algebra[S]
}

// NewRegistry returns an empty Registry.
func NewRegistry[S comparable]() *Registry[S] {
	return &Registry[S]{byKey: make(map[string]*Algebra[S])}
}

// For returns the canonical Algebra for sigma, creating and caching one if
// this is the first time this alphabet (by symbol set) has been seen.
func (r *Registry[S]) For(sigma *alphabet.Alphabet[S]) *Algebra[S] {
	key := sigma.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byKey == nil {
		r.byKey = make(map[string]*Algebra[S])
	}
	if existing, ok := r.byKey[key]; ok {
		return existing
	}
	alg := NewAlgebra(sigma)
	r.byKey[key] = alg
	return alg
}

// Len reports how many distinct alphabets have been registered so far.
func (r *Registry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
