package sfa

// Equivalence decides whether q and q' should be merged by Collapse. The two
// concrete strategies (predicate-language, finite-length-language) live in
// internal/abstraction; this package only knows the generic quotient
// construction (spec §4.3, §4.5).
type Equivalence[S comparable] func(m *SFA[S], q, qPrime int) bool

// Collapse quotients M by equiv: states are scanned in ascending id order and
// each joins the first existing class whose representative satisfies
// equiv(M, state, rep), else starts a new singleton class. Moves are
// rewritten through the state→representative map. A class is final if any of
// its members was, which is what makes the result over-approximate: merging
// states can only add words, never remove them (spec §4.3).
func Collapse[S comparable](m *SFA[S], equiv Equivalence[S]) (*SFA[S], error) {
	var reps []int
	classOf := make(map[int]int, len(m.States()))

	for _, q := range m.States() {
		joined := false
		for _, rep := range reps {
			if equiv(m, q, rep) {
				classOf[q] = rep
				joined = true
				break
			}
		}
		if !joined {
			reps = append(reps, q)
			classOf[q] = q
		}
	}

	final := make(map[int]bool, len(reps))
	for _, q := range m.States() {
		if m.IsFinal(q) {
			final[classOf[q]] = true
		}
	}

	b := NewBuilder[S](m.alg)
	b.SetInitial(classOf[m.initial])
	for _, rep := range reps {
		b.AddState(rep, final[rep])
	}
	for _, q := range m.States() {
		for _, mv := range m.Moves(q) {
			if mv.IsEpsilon() {
				b.AddEpsilon(classOf[q], classOf[mv.Target])
			} else {
				b.AddMove(classOf[q], *mv.Pred, classOf[mv.Target])
			}
		}
	}
	return b.Build()
}
