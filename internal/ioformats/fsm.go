package ioformats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
)

// FSM is the numeric-column format of spec §6: a header line
// "states finals alphabet-size", one line listing the final state ids, then one
// transition per line as "from symbol-index to" (symbol-index -1 marks
// epsilon), with an optional trailing "symbols:" line naming each index in
// order (absent, symbols default to their index rendered as a string —
// the format is meant for tools that keep symbols in a companion file, but
// inlining keeps the round trip self-contained when none is supplied).
func ParseSFAFSM(r io.Reader) (ParsedSFA, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	header, ok := nextLine()
	if !ok {
		return ParsedSFA{}, armcerr.New(armcerr.KindParser, "fsm: missing header line")
	}
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ParsedSFA{}, armcerr.Newf(armcerr.KindParser, "fsm: malformed header %q", header)
	}
	numStates, err := strconv.Atoi(fields[0])
	if err != nil {
		return ParsedSFA{}, armcerr.Wrapf(armcerr.KindParser, err, "fsm: bad state count %q", fields[0])
	}
	alphabetSize := 0
	if len(fields) >= 3 {
		alphabetSize, _ = strconv.Atoi(fields[2])
	}

	finalsLine, ok := nextLine()
	if !ok {
		return ParsedSFA{}, armcerr.New(armcerr.KindParser, "fsm: missing finals line")
	}
	var finals []int
	for _, tok := range strings.Fields(finalsLine) {
		q, err := strconv.Atoi(tok)
		if err != nil {
			return ParsedSFA{}, armcerr.Wrapf(armcerr.KindParser, err, "fsm: bad final state %q", tok)
		}
		finals = append(finals, q)
	}

	symbols := make([]string, alphabetSize)
	for i := range symbols {
		symbols[i] = strconv.Itoa(i)
	}

	var moves []sfaMove
	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		if strings.HasPrefix(line, "symbols:") {
			names := strings.Fields(strings.TrimPrefix(line, "symbols:"))
			for i, n := range names {
				if i < len(symbols) {
					symbols[i] = n
				}
			}
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 3 {
			return ParsedSFA{}, armcerr.Newf(armcerr.KindParser, "fsm line %d: expected 'from symbol to', got %q", lineNo, line)
		}
		from, err1 := strconv.Atoi(parts[0])
		symIdx, err2 := strconv.Atoi(parts[1])
		to, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return ParsedSFA{}, armcerr.Newf(armcerr.KindParser, "fsm line %d: malformed transition %q", lineNo, line)
		}
		if symIdx < 0 {
			moves = append(moves, sfaMove{from: from, to: to, epsilon: true})
			continue
		}
		if symIdx >= len(symbols) {
			return ParsedSFA{}, armcerr.Newf(armcerr.KindParser, "fsm line %d: symbol index %d out of range", lineNo, symIdx)
		}
		moves = append(moves, sfaMove{from: from, to: to, symbols: []string{symbols[symIdx]}})
	}

	_ = numStates
	return ParsedSFA{Initial: 0, Finals: finals, Moves: moves}, nil
}

// explicitSymbols enumerates the literal symbols a predicate accepts. FSM's
// per-symbol arc format has no way to express NOT_IN directly, so a NOT_IN
// predicate is expanded against the automaton's full alphabet.
func explicitSymbols(m *sfa.SFA[string], p predicate.Predicate[string]) []string {
	if p.Kind() == predicate.In {
		elems := p.RawSet().Elements()
		sort.Strings(elems)
		return elems
	}
	excluded := p.RawSet()
	var out []string
	for _, s := range m.Algebra().Sigma().Ordered() {
		if !excluded.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// WriteSFAFSM prints m in the FSM numeric format. Symbols are written out by
// name on a trailing "symbols:" line so the file round-trips without an
// external symbol table.
func WriteSFAFSM(w io.Writer, m *sfa.SFA[string]) error {
	norm, err := sfa.Normalize(m, 0)
	if err != nil {
		return err
	}
	symIndex := map[string]int{}
	var symOrder []string
	indexOf := func(s string) int {
		if idx, ok := symIndex[s]; ok {
			return idx
		}
		idx := len(symOrder)
		symIndex[s] = idx
		symOrder = append(symOrder, s)
		return idx
	}

	type line struct{ from, symIdx, to int }
	var lines []line
	for _, q := range norm.States() {
		for _, mv := range norm.Moves(q) {
			if mv.Pred == nil {
				lines = append(lines, line{q, -1, mv.Target})
				continue
			}
			for _, s := range explicitSymbols(norm, *mv.Pred) {
				lines = append(lines, line{q, indexOf(s), mv.Target})
			}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", len(norm.States()), len(norm.Finals()), len(symOrder))
	finalStrs := make([]string, len(norm.Finals()))
	for i, q := range norm.Finals() {
		finalStrs[i] = strconv.Itoa(q)
	}
	fmt.Fprintln(bw, strings.Join(finalStrs, " "))
	for _, l := range lines {
		fmt.Fprintf(bw, "%d %d %d\n", l.from, l.symIdx, l.to)
	}
	if len(symOrder) > 0 {
		fmt.Fprintf(bw, "symbols: %s\n", strings.Join(symOrder, " "))
	}
	return bw.Flush()
}
