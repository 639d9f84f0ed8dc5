package ioformats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/label"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
	"github.com/matejchalk/armc/internal/sft"
)

// Timbuk labels are "in{a,b,c}", "not_in{a,b,c}", a bare single symbol (an
// abbreviation for in{symbol}), or "eps" for an epsilon move. Transducer
// labels are "X/Y" (two Timbuk label expressions either side of '/') or
// "@P/@P" (identity: the same label expression on both sides, written once
// after a leading '@').

// ParseSFATimbuk reads the Timbuk format of spec §6 into a ParsedSFA.
func ParseSFATimbuk(r io.Reader) (ParsedSFA, error) {
	p := ParsedSFA{Initial: -1, StateNames: map[int]string{}}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Initial:"):
			q, err := parseStateRef(strings.TrimSpace(strings.TrimPrefix(line, "Initial:")), p.StateNames)
			if err != nil {
				return ParsedSFA{}, timbukErr(lineNo, err)
			}
			p.Initial = q
		case strings.HasPrefix(line, "Final:"):
			for _, tok := range strings.Fields(strings.TrimPrefix(line, "Final:")) {
				q, err := parseStateRef(tok, p.StateNames)
				if err != nil {
					return ParsedSFA{}, timbukErr(lineNo, err)
				}
				p.Finals = append(p.Finals, q)
			}
		case strings.HasPrefix(line, "Alphabet:"):
			p.Alphabet = strings.Fields(strings.TrimPrefix(line, "Alphabet:"))
		default:
			mv, err := parseSFATransitionLine(line, p.StateNames)
			if err != nil {
				return ParsedSFA{}, timbukErr(lineNo, err)
			}
			p.Moves = append(p.Moves, mv)
		}
	}
	if err := scanner.Err(); err != nil {
		return ParsedSFA{}, armcerr.Wrap(armcerr.KindParser, err, "reading timbuk automaton")
	}
	if p.Initial < 0 {
		return ParsedSFA{}, armcerr.New(armcerr.KindParser, "timbuk: missing Initial: line")
	}
	if len(p.StateNames) == 0 {
		p.StateNames = nil
	}
	return p, nil
}

// parseStateRef resolves a state token to a stable integer id, recording a
// display name for non-numeric tokens (Timbuk lets states be named, e.g.
// q0, q1).
func parseStateRef(tok string, names map[int]string) (int, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("empty state reference")
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return n, nil
	}
	// Hash the name into a stable small id space by reusing any id already
	// assigned to this name, else allocating the next free one.
	for id, name := range names {
		if name == tok {
			return id, nil
		}
	}
	id := len(names)
	for {
		if _, taken := names[id]; !taken {
			break
		}
		id++
	}
	names[id] = tok
	return id, nil
}

func parseSFATransitionLine(line string, names map[int]string) (sfaMove, error) {
	arrow := strings.Index(line, "->")
	if arrow < 0 {
		return sfaMove{}, fmt.Errorf("expected 'from label -> to', got %q", line)
	}
	left := strings.TrimSpace(line[:arrow])
	toTok := strings.TrimSpace(line[arrow+2:])
	fields := strings.Fields(left)
	if len(fields) < 2 {
		return sfaMove{}, fmt.Errorf("expected 'from label -> to', got %q", line)
	}
	fromTok := fields[0]
	labelTok := strings.Join(fields[1:], " ")

	from, err := parseStateRef(fromTok, names)
	if err != nil {
		return sfaMove{}, err
	}
	to, err := parseStateRef(toTok, names)
	if err != nil {
		return sfaMove{}, err
	}

	mv := sfaMove{from: from, to: to}
	switch {
	case labelTok == "eps":
		mv.epsilon = true
	case strings.HasPrefix(labelTok, "not_in{"):
		mv.notIn = true
		mv.symbols = splitSet(labelTok, "not_in{")
	case strings.HasPrefix(labelTok, "in{"):
		mv.symbols = splitSet(labelTok, "in{")
	default:
		mv.symbols = []string{labelTok}
	}
	return mv, nil
}

func splitSet(tok, prefix string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, prefix), "}")
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func timbukErr(lineNo int, err error) error {
	return armcerr.Wrapf(armcerr.KindParser, err, "timbuk line %d", lineNo)
}

// ParseSFTTimbuk reads a Timbuk transducer: the same header lines, with
// transition labels of the form "X/Y" or "@X" (identity).
func ParseSFTTimbuk(r io.Reader) (ParsedSFT, error) {
	p := ParsedSFT{Initial: -1, StateNames: map[int]string{}}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Initial:"):
			q, err := parseStateRef(strings.TrimSpace(strings.TrimPrefix(line, "Initial:")), p.StateNames)
			if err != nil {
				return ParsedSFT{}, timbukErr(lineNo, err)
			}
			p.Initial = q
		case strings.HasPrefix(line, "Final:"):
			for _, tok := range strings.Fields(strings.TrimPrefix(line, "Final:")) {
				q, err := parseStateRef(tok, p.StateNames)
				if err != nil {
					return ParsedSFT{}, timbukErr(lineNo, err)
				}
				p.Finals = append(p.Finals, q)
			}
		case strings.HasPrefix(line, "Alphabet:"):
			p.Alphabet = strings.Fields(strings.TrimPrefix(line, "Alphabet:"))
		default:
			mv, err := parseSFTTransitionLine(line, p.StateNames)
			if err != nil {
				return ParsedSFT{}, timbukErr(lineNo, err)
			}
			p.Moves = append(p.Moves, mv)
		}
	}
	if err := scanner.Err(); err != nil {
		return ParsedSFT{}, armcerr.Wrap(armcerr.KindParser, err, "reading timbuk transducer")
	}
	if p.Initial < 0 {
		return ParsedSFT{}, armcerr.New(armcerr.KindParser, "timbuk: missing Initial: line")
	}
	if len(p.StateNames) == 0 {
		p.StateNames = nil
	}
	return p, nil
}

func parseSFTTransitionLine(line string, names map[int]string) (sftMove, error) {
	arrow := strings.Index(line, "->")
	if arrow < 0 {
		return sftMove{}, fmt.Errorf("expected 'from label -> to', got %q", line)
	}
	left := strings.TrimSpace(line[:arrow])
	toTok := strings.TrimSpace(line[arrow+2:])
	fields := strings.Fields(left)
	if len(fields) < 2 {
		return sftMove{}, fmt.Errorf("expected 'from label -> to', got %q", line)
	}
	fromTok := fields[0]
	labelTok := strings.Join(fields[1:], " ")

	from, err := parseStateRef(fromTok, names)
	if err != nil {
		return sftMove{}, err
	}
	to, err := parseStateRef(toTok, names)
	if err != nil {
		return sftMove{}, err
	}

	mv := sftMove{from: from, to: to}
	if labelTok == "eps" {
		mv.epsilon = true
		return mv, nil
	}
	if strings.HasPrefix(labelTok, "@") {
		mv.identity = true
		side := strings.TrimPrefix(labelTok, "@")
		switch {
		case strings.HasPrefix(side, "not_in{"):
			mv.inNotIn = true
			mv.inSymbols = splitSet(side, "not_in{")
		case strings.HasPrefix(side, "in{"):
			mv.inSymbols = splitSet(side, "in{")
		default:
			mv.inSymbols = []string{side}
		}
		return mv, nil
	}
	slash := strings.Index(labelTok, "/")
	if slash < 0 {
		return sftMove{}, fmt.Errorf("expected 'in/out' or '@in', got %q", labelTok)
	}
	inSide := strings.TrimSpace(labelTok[:slash])
	outSide := strings.TrimSpace(labelTok[slash+1:])

	if inSide == "eps" {
		mv.epsilonIn = true
	} else {
		mv.inNotIn, mv.inSymbols = parseSideSet(inSide)
	}
	if outSide == "eps" {
		mv.epsilonOut = true
	} else {
		mv.outNotIn, mv.outSymbols = parseSideSet(outSide)
	}
	return mv, nil
}

func parseSideSet(side string) (notIn bool, symbols []string) {
	switch {
	case strings.HasPrefix(side, "not_in{"):
		return true, splitSet(side, "not_in{")
	case strings.HasPrefix(side, "in{"):
		return false, splitSet(side, "in{")
	default:
		return false, []string{side}
	}
}

// WriteSFATimbuk prints m in the Timbuk format, using Normalize'd state
// order so output is deterministic across runs (spec §4.6 "Ordering /
// tie-breaks").
func WriteSFATimbuk(w io.Writer, m *sfa.SFA[string]) error {
	norm, err := sfa.Normalize(m, 0)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if norm.Name() != "" {
		fmt.Fprintf(bw, "Name: %s\n", norm.Name())
	}
	fmt.Fprintf(bw, "Initial: %s\n", norm.StateName(norm.Initial()))
	fmt.Fprintf(bw, "Final:")
	for _, q := range norm.Finals() {
		fmt.Fprintf(bw, " %s", norm.StateName(q))
	}
	fmt.Fprintln(bw)
	for _, q := range norm.States() {
		for _, mv := range norm.Moves(q) {
			fmt.Fprintf(bw, "%s %s -> %s\n", norm.StateName(q), timbukPredLabel(mv.Pred), norm.StateName(mv.Target))
		}
	}
	return bw.Flush()
}

func timbukPredLabel(p *predicate.Predicate[string]) string {
	if p == nil {
		return "eps"
	}
	elems := p.RawSet().Elements()
	strs := make([]string, len(elems))
	copy(strs, elems)
	sort.Strings(strs)
	if len(strs) == 1 && p.Kind() == predicate.In {
		return strs[0]
	}
	prefix := "in"
	if p.Kind() == predicate.NotIn {
		prefix = "not_in"
	}
	return fmt.Sprintf("%s{%s}", prefix, strings.Join(strs, ","))
}

// WriteSFTTimbuk prints t in the Timbuk transducer format.
func WriteSFTTimbuk(w io.Writer, t *sft.SFT[string]) error {
	bw := bufio.NewWriter(w)
	if t.Name() != "" {
		fmt.Fprintf(bw, "Name: %s\n", t.Name())
	}
	fmt.Fprintf(bw, "Initial: %s\n", t.StateName(t.Initial()))
	fmt.Fprintf(bw, "Final:")
	for _, q := range t.Finals() {
		fmt.Fprintf(bw, " %s", t.StateName(q))
	}
	fmt.Fprintln(bw)
	for _, q := range t.States() {
		for _, mv := range t.Moves(q) {
			fmt.Fprintf(bw, "%s %s -> %s\n", t.StateName(q), timbukLabelString(mv.Label), t.StateName(mv.Target))
		}
	}
	return bw.Flush()
}

func timbukLabelString(l *label.Label[string]) string {
	if l == nil {
		return "eps"
	}
	if l.Tag() == label.Identity {
		return "@" + timbukPredLabel(l.In())
	}
	return timbukPredLabel(l.In()) + "/" + timbukPredLabel(l.Out())
}
