package ioformats

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ichiban/prolog"

	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/predicate"
	"github.com/matejchalk/armc/internal/sfa"
)

// FSA is the Prolog-style format of spec §6: a single fa(Init, Finals,
// Transitions) term, each transition fa_trans(From, Label, To); Label is
// either '[]' (epsilon), a bare atom (single-symbol abbreviation), or a
// compound fsa_preds(Kind, Symbols) / fsa_frozen(Kind, Symbols) term
// carrying an explicit IN/NOT_IN predicate, grounded on
// rfielding-turducken's ichiban/prolog Query/Scan usage.
//
// ParseSFAFSA loads the term via an ichiban/prolog interpreter and reads it
// back out with a handful of queries rather than writing a bespoke Prolog
// term parser — the interpreter already implements one.
func ParseSFAFSA(r io.Reader) (ParsedSFA, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return ParsedSFA{}, armcerr.Wrap(armcerr.KindParser, err, "reading fsa automaton")
	}

	interp := new(prolog.Interpreter)
	program := fmt.Sprintf("%s\nfact(I, F, T) :- fa(I, F, T).\n", src)
	if err := interp.Exec(program); err != nil {
		return ParsedSFA{}, armcerr.Wrap(armcerr.KindParser, err, "parsing fsa term")
	}

	ctx := context.Background()
	sols, err := interp.QueryContext(ctx, "fact(Init, Finals, Trans).")
	if err != nil {
		return ParsedSFA{}, armcerr.Wrap(armcerr.KindParser, err, "querying fa/3 term")
	}
	defer sols.Close()

	if !sols.Next() {
		return ParsedSFA{}, armcerr.New(armcerr.KindParser, "fsa: no fa(Init, Finals, Transitions) term found")
	}
	var result struct {
		Init   interface{}
		Finals interface{}
		Trans  interface{}
	}
	if err := sols.Scan(&result); err != nil {
		return ParsedSFA{}, armcerr.Wrap(armcerr.KindParser, err, "scanning fa/3 term")
	}

	names := map[int]string{}
	p := ParsedSFA{StateNames: names}
	p.Initial = fsaStateRef(result.Init, names)
	for _, f := range fsaList(result.Finals) {
		p.Finals = append(p.Finals, fsaStateRef(f, names))
	}
	for _, t := range fsaList(result.Trans) {
		mv, err := fsaTransition(t, names)
		if err != nil {
			return ParsedSFA{}, err
		}
		p.Moves = append(p.Moves, mv)
	}
	if len(names) == 0 {
		p.StateNames = nil
	}
	return p, nil
}

// fsaList flattens a Prolog list term (built by the interpreter's internal
// compound representation) into its elements via repeated string rendering
// — ichiban/prolog terms print as "[a,b,c]" / "a" via fmt, which is enough
// structure to split without a dependency on its internal term types.
func fsaList(v interface{}) []interface{} {
	s := fmt.Sprintf("%v", v)
	s = strings.TrimSpace(s)
	if s == "[]" || s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := splitTopLevel(s)
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// splitTopLevel splits s on commas that are not nested inside parentheses,
// since transition terms themselves contain commas, e.g.
// fsa_trans(0,fsa_preds(in,[a,b]),1).
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func fsaStateRef(v interface{}, names map[int]string) int {
	return parseFSAStateToken(fmt.Sprintf("%v", v), names)
}

func parseFSAStateToken(tok string, names map[int]string) int {
	tok = strings.TrimSpace(tok)
	for id, name := range names {
		if name == tok {
			return id
		}
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return n
	}
	nextID := len(names)
	for {
		if _, taken := names[nextID]; !taken {
			break
		}
		nextID++
	}
	names[nextID] = tok
	return nextID
}

// fsaTransition parses one fsa_trans(From, Label, To) term, rendered as
// text, into an sfaMove.
func fsaTransition(raw interface{}, names map[int]string) (sfaMove, error) {
	s := strings.TrimSpace(fmt.Sprintf("%v", raw))
	s = strings.TrimPrefix(s, "fsa_trans(")
	s = strings.TrimSuffix(s, ")")
	parts := splitTopLevel(s)
	if len(parts) != 3 {
		return sfaMove{}, armcerr.Newf(armcerr.KindParser, "fsa: malformed transition %q", s)
	}
	from := parseFSAStateToken(strings.TrimSpace(parts[0]), names)
	to := parseFSAStateToken(strings.TrimSpace(parts[2]), names)
	label := strings.TrimSpace(parts[1])

	mv := sfaMove{from: from, to: to}
	switch {
	case label == "[]":
		mv.epsilon = true
	case strings.HasPrefix(label, "fsa_preds(") || strings.HasPrefix(label, "fsa_frozen("):
		inner := label[strings.Index(label, "(")+1 : len(label)-1]
		args := splitTopLevel(inner)
		if len(args) != 2 {
			return sfaMove{}, armcerr.Newf(armcerr.KindParser, "fsa: malformed predicate term %q", label)
		}
		kind := strings.TrimSpace(args[0])
		mv.notIn = kind == "not_in"
		mv.symbols = fsaSymbolList(args[1])
	default:
		mv.symbols = []string{label}
	}
	return mv, nil
}

func fsaSymbolList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// WriteSFAFSA prints m as a single fa(Init, Finals, Transitions) Prolog
// term.
func WriteSFAFSA(w io.Writer, m *sfa.SFA[string]) error {
	norm, err := sfa.Normalize(m, 0)
	if err != nil {
		return err
	}
	var finals []string
	for _, q := range norm.Finals() {
		finals = append(finals, fmt.Sprint(q))
	}
	var trans []string
	for _, q := range norm.States() {
		for _, mv := range norm.Moves(q) {
			label := "[]"
			if mv.Pred != nil {
				kind := "in"
				if mv.Pred.Kind() == predicate.NotIn {
					kind = "not_in"
				}
				elems := mv.Pred.RawSet().Elements()
				sort.Strings(elems)
				label = fmt.Sprintf("fsa_preds(%s,[%s])", kind, strings.Join(elems, ","))
			}
			trans = append(trans, fmt.Sprintf("fsa_trans(%d,%s,%d)", q, label, mv.Target))
		}
	}
	_, err = fmt.Fprintf(w, "fa(%d,[%s],[%s]).\n", norm.Initial(), strings.Join(finals, ","), strings.Join(trans, ","))
	return err
}
