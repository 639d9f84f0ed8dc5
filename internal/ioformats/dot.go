package ioformats

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/matejchalk/armc/internal/armcerr"
	"github.com/matejchalk/armc/internal/sfa"
)

// WriteSFADOT prints m as a Graphviz DOT digraph, for visualisation only
// (spec §6: DOT is not a round-trip input format).
func WriteSFADOT(w io.Writer, m *sfa.SFA[string]) error {
	norm, err := sfa.Normalize(m, 0)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	for _, q := range norm.States() {
		shape := "circle"
		if norm.IsFinal(q) {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "  %q [shape=%s];\n", norm.StateName(q), shape)
	}
	fmt.Fprintf(bw, "  __start__ [shape=point];\n")
	fmt.Fprintf(bw, "  __start__ -> %q;\n", norm.StateName(norm.Initial()))
	for _, q := range norm.States() {
		for _, mv := range norm.Moves(q) {
			label := "ε"
			if mv.Pred != nil {
				label = timbukPredLabel(mv.Pred)
			}
			fmt.Fprintf(bw, "  %q -> %q [label=%q];\n", norm.StateName(q), norm.StateName(mv.Target), label)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// RenderImage rasterises a DOT source via an external `dot` process (spec
// §6: "an external dot process is invoked ... stdin piped"). No pack
// dependency wraps Graphviz; os/exec is the standard library's only option
// for external-process invocation, so it is used directly here (see
// DESIGN.md).
func RenderImage(dotSource string, format string) ([]byte, error) {
	if format == "" {
		return nil, armcerr.New(armcerr.KindParser, "dot rendering requires a non-empty IMAGE_FORMAT")
	}
	cmd := exec.Command("dot", "-T"+format)
	cmd.Stdin = strings.NewReader(dotSource)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, armcerr.Wrapf(armcerr.KindParser, err, "running dot -T%s: %s", format, stderr.String())
	}
	return out.Bytes(), nil
}
