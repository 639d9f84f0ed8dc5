package ioformats

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/matejchalk/armc/internal/sfa"
)

// SignatureDump renders a "states × predicate automata" table for
// predicate-language abstraction tracing: one row per M-state, one column
// per Π-member, each cell the (sorted, comma-joined) set of that member's
// states appearing in the state's signature. Grounded on the teacher's
// internal/tunascript/parser.go LALR-table dump, which builds the same
// shape of [][]string data and renders it with rosed.InsertTableOpts.
func SignatureDump(m *sfa.SFA[string], piNames []string, sigOf func(state int) []string) string {
	headers := append([]string{"state"}, piNames...)
	data := [][]string{headers}
	for _, q := range m.States() {
		row := []string{m.StateName(q)}
		cells := sigOf(q)
		for i := range piNames {
			if i < len(cells) {
				row = append(row, cells[i])
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}
	return rosed.
		Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// WrapUsage wraps CLI usage/help text to a fixed column width, the same way
// the teacher wraps long console messages (engine.go's consoleOutputWidth
// usage of rosed.Edit(...).Wrap(...)).
func WrapUsage(text string, width int) string {
	return rosed.Edit(text).Wrap(width).String()
}

// FormatBoundDescription describes a finite-length-language bound in a
// single readable line.
func FormatBoundDescription(bound int) string {
	return rosed.Edit(fmt.Sprintf("current finite-length bound: n = %d", bound)).Wrap(80).String()
}
