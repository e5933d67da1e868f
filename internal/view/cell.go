// Package view turns render instructions into history cells and writes them
// to a terminal.
package view

import tuirender "agentui/internal/tui/render"

// HistoryCell is an append-only render block for terminal output.
// Each history entry maps to one or more cells.
type HistoryCell interface {
	// ID correlates a cell with the segment it shows ("seq:index"); empty
	// means append-only.
	ID() string
	// Render returns styled lines for the given terminal width.
	Render(width int) []tuirender.Line
}

// spacer returns n blank lines.
func spacer(n int) []tuirender.Line {
	if n <= 0 {
		return nil
	}
	return make([]tuirender.Line, n)
}
