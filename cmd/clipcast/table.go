package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
)

// renderTable prints rows with box drawing on terminals and plain ASCII
// when piped.
func renderTable(header table.Row, rows []table.Row) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.AppendHeader(header)
	w.AppendRows(rows)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		w.SetStyle(table.StyleRounded)
	} else {
		w.SetStyle(table.StyleDefault)
	}
	w.Render()
}

// formatDuration renders seconds compactly for table cells.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds * float64(time.Second)).Round(100 * time.Millisecond)
	return d.String()
}

// formatAge renders how long ago t was, coarsely.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

// truncate shortens s for narrow table columns.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
