package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	"fastcat.org/go/excise/textedit"
)

type Status string

const (
	StatusRemoved     Status = "removed"
	StatusRemovedEOF  Status = "removed to EOF"
	StatusUnchanged   Status = "unchanged"
	StatusWouldRemove Status = "would remove"
	// the dry-run block has no end marker after it
	StatusWouldRemoveEOF Status = "would remove to EOF"
	StatusFailed         Status = "failed"
)

// Line is a line dropped from a document, with its 1-based position.
type Line struct {
	N    int
	Text string
}

// Result is the outcome of editing one file.
type Result struct {
	Path    string
	Changed bool
	DryRun  bool
	Stats   textedit.BlockStats
	// Discarded is only collected for dry runs.
	Discarded []Line
	Err       error
}

func (r Result) Status() Status {
	switch {
	case r.Err != nil:
		return StatusFailed
	case r.DryRun:
		switch {
		case r.Stats.Removed == 0:
			return StatusUnchanged
		case r.Stats.Unterminated:
			return StatusWouldRemoveEOF
		}
		return StatusWouldRemove
	case !r.Changed:
		return StatusUnchanged
	case r.Stats.Unterminated:
		return StatusRemovedEOF
	default:
		return StatusRemoved
	}
}

// Table renders a one-row-per-file summary.
func Table(w io.Writer, results []Result) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"File", "Status", "Start", "End", "Removed"})
	tw.AppendSeparator()
	var removed int
	for _, r := range results {
		tw.AppendRow(table.Row{r.Path, r.Status(), lineNo(r.Stats.StartLine), lineNo(r.Stats.EndLine), r.Stats.Removed})
		removed += r.Stats.Removed
	}
	if len(results) > 1 {
		tw.AppendFooter(table.Row{"", "", "", "Total", removed})
	}
	tw.Render()
}

func lineNo(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

// Discarded renders the lines a dry run would drop, grouped by file.
func Discarded(w io.Writer, results []Result) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedLight)
	for _, r := range results {
		if r.Err != nil || len(r.Discarded) == 0 {
			continue
		}
		l.AppendItem(r.Path)
		l.Indent()
		for _, line := range r.Discarded {
			l.AppendItem(fmt.Sprintf("%d: %s", line.N, strings.TrimRight(line.Text, "\r\n")))
		}
		l.UnIndent()
	}
	if l.Length() > 0 {
		l.Render()
	}
}
