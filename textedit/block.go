package textedit

import (
	"fmt"
	"iter"
	"strings"
)

// Markers identify a block of lines by substrings of its first line and of the
// line following it. Matching is case sensitive containment within a single
// line; neither marker is trimmed.
type Markers struct {
	Start, End string
}

// Transition advances the skipping state over one line. The start marker is
// only considered while not already skipping; the end marker always clears the
// state, including on the line that just opened the block. The line is
// discarded iff next is true.
func (m Markers) Transition(skipping bool, line string) (next, opened bool) {
	if !skipping && strings.Contains(line, m.Start) {
		skipping, opened = true, true
	}
	if strings.Contains(line, m.End) {
		skipping = false
	}
	return skipping, opened
}

// BlockStats describes what a BlockEditor did to a document. Line numbers are
// 1-based; zero means the line was not seen.
type BlockStats struct {
	Lines     int
	StartLine int
	// EndLine is the kept line that closed the first block.
	EndLine int
	Removed int
	// Blocks counts the blocks that actually dropped lines.
	Blocks int
	// Unterminated is set when the block ran to end of file without an end
	// marker.
	Unterminated bool
}

// Found reports whether the start marker was seen.
func (s BlockStats) Found() bool { return s.StartLine > 0 }

// DeleteBlock makes an editor that drops the block opened by a line containing
// start, through the line before the next line containing end. The start line
// is dropped and the end line is kept. If no end line follows, the block
// extends to end of file. A line containing both markers is kept and opens
// nothing. The start marker stays armed after a block closes: a later start
// line opens another block, so documents should carry a single marker pair.
//
// EOF fails with ErrMarkerNotFound if start never appeared. Panics if either
// marker is empty.
//
// This editor is stateful and can only be used once.
func DeleteBlock(start, end string) *BlockEditor {
	if start == "" || end == "" {
		panic(fmt.Errorf("DeleteBlock: start and end markers must not be empty"))
	}
	return &BlockEditor{markers: Markers{Start: start, End: end}}
}

type BlockEditor struct {
	markers    Markers
	requireEnd bool
	onDiscard  func(lineNo int, line string)

	skipping bool
	stats    BlockStats
}

// RequireEnd makes EOF fail with ErrEndMarkerNotFound instead of accepting a
// block that runs to end of file.
func (b *BlockEditor) RequireEnd() *BlockEditor {
	b.requireEnd = true
	return b
}

// OnDiscard registers fn to be called with every dropped line and its 1-based
// line number.
func (b *BlockEditor) OnDiscard(fn func(lineNo int, line string)) *BlockEditor {
	b.onDiscard = fn
	return b
}

// Stats returns what the editor has seen so far. It is complete once EOF has
// been called.
func (b *BlockEditor) Stats() BlockStats { return b.stats }

// Next implements Editor.
func (b *BlockEditor) Next(line string) (output iter.Seq[string], err error) {
	b.stats.Lines++
	wasSkipping := b.skipping
	var opened bool
	b.skipping, opened = b.markers.Transition(b.skipping, line)
	if opened && !b.stats.Found() {
		b.stats.StartLine = b.stats.Lines
	}
	if !wasSkipping && b.skipping {
		b.stats.Blocks++
	}
	if wasSkipping && !b.skipping && b.stats.EndLine == 0 {
		b.stats.EndLine = b.stats.Lines
	}
	if !b.skipping {
		return each(line), nil
	}
	b.stats.Removed++
	if b.onDiscard != nil {
		b.onDiscard(b.stats.Lines, line)
	}
	return empty(), nil
}

// EOF implements Editor.
func (b *BlockEditor) EOF() (output iter.Seq[string], err error) {
	if !b.stats.Found() {
		return nil, fmt.Errorf("%w: %q", ErrMarkerNotFound, b.markers.Start)
	}
	if b.skipping {
		b.stats.Unterminated = true
		if b.requireEnd {
			return nil, fmt.Errorf("%w: %q after line %d", ErrEndMarkerNotFound, b.markers.End, b.stats.StartLine)
		}
	}
	return empty(), nil
}
