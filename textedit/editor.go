package textedit

import "iter"

// Editor is a line-at-a-time transformation of a document. Lines passed to Next
// carry their original terminator, and lines emitted are written verbatim, so
// an editor that emits its input unchanged reproduces the input bytes exactly.
type Editor interface {
	// Next is called after each input line is read. If err is non-nil, the edit
	// operation will fail. Otherwise any lines in output will be emitted. This
	// must include the input line if it should be copied to the output.
	Next(line string) (output iter.Seq[string], err error)
	// EOF is called after all input lines have been processed through Next. Its
	// return will be processed the same way as Next. A non-nil error here fails
	// the edit before anything replaces the original document.
	EOF() (output iter.Seq[string], err error)
}
