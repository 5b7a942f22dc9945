package textedit

import (
	"bufio"
	"errors"
	"io"
	"iter"
)

// Lines lazily splits r into lines. Each line keeps its terminator ("\n" or
// "\r\n"); a final line without one is yielded as-is. Concatenating every
// yielded line reproduces the bytes of r.
//
// Iteration stops at the first read error, which is yielded with an empty line.
// The sequence consumes r, so it can only be ranged over once.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				if !yield(line, nil) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", err)
				}
				return
			}
		}
	}
}
