package textedit

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"iter"
	"os"
	"path/filepath"
)

type editOpts struct {
	noSync bool
}

type EditOpt func(*editOpts)

// WithoutSync skips flushing the new content to disk before it replaces the
// original file.
func WithoutSync() EditOpt {
	return func(o *editOpts) { o.noSync = true }
}

// EditFile runs editor over the contents of fileName and replaces the file with
// the output. The output is staged in a temporary file next to the original and
// renamed over it, so the original is never partially rewritten. If the editor
// fails, including at EOF, the original is left untouched.
//
// The returned changed flag is false when the output is identical to the input,
// in which case the rename is skipped and the file's mtime and inode are
// preserved.
//
// Because the file is replaced rather than overwritten, a changed file gets a
// new inode: hard links to it keep the old content, ownership is that of the
// caller, only the permission bits (not setuid, setgid or sticky) carry over,
// and the containing directory must be writable.
func EditFile(
	fileName string,
	editor Editor,
	opts ...EditOpt,
) (changed bool, err error) {
	var o editOpts
	for _, opt := range opts {
		opt(&o)
	}
	// replace the target of a symlink, not the link itself
	target, err := filepath.EvalSymlinks(fileName)
	if err != nil {
		return false, resourceErr("resolve", fileName, err)
	}
	in, err := os.Open(target)
	if err != nil {
		return false, resourceErr("open", fileName, err)
	}
	defer in.Close() // nolint:errcheck
	st, err := in.Stat()
	if err != nil {
		return false, resourceErr("stat", fileName, err)
	}
	d := filepath.Dir(target)
	out, err := os.CreateTemp(d, filepath.Base(target)+".tmp")
	if err != nil {
		return false, resourceErr("create", fileName, err)
	}
	defer out.Close() // nolint:errcheck
	abort := func(err error) (bool, error) {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return false, err
	}
	if err := out.Chmod(st.Mode().Perm()); err != nil {
		return abort(resourceErr("chmod", fileName, err))
	}
	// keep a running checksum so we know if we can skip the final rename due to not
	// making any changes. This doesn't need to be a strong hash.
	hIn, hOut := crc32.NewIEEE(), crc32.NewIEEE()
	var nOut countingWriter
	mr := io.TeeReader(in, hIn)
	mw := io.MultiWriter(hOut, &nOut, out)
	if err := Edit(mr, mw, editor); err != nil {
		return abort(withPath(err, fileName))
	}
	// protect user data: flush the new file to disk before we do the rename
	if !o.noSync {
		if err := out.Sync(); err != nil {
			return abort(resourceErr("sync", fileName, err))
		}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return false, resourceErr("close", fileName, err)
	}
	if err := in.Close(); err != nil {
		_ = os.Remove(out.Name())
		return false, resourceErr("close", fileName, err)
	}
	// if the checksums and sizes match, we didn't make any changes, so we can
	// skip the rename and avoid the mtime/etc update of the file.
	if hIn.Sum32() == hOut.Sum32() && int64(nOut) == st.Size() {
		if err := os.Remove(out.Name()); err != nil {
			return false, resourceErr("remove", out.Name(), err)
		}
		return false, nil
	}
	if err := os.Rename(out.Name(), target); err != nil {
		_ = os.Remove(out.Name())
		return false, resourceErr("rename", fileName, err)
	}
	if !o.noSync {
		// the data is already in place, a failure here only risks the rename
		// itself not surviving a crash
		_ = syncDir(d)
	}
	return true, nil
}

// Edit streams in through editor into out. Lines are written exactly as the
// editor emits them.
func Edit(
	in io.Reader,
	out io.Writer,
	editor Editor,
) error {
	for line, err := range Lines(in) {
		if err != nil {
			return resourceErr("read", "", err)
		}
		output, err := editor.Next(line)
		if err != nil {
			return err
		}
		if err := emit(out, output); err != nil {
			return err
		}
	}
	output, err := editor.EOF()
	if err != nil {
		return err
	}
	return emit(out, output)
}

func emit(out io.Writer, lines iter.Seq[string]) error {
	for line := range lines {
		if _, err := io.WriteString(out, line); err != nil {
			return resourceErr("write", "", err)
		}
	}
	return nil
}

// withPath attaches fileName to errors coming out of Edit, which only knows
// about streams.
func withPath(err error, fileName string) error {
	var re *ResourceError
	if errors.As(err, &re) {
		if re.Path == "" {
			re.Path = fileName
		}
		return err
	}
	return fmt.Errorf("%s: %w", fileName, err)
}

type countingWriter int64

func (c *countingWriter) Write(p []byte) (int, error) {
	*c += countingWriter(len(p))
	return len(p), nil
}

// ScanFile runs editor over the contents of fileName and discards the output.
// The file is only read, so this is a dry run of EditFile: it fails the same
// way and leaves the editor in the same final state.
func ScanFile(fileName string, editor Editor) error {
	in, err := os.Open(fileName)
	if err != nil {
		return resourceErr("open", fileName, err)
	}
	defer in.Close() // nolint:errcheck
	if err := Edit(in, io.Discard, editor); err != nil {
		return withPath(err, fileName)
	}
	return nil
}
