//go:build !windows

package textedit

import "os"

// syncDir fsyncs a directory so a rename inside it is persisted.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close() // nolint:errcheck
	return f.Sync()
}
