package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = "A\nSTART\nB\nC\nEND\nD\n"

type runResult struct {
	stdout, stderr string
	err            error
}

func runWithConfig(t testing.TB, cfgContent string, args ...string) runResult {
	t.Helper()
	cfgFile := filepath.Join(t.TempDir(), "excise.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgContent), 0o644))
	root := Root()
	root.SetArgs(append([]string{"--config", cfgFile}, args...))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return runResult{out.String(), errOut.String(), err}
}

func run(t testing.TB, args ...string) runResult {
	t.Helper()
	return runWithConfig(t, "", args...)
}

func writeDoc(t testing.TB, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func readDoc(t testing.TB, fn string) string {
	t.Helper()
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	return string(b)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "--start", "START", "--end", "END", fn)
	require.NoError(t, res.err)
	assert.Equal(t, "A\nEND\nD\n", readDoc(t, fn))
	assert.Contains(t, res.stdout, fn)
	assert.Contains(t, res.stdout, "removed")
	assert.Empty(t, res.stderr)
}

func TestRemoveMarkerNotFound(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "-s", "ZZZ", "-e", "END", fn)
	require.Error(t, res.err)
	assert.Equal(t, exitNotFound, ExitCode(res.err))
	assert.ErrorContains(t, res.err, "start marker not found")
	assert.Equal(t, sampleDoc, readDoc(t, fn))
	assert.Contains(t, res.stderr, "file.failed")
	assert.Contains(t, res.stdout, "failed")
}

func TestRemoveUnterminated(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "-s", "START", "-e", "NOPE", fn)
	require.NoError(t, res.err)
	assert.Equal(t, "A\n", readDoc(t, fn))
	assert.Contains(t, res.stderr, "block.unterminated")
	assert.Contains(t, res.stdout, "removed to EOF")
}

func TestRemoveRequireEnd(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "--require-end", "-s", "START", "-e", "NOPE", fn)
	require.Error(t, res.err)
	assert.Equal(t, exitNotFound, ExitCode(res.err))
	assert.Equal(t, sampleDoc, readDoc(t, fn))

	// from the config file too
	res = runWithConfig(t, "require-end: true\n", "-s", "START", "-e", "NOPE", fn)
	require.Error(t, res.err)
	assert.Equal(t, sampleDoc, readDoc(t, fn))

	// and the flag wins over the file
	res = runWithConfig(t, "require-end: true\n", "--require-end=false", "-s", "START", "-e", "NOPE", fn)
	require.NoError(t, res.err)
	assert.Equal(t, "A\n", readDoc(t, fn))
}

func TestRemoveDryRun(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "-n", "-s", "START", "-e", "END", fn)
	require.NoError(t, res.err)
	assert.Equal(t, sampleDoc, readDoc(t, fn))
	assert.Contains(t, res.stdout, "2: START")
	assert.Contains(t, res.stdout, "3: B")
	assert.Contains(t, res.stdout, "4: C")
	assert.NotContains(t, res.stdout, "5: END")
	assert.Contains(t, res.stdout, "would remove")
}

func TestRemoveDryRunUnterminated(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "-n", "-s", "START", "-e", "NOPE", fn)
	require.NoError(t, res.err)
	assert.Equal(t, sampleDoc, readDoc(t, fn))
	assert.Contains(t, res.stdout, "would remove to EOF")
	assert.Contains(t, res.stderr, "block.unterminated")
}

func TestRemoveMultipleFiles(t *testing.T) {
	t.Parallel()
	ok := writeDoc(t, sampleDoc)
	noMarker := writeDoc(t, "nothing here\n")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	res := run(t, "-s", "START", "-e", "END", ok, noMarker, missing)
	require.Error(t, res.err)
	assert.Equal(t, exitNotFound, ExitCode(res.err))
	assert.Equal(t, "A\nEND\nD\n", readDoc(t, ok))
	assert.Equal(t, "nothing here\n", readDoc(t, noMarker))
	assert.ErrorIs(t, res.err, os.ErrNotExist)
	assert.Contains(t, res.stdout, "TOTAL")

	res = run(t, "-s", "START", "-e", "END", missing)
	require.Error(t, res.err)
	assert.Equal(t, exitFailure, ExitCode(res.err))
}

func TestRemoveIdenticalMarkers(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "-s", "START", "-e", "START", fn)
	require.NoError(t, res.err)
	assert.Equal(t, sampleDoc, readDoc(t, fn))
	assert.Contains(t, res.stderr, "markers.identical")
	assert.Contains(t, res.stdout, "unchanged")
}

func TestRemoveReportNone(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := runWithConfig(t, "report: none\n", "-s", "START", "-e", "END", fn)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "A\nEND\nD\n", readDoc(t, fn))
}

func TestRemoveLogging(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := run(t, "--log-level", "info", "--log-format", "json", "-s", "START", "-e", "END", fn)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, `"msg":"file.edited"`)
	assert.Contains(t, res.stderr, `"removed":3`)
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no start", []string{"-e", "END", fn}, "--start must not be empty"},
		{"no end", []string{"-s", "START", fn}, "--end must not be empty"},
		{"no files", []string{"-s", "START", "-e", "END"}, "at least one FILE is required"},
		{"empty file name", []string{"-s", "START", "-e", "END", ""}, "FILE must not be empty"},
		{"bad log level", []string{"--log-level", "loud", "-s", "START", "-e", "END", fn}, "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := run(t, tt.args...)
			require.Error(t, res.err)
			assert.ErrorContains(t, res.err, tt.want)
			assert.Equal(t, exitUsage, ExitCode(res.err))
		})
	}
	assert.Equal(t, sampleDoc, readDoc(t, fn))
}

func TestBadConfigFile(t *testing.T) {
	t.Parallel()
	fn := writeDoc(t, sampleDoc)
	res := runWithConfig(t, "colour: blue\n", "-s", "START", "-e", "END", fn)
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Equal(t, sampleDoc, readDoc(t, fn))
}

func TestConfigShow(t *testing.T) {
	t.Parallel()
	res := runWithConfig(t, "report: none\n", "--log-level", "debug", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "log-level: debug")
	assert.Contains(t, res.stdout, "report: none")
	assert.Contains(t, res.stdout, "sync: true")
}

func TestConfigPath(t *testing.T) {
	t.Parallel()
	res := run(t, "config", "path")
	require.NoError(t, res.err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(res.stdout), "excise.yaml"))
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("x")))
	assert.Equal(t, 7, ExitCode(&exitErr{errors.New("x"), 7}))
}
