package cmd

import (
	"errors"
	"fmt"
	"os"
)

func Main() {
	if err := Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(ExitCode(err))
	}
}

type ExitCodeErr interface {
	ExitCode() int
}

// ExitCode maps err to the process exit status: 0 for nil, the code carried by
// an ExitCodeErr in the chain, else 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ece ExitCodeErr
	if errors.As(err, &ece) {
		return ece.ExitCode()
	}
	return 1
}

const (
	exitFailure  = 1
	exitNotFound = 2
	exitUsage    = 64
)

type exitErr struct {
	err  error
	code int
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }
func (e *exitErr) ExitCode() int { return e.code }
