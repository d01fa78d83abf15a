package main

import (
	"errors"
	"strconv"

	"github.com/JaimeStill/mediflow/internal/triage"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFallback  = 1
	exitMalformed = 2
)

// exitError ends the process with code. err is reported when non-nil.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitCode maps a classification error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, triage.ErrMalformedRequest):
		return exitMalformed
	default:
		return exitFallback
	}
}
