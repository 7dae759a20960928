package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitConfigError  = 1 // bad flags, config, criteria or dataset shape
	ExitRuntimeError = 2
)

// configError marks failures the user fixes by changing input rather than
// by retrying.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func asConfigError(err error) error {
	if err == nil {
		return nil
	}
	return &configError{err: err}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *configError
	switch {
	case errors.As(err, &ce),
		ranking.IsInvalidRequest(err),
		topsis.IsConfigError(err),
		errors.Is(err, dataset.ErrMissingColumn),
		errors.Is(err, dataset.ErrNonNumeric),
		errors.Is(err, dataset.ErrDuplicateLabel),
		errors.Is(err, dataset.ErrNoRows):
		return ExitConfigError
	}
	return ExitRuntimeError
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}
