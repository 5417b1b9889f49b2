// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"

	"github.com/gogama/simplehttp/failure"
	"github.com/spf13/cobra"
)

// Exit codes of the command line tool.
const (
	// ExitSuccess indicates the request completed.
	ExitSuccess = 0
	// ExitFailure indicates an error not covered by another code.
	ExitFailure = 1
	// ExitInputError indicates a malformed URL, port, verb or body.
	ExitInputError = 2
	// ExitConfigError indicates the configuration file is unusable.
	ExitConfigError = 3
	// ExitNetworkError indicates the request failed after the URL
	// was accepted.
	ExitNetworkError = 4
	// ExitUsageError indicates invalid command line usage.
	ExitUsageError = 64
)

type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ce *configError
	if errors.As(err, &ce) {
		return ExitConfigError
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsageError
	}
	switch failure.KindOf(err) {
	case 0:
		return ExitFailure
	case failure.InputError, failure.MalformedURL, failure.InvalidPort:
		return ExitInputError
	default:
		return ExitNetworkError
	}
}

// usageArgs marks argument count errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

func flagError(_ *cobra.Command, err error) error {
	return &usageError{err}
}
