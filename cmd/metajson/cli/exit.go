// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError asks main to exit with Code without printing anything
// more. A command returns it after writing its own report, for
// outcomes such as "check found invalid schemas" where a non-zero
// status is an answer rather than a crash.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main looks for this method on
// returned errors.
func (e *ExitError) ExitCode() int {
	return e.Code
}
