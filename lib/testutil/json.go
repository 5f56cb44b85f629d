// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "encoding/json"

// RequireJSON fails the test unless got is valid JSON and byte-equal to
// want.
func RequireJSON(t fatalHelper, got, want string) {
	t.Helper()
	if !json.Valid([]byte(got)) {
		t.Fatalf("output is not valid JSON: %s", got)
	}
	if got != want {
		t.Fatalf("output mismatch\n got: %s\nwant: %s", got, want)
	}
}
