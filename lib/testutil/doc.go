// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for metajson packages.
//
// [RequireReceive] wraps the select-with-timeout pattern so tests that
// fan work out to goroutines never hang on a lost result. It is the
// only place in the test suite that uses a wall-clock timeout.
//
// [RequireJSON] compares serializer output against an expected
// document and also checks that the output parses as JSON, so a test
// that pins exact bytes cannot pass on malformed text.
//
// [WriteFile] drops a fixture into a per-test temporary directory and
// returns its path, for tests of the file loaders and the CLI.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package imports no other metajson package, so every package's
// internal tests can use it.
package testutil
