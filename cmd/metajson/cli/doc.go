// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for the metajson tool.
//
// The central type is [Command], a named node with optional nested
// [Command.Subcommands], flags, and a Run function. Commands are
// assembled into a tree in cmd/metajson and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing,
// and help output with examples. Every command receives a [Streams]
// value instead of touching os.Stdin/os.Stdout directly, so the whole
// tree runs in-process under test.
//
// Flags are declared as tagged struct fields and bound with
// [FlagsFromParams]; see [BindFlags] for the tag syntax.
//
// When a user types an unknown subcommand or flag, the framework
// suggests the closest known name by Levenshtein edit distance
// (threshold: distance <= 3).
//
// [NewCommandLogger] builds the slog logger commands use for progress
// and diagnostics, and [ExitError] lets a command choose its exit code
// after writing its own report.
package cli
