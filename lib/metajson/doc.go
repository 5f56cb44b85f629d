// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package metajson serializes values described by type programs into
// JSON text.
//
// A [typeprog.Program] is a flat list of operations compiled from a
// type declaration. A [Serializer] replays that list against a value
// stored in a [valuebuf.Memory]: scope operations open and close JSON
// objects, value operations read bytes at base+offset and append their
// JSON form, and sequence operations (fixed arrays, vectors, inline
// arrays) re-run an element program once per element with the base
// advanced by the element stride. All punctuation is written by the
// list-scoped [jsonwrite.Buffer]; the interpreter never emits commas
// or brackets by hand.
//
// Collaborators are passed in rather than reached through globals:
//
//   - a [typeprog.Registry] for programs, enum and bitmask constants,
//     and element layouts
//   - a [scalar.Encoder] for primitive values ([scalar.Default] unless
//     overridden with [WithScalarEncoder])
//   - a [Resolver] mapping entity handles to path strings
//
// Serialization is fail-fast. The first failure anywhere in the walk,
// including inside a nested element, aborts the call with an [*Error]
// carrying a [Kind] and the JSON path of the failing value, and no
// partial text is left behind in the caller's buffer.
//
// A Serializer holds no mutable state. Any number of goroutines may
// share one as long as each call writes to its own buffer and nobody
// mutates the registry or the value memory during the call.
package metajson
