// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the metajson binary.
//
// [GitCommit], [GitDirty], and [BuildTime] are injected with
// -ldflags -X and stay "unknown" in development builds and tests:
//
//	go build -ldflags "-X github.com/bureau-foundation/metajson/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/metajson
//
// [Info] is the one-line form; [Full] adds the toolchain, the
// platform, and the value image format the binary reads and writes.
package version
