// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"

	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// Set via -ldflags at build time.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"

	// Version is set by hand for releases.
	Version = "0.1.0-dev"
)

// Info returns "VERSION (COMMIT[-dirty], BUILDTIME)".
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns Info followed by the Go version, platform, and image
// format version, one per line.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s\n  Image format: %d",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH, valuebuf.ImageVersion)
}
