// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command metajson serializes value images to JSON and inspects the
// type programs that describe them.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
)

func main() {
	if err := run(cli.StandardStreams(), os.Args[1:]); err != nil {
		// Commands that already reported (like check) return an
		// ExitError; don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(streams cli.Streams, args []string) error {
	return rootCommand().Execute(streams, args)
}
