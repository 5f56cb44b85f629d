// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/version"
)

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "metajson",
		Summary: "Serialize typed value images to JSON",
		Description: `metajson serializes values whose layout is described at runtime by
type programs. Schemas are declared in YAML or JSONC files and
compiled into programs; values travel as image files holding the raw
memory, the root address, and the entity path table.`,
		Subcommands: []*cli.Command{
			encodeCommand(),
			programCommand(),
			checkCommand(),
			packCommand(),
			inspectCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(streams cli.Streams, _ []string) error {
					fmt.Fprintf(streams.Stdout, "metajson %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
