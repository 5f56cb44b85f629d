// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/typeprog"
)

type checkParams struct {
	CommonParams
}

func checkCommand() *cli.Command {
	var params checkParams
	return &cli.Command{
		Name:    "check",
		Summary: "Compile schemas and report every declared type",
		Description: `Compile the schema files and list each declared type with its kind,
layout, program length, and program fingerprint. Exits 1 when the
schemas do not compile. Comparing fingerprints before and after an
edit shows which programs changed.`,
		Usage: "metajson check [flags]",
		Examples: []cli.Example{
			{
				Description: "Validate every schema in a directory",
				Command:     "metajson check -s 'schemas/*.yaml'",
			},
		},
		Params: func() any { return &params },
		Run: func(streams cli.Streams, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			env, err := params.environment(streams, "check")
			if err != nil {
				return err
			}
			table, err := env.loadTable(params.SchemaFiles)
			if err != nil {
				fmt.Fprintf(streams.Stderr, "FAIL %v\n", err)
				return &cli.ExitError{Code: 1}
			}

			writer := tabwriter.NewWriter(streams.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "TYPE\tKIND\tSIZE\tALIGN\tOPS\tFINGERPRINT")
			declared := table.Declared()
			for _, id := range declared {
				program, err := table.Program(id)
				if err != nil {
					return err
				}
				layout, err := table.Layout(id)
				if err != nil {
					return err
				}
				fingerprint, err := typeprog.Fingerprint(program)
				if err != nil {
					return err
				}
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%d\t%s\n",
					table.Name(id), table.Kind(id), layout.Size, layout.Alignment, program.Len(), fingerprint.Short())
			}
			if err := writer.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(streams.Stdout, "\nOK %d types\n", len(declared))
			return nil
		},
	}
}
