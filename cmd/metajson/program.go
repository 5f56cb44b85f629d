// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/typeprog"
)

type programParams struct {
	CommonParams
}

func programCommand() *cli.Command {
	var params programParams
	return &cli.Command{
		Name:    "program",
		Summary: "Print the compiled type program of a type",
		Description: `Compile the schemas and print the operation list the serializer
runs for TYPE, with each operation's member name, offset, inline array
count, span, and stride. Names are indented by object depth.`,
		Usage: "metajson program [flags] TYPE",
		Examples: []cli.Example{
			{
				Description: "Show the program for Transform",
				Command:     "metajson program -s schemas.yaml Transform",
			},
		},
		Params: func() any { return &params },
		Run: func(streams cli.Streams, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one type name, got %d arguments", len(args))
			}
			env, err := params.environment(streams, "program")
			if err != nil {
				return err
			}
			table, err := env.loadTable(params.SchemaFiles)
			if err != nil {
				return err
			}
			id, err := lookupType(table, args[0])
			if err != nil {
				return err
			}
			return printProgram(streams.Stdout, table, id)
		},
	}
}

func printProgram(w io.Writer, table *typeprog.Table, id typeprog.SchemaID) error {
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

	renderer := lipgloss.NewRenderer(w)
	title := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	faint := renderer.NewStyle().Faint(true)

	fmt.Fprintf(w, "%s %s\n", title.Render(table.Name(id)),
		faint.Render(fmt.Sprintf("%s, size %d, align %d", table.Kind(id), layout.Size, layout.Alignment)))
	fmt.Fprintf(w, "%s %s\n\n", faint.Render("fingerprint"), fingerprint)

	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "#\tKIND\tNAME\tOFFSET\tCOUNT\tOPS\tSIZE\tTYPE")
	depth := 0
	for i, op := range program.Ops() {
		if op.Kind == typeprog.OpScopeClose && depth > 0 {
			depth--
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
			i, op.Kind, strings.Repeat("  ", depth)+op.Name, op.Offset,
			optional(int64(op.Count), op.InlineArray()), op.OpCount,
			optional(int64(op.Size), op.InlineArray()), operandName(table, op))
		if op.Kind == typeprog.OpScopeOpen {
			depth++
		}
	}
	return writer.Flush()
}

func optional(value int64, present bool) string {
	if !present {
		return "-"
	}
	return strconv.FormatInt(value, 10)
}

// operandName names what an operation refers to: the scalar kind of a
// primitive, or the schema of a constant or sequence operation.
func operandName(table *typeprog.Table, op typeprog.Op) string {
	switch op.Kind {
	case typeprog.OpPrimitive:
		return op.Primitive.String()
	case typeprog.OpEnum, typeprog.OpFlagSet, typeprog.OpArray, typeprog.OpVector:
		if name := table.Name(op.Type); name != "" {
			return name
		}
		return fmt.Sprintf("#%d", op.Type)
	default:
		return "-"
	}
}
