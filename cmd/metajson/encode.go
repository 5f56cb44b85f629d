// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/config"
	"github.com/bureau-foundation/metajson/lib/metajson"
)

type encodeParams struct {
	CommonParams
	Type    string `flag:"type,t" desc:"serialize the root as this type instead of the one the image names"`
	Hex     bool   `flag:"hex" desc:"input is hex-encoded (whitespace ignored)"`
	Compact bool   `flag:"compact,c" desc:"print the serializer's single-line output"`
	Color   string `flag:"color" desc:"syntax highlighting: auto, always, or never (default from configuration)"`
}

func encodeCommand() *cli.Command {
	var params encodeParams
	return &cli.Command{
		Name:    "encode",
		Summary: "Serialize a value image to JSON",
		Description: `Serialize the root value of an image file (or stdin) to JSON.

The image names its root type; --type overrides it. Entity handles are
resolved through the path table stored in the image. Output is
indented and, on a terminal, highlighted; -c prints the serializer's
output unchanged.`,
		Usage: "metajson encode [flags] [IMAGE]",
		Examples: []cli.Example{
			{
				Description: "Serialize an image with schemas from a directory",
				Command:     "metajson encode -s 'schemas/*.yaml' frame.img",
			},
			{
				Description: "Serialize hex from a log line as a different type",
				Command:     "echo '4d4a...' | metajson encode --hex --type Transform -s schemas.yaml",
			},
		},
		Params: func() any { return &params },
		Run: func(streams cli.Streams, args []string) error {
			return runEncode(streams, args, &params)
		},
	}
}

func runEncode(streams cli.Streams, args []string, params *encodeParams) error {
	env, err := params.environment(streams, "encode")
	if err != nil {
		return err
	}
	if params.Compact {
		env.config.Output.Compact = true
	}
	if params.Color != "" {
		env.config.Output.Color = config.ColorMode(params.Color)
		if err := env.config.Validate(); err != nil {
			return fmt.Errorf("--color: %w", err)
		}
	}

	table, err := env.loadTable(params.SchemaFiles)
	if err != nil {
		return err
	}

	image, remaining, err := readImage(streams.Stdin, args, params.Hex)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	typeName := image.Schema
	if params.Type != "" {
		typeName = params.Type
	}
	id, err := lookupType(table, typeName)
	if err != nil {
		return err
	}

	serializer := metajson.New(table,
		metajson.WithResolver(metajson.PathTable(image.Paths)),
		metajson.WithMaxDepth(env.config.Serializer.MaxDepth),
		metajson.WithLogger(env.logger),
	)
	text, err := serializer.SerializeValue(id, image.View(), image.Root)
	if err != nil {
		return err
	}
	env.logger.Debug("serialized value", "schema", typeName, "bytes", len(text))

	return writeJSON(streams.Stdout, text, env.config.Output)
}

// writeJSON prints serialized text followed by a newline, indented
// unless output.Compact and highlighted when output.Color allows it
// for w.
func writeJSON(w io.Writer, text string, output config.OutputConfig) error {
	if !output.Compact {
		var indented bytes.Buffer
		if err := json.Indent(&indented, []byte(text), "", "  "); err != nil {
			return fmt.Errorf("indenting output: %w", err)
		}
		text = indented.String()
	}
	text += "\n"

	if formatter := colorFormatter(output.Color, w); formatter != "" {
		return quick.Highlight(w, text, "json", formatter, "monokai")
	}
	_, err := io.WriteString(w, text)
	return err
}

// colorFormatter returns the chroma formatter matching the color
// profile of w, or "" for plain output. "always" highlights even when
// w is not a terminal.
func colorFormatter(mode config.ColorMode, w io.Writer) string {
	switch mode {
	case config.ColorNever:
		return ""
	case config.ColorAuto:
		if !cli.IsTerminal(w) {
			return ""
		}
	}

	profile := termenv.NewOutput(w).EnvColorProfile()
	if mode == config.ColorAlways && profile == termenv.Ascii {
		profile = termenv.ANSI256
	}
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return ""
	}
}
