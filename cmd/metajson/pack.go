// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

type packParams struct {
	CommonParams
	Compression string `flag:"compression" desc:"payload compression: none, lz4, or zstd (default from configuration)"`
}

func packCommand() *cli.Command {
	var params packParams
	return &cli.Command{
		Name:    "pack",
		Summary: "Rewrite a value image with a different compression",
		Description: `Read the image at IN and write it to OUT with the requested payload
compression. A payload that does not shrink is stored uncompressed.
When schemas are given or configured, the image's root type must be
declared in them.`,
		Usage: "metajson pack [flags] IN OUT",
		Examples: []cli.Example{
			{
				Description: "Store an image uncompressed for inspection with a hex dump",
				Command:     "metajson pack --compression none frame.img frame.raw.img",
			},
		},
		Params: func() any { return &params },
		Run: func(streams cli.Streams, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected IN and OUT, got %d arguments", len(args))
			}
			input, output := args[0], args[1]

			env, err := params.environment(streams, "pack")
			if err != nil {
				return err
			}
			name := params.Compression
			if name == "" {
				name = env.config.Input.Compression
			}
			compression, err := valuebuf.ParseCompression(name)
			if err != nil {
				return err
			}

			image, err := valuebuf.ReadImageFile(input)
			if err != nil {
				return err
			}

			if len(params.SchemaFiles) > 0 || len(env.config.Schemas) > 0 {
				table, err := env.loadTable(params.SchemaFiles)
				if err != nil {
					return err
				}
				if _, err := lookupType(table, image.Schema); err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
			}

			if err := valuebuf.WriteImageFile(output, image, compression); err != nil {
				return err
			}
			// Report what was stored, which differs from the request
			// when the payload was incompressible.
			written, err := os.ReadFile(output)
			if err != nil {
				return err
			}
			header, err := valuebuf.ParseImageHeader(written)
			if err != nil {
				return fmt.Errorf("%s: %w", output, err)
			}
			env.logger.Debug("image packed", "input", input, "output", output,
				"requested", compression.String(), "stored", header.Compression.String(), "bytes", len(written))
			fmt.Fprintf(streams.Stdout, "%s: %s, %d bytes\n", output, header.Compression, len(written))
			return nil
		},
	}
}
