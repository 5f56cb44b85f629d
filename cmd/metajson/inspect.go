// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/codec"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

type inspectParams struct {
	Hex     bool `flag:"hex" desc:"input is hex-encoded (whitespace ignored)"`
	Payload bool `flag:"payload" desc:"also print the CBOR payload in diagnostic notation"`
}

func inspectCommand() *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Describe a value image without serializing it",
		Description: `Print the header of a value image and a summary of its envelope: root
type, root address, memory size, and entity path table. No schemas are
needed. When the envelope does not decode, the CBOR payload is printed
in diagnostic notation and the command exits 1.`,
		Usage: "metajson inspect [flags] [IMAGE]",
		Examples: []cli.Example{
			{
				Description: "Look inside an image that fails to encode",
				Command:     "metajson inspect --payload frame.img",
			},
		},
		Params: func() any { return &params },
		Run: func(streams cli.Streams, args []string) error {
			data, remaining, err := readInput(streams.Stdin, args, params.Hex)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("unexpected arguments: %v", remaining)
			}

			header, payload, err := valuebuf.DecodePayload(data)
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(streams.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(writer, "version\t%d\n", header.Version)
			fmt.Fprintf(writer, "compression\t%s\n", header.Compression)
			fmt.Fprintf(writer, "payload\t%d bytes (%d stored)\n", header.PayloadSize, len(data))

			image, decodeErr := valuebuf.DecodeImage(data)
			if decodeErr == nil {
				fmt.Fprintf(writer, "schema\t%s\n", image.Schema)
				fmt.Fprintf(writer, "root\t%#x\n", uint64(image.Root))
				fmt.Fprintf(writer, "memory\t%d bytes\n", len(image.Memory))
				fmt.Fprintf(writer, "paths\t%d\n", len(image.Paths))
				for _, handle := range slices.Sorted(maps.Keys(image.Paths)) {
					fmt.Fprintf(writer, "  %d\t%s\n", handle, image.Paths[handle])
				}
			}
			if err := writer.Flush(); err != nil {
				return err
			}

			if params.Payload || decodeErr != nil {
				notation, err := codec.Diagnose(payload)
				if err != nil {
					notation = fmt.Sprintf("(not CBOR: %v)", err)
				}
				fmt.Fprintf(streams.Stdout, "\n%s\n", notation)
			}
			if decodeErr != nil {
				fmt.Fprintf(streams.Stderr, "FAIL %v\n", decodeErr)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
