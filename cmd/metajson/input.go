// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// readImage loads a value image from the file named by the last
// element of args, or from stdin when that element is not a regular
// file. Binary image files are memory-mapped; hex input and stdin go
// through [readInput].
//
// Returns the image and the args with any consumed file path removed.
func readImage(stdin io.Reader, args []string, hexMode bool) (*valuebuf.Image, []string, error) {
	if length := len(args); length > 0 && !hexMode && isRegularFile(args[length-1]) {
		image, err := valuebuf.ReadImageFile(args[length-1])
		return image, args[:length-1], err
	}

	data, remainingArgs, err := readInput(stdin, args, hexMode)
	if err != nil {
		return nil, nil, err
	}
	image, err := valuebuf.DecodeImage(data)
	if err != nil {
		return nil, nil, err
	}
	return image, remainingArgs, nil
}

// readInput resolves input bytes from either a file (the last element
// of args, if it names a regular file on disk) or stdin. When hexMode
// is true the bytes are hex digits, decoded after stripping
// whitespace.
func readInput(stdin io.Reader, args []string, hexMode bool) ([]byte, []string, error) {
	var data []byte
	remainingArgs := args

	if length := len(args); length > 0 && isRegularFile(args[length-1]) {
		candidate := args[length-1]
		var err error
		data, err = os.ReadFile(candidate)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
		}
		remainingArgs = args[:length-1]
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}
	return data, remainingArgs, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it. Whitespace between digit pairs is allowed ("4d 4a 49" or
// "4d4a49").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
