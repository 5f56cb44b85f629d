// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schemadef reads type declaration files and compiles them into
// a [typeprog.Table].
//
// Declarations are authored as YAML (.yaml, .yml) or as JSONC (.json,
// .jsonc: JSON with // and /* */ comments and trailing commas). Both
// forms share one document shape:
//
//	types:
//	  - name: Point
//	    struct:
//	      - {name: x, type: f32}
//	      - {name: y, type: f32}
//	  - name: Color
//	    enum: [{name: Red}, {name: Green}, {name: Blue}]
//	  - name: Path
//	    vector: {type: Point}
//
// The typical flow:
//
//  1. [ExpandPatterns]: glob patterns from configuration → file paths
//  2. [ReadFile] or [Parse]: bytes → [File]
//  3. [Load]: many files → one compiled [typeprog.Table]
package schemadef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/metajson/lib/typeprog"
)

// File is the document stored in one declaration file.
type File struct {
	Types []typeprog.TypeDecl `yaml:"types" json:"types"`
}

// Format selects the syntax of a declaration file.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatJSONC
)

func (format Format) String() string {
	switch format {
	case FormatYAML:
		return "yaml"
	case FormatJSONC:
		return "jsonc"
	default:
		return fmt.Sprintf("unknown(%d)", int(format))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return 0, fmt.Errorf("%s: unrecognized extension (want .yaml, .yml, .json, or .jsonc)", path)
	}
}

// Parse decodes a declaration document. Unknown fields are rejected so
// a misspelled key fails loudly instead of dropping a member.
func Parse(data []byte, format Format) (*File, error) {
	var file File
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing declarations: %w", err)
		}
	case FormatJSONC:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing declarations: %w", err)
		}
	default:
		return nil, fmt.Errorf("parsing declarations: unsupported format %s", format)
	}
	return &file, nil
}

// ReadFile reads and parses one declaration file, choosing the format
// from its extension.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}
