// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemadef

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bureau-foundation/metajson/lib/typeprog"
)

// ExpandPatterns resolves glob patterns to file paths. Plain paths pass
// through unchanged even if they do not exist, so the read reports the
// real error. A pattern that matches nothing is an error. Matches of
// each pattern are sorted; duplicates across patterns are dropped.
func ExpandPatterns(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[") {
			if !seen[pattern] {
				seen[pattern] = true
				paths = append(paths, pattern)
			}
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("schema pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("schema pattern %q matches no files", pattern)
		}
		slices.Sort(matches)
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}
	return paths, nil
}

// Load reads every file in paths, merges their declarations in order,
// and compiles them into one table. Types may refer to types declared
// in other files. A type declared in two files is an error naming
// both. logger may be nil.
func Load(paths []string, logger *slog.Logger) (*typeprog.Table, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}

	var decls []typeprog.TypeDecl
	origin := make(map[string]string)
	for _, path := range paths {
		file, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, decl := range file.Types {
			if previous, exists := origin[decl.Name]; exists && decl.Name != "" {
				return nil, fmt.Errorf("type %q declared in both %s and %s", decl.Name, previous, path)
			}
			origin[decl.Name] = path
		}
		decls = append(decls, file.Types...)
		logger.Debug("read schema file", "path", path, "types", len(file.Types))
	}

	table, err := typeprog.Compile(decls)
	if err != nil {
		return nil, fmt.Errorf("compiling schemas: %w", err)
	}
	logger.Info("schemas compiled", "files", len(paths), "types", len(decls))
	return table, nil
}
