// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/metajson/cmd/metajson/cli"
	"github.com/bureau-foundation/metajson/lib/config"
	"github.com/bureau-foundation/metajson/lib/schemadef"
	"github.com/bureau-foundation/metajson/lib/typeprog"
)

// CommonParams are the flags every schema-aware command accepts.
// Commands embed it; [cli.BindFlags] registers its flags through
// AddFlags.
type CommonParams struct {
	ConfigPath  string
	SchemaFiles []string
	Verbose     bool
}

// AddFlags implements [cli.FlagBinder].
func (params *CommonParams) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&params.ConfigPath, "config", "",
		"configuration file (default: $METAJSON_CONFIG, else built-in defaults)")
	flagSet.StringArrayVarP(&params.SchemaFiles, "schema-file", "s", nil,
		"schema declaration file or glob; repeatable, replaces the configured schemas")
	flagSet.BoolVarP(&params.Verbose, "verbose", "v", false, "log at debug level")
}

// environment is what a command needs once its common flags are
// applied.
type environment struct {
	config *config.Config
	logger *slog.Logger
}

func (params *CommonParams) environment(streams cli.Streams, command string) (*environment, error) {
	logger := cli.NewCommandLogger(streams.Stderr, params.Verbose).With("command", command)

	cfg, err := loadConfig(params.ConfigPath)
	if err != nil {
		return nil, err
	}
	return &environment{config: cfg, logger: logger}, nil
}

// loadConfig applies an explicit path first, then METAJSON_CONFIG,
// then the defaults.
func loadConfig(path string) (*config.Config, error) {
	switch {
	case path != "":
		return config.LoadFile(path)
	case os.Getenv(config.EnvironmentVariable) != "":
		return config.Load()
	default:
		return config.Default(), nil
	}
}

// loadTable compiles the schemas named on the command line, or the
// configured ones when no --schema-file was given.
func (env *environment) loadTable(schemaFiles []string) (*typeprog.Table, error) {
	patterns := schemaFiles
	if len(patterns) == 0 {
		patterns = env.config.Schemas
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no schemas: pass --schema-file or set schemas in the configuration")
	}
	paths, err := schemadef.ExpandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	return schemadef.Load(paths, env.logger)
}

// lookupType resolves a type name against table.
func lookupType(table *typeprog.Table, name string) (typeprog.SchemaID, error) {
	id, ok := table.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("type %q is not declared in the loaded schemas", name)
	}
	return id, nil
}
