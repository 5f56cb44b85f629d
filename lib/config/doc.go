// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the metajson
// command.
//
// Configuration is loaded from a single file specified by either the
// METAJSON_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Without a file the command runs on
// [Default] plus its flags.
//
// Variable expansion is performed on schema paths after loading:
// ${HOME}, ${METAJSON_ROOT}, and ${VAR:-default} patterns are
// expanded. No environment variable overrides a config value directly.
//
// Key exports:
//
//   - [Config]: schema locations plus serializer, output, and input
//     settings
//   - [Default]: the values used for anything the file leaves out
//   - [Load] and [LoadFile]: the two entry points for loading
package config
