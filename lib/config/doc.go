// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the paramcron
// CLI.
//
// Configuration is loaded from a single file specified by either the
// PARAMCRON_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search; without either, [Resolve] returns [Default].
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No environment
// variable overrides a config value.
//
// Key exports:
//
//   - [Config]: timezone, locale, catalogs, jobs file, output, strict
//   - [Default]: a Config with built-in defaults
//   - [Load], [LoadFile] and [Resolve]: the loading entry points
package config
