// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the paramcron command tree.
//
// check, match and next read a parameterized schedule from one of three
// sources: a FILE argument, standard input ("-"), or a JSONC job file
// (--jobs, or jobs_file from the configuration). Job files seed H
// tokens with each job's name; bare specifications use --seed.
// decode reads back the CBOR fire records match and next write.
//
// Commands do their I/O through an [Env] so tests can run the whole
// tree against buffers and a fake clock.
package commands
