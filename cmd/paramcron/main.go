// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// paramcron validates, matches and previews parameterized cron
// schedules: cron lines that carry the parameters a triggered run
// receives.
//
// Usage:
//
//	paramcron check [flags] [FILE|-]
//	paramcron match [flags] [FILE|-]
//	paramcron next [flags] [FILE|-]
//	paramcron version
//
// Run 'paramcron --help' for the full command list.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/commands"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root(commands.DefaultEnv()).Execute(os.Args[1:])
}
