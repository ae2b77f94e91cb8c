// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/version"
)

func versionCommand(env *Env) *cli.Command {
	var output string

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "text", "output format: text or json")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			switch output {
			case "text":
				fmt.Fprintf(env.Stdout, "paramcron %s\n", version.Full())
				return nil
			case "json":
				return cli.WriteJSON(env.Stdout, version.Current())
			default:
				return fmt.Errorf("--output must be text or json, got %q", output)
			}
		},
	}
}
