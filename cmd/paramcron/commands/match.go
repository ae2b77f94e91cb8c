// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/jobfile"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

func matchCommand(env *Env) *cli.Command {
	var (
		globals globalFlags
		source  sourceFlags
		at      string
		output  string
	)

	return &cli.Command{
		Name:    "match",
		Summary: "Show the entries that fire at an instant",
		Description: `Show every schedule entry that fires at an instant, with the
parameters a run started by it would receive.

The instant defaults to now and is truncated to the minute. Entries
are listed job by job, and within a job in schedule order.`,
		Usage: "paramcron match [flags] [FILE|-]",
		Examples: []cli.Example{
			{
				Description: "What fires right now across the job file",
				Command:     "paramcron match --jobs jobs.jsonc",
			},
			{
				Description: "Match a schedule from stdin at a fixed instant, as CBOR",
				Command:     "paramcron match --at 2026-06-07T04:00:00Z --output cbor - < schedule.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("match", pflag.ContinueOnError)
			globals.register(flagSet)
			source.register(flagSet)
			flagSet.StringVar(&at, "at", "", "instant to match, RFC 3339 (default: now)")
			flagSet.StringVarP(&output, "output", "o", "", "output format: text, json or cbor")
			return flagSet
		},
		Run: func(args []string) error {
			session, err := globals.open(env, "match")
			if err != nil {
				return err
			}
			format, err := session.outputFormat(output)
			if err != nil {
				return err
			}
			instant, err := session.instant("at", at)
			if err != nil {
				return err
			}

			compiled, err := session.compile(source, args)
			if err != nil {
				return err
			}

			fires := jobfile.Match(compiled, instant)
			if fires == nil {
				fires = []schedule.Fire{}
			}
			for _, fire := range fires {
				session.logFire(fire)
			}

			if done, err := session.emit(format, fires); done {
				return err
			}

			if len(fires) == 0 {
				fmt.Fprintf(env.Stderr, "Nothing fires at %s.\n", instant.Truncate(time.Minute).Format(time.RFC3339))
				return nil
			}

			return writeFires(env.Stdout, fires, time.Time{})
		},
	}
}
