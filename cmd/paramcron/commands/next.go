// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/jobfile"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

func nextCommand(env *Env) *cli.Command {
	var (
		globals globalFlags
		source  sourceFlags
		from    string
		count   int
		output  string
	)

	return &cli.Command{
		Name:    "next",
		Summary: "List upcoming firings",
		Description: `List the next firings strictly after an instant (default: now),
earliest first, with the parameters each run would receive.

Entries that fire in the same minute are listed together in schedule
order. With a job file, firings of all jobs are merged.`,
		Usage: "paramcron next [flags] [FILE|-]",
		Examples: []cli.Example{
			{
				Description: "Next five firings of a schedule file",
				Command:     "paramcron next schedule.txt",
			},
			{
				Description: "Where a hashed schedule lands for a given seed",
				Command:     `echo 'H H * * *' | paramcron next --seed nightly --count 3 -`,
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("next", pflag.ContinueOnError)
			globals.register(flagSet)
			source.register(flagSet)
			flagSet.StringVar(&from, "from", "", "start instant, RFC 3339 (default: now)")
			flagSet.IntVarP(&count, "count", "n", 5, "number of firing minutes to list")
			flagSet.StringVarP(&output, "output", "o", "", "output format: text, json or cbor")
			return flagSet
		},
		Run: func(args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			session, err := globals.open(env, "next")
			if err != nil {
				return err
			}
			format, err := session.outputFormat(output)
			if err != nil {
				return err
			}
			start, err := session.instant("from", from)
			if err != nil {
				return err
			}

			compiled, err := session.compile(source, args)
			if err != nil {
				return err
			}

			var upcoming []jobfile.Upcoming
			for _, job := range compiled {
				upcoming = append(upcoming, jobfile.Next(job, start, count)...)
			}
			upcoming = mergeMinutes(upcoming)
			upcoming = upcoming[:min(count, len(upcoming))]

			fires := []schedule.Fire{}
			for _, next := range upcoming {
				fires = append(fires, next.Fires...)
			}
			for _, fire := range fires {
				session.logFire(fire)
			}

			if done, err := session.emit(format, fires); done {
				return err
			}

			if len(fires) == 0 {
				fmt.Fprintf(env.Stderr, "Nothing fires after %s.\n", start.Format(time.RFC3339))
				return nil
			}

			return writeFires(env.Stdout, fires, start)
		},
	}
}

// mergeMinutes orders upcoming firings by time and folds firings of
// the same minute into one, keeping job order within the minute.
func mergeMinutes(upcoming []jobfile.Upcoming) []jobfile.Upcoming {
	slices.SortStableFunc(upcoming, func(a, b jobfile.Upcoming) int {
		return a.Time.Compare(b.Time)
	})
	var merged []jobfile.Upcoming
	for _, next := range upcoming {
		if last := len(merged) - 1; last >= 0 && merged[last].Time.Equal(next.Time) {
			merged[last].Fires = append(merged[last].Fires, next.Fires...)
			continue
		}
		merged = append(merged, jobfile.Upcoming{
			Time:  next.Time,
			Fires: slices.Clone(next.Fires),
		})
	}
	return merged
}
