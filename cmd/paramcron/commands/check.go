// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"cmp"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/jobfile"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

// checkRecord is one line of check output.
type checkRecord struct {
	Job     string   `json:"job,omitempty"`
	Level   string   `json:"level"`
	Key     string   `json:"key,omitempty"`
	Args    []string `json:"args,omitempty"`
	Message string   `json:"message,omitempty"`

	level schedule.Level
}

func newCheckRecord(job string, result schedule.Result, formatter schedule.Formatter) checkRecord {
	record := checkRecord{
		Job:     job,
		Level:   result.Level.String(),
		Message: result.Text(formatter),
		level:   result.Level,
	}
	if result.Warning != nil {
		record.Key = result.Warning.Key
		record.Args = result.Warning.Args
	}
	return record
}

func checkCommand(env *Env) *cli.Command {
	var (
		globals globalFlags
		source  sourceFlags
		strict  bool
		output  string
	)

	return &cli.Command{
		Name:    "check",
		Summary: "Validate a parameterized schedule",
		Description: `Validate a parameterized schedule and report the first problem.

Prints "ok", "warning: ..." or "error: ...". Errors mean the schedule
is rejected. Warnings are advice: a schedule that fires every minute,
short day-of-month cycles, a fixed minute that H would spread, or
parameters the job does not declare.

With --job, the schedule is checked against that job's declared
parameters: the job's own schedule, or FILE when one is given. With
--jobs and no --job, every job in the file is checked.

Exit status is 1 on errors, and 2 on warnings when --strict is set
(or strict: true in the configuration).`,
		Usage: "paramcron check [flags] [FILE|-]",
		Examples: []cli.Example{
			{
				Description: "Check a schedule file",
				Command:     "paramcron check schedule.txt",
			},
			{
				Description: "Check a proposed schedule against a job's parameters",
				Command:     "paramcron check --jobs jobs.jsonc --job nightly proposed.txt",
			},
			{
				Description: "Fail CI on any warning in the job file",
				Command:     "paramcron check --jobs jobs.jsonc --strict",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			globals.register(flagSet)
			source.register(flagSet)
			flagSet.BoolVar(&strict, "strict", false, "exit 2 when there are warnings")
			flagSet.StringVarP(&output, "output", "o", "", "output format: text, json or cbor")
			return flagSet
		},
		Run: func(args []string) error {
			session, err := globals.open(env, "check")
			if err != nil {
				return err
			}
			format, err := session.outputFormat(output)
			if err != nil {
				return err
			}

			records, err := session.check(source, args)
			if err != nil {
				return err
			}

			if done, err := session.emit(format, records); done {
				if err != nil {
					return err
				}
			} else {
				writeCheckRecords(session, records)
			}
			return checkExit(records, strict || session.config.Strict)
		},
	}
}

// check validates the selected schedules. Invalid input is reported in
// the records; the error return is for I/O and flag problems.
func (s *session) check(source sourceFlags, args []string) ([]checkRecord, error) {
	path := s.jobsPath(source, args)
	if path == "" {
		if source.jobName != "" {
			return nil, fmt.Errorf("--job needs a job file: pass --jobs or set jobs_file in the configuration")
		}
		text, _, err := s.readSpecification(args)
		if err != nil {
			return nil, err
		}
		options, err := s.scheduleOptions(nil, source.seed)
		if err != nil {
			return nil, err
		}
		return []checkRecord{newCheckRecord("", schedule.Validate(text, nil, options...), s.catalog)}, nil
	}

	if source.jobName != "" {
		file, err := readJobs(path, source.jobName)
		if err != nil {
			return nil, err
		}
		job := file.Jobs[0]
		text := job.Schedule
		if len(args) > 0 {
			if text, _, err = s.readSpecification(args); err != nil {
				return nil, err
			}
		}
		options, err := s.scheduleOptions(file, cmp.Or(source.seed, job.Name))
		if err != nil {
			return nil, err
		}
		return []checkRecord{newCheckRecord(job.Name, schedule.Validate(text, job, options...), s.catalog)}, nil
	}

	if len(args) > 0 {
		return nil, fmt.Errorf("a FILE argument needs --job to pick the job it is checked against")
	}
	file, err := jobfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if issues := jobfile.Validate(file); len(issues) > 0 {
		records := make([]checkRecord, 0, len(issues))
		for _, issue := range issues {
			records = append(records, checkRecord{
				Level:   schedule.LevelError.String(),
				Message: issue,
				level:   schedule.LevelError,
			})
		}
		return records, nil
	}

	records := make([]checkRecord, 0, len(file.Jobs))
	for _, job := range file.Jobs {
		options, err := s.scheduleOptions(file, cmp.Or(source.seed, job.Name))
		if err != nil {
			return nil, err
		}
		result := schedule.Validate(job.Schedule, job, options...)
		s.logger.Debug("job checked", "job", job.Name, "level", result.Level.String())
		records = append(records, newCheckRecord(job.Name, result, s.catalog))
	}
	return records, nil
}

func writeCheckRecords(s *session, records []checkRecord) {
	styler := cli.NewStyler(s.env.Stdout)
	for _, record := range records {
		prefix := ""
		if record.Job != "" {
			prefix = record.Job + ": "
		}
		if record.Message == "" {
			fmt.Fprintf(s.env.Stdout, "%s%s\n", prefix, styler.Status(record.Level))
		} else {
			fmt.Fprintf(s.env.Stdout, "%s%s: %s\n", prefix, styler.Status(record.Level), record.Message)
		}
	}
}

// checkExit maps the worst record to the process exit status.
func checkExit(records []checkRecord, strict bool) error {
	warned := false
	for _, record := range records {
		switch record.level {
		case schedule.LevelError:
			return &cli.ExitError{Code: 1}
		case schedule.LevelWarning:
			warned = true
		}
	}
	if warned && strict {
		return &cli.ExitError{Code: 2}
	}
	return nil
}
