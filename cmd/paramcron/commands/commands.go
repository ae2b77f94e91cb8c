// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/clock"
	"github.com/bureau-foundation/paramcron/lib/codec"
	"github.com/bureau-foundation/paramcron/lib/config"
	"github.com/bureau-foundation/paramcron/lib/cron"
	"github.com/bureau-foundation/paramcron/lib/jobfile"
	"github.com/bureau-foundation/paramcron/lib/messages"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

// Env is the process environment commands run against.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Clock  clock.Clock

	// Level is shared by every command logger; --verbose lowers it.
	Level *slog.LevelVar
}

// DefaultEnv returns the Env of the running process.
func DefaultEnv() *Env {
	return &Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clock:  clock.Real(),
		Level:  new(slog.LevelVar),
	}
}

// Root builds the complete paramcron command tree.
func Root(env *Env) *cli.Command {
	if env.Level == nil {
		env.Level = new(slog.LevelVar)
	}
	if env.Clock == nil {
		env.Clock = clock.Real()
	}

	return &cli.Command{
		Name: "paramcron",
		Description: `paramcron: parameterized cron schedules.

Each line of a schedule is a cron expression, optionally followed by
"%" and name=value assignments joined by "&". The assignments are the
parameters a run started by that line receives. A first line of the
form TZ=Zone/Name sets the zone for the whole schedule.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			checkCommand(env),
			matchCommand(env),
			nextCommand(env),
			decodeCommand(env),
			versionCommand(env),
		},
		Examples: []cli.Example{
			{
				Description: "Validate a schedule read from stdin",
				Command:     `echo '0 2 * * *%target=all' | paramcron check -`,
			},
			{
				Description: "Show what fires at an instant",
				Command:     "paramcron match --at 2026-06-07T04:00:00Z --jobs jobs.jsonc",
			},
			{
				Description: "List the next ten firings of one job",
				Command:     "paramcron next --jobs jobs.jsonc --job nightly --count 10",
			},
			{
				Description: "Record firings as CBOR and read them back",
				Command:     "paramcron match --jobs jobs.jsonc -o cbor >> fires.cbor && paramcron decode fires.cbor",
			},
		},
	}
}

// globalFlags are registered on every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
}

func (g *globalFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.configPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+")")
	flagSet.BoolVarP(&g.verbose, "verbose", "v", false, "log debug detail to stderr")
}

// sourceFlags select where a command reads its schedule from.
type sourceFlags struct {
	jobsPath string
	jobName  string
	seed     string
}

func (f *sourceFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.jobsPath, "jobs", "", "JSONC job file (default: jobs_file from the configuration)")
	flagSet.StringVar(&f.jobName, "job", "", "use only this job from the job file")
	flagSet.StringVar(&f.seed, "seed", "", "hash seed for H tokens (default: the job name)")
}

// session is the per-invocation state shared by command bodies.
type session struct {
	env     *Env
	config  *config.Config
	catalog messages.Catalog
	logger  *slog.Logger
}

// open loads the configuration and message catalogs.
func (g *globalFlags) open(env *Env, command string) (*session, error) {
	if g.verbose {
		env.Level.Set(slog.LevelDebug)
	}
	logger := cli.NewCommandLogger(env.Stderr, env.Level).With("command", command)

	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tables := make([]*messages.Table, 0, len(cfg.Catalogs))
	for _, path := range cfg.Catalogs {
		table, err := messages.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	logger.Debug("configuration loaded",
		"locale", cfg.Locale,
		"timezone", cfg.Timezone,
		"catalogs", len(tables),
	)

	return &session{
		env:     env,
		config:  cfg,
		catalog: messages.NewBundle(tables...).Catalog(cfg.Locale),
		logger:  logger,
	}, nil
}

// outputFormat resolves --output against the configured default.
func (s *session) outputFormat(flagValue string) (string, error) {
	format := cmp.Or(flagValue, s.config.Output)
	if !slices.Contains(config.Outputs, format) {
		return "", fmt.Errorf("--output must be one of %s, got %q", strings.Join(config.Outputs, ", "), format)
	}
	return format, nil
}

// emit writes records in a structured format. It reports false for
// text output, which each command renders itself.
func (s *session) emit(format string, records any) (bool, error) {
	switch format {
	case config.OutputJSON:
		return true, cli.WriteJSON(s.env.Stdout, records)
	case config.OutputCBOR:
		return true, codec.NewEncoder(s.env.Stdout).Encode(records)
	default:
		return false, nil
	}
}

// instant parses an RFC 3339 flag value, defaulting to now.
func (s *session) instant(flagName, value string) (time.Time, error) {
	if value == "" {
		return s.env.Clock.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flagName, err)
	}
	return t, nil
}

// jobsPath returns the job file to read, or "" when the schedule comes
// from a FILE argument or stdin. A FILE argument wins over the
// configured jobs_file but not over an explicit --jobs or --job.
func (s *session) jobsPath(flags sourceFlags, args []string) string {
	if flags.jobsPath != "" {
		return flags.jobsPath
	}
	if flags.jobName != "" || len(args) == 0 {
		return s.config.JobsFile
	}
	return ""
}

// readSpecification reads the schedule named by args: a file, or stdin
// for no argument or "-". It returns the text and a source name for
// messages.
func (s *session) readSpecification(args []string) (string, string, error) {
	data, source, err := s.readInput(args)
	return string(data), source, err
}

// readInput reads the file named by args, or stdin for no argument or
// "-".
func (s *session) readInput(args []string) ([]byte, string, error) {
	if len(args) > 1 {
		return nil, "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(s.env.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, args[0], nil
}

// scheduleOptions returns parse options for a schedule: the job file's
// zone when it names one, else the configured zone, then the seed.
func (s *session) scheduleOptions(file *jobfile.File, seed string) ([]schedule.Option, error) {
	location, err := s.config.Location()
	if file != nil && file.Timezone != "" {
		location, err = cron.LoadTimezone(file.Timezone)
	}
	if err != nil {
		return nil, err
	}

	var options []schedule.Option
	if location != nil {
		options = append(options, schedule.WithLocation(location))
	}
	if seed != "" {
		options = append(options, schedule.WithHashSeed(seed))
	}
	return options, nil
}

// readJobs reads a job file, narrowed to one job when name is set.
func readJobs(path, name string) (*jobfile.File, error) {
	file, err := jobfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return file, nil
	}
	job, ok := file.Job(name)
	if !ok {
		return nil, fmt.Errorf("job %q not found in %s (jobs: %s)", name, path, strings.Join(file.Names(), ", "))
	}
	return &jobfile.File{Timezone: file.Timezone, Jobs: []jobfile.Job{job}}, nil
}

// compile parses the schedules a match or next invocation covers. A
// bare specification compiles to a single anonymous job.
func (s *session) compile(flags sourceFlags, args []string) ([]jobfile.Compiled, error) {
	path := s.jobsPath(flags, args)
	if path != "" && len(args) > 0 {
		return nil, fmt.Errorf("a FILE argument cannot be combined with --jobs or --job")
	}
	if path == "" {
		if flags.jobName != "" {
			return nil, fmt.Errorf("--job needs a job file: pass --jobs or set jobs_file in the configuration")
		}
		text, source, err := s.readSpecification(args)
		if err != nil {
			return nil, err
		}
		options, err := s.scheduleOptions(nil, flags.seed)
		if err != nil {
			return nil, err
		}
		list, err := schedule.Parse(text, options...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		s.logger.Debug("specification parsed", "source", source, "entries", list.Len())
		return []jobfile.Compiled{{List: list}}, nil
	}

	file, err := readJobs(path, flags.jobName)
	if err != nil {
		return nil, err
	}
	options, err := s.scheduleOptions(file, flags.seed)
	if err != nil {
		return nil, err
	}
	compiled, err := file.Compile(options...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.Debug("job file compiled", "path", path, "jobs", len(compiled))
	return compiled, nil
}

// logFire records the trigger cause of a fire at debug level.
func (s *session) logFire(fire schedule.Fire) {
		s.logger.Debug("entry fires",
		"job", fire.Job,
		"line", fire.Line,
		"time", fire.Time,
		"cause", fire.Cause().ShortDescription(s.catalog),
	)
}

// writeFires renders fires as a table. start, when set, adds a column
// with each fire's time relative to it.
func writeFires(w io.Writer, fires []schedule.Fire, start time.Time) error {
	writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	if start.IsZero() {
		fmt.Fprintln(writer, "TIME\tJOB\tLINE\tPARAMETERS")
	} else {
		fmt.Fprintln(writer, "TIME\tIN\tJOB\tLINE\tPARAMETERS")
	}
	for _, fire := range fires {
		fmt.Fprintf(writer, "%s\t", fire.Time.Format(time.RFC3339))
		if !start.IsZero() {
			fmt.Fprintf(writer, "%s\t", humanize.RelTime(fire.Time, start, "ago", "from now"))
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\n", jobColumn(fire), fire.Line, fire.Assignments())
	}
	return writer.Flush()
}

func jobColumn(fire schedule.Fire) string {
	if fire.Job == "" {
		return "-"
	}
	return fire.Job
}
