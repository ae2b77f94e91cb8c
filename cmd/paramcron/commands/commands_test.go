// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/clock"
	"github.com/bureau-foundation/paramcron/lib/codec"
	"github.com/bureau-foundation/paramcron/lib/config"
	"github.com/bureau-foundation/paramcron/lib/schedule"
	"github.com/bureau-foundation/paramcron/lib/testutil"
)

const jobsFile = `{
  "jobs": [
    {
      "name": "quiet",
      "parameters": ["target"],
      "schedule": "0 2 * * *%target=all",
    },
    {
      // Fires every minute on purpose.
      "name": "busy",
      "schedule": "* * * * *",
    },
  ],
}`

// harness runs the command tree against buffers, a fake clock and a
// UTC configuration file.
type harness struct {
	t          *testing.T
	dir        string
	configPath string
	stdin      string
	stdout     bytes.Buffer
	stderr     bytes.Buffer
	clock      *clock.FakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")

	h := &harness{
		t:     t,
		dir:   t.TempDir(),
		clock: clock.Fake(time.Date(2026, 6, 7, 4, 0, 20, 0, time.UTC)),
	}
	h.configPath = h.writeFile("paramcron.yaml", "timezone: UTC\n")
	return h
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()
	return testutil.WriteFile(h.t, h.dir, name, content)
}

// run executes paramcron with args after the subcommand name, adding
// --config.
func (h *harness) run(subcommand string, args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	env := &Env{
		Stdin:  strings.NewReader(h.stdin),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Clock:  h.clock,
	}
	all := append([]string{subcommand, "--config", h.configPath}, args...)
	return Root(env).Execute(all)
}

func exitCode(err error) int {
	var exit *cli.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return -1
}

func TestCheckStdin(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		flags    []string
		want     string
		wantExit int
	}{
		{
			name:  "ok",
			stdin: "0 2 * * *%target=all\n",
			want:  "ok\n",
		},
		{
			name:  "every minute",
			stdin: "* * * * *",
			want:  `warning: Do you really mean "every minute" when you say "* * * * *"? Perhaps you meant "H * * * *"` + "\n",
		},
		{
			name:     "every minute strict",
			stdin:    "* * * * *",
			flags:    []string{"--strict"},
			want:     "warning: ",
			wantExit: 2,
		},
		{
			name:     "invalid",
			stdin:    "0 2 * *",
			want:     `error: invalid input: "0 2 * *": line 1: `,
			wantExit: 1,
		},
		{
			name:     "missing whitespace",
			stdin:    "*/5 ** * *",
			want:     "error: You appear to be missing whitespace between * and *.\n",
			wantExit: 1,
		},
		{
			name:     "bad timezone",
			stdin:    "TZ=Dune/Arrakis\n0 0 * * *",
			want:     "error: ",
			wantExit: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			h.stdin = test.stdin
			err := h.run("check", append(test.flags, "-")...)

			if test.wantExit == 0 && err != nil {
				t.Fatalf("check: %v", err)
			}
			if test.wantExit != 0 && exitCode(err) != test.wantExit {
				t.Fatalf("check = %v, want exit %d", err, test.wantExit)
			}
			if !strings.HasPrefix(h.stdout.String(), test.want) {
				t.Errorf("stdout = %q, want prefix %q", h.stdout.String(), test.want)
			}
		})
	}
}

func TestCheckStrictFromConfiguration(t *testing.T) {
	h := newHarness(t)
	h.configPath = h.writeFile("strict.yaml", "timezone: UTC\nstrict: true\n")
	h.stdin = "* * * * *"

	if err := h.run("check"); exitCode(err) != 2 {
		t.Errorf("check = %v, want exit 2 from strict: true", err)
	}
}

func TestCheckAgainstJob(t *testing.T) {
	h := newHarness(t)
	jobs := h.writeFile("jobs.jsonc", jobsFile)
	proposed := h.writeFile("proposed.txt", "0 3 * * *%target=x&extra=1\n")

	if err := h.run("check", "--jobs", jobs, "--job", "quiet", proposed); err != nil {
		t.Fatalf("check: %v", err)
	}
	want := "quiet: warning: The parameters [extra] are not defined by this job. Defined parameters: [target]\n"
	if h.stdout.String() != want {
		t.Errorf("stdout = %q, want %q", h.stdout.String(), want)
	}

	// Without FILE the job's own schedule is checked.
	if err := h.run("check", "--jobs", jobs, "--job", "quiet"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if h.stdout.String() != "quiet: ok\n" {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	err := h.run("check", "--jobs", jobs, "--job", "missing")
	if err == nil || !strings.Contains(err.Error(), `job "missing" not found`) {
		t.Errorf("check --job missing = %v", err)
	}
}

func TestCheckWholeJobFile(t *testing.T) {
	h := newHarness(t)
	jobs := h.writeFile("jobs.jsonc", jobsFile)
	h.configPath = h.writeFile("with-jobs.yaml", "timezone: UTC\njobs_file: "+jobs+"\n")

	if err := h.run("check"); err != nil {
		t.Fatalf("check: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	if len(lines) != 2 || lines[0] != "quiet: ok" || !strings.HasPrefix(lines[1], "busy: warning: ") {
		t.Errorf("stdout lines = %q", lines)
	}

	broken := h.writeFile("broken.jsonc", `{"jobs": [{"name": "a", "schedule": "0 0 * *"}, {"name": "a"}]}`)
	err := h.run("check", "--jobs", broken)
	if exitCode(err) != 1 {
		t.Fatalf("check = %v, want exit 1", err)
	}
	if strings.Count(h.stdout.String(), "error: ") != 2 {
		t.Errorf("stdout = %q, want two errors", h.stdout.String())
	}
}

func TestCheckJSONOutput(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0,15,30,45 * * * *"

	if err := h.run("check", "--output", "json", "-"); err != nil {
		t.Fatalf("check: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(h.stdout.Bytes(), &records); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %v", records)
	}
	if records[0]["level"] != "warning" || records[0]["key"] != "cron.spreadLoad" {
		t.Errorf("record = %v", records[0])
	}
}

func TestCheckLocalizedCatalog(t *testing.T) {
	h := newHarness(t)
	catalog := h.writeFile("de.yaml", `
locale: de
messages:
  schedule.missingWhitespace: "Zwischen * und * fehlt anscheinend ein Leerzeichen."
`)
	h.configPath = h.writeFile("german.yaml", "timezone: UTC\nlocale: de-AT\ncatalogs: ["+catalog+"]\n")
	h.stdin = "*/5 ** * *"

	if err := h.run("check", "-"); exitCode(err) != 1 {
		t.Fatalf("check = %v, want exit 1", err)
	}
	if h.stdout.String() != "error: Zwischen * und * fehlt anscheinend ein Leerzeichen.\n" {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestMatchText(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *%target=all\n0 4 * * 0%target=all&coverage=1\n"

	if err := h.run("match", "--at", "2026-06-07T04:00:30Z", "-"); err != nil {
		t.Fatalf("match: %v", err)
	}
	output := h.stdout.String()
	for _, want := range []string{"TIME", "PARAMETERS", "2026-06-07T04:00:00Z", "{coverage=1, target=all}"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
	if strings.Count(output, "\n") != 2 {
		t.Errorf("output = %q, want header and one row", output)
	}
}

func TestMatchNothing(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *"

	if err := h.run("match", "--at", "2026-06-07T04:00:00Z"); err != nil {
		t.Fatalf("match: %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "Nothing fires at 2026-06-07T04:00:00Z") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestMatchJobFileUsesClock(t *testing.T) {
	h := newHarness(t)
	jobs := h.writeFile("jobs.jsonc", jobsFile)

	// The fake clock reads 04:00:20, where only the busy job fires.
	if err := h.run("match", "--jobs", jobs, "--output", "json"); err != nil {
		t.Fatalf("match: %v", err)
	}
	var fires []schedule.Fire
	if err := json.Unmarshal(h.stdout.Bytes(), &fires); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if len(fires) != 1 || fires[0].Job != "busy" || fires[0].Line != 1 {
		t.Fatalf("fires = %+v", fires)
	}
	if !fires[0].Time.Equal(time.Date(2026, 6, 7, 4, 0, 0, 0, time.UTC)) {
		t.Errorf("time = %v", fires[0].Time)
	}

	h.clock.Set(time.Date(2026, 6, 8, 2, 0, 0, 0, time.UTC))
	if err := h.run("match", "--jobs", jobs, "--job", "quiet", "--output", "json"); err != nil {
		t.Fatalf("match: %v", err)
	}
	fires = nil
	if err := json.Unmarshal(h.stdout.Bytes(), &fires); err != nil {
		t.Fatal(err)
	}
	if len(fires) != 1 || fires[0].Assignments().Get("target") != "all" {
		t.Errorf("fires = %+v", fires)
	}
}

func TestMatchCBOROutput(t *testing.T) {
	h := newHarness(t)
	h.stdin = `0 4 * * *%json={"a":"b\&c"}`

	if err := h.run("match", "--at", "2026-06-07T04:00:00Z", "--output", "cbor", "-"); err != nil {
		t.Fatalf("match: %v", err)
	}
	var fires []schedule.Fire
	if err := codec.NewDecoder(&h.stdout).Decode(&fires); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(fires) != 1 || fires[0].Assignments().Get("json") != `{"a":"b&c"}` {
		t.Errorf("fires = %+v", fires)
	}
}

func TestMatchKeepsParameterOrder(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *%zeta=1&alpha=2"

	if err := h.run("match", "--verbose", "--at", "2026-06-07T02:00:00Z", "-"); err != nil {
		t.Fatalf("match: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "{zeta=1, alpha=2}") {
		t.Errorf("stdout %q does not list parameters in declaration order", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), "Started by parameterized timer with parameters {zeta=1, alpha=2}") {
		t.Errorf("stderr %q does not describe the cause in declaration order", h.stderr.String())
	}

	h.stdin = "0 2 * * *%zeta=1&alpha=2"
	if err := h.run("match", "--at", "2026-06-07T02:00:00Z", "-o", "json", "-"); err != nil {
		t.Fatalf("match: %v", err)
	}
	zeta := strings.Index(h.stdout.String(), `"zeta"`)
	alpha := strings.Index(h.stdout.String(), `"alpha"`)
	if zeta < 0 || alpha < 0 || zeta > alpha {
		t.Errorf("JSON %q does not keep declaration order", h.stdout.String())
	}
}

func TestDecodeReadsAppendedMatches(t *testing.T) {
	h := newHarness(t)
	var recorded bytes.Buffer
	for _, at := range []string{"2026-06-07T02:00:00Z", "2026-06-07T04:00:00Z"} {
		h.stdin = "0 2 * * *%zeta=1&alpha=2\n0 4 * * *%run=late"
		if err := h.run("match", "--at", at, "-o", "cbor", "-"); err != nil {
			t.Fatalf("match at %s: %v", at, err)
		}
		recorded.Write(h.stdout.Bytes())
	}
	path := h.writeFile("fires.cbor", recorded.String())

	if err := h.run("decode", path); err != nil {
		t.Fatalf("decode: %v", err)
	}
	output := h.stdout.String()
	for _, want := range []string{"TIME", "2026-06-07T02:00:00Z", "{zeta=1, alpha=2}", "2026-06-07T04:00:00Z", "{run=late}"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}

	if err := h.run("decode", "-o", "json", path); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var fires []schedule.Fire
	if err := json.Unmarshal(h.stdout.Bytes(), &fires); err != nil {
		t.Fatal(err)
	}
	if len(fires) != 2 || fires[0].Line != 1 || fires[1].Line != 2 {
		t.Errorf("fires = %+v", fires)
	}
}

func TestDecodeDiagnostic(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *%target=all"
	if err := h.run("match", "--at", "2026-06-07T02:00:00Z", "-o", "cbor", "-"); err != nil {
		t.Fatalf("match: %v", err)
	}
	item := h.stdout.String()

	h.stdin = item + item
	if err := h.run("decode", "--diagnostic"); err != nil {
		t.Fatalf("decode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want one per item: %q", len(lines), h.stdout.String())
	}
	for _, want := range []string{`"target"`, `"all"`, `"2026-06-07T02:00:00Z"`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q does not contain %s", lines[0], want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	h := newHarness(t)

	h.stdin = ""
	if err := h.run("decode"); err == nil || !strings.Contains(err.Error(), "no CBOR data") {
		t.Errorf("empty input: decode = %v", err)
	}

	h.stdin = "\xff\xfe"
	if err := h.run("decode"); err == nil || !strings.Contains(err.Error(), "item 1") {
		t.Errorf("invalid input: decode = %v", err)
	}
	if err := h.run("decode", "--diagnostic"); err == nil || !strings.Contains(err.Error(), "at byte 0") {
		t.Errorf("invalid input: decode --diagnostic = %v", err)
	}
}

func TestMatchEmptyJSONIsArray(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *"

	if err := h.run("match", "--at", "2026-06-07T04:00:00Z", "--output", "json"); err != nil {
		t.Fatalf("match: %v", err)
	}
	if strings.TrimSpace(h.stdout.String()) != "[]" {
		t.Errorf("stdout = %q, want []", h.stdout.String())
	}
}

func TestMatchSourceErrors(t *testing.T) {
	h := newHarness(t)
	jobs := h.writeFile("jobs.jsonc", jobsFile)
	schedulePath := h.writeFile("schedule.txt", "0 2 * * *")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"job without file", []string{"--job", "quiet"}, "--job needs a job file"},
		{"file with jobs", []string{"--jobs", jobs, schedulePath}, "cannot be combined"},
		{"two files", []string{schedulePath, schedulePath}, "unexpected argument"},
		{"bad instant", []string{"--at", "tomorrow", schedulePath}, "--at"},
		{"bad output", []string{"--output", "xml", schedulePath}, "--output must be one of"},
		{"missing file", []string{filepath.Join(h.dir, "missing.txt")}, "reading"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := h.run("match", test.args...)
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("match = %v, want error containing %q", err, test.wantErr)
			}
		})
	}
}

func TestNext(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *%run=early\n0 2,14 * * *%run=both\n"

	if err := h.run("next", "--from", "2026-06-01T00:00:00Z", "--count", "2", "--output", "json", "-"); err != nil {
		t.Fatalf("next: %v", err)
	}
	var fires []schedule.Fire
	if err := json.Unmarshal(h.stdout.Bytes(), &fires); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if len(fires) != 3 {
		t.Fatalf("fires = %+v, want three in two minutes", fires)
	}
	if fires[0].Assignments().Get("run") != "early" || fires[1].Assignments().Get("run") != "both" {
		t.Errorf("02:00 fires out of declaration order: %+v", fires[:2])
	}
	if !fires[2].Time.Equal(time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("third fire at %v, want 14:00", fires[2].Time)
	}
}

func TestNextTextUsesRelativeTime(t *testing.T) {
	h := newHarness(t)
	h.clock.Set(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	h.stdin = "0 2 * * *%run=early"

	if err := h.run("next", "-n", "1"); err != nil {
		t.Fatalf("next: %v", err)
	}
	output := h.stdout.String()
	for _, want := range []string{"2026-06-01T02:00:00Z", "2 hours from now", "{run=early}"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
}

func TestNextSeedChangesHashedSchedule(t *testing.T) {
	h := newHarness(t)
	nextFor := func(seed string) string {
		t.Helper()
		h.stdin = "H H * * *"
		if err := h.run("next", "--from", "2026-06-01T00:00:00Z", "-n", "1", "--seed", seed, "-o", "json"); err != nil {
			t.Fatalf("next: %v", err)
		}
		return h.stdout.String()
	}

	if nextFor("nightly") != nextFor("nightly") {
		t.Error("the same seed produced different schedules")
	}
	distinct := map[string]bool{}
	for _, seed := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		distinct[nextFor(seed)] = true
	}
	if len(distinct) < 2 {
		t.Error("eight seeds produced one schedule")
	}
}

func TestNextMergesJobs(t *testing.T) {
	h := newHarness(t)
	jobs := h.writeFile("jobs.jsonc", jobsFile)

	if err := h.run("next", "--jobs", jobs, "--from", "2026-06-01T01:58:00Z", "-n", "3", "-o", "json"); err != nil {
		t.Fatalf("next: %v", err)
	}
	var fires []schedule.Fire
	if err := json.Unmarshal(h.stdout.Bytes(), &fires); err != nil {
		t.Fatal(err)
	}
	// Three minutes: 01:59 busy, 02:00 quiet then busy (job order
	// breaks ties), 02:01 busy.
	var fireJobs []string
	minutes := map[int64]bool{}
	for _, fire := range fires {
		fireJobs = append(fireJobs, fire.Job)
		minutes[fire.Time.Unix()] = true
	}
	if got := strings.Join(fireJobs, ","); got != "busy,quiet,busy,busy" {
		t.Errorf("jobs = %s, want busy,quiet,busy,busy", got)
	}
	if len(minutes) != 3 {
		t.Errorf("fires span %d minutes, want 3", len(minutes))
	}
}

func TestNextCountsMinutesNotFires(t *testing.T) {
	h := newHarness(t)
	jobs := h.writeFile("jobs.jsonc", `{"jobs": [
		{"name": "a", "schedule": "* * * * *"},
		{"name": "b", "schedule": "* * * * *"},
	]}`)

	if err := h.run("next", "--jobs", jobs, "--from", "2026-06-01T00:00:00Z", "-n", "3", "-o", "json"); err != nil {
		t.Fatalf("next: %v", err)
	}
	var fires []schedule.Fire
	if err := json.Unmarshal(h.stdout.Bytes(), &fires); err != nil {
		t.Fatal(err)
	}
	if len(fires) != 6 {
		t.Fatalf("got %d fires, want two jobs in each of three minutes", len(fires))
	}
	if last := time.Date(2026, 6, 1, 0, 3, 0, 0, time.UTC); !fires[5].Time.Equal(last) {
		t.Errorf("last fire at %v, want %v", fires[5].Time, last)
	}
}

func TestNextInvalidCount(t *testing.T) {
	h := newHarness(t)
	if err := h.run("next", "--count", "0", "-"); err == nil || !strings.Contains(err.Error(), "--count") {
		t.Errorf("next --count 0 = %v", err)
	}
}

func TestVerboseLogsCause(t *testing.T) {
	h := newHarness(t)
	h.stdin = "0 2 * * *%target=all"

	if err := h.run("match", "--verbose", "--at", "2026-06-07T02:00:00Z", "-"); err != nil {
		t.Fatalf("match: %v", err)
	}
	for _, want := range []string{"configuration loaded", "Started by parameterized timer with parameters {target=all}"} {
		if !strings.Contains(h.stderr.String(), want) {
			t.Errorf("stderr %q does not contain %q", h.stderr.String(), want)
		}
	}
}

func TestInvalidConfiguration(t *testing.T) {
	h := newHarness(t)
	h.configPath = h.writeFile("bad.yaml", "timezone: Dune/Arrakis\n")

	err := h.run("check", "-")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("check = %v, want invalid configuration", err)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	var stdout bytes.Buffer
	env := &Env{Stdout: &stdout, Stderr: &h.stderr}

	if err := Root(env).Execute([]string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "paramcron ") {
		t.Errorf("stdout = %q", stdout.String())
	}

	stdout.Reset()
	if err := Root(env).Execute([]string{"version", "-o", "json"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	var build map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &build); err != nil {
		t.Fatalf("decoding %q: %v", stdout.String(), err)
	}
	if _, ok := build["go"]; !ok {
		t.Errorf("build = %v, want a go field", build)
	}
}

func TestUnknownSubcommandSuggests(t *testing.T) {
	h := newHarness(t)
	err := Root(&Env{Stderr: &h.stderr}).Execute([]string{"mtach"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "match"`) {
		t.Errorf("Execute = %v", err)
	}
}
