// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jobfile

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/paramcron/lib/cron"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

// parameterNamePattern matches declared parameter names: anything
// params.Parse would accept as a name, minus surrounding whitespace.
var parameterNamePattern = regexp.MustCompile(`^[^\s=&%\\]([^=&%\\]*[^\s=&%\\])?$`)

// File is a parsed job file.
type File struct {
	// Timezone, when set, is the zone for job schedules that have no
	// "TZ=" line of their own.
	Timezone string `json:"timezone,omitempty"`

	Jobs []Job `json:"jobs"`
}

// Job is one job definition.
type Job struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Parameters  []string `json:"parameters,omitempty"`

	// Schedule is the parameterized schedule specification, one
	// entry per line.
	Schedule string `json:"schedule"`
}

var _ schedule.HasParameters = Job{}

// ParameterNames returns the parameters the job declares.
func (j Job) ParameterNames() []string { return j.Parameters }

// Compile parses the job's schedule with H tokens seeded by the job
// name, so every job spreads differently and each job is stable
// across runs. Later options override the seed.
func (j Job) Compile(options ...schedule.Option) (*schedule.List, error) {
	all := append([]schedule.Option{schedule.WithHashSeed(j.Name)}, options...)
	list, err := schedule.Parse(j.Schedule, all...)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", j.Name, err)
	}
	return list, nil
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a File. It does not validate; call
// Validate for that.
func Parse(data []byte) (*File, error) {
	stripped := jsonc.ToJSON(data)

	var file File
	if err := json.Unmarshal(stripped, &file); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	return &file, nil
}

// ReadFile reads and parses a JSONC job file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Job returns the job with the given name.
func (f *File) Job(name string) (Job, bool) {
	for _, job := range f.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return Job{}, false
}

// Names returns the job names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Jobs))
	for index, job := range f.Jobs {
		names[index] = job.Name
	}
	return names
}

// Validate checks a File for structural issues and unparseable
// schedules. It returns human-readable issue descriptions; an empty
// list means the file is valid. Sanity warnings are not issues.
func Validate(file *File) []string {
	var issues []string

	if file.Timezone != "" && !cron.ValidTimezone(file.Timezone) {
		issues = append(issues, fmt.Sprintf("timezone %q: unknown zone", file.Timezone))
	}

	seen := make(map[string]int, len(file.Jobs))
	for index, job := range file.Jobs {
		prefix := fmt.Sprintf("jobs[%d]", index)

		if strings.TrimSpace(job.Name) == "" {
			issues = append(issues, prefix+": name is required")
		} else if first, exists := seen[job.Name]; exists {
			issues = append(issues, fmt.Sprintf("%s %q: duplicate job name (first used at jobs[%d])", prefix, job.Name, first))
		} else {
			seen[job.Name] = index
		}

		declared := make(map[string]bool, len(job.Parameters))
		for _, name := range job.Parameters {
			if !parameterNamePattern.MatchString(name) {
				issues = append(issues, fmt.Sprintf("%s %q: invalid parameter name %q", prefix, job.Name, name))
			}
			if declared[name] {
				issues = append(issues, fmt.Sprintf("%s %q: parameter %q declared twice", prefix, job.Name, name))
			}
			declared[name] = true
		}

		if _, err := schedule.Parse(job.Schedule); err != nil {
			issues = append(issues, fmt.Sprintf("%s %q: %v", prefix, job.Name, err))
		}
	}

	return issues
}
