// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"slices"
	"strings"

	"github.com/bureau-foundation/paramcron/lib/cron"
)

// Message keys produced by this package. Render them with a
// messages.Catalog.
const (
	WarningMissingWhitespace   = "schedule.missingWhitespace"
	WarningUndefinedParameters = "schedule.undefinedParameters"
	MessageCauseDescription    = "schedule.causeShortDescription"
)

// HasParameters is implemented by jobs that declare the parameters
// they accept.
type HasParameters interface {
	ParameterNames() []string
}

// Formatter renders a message key and its arguments.
// messages.Catalog satisfies it.
type Formatter interface {
	Format(key string, args ...string) string
}

// CheckParameters reports entries that assign parameters the job does
// not declare. The warning lists the unknown names of the first such
// entry, sorted, followed by the declared names. A nil job declares
// nothing.
func CheckParameters(list *List, job HasParameters) *cron.Warning {
	var declared []string
	if job != nil {
		declared = job.ParameterNames()
	}

	for _, entry := range list.entries {
		var undefined []string
		for name := range entry.Parameters().All() {
			if !slices.Contains(declared, name) {
				undefined = append(undefined, name)
			}
		}
		if len(undefined) == 0 {
			continue
		}
		slices.Sort(undefined)
		defined := slices.Sorted(slices.Values(declared))
		return cron.NewWarning(WarningUndefinedParameters,
			"["+strings.Join(undefined, ", ")+"]",
			"["+strings.Join(defined, ", ")+"]")
	}
	return nil
}

// Level grades a Validate result.
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "ok"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of validating a specification for a job.
type Result struct {
	Level Level

	// Warning is set for LevelWarning, and for LevelError when the
	// error has a friendlier advisory form.
	Warning *cron.Warning

	// Err is set for LevelError.
	Err error
}

// Text renders the result for a user. OK results render as an empty
// string.
func (r Result) Text(formatter Formatter) string {
	switch {
	case r.Warning != nil:
		return formatter.Format(r.Warning.Key, r.Warning.Args...)
	case r.Err != nil:
		return r.Err.Error()
	default:
		return ""
	}
}

// Validate parses text and grades it: parse errors first, then the
// first sanity warning, then undeclared parameters. job may be nil.
func Validate(text string, job HasParameters, options ...Option) Result {
	list, err := Parse(text, options...)
	if err != nil {
		result := Result{Level: LevelError, Err: err}
		if missingWhitespace(text, err) {
			result.Warning = cron.NewWarning(WarningMissingWhitespace)
		}
		return result
	}

	if warning := list.SanityCheck(); warning != nil {
		return Result{Level: LevelWarning, Warning: warning}
	}
	if warning := CheckParameters(list, job); warning != nil {
		return Result{Level: LevelWarning, Warning: warning}
	}
	return Result{Level: LevelOK}
}

// missingWhitespace detects "*/5 ** * *"-style typos: a single-line
// specification whose cron syntax failed and which contains "**".
func missingWhitespace(text string, err error) bool {
	if !errors.Is(err, cron.ErrInvalidExpression) {
		return false
	}
	trimmed := strings.TrimSpace(text)
	return !strings.Contains(trimmed, "\n") && strings.Contains(trimmed, "**")
}
