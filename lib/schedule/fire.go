// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"time"

	"github.com/bureau-foundation/paramcron/lib/params"
)

// Fire records one entry firing at one minute. It is what a host hands
// to whatever starts the work, and what the CLI prints.
type Fire struct {
	// Job names the job the entry belongs to. Empty for a bare
	// specification with no job.
	Job string `json:"job,omitempty"`

	// Line is the entry's logical line number, and Entry its text.
	// Both are zero for matchers other than *Entry.
	Line  int    `json:"line,omitempty"`
	Entry string `json:"entry,omitempty"`

	// Time is the firing minute.
	Time time.Time `json:"time"`

	// Parameters lists the run's assignments in declaration order.
	Parameters []params.Pair `json:"parameters"`
}

// NewFire builds the Fire record for matcher firing at t. t is
// truncated to the minute.
func NewFire(job string, matcher Matcher, t time.Time) Fire {
	fire := Fire{
		Job:        job,
		Time:       t.Truncate(time.Minute),
		Parameters: matcher.Parameters().Pairs(),
	}
	if entry, ok := matcher.(*Entry); ok {
		fire.Line = entry.LineNumber()
		fire.Entry = entry.Text()
	}
	return fire
}

// Assignments returns the fire's parameters as an ordered mapping.
func (f Fire) Assignments() params.Parameters {
	return params.FromPairs(f.Parameters)
}

// Cause returns the trigger cause a run started by this fire records.
func (f Fire) Cause() Cause {
	return NewCause(f.Assignments())
}

// Fires returns a Fire for every entry matching t, in declaration
// order.
func (l *List) Fires(job string, t time.Time) []Fire {
	matched := l.Matches(t)
	fires := make([]Fire, 0, len(matched))
	for _, matcher := range matched {
		fires = append(fires, NewFire(job, matcher, t))
	}
	return fires
}
