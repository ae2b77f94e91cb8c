// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/paramcron/lib/cron"
	"github.com/bureau-foundation/paramcron/lib/params"
)

const timezonePrefix = "TZ="

// Matcher is one line of a List. *Entry is the implementation Parse
// produces; hosts and tests may supply their own.
type Matcher interface {
	// Matches reports whether the line fires at t.
	Matches(t time.Time) bool

	// Next returns the first firing strictly after t.
	Next(t time.Time) (time.Time, error)

	// SanityCheck returns an advisory warning, or nil.
	SanityCheck() *cron.Warning

	// Parameters returns what the line passes to the work it
	// triggers.
	Parameters() params.Parameters
}

// Entry is a parsed specification line: a cron schedule bound to a
// zone, plus its parameters. Entries are immutable.
type Entry struct {
	text       string
	lineNumber int
	schedule   cron.Schedule
	parameters params.Parameters
}

var _ Matcher = (*Entry)(nil)

// NewEntry parses one specification line. lineNumber is the 1-based
// logical line number used in errors. hash resolves H tokens (nil
// means cron.ZeroHash). location is the zone inherited from the list;
// a "TZ=zone" prefix on the line overrides it, and nil means
// time.Local.
//
// Errors are *LineError values wrapping cron.ErrInvalidExpression,
// cron.ErrInvalidTimezone or params.ErrMalformed.
func NewEntry(line string, lineNumber int, hash cron.Hash, location *time.Location) (*Entry, error) {
	text := strings.TrimSpace(line)
	fail := func(err error) (*Entry, error) {
		return nil, &LineError{Line: lineNumber, Text: text, Err: err}
	}

	cronPart, region, _ := params.SplitLine(text)

	if rest, ok := strings.CutPrefix(cronPart, timezonePrefix); ok {
		zone, expression := rest, ""
		if index := strings.IndexAny(rest, " \t"); index >= 0 {
			zone, expression = rest[:index], rest[index+1:]
		}
		zoneLocation, err := cron.LoadTimezone(zone)
		if err != nil {
			return fail(err)
		}
		location = zoneLocation
		cronPart = strings.TrimSpace(expression)
	}

	schedule, err := cron.Options{Hash: hash, Location: location}.Parse(cronPart)
	if err != nil {
		return fail(err)
	}

	parameters, err := params.Parse(region)
	if err != nil {
		return fail(err)
	}

	return &Entry{
		text:       text,
		lineNumber: lineNumber,
		schedule:   schedule,
		parameters: parameters,
	}, nil
}

// Text returns the line as written, trimmed.
func (e *Entry) Text() string { return e.text }

// LineNumber returns the 1-based logical line number.
func (e *Entry) LineNumber() int { return e.lineNumber }

// Schedule returns the parsed cron schedule.
func (e *Entry) Schedule() cron.Schedule { return e.schedule }

// Location returns the zone the entry is evaluated in.
func (e *Entry) Location() *time.Location { return e.schedule.Location() }

// Parameters returns the entry's parameter mapping.
func (e *Entry) Parameters() params.Parameters { return e.parameters }

// Matches reports whether the entry fires during the minute of t.
func (e *Entry) Matches(t time.Time) bool { return e.schedule.Matches(t) }

// Next returns the entry's first firing strictly after t.
func (e *Entry) Next(t time.Time) (time.Time, error) { return e.schedule.Next(t) }

// SanityCheck returns the schedule's advisory warning, or nil.
func (e *Entry) SanityCheck() *cron.Warning { return e.schedule.CheckSanity() }

func (e *Entry) String() string {
	return fmt.Sprintf("line %d: %s", e.lineNumber, e.text)
}
