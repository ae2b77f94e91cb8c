// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/paramcron/lib/cron"
)

// ErrInvalidTimezone is wrapped by errors for an unknown zone in a
// "TZ=" directive or line prefix.
var ErrInvalidTimezone = cron.ErrInvalidTimezone

// ErrNoMatch is returned by List.Next when no entry fires again.
var ErrNoMatch = errors.New("schedule: no entry fires again")

// LineError reports the specification line that stopped a parse.
type LineError struct {
	// Line is the 1-based logical line number. Blank and comment
	// lines are not counted.
	Line int

	// Text is the offending line as written, trimmed.
	Text string

	// Err is the underlying cron, parameter or zone error.
	Err error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("invalid input: %q: line %d: %v", e.Text, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Option configures Parse.
type Option func(*parseOptions)

type parseOptions struct {
	hash     cron.Hash
	location *time.Location
}

// WithHash sets the Hash that resolves H tokens.
func WithHash(hash cron.Hash) Option {
	return func(options *parseOptions) { options.hash = hash }
}

// WithHashSeed resolves H tokens with cron.HashOf(seed). Use a stable
// identity such as the job name.
func WithHashSeed(seed string) Option {
	return WithHash(cron.HashOf(seed))
}

// WithLocation sets the zone used when the specification has no "TZ="
// directive. Without it, such specifications use time.Local.
func WithLocation(location *time.Location) Option {
	return func(options *parseOptions) { options.location = location }
}

// List is an ordered, immutable set of specification lines.
type List struct {
	entries  []Matcher
	location *time.Location
}

// NewList builds a List from already-constructed lines, in order.
func NewList(entries ...Matcher) *List {
	return &List{entries: append([]Matcher(nil), entries...)}
}

// Parse parses a specification. It stops at the first bad line and
// returns a *LineError for it; no partial List is returned.
func Parse(text string, options ...Option) (*List, error) {
	var settings parseOptions
	for _, option := range options {
		option(&settings)
	}

	list := &List{}
	location := settings.location
	lineNumber := 0

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lineNumber++

		if lineNumber == 1 && isTimezoneDirective(line) {
			zone, err := cron.LoadTimezone(strings.TrimPrefix(line, timezonePrefix))
			if err != nil {
				return nil, &LineError{Line: lineNumber, Text: line, Err: err}
			}
			location = zone
			list.location = zone
			continue
		}

		entry, err := NewEntry(line, lineNumber, settings.hash, location)
		if err != nil {
			return nil, err
		}
		list.entries = append(list.entries, entry)
	}

	return list, nil
}

// isTimezoneDirective reports whether line is a bare "TZ=zone". A
// "TZ=zone" followed by a cron expression is an entry with its own
// zone instead.
func isTimezoneDirective(line string) bool {
	return strings.HasPrefix(line, timezonePrefix) && !strings.ContainsAny(line, " \t")
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Entries returns the entries in declaration order.
func (l *List) Entries() []Matcher {
	return append([]Matcher(nil), l.entries...)
}

// Location returns the zone set by a "TZ=" directive, or nil when the
// specification had none.
func (l *List) Location() *time.Location { return l.location }

// Matches returns every entry that fires at t, in declaration order.
// The result is empty, not nil, when nothing matches.
func (l *List) Matches(t time.Time) []Matcher {
	matched := []Matcher{}
	for _, entry := range l.entries {
		if entry.Matches(t) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// SanityCheck returns the first entry warning in declaration order,
// or nil. Entries after the first warning are not checked.
func (l *List) SanityCheck() *cron.Warning {
	for _, entry := range l.entries {
		if warning := entry.SanityCheck(); warning != nil {
			return warning
		}
	}
	return nil
}

// Next returns the earliest time strictly after t at which any entry
// fires, and the entries that fire then in declaration order. Entries
// that never fire again are skipped; ErrNoMatch is returned when none
// do.
func (l *List) Next(t time.Time) (time.Time, []Matcher, error) {
	var earliest time.Time
	var firing []Matcher
	for _, entry := range l.entries {
		next, err := entry.Next(t)
		if err != nil {
			continue
		}
		switch {
		case firing == nil || next.Before(earliest):
			earliest = next
			firing = []Matcher{entry}
		case next.Equal(earliest):
			firing = append(firing, entry)
		}
	}
	if firing == nil {
		return time.Time{}, nil, ErrNoMatch
	}
	return earliest, firing, nil
}
