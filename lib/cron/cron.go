// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidExpression is wrapped by every error Parse returns.
var ErrInvalidExpression = errors.New("invalid cron expression")

// Field identifies one of the five cron fields.
type Field int

const (
	Minute Field = iota
	Hour
	DayOfMonth
	Month
	DayOfWeek

	fieldCount = 5
)

func (f Field) String() string {
	switch f {
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case DayOfMonth:
		return "day-of-month"
	case Month:
		return "month"
	case DayOfWeek:
		return "day-of-week"
	default:
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
}

// fieldBounds holds the accepted values for a field. hashMaximum is
// the upper bound a bare H picks from.
type fieldBounds struct {
	minimum     int
	maximum     int
	hashMaximum int
}

var bounds = [fieldCount]fieldBounds{
	Minute:     {minimum: 0, maximum: 59, hashMaximum: 59},
	Hour:       {minimum: 0, maximum: 23, hashMaximum: 23},
	DayOfMonth: {minimum: 1, maximum: 31, hashMaximum: 28},
	Month:      {minimum: 1, maximum: 12, hashMaximum: 12},
	DayOfWeek:  {minimum: 0, maximum: 7, hashMaximum: 6},
}

var aliases = map[string]string{
	"@yearly":   "H H H H *",
	"@annually": "H H H H *",
	"@monthly":  "H H H * *",
	"@weekly":   "H H * * H",
	"@daily":    "H H * * *",
	"@midnight": "H H(0-2) * * *",
	"@hourly":   "H * * * *",
}

// Schedule is a parsed cron expression bound to a location. The zero
// value matches nothing; use Parse or Options.Parse to create one.
// A Schedule is immutable and safe for concurrent use.
type Schedule struct {
	expression  string
	location    *time.Location
	minutes     bitset64
	hours       bitset64
	daysOfMonth bitset64
	months      bitset64
	daysOfWeek  bitset64
}

// bitset64 uses a uint64 as a compact set of integers 0-63.
type bitset64 uint64

func (b bitset64) has(value int) bool { return b&(1<<uint(value)) != 0 }
func (b *bitset64) set(value int)     { *b |= 1 << uint(value) }
func (b *bitset64) clear(value int)   { *b &^= 1 << uint(value) }

// Options controls how an expression is parsed.
type Options struct {
	// Hash resolves H tokens. Nil means ZeroHash.
	Hash Hash

	// Location is the zone the schedule is evaluated in. Nil means
	// time.Local, resolved at evaluation time.
	Location *time.Location
}

// Parse parses a cron expression with no hash seed and the local
// time zone.
func Parse(expression string) (Schedule, error) {
	return Options{}.Parse(expression)
}

// Parse parses a 5-field cron expression or alias. Returned errors
// wrap ErrInvalidExpression and name the offending field.
func (o Options) Parse(expression string) (Schedule, error) {
	expression = strings.TrimSpace(expression)
	hash := o.Hash
	if hash == nil {
		hash = ZeroHash
	}

	text := expression
	if strings.HasPrefix(text, "@") {
		expanded, ok := aliases[text]
		if !ok {
			return Schedule{}, fmt.Errorf("%w: unknown alias %q", ErrInvalidExpression, text)
		}
		text = expanded
	}

	fields := strings.Fields(text)
	if len(fields) != fieldCount {
		return Schedule{}, fmt.Errorf("%w: expected 5 fields, got %d", ErrInvalidExpression, len(fields))
	}

	var sets [fieldCount]bitset64
	for index, raw := range fields {
		field := Field(index)
		set, err := parseField(raw, field, hash)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: %s field: %w", ErrInvalidExpression, field, err)
		}
		sets[index] = set
	}

	// 7 is an alias for Sunday.
	if sets[DayOfWeek].has(7) {
		sets[DayOfWeek].clear(7)
		sets[DayOfWeek].set(0)
	}

	return Schedule{
		expression:  expression,
		location:    o.Location,
		minutes:     sets[Minute],
		hours:       sets[Hour],
		daysOfMonth: sets[DayOfMonth],
		months:      sets[Month],
		daysOfWeek:  sets[DayOfWeek],
	}, nil
}

// String returns the expression as written, trimmed.
func (s Schedule) String() string { return s.expression }

// Location returns the zone the schedule is evaluated in.
func (s Schedule) Location() *time.Location {
	if s.location == nil {
		return time.Local
	}
	return s.location
}

// Matches reports whether the minute containing t satisfies every
// field, evaluated in the schedule's location. Seconds are ignored.
func (s Schedule) Matches(t time.Time) bool {
	t = t.In(s.Location())
	return s.minutes.has(t.Minute()) &&
		s.hours.has(t.Hour()) &&
		s.daysOfMonth.has(t.Day()) &&
		s.months.has(int(t.Month())) &&
		s.daysOfWeek.has(int(t.Weekday()))
}

// Next returns the earliest minute strictly after t that matches the
// schedule, computed in the schedule's location.
//
// Returns an error if no matching time can be found within 4 years
// of t (prevents infinite loops on impossible schedules like
// Feb 31).
func (s Schedule) Next(t time.Time) (time.Time, error) {
	location := s.Location()
	t = t.In(location)
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, location).Add(time.Minute)

	// 4 years covers all leap year cycles.
	limit := t.AddDate(4, 0, 0)

	for t.Before(limit) {
		var candidate time.Time
		switch {
		case !s.months.has(int(t.Month())):
			candidate = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, location)
		case !s.daysOfMonth.has(t.Day()) || !s.daysOfWeek.has(int(t.Weekday())):
			candidate = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, location)
		case !s.hours.has(t.Hour()):
			candidate = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, location)
		case !s.minutes.has(t.Minute()):
			candidate = t.Add(time.Minute)
		default:
			return t, nil
		}

		// Wall-clock arithmetic across a DST fold can land at or
		// before t.
		if !candidate.After(t) {
			candidate = t.Add(time.Minute)
		}
		t = candidate
	}

	return time.Time{}, fmt.Errorf("cron: no matching time within 4 years of %s", t.Format(time.RFC3339))
}

// parseField parses a single cron field into a bitset. The field may
// contain comma-separated terms.
func parseField(raw string, field Field, hash Hash) (bitset64, error) {
	var result bitset64
	for _, term := range strings.Split(raw, ",") {
		bits, err := parseTerm(term, field, hash)
		if err != nil {
			return 0, err
		}
		result |= bits
	}
	if result == 0 {
		return 0, fmt.Errorf("field %q produces empty set", raw)
	}
	return result, nil
}

// parseTerm parses a single term: *, */N, V, V/N, V-V, V-V/N, H,
// H/N, H(V-V), H(V-V)/N.
func parseTerm(term string, field Field, hash Hash) (bitset64, error) {
	limits := bounds[field]

	parts := strings.SplitN(term, "/", 2)
	rangeExpression := parts[0]
	step := 1
	hasStep := len(parts) == 2
	if hasStep {
		parsed, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid step %q", parts[1])
		}
		if parsed <= 0 {
			return 0, fmt.Errorf("step must be positive, got %d", parsed)
		}
		step = parsed
	}

	var rangeStart, rangeEnd int

	switch {
	case rangeExpression == "*":
		rangeStart = limits.minimum
		rangeEnd = limits.maximum

	case strings.HasPrefix(rangeExpression, "H"):
		low, high, err := parseHashRange(rangeExpression, limits)
		if err != nil {
			return 0, err
		}
		span := high - low + 1
		if !hasStep {
			var result bitset64
			result.set(low + hash.Pick(field, span))
			return result, nil
		}
		if step > span {
			return 0, fmt.Errorf("step %d exceeds hash range %d-%d", step, low, high)
		}
		rangeStart = low + hash.Pick(field, step)
		rangeEnd = high

	case strings.Contains(rangeExpression, "-"):
		dashIndex := strings.IndexByte(rangeExpression, '-')
		startText := rangeExpression[:dashIndex]
		endText := rangeExpression[dashIndex+1:]
		var err error
		rangeStart, err = strconv.Atoi(startText)
		if err != nil {
			return 0, fmt.Errorf("invalid range start %q", startText)
		}
		rangeEnd, err = strconv.Atoi(endText)
		if err != nil {
			return 0, fmt.Errorf("invalid range end %q", endText)
		}
		if rangeStart > rangeEnd {
			return 0, fmt.Errorf("range start %d > end %d", rangeStart, rangeEnd)
		}

	default:
		value, err := strconv.Atoi(rangeExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q", rangeExpression)
		}
		rangeStart = value
		rangeEnd = value
		if hasStep {
			rangeEnd = limits.maximum
		}
	}

	if rangeStart < limits.minimum || rangeEnd > limits.maximum {
		return 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d",
			limits.minimum, limits.maximum, rangeStart, rangeEnd)
	}

	var result bitset64
	for value := rangeStart; value <= rangeEnd; value += step {
		result.set(value)
	}
	return result, nil
}

// parseHashRange parses "H" or "H(V-V)" and returns the inclusive
// range the hash picks from.
func parseHashRange(expression string, limits fieldBounds) (int, int, error) {
	if expression == "H" {
		return limits.minimum, limits.hashMaximum, nil
	}

	inner, ok := strings.CutPrefix(expression, "H(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return 0, 0, fmt.Errorf("invalid hash term %q", expression)
	}
	inner = strings.TrimSuffix(inner, ")")

	startText, endText, ok := strings.Cut(inner, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid hash range %q", expression)
	}
	low, err := strconv.Atoi(startText)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q", startText)
	}
	high, err := strconv.Atoi(endText)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end %q", endText)
	}
	if low > high {
		return 0, 0, fmt.Errorf("range start %d > end %d", low, high)
	}
	if low < limits.minimum || high > limits.maximum {
		return 0, 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d",
			limits.minimum, limits.maximum, low, high)
	}
	return low, high, nil
}
