// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"regexp"
	"strconv"
	"strings"
)

// Message keys for the warnings CheckSanity produces. The catalog in
// lib/messages carries the text for each.
const (
	WarningEveryMinute     = "cron.everyMinute"
	WarningShortDayOfMonth = "cron.shortDayOfMonthCycles"
	WarningSpreadLoad      = "cron.spreadLoad"
)

// Warning is an advisory diagnostic: a message key and its ordered
// arguments. A Warning never means the input was rejected.
type Warning struct {
	Key  string
	Args []string
}

// NewWarning builds a Warning.
func NewWarning(key string, args ...string) *Warning {
	return &Warning{Key: key, Args: args}
}

// String renders the warning without a catalog, as the key followed
// by its quoted arguments. User-facing code should render through a
// message catalog instead.
func (w *Warning) String() string {
	if w == nil {
		return ""
	}
	if len(w.Args) == 0 {
		return w.Key
	}
	quoted := make([]string, len(w.Args))
	for index, arg := range w.Args {
		quoted[index] = strconv.Quote(arg)
	}
	return w.Key + "(" + strings.Join(quoted, ", ") + ")"
}

// CheckSanity looks for expressions that parse but are probably not
// what the author meant. It returns the first warning found, or nil.
//
// The checks, in order:
//   - the minute field is a full wildcard, so the schedule fires
//     every minute of every hour it matches;
//   - the day-of-month field selects between 6 and 27 of the days
//     1-30, which makes short cycles like */3 bunch up at month end;
//   - the minute field is a fixed step (*/15, or 0,15,30,45) that
//     every job would share, where H would spread the load.
func (s Schedule) CheckSanity() *Warning {
	if s.minutes.full(bounds[Minute]) {
		return NewWarning(WarningEveryMinute, s.expression, everyMinuteSuggestion(s.expression))
	}

	daysOfMonth := 0
	for day := 1; day < 31; day++ {
		if s.daysOfMonth.has(day) {
			daysOfMonth++
		}
	}
	if daysOfMonth > 5 && daysOfMonth < 28 {
		return NewWarning(WarningShortDayOfMonth)
	}

	if suggestion := hashify(s.expression); suggestion != "" {
		return NewWarning(WarningSpreadLoad, suggestion, s.expression)
	}

	return nil
}

func (b bitset64) full(limits fieldBounds) bool {
	for value := limits.minimum; value <= limits.maximum; value++ {
		if !b.has(value) {
			return false
		}
	}
	return true
}

// everyMinuteSuggestion replaces the minute field with H.
func everyMinuteSuggestion(expression string) string {
	index := strings.IndexAny(expression, " \t")
	if index < 0 {
		return "H * * * *"
	}
	return "H " + strings.TrimLeft(expression[index:], " \t")
}

var minuteListPattern = regexp.MustCompile(`^0(,(\d+)(,\d+)*)( .+)$`)

// hashify returns the hashed form of an expression whose minute field
// is a fixed step, or "" when there is nothing to suggest.
func hashify(expression string) string {
	if strings.Contains(expression, "H") {
		return ""
	}
	if strings.HasPrefix(expression, "*/") {
		return "H" + expression[1:]
	}

	match := minuteListPattern.FindStringSubmatch(expression)
	if match == nil {
		return ""
	}
	period, err := strconv.Atoi(match[2])
	if err != nil || period <= 0 {
		return ""
	}
	var expected strings.Builder
	for minute := period; minute < 60; minute += period {
		expected.WriteString(",")
		expected.WriteString(strconv.Itoa(minute))
	}
	if expected.String() != match[1] {
		return ""
	}
	return "H/" + strconv.Itoa(period) + match[4]
}
