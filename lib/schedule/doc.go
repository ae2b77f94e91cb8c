// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schedule parses parameterized schedule specifications and
// answers two questions about them: which lines match a given instant,
// and whether the specification looks like a mistake.
//
// A specification is one or more lines:
//
//	# comments and blank lines are ignored
//	TZ=Europe/Berlin
//	H 2 * * *%target=nightly
//	H/15 9-17 * * 1-5%target=smoke&retries=2
//	TZ=America/New_York 0 9 * * 1%target=weekly
//
// An optional first line "TZ=zone" sets the zone for every entry that
// does not carry its own "TZ=zone" prefix. Every other line is an
// [Entry]: a cron expression (see lib/cron) and, after "%", the
// parameters to pass to the work it triggers (see lib/params).
//
// [Parse] is fail-fast: the first bad line aborts the parse with a
// [LineError] naming the line number (blank and comment lines are not
// counted) and the text as written. A parsed [List] is immutable and
// safe to share between goroutines; a host swaps in a newly parsed
// List when the text changes.
//
// [List.Matches] returns every entry matching an instant, in
// declaration order. [List.SanityCheck] returns the first advisory
// warning. [CheckParameters] cross-checks parameter names against what
// a job declares, and [Validate] combines all of this into the single
// verdict a configuration form shows.
//
// Warnings are message keys plus arguments; render them with a
// lib/messages catalog.
package schedule
