// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package params parses the parameter assignments attached to a
// schedule line.
//
// A schedule line is a cron expression optionally followed by "%" and
// a list of assignments:
//
//	0 2 * * *%target=all&verbose=true
//
// [SplitLine] separates the two halves at the first unescaped "%".
// [Parse] turns the assignment region into [Parameters], an ordered,
// immutable name/value mapping.
//
// Grammar of the assignment region:
//
//	region := [ pair ( "&" pair )* [ "&" ] ]
//	pair   := name "=" value
//
// Pairs are separated by unescaped "&" and split at their first "=",
// so values may contain "=", braces, colons, commas and quotes; a JSON
// object is a valid value. A backslash escapes "&", "%" and itself;
// any other backslash is kept as written so JSON escapes survive.
// Names are trimmed and must not be empty or contain "&" or "%".
// Values are kept verbatim.
//
// When a name repeats, the last value wins and the name keeps the
// position of its first occurrence.
package params
