// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses 5-field cron expressions, matches them against
// instants in a time zone, and flags expressions that are probably
// typos.
//
// Supported syntax:
//
//	┌───────────── minute (0-59)
//	│ ┌───────────── hour (0-23)
//	│ │ ┌───────────── day of month (1-31)
//	│ │ │ ┌───────────── month (1-12)
//	│ │ │ │ ┌───────────── day of week (0-7, 0 and 7 = Sunday)
//	│ │ │ │ │
//	* * * * *
//
// Each field supports:
//   - Single values: 5
//   - Ranges: 1-5
//   - Lists: 1,3,5
//   - Steps: */15, 1-30/5, 10/20 (10 to the field maximum)
//   - Wildcard: *
//   - Hash: H, H/15, H(0-29), H(0-29)/10
//
// The H token picks a value from the field range using a [Hash]. The
// same hash always picks the same value, so a schedule written as
// "H * * * *" fires at a stable minute per job while different jobs
// spread across the hour. An unseeded parse uses [ZeroHash], which
// always picks the lowest value. In the day-of-month field a bare H
// picks from 1-28 so the chosen day exists in every month.
//
// The aliases @yearly, @annually, @monthly, @weekly, @daily,
// @midnight and @hourly expand to hashed expressions.
//
// Matching is done in the schedule's [time.Location] (time.Local when
// none was given). All five fields must match. There are no seconds
// and no month or weekday names.
//
// [Schedule.CheckSanity] returns a [Warning] for expressions that are
// valid but likely not what the author meant, such as "* * * * *".
// Warnings are data (a message key plus arguments); rendering them in
// a language is the caller's job.
package cron
