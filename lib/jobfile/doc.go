// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jobfile reads job definitions: the parameters each job
// declares and the parameterized schedule that triggers it.
//
// Job files are JSONC (JSON extended with comments and trailing
// commas):
//
//	{
//	  // Built every night, and with extra coverage on Sundays.
//	  "jobs": [
//	    {
//	      "name": "nightly",
//	      "parameters": ["target", "coverage"],
//	      "schedule": "TZ=Europe/Berlin\nH 2 * * *%target=all\nH 4 * * 0%target=all&coverage=1",
//	    },
//	  ],
//	}
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes to a File
//  2. Validate: structural checks plus schedule parsing
//  3. Compile: one schedule.List per job, H tokens seeded by job name
//  4. Match: the fire records for every job at one instant
//
// A Job satisfies schedule.HasParameters, so the declared parameter
// names feed schedule.Validate and schedule.CheckParameters directly.
package jobfile
