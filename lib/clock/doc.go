// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of "now".
//
// Commands that default an instant to the current time (match without
// --at, next without --from) take a Clock instead of calling time.Now
// directly. In production, Real() provides the standard library
// behavior. In tests, Fake() pins the instant:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	command := matchCommand(c)
//	c.Advance(time.Minute) // the next minute boundary
package clock
