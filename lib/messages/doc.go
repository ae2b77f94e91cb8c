// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messages renders diagnostic keys into human-readable text.
//
// Library packages (lib/cron, lib/schedule) never build user-facing
// strings. They return a message key and arguments, and the caller
// that talks to a person picks a [Catalog] and calls Format. This
// keeps parsing and matching free of locale state.
//
// Templates use positional placeholders:
//
//	Do you really mean "every minute" when you say "{0}"? Perhaps you meant "{1}"
//
// [English] is the built-in catalog and the fallback for every other
// catalog. Additional catalogs are YAML files:
//
//	locale: de
//	messages:
//	  schedule.missingWhitespace: "Zwischen * und * fehlt ein Leerzeichen."
//
// A [Bundle] holds several catalogs and picks the best one for a
// requested BCP 47 locale.
package messages
