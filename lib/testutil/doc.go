// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for paramcron packages.
//
// [WriteFile] writes a fixture (a configuration file, job file, message
// catalog or schedule) into a test directory and returns its path.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no paramcron-internal dependencies.
package testutil
