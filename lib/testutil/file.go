// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
)

// WriteFile writes content to dir/name and returns the path.
//
//	path := testutil.WriteFile(t, t.TempDir(), "jobs.jsonc", jobs)
func WriteFile(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
