// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	// Embedded zone database: zone validation never depends on the
	// host's /usr/share/zoneinfo.
	_ "time/tzdata"
)

// ErrInvalidTimezone is wrapped by LoadTimezone errors.
var ErrInvalidTimezone = errors.New("invalid or unsupported timezone")

var locationCache sync.Map // string -> *time.Location

// LoadTimezone resolves an IANA zone name such as "Australia/Sydney"
// or "UTC". "Local", empty names, and names containing ".." are
// rejected: a schedule's zone must mean the same thing on every
// machine that evaluates it.
func LoadTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if cached, ok := locationCache.Load(name); ok {
		return cached.(*time.Location), nil
	}

	if name == "" || name == "Local" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	locationCache.Store(name, location)
	return location, nil
}

// ValidTimezone reports whether LoadTimezone accepts name.
func ValidTimezone(name string) bool {
	_, err := LoadTimezone(name)
	return err == nil
}
