// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Hash picks the values H tokens resolve to. Implementations must be
// pure: the same field and n always yield the same result.
type Hash interface {
	// Pick returns a value in [0, n) for the given field. n is
	// always positive.
	Pick(field Field, n int) int
}

// ZeroHash always picks 0, so every H resolves to the low end of its
// range. It is used when no seed is supplied.
var ZeroHash Hash = zeroHash{}

type zeroHash struct{}

func (zeroHash) Pick(Field, int) int { return 0 }

// hashContext is the BLAKE3 key-derivation context. Changing it
// moves every hashed schedule, so it is fixed for the life of the
// format.
const hashContext = "paramcron 2026-01-01 schedule hash"

// HashOf returns the Hash for a stable identity such as a job name.
// Each field gets an independent 64-bit word derived from the seed
// with BLAKE3 in key-derivation mode.
func HashOf(seed string) Hash {
	var material [fieldCount * 8]byte
	blake3.DeriveKey(hashContext, []byte(seed), material[:])

	var hash seededHash
	for index := range hash.words {
		hash.words[index] = binary.LittleEndian.Uint64(material[index*8:])
	}
	return hash
}

type seededHash struct {
	words [fieldCount]uint64
}

func (h seededHash) Pick(field Field, n int) int {
	if n <= 1 || field < 0 || int(field) >= fieldCount {
		return 0
	}
	return int(h.words[field] % uint64(n))
}
