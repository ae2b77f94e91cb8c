// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for machine-readable
// fire records.
//
// paramcron emits two structured formats: JSON for people and scripts
// (match --output json), and CBOR for hosts that consume fire records
// as a compact, deterministic stream (match --output cbor). The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same records always produce identical bytes. Each invocation writes
// its fire list as one item, so appended outputs form a CBOR sequence
// (RFC 8742) that a decoder reads back item by item:
//
//	decoder := codec.NewDecoder(file)
//	for {
//		var fires []schedule.Fire
//		if err := decoder.Decode(&fires); err == io.EOF { break }
//		...
//	}
//
// DiagnoseFirst renders one item of such a sequence in diagnostic
// notation, for "paramcron decode --diagnostic".
//
// Record types carry `json` struct tags only. fxamacker/cbor reads
// `json` tags when `cbor` tags are absent, so one tag names a field in
// both formats.
package codec
