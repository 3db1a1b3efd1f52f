// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds Hydra's CBOR configuration.
//
// Hydra speaks JSON to people (CLI --json output) and CBOR between its
// own processes and files: the daemon's unix socket protocol and the
// backup document. Both CBOR users go through this package so they
// encode identically.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same backup content always produces the same bytes and the same
// checksum. Times are encoded as RFC 3339 strings with nanoseconds;
// the library's default of integer Unix seconds would truncate entry
// timestamps. Types implementing encoding.TextMarshaler, such as
// intake.Day, are encoded as text strings.
//
// Types shared with JSON output carry only `json` tags; fxamacker/cbor
// falls back to them when no `cbor` tag is present.
package codec
