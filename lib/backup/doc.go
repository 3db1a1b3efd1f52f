// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup exports and imports the whole record store as a
// single file.
//
// A backup file is a CBOR envelope around a payload:
//
//	envelope = {format, version, encrypted, digest, payload}
//	payload  = zstd(CBOR(Document))          when not encrypted
//	payload  = age(zstd(CBOR(Document)))     when encrypted
//
// digest is the BLAKE3-256 hash of the zstd stream, checked before
// decompression. It catches corruption and casual edits of plain
// backups; encrypted backups are additionally authenticated by age.
// Encryption uses age recipients (X25519 public keys) or a passphrase
// (scrypt).
package backup
