// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"filippo.io/age"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/hydra-tracker/hydra/lib/codec"
	"github.com/hydra-tracker/hydra/lib/intake"
)

const (
	formatName    = "hydra-backup"
	formatVersion = 1

	// maxBackupSize bounds what Decode reads and what decompression
	// may produce. A year of heavy logging is well under a megabyte.
	maxBackupSize = 256 << 20
)

var (
	// ErrNotBackup means the input is not a Hydra backup.
	ErrNotBackup = errors.New("not a hydra backup")

	// ErrUnsupportedVersion means the backup was written by a newer
	// Hydra.
	ErrUnsupportedVersion = errors.New("unsupported backup version")

	// ErrChecksumMismatch means the payload does not match its digest.
	ErrChecksumMismatch = errors.New("backup checksum mismatch")

	// ErrIdentityRequired means the backup is encrypted and no
	// identity was supplied.
	ErrIdentityRequired = errors.New("backup is encrypted; an identity or passphrase is required")
)

// Document is the content of a backup.
type Document struct {
	CreatedAt time.Time       `json:"created_at"`
	Settings  intake.Settings `json:"settings"`
	Entries   []intake.Entry  `json:"entries"`
}

type envelope struct {
	Format    string   `cbor:"format"`
	Version   int      `cbor:"version"`
	Encrypted bool     `cbor:"encrypted"`
	Digest    [32]byte `cbor:"digest"`
	Payload   []byte   `cbor:"payload"`
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic("backup: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBackupSize))
	if err != nil {
		panic("backup: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode writes document to w. With recipients the payload is
// encrypted to all of them.
func Encode(w io.Writer, document Document, recipients ...age.Recipient) error {
	plain, err := codec.Marshal(document)
	if err != nil {
		return fmt.Errorf("backup: encoding document: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(plain, nil)

	out := envelope{
		Format:  formatName,
		Version: formatVersion,
		Digest:  blake3.Sum256(compressed),
		Payload: compressed,
	}
	if len(recipients) > 0 {
		encrypted, err := encrypt(compressed, recipients)
		if err != nil {
			return err
		}
		out.Encrypted = true
		out.Payload = encrypted
	}

	data, err := codec.Marshal(out)
	if err != nil {
		return fmt.Errorf("backup: encoding envelope: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("backup: writing: %w", err)
	}
	return nil
}

// Decode reads a backup from r. Encrypted backups need at least one
// matching identity.
func Decode(r io.Reader, identities ...age.Identity) (Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBackupSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("backup: reading: %w", err)
	}
	if len(data) > maxBackupSize {
		return Document{}, fmt.Errorf("backup: file exceeds %d bytes", maxBackupSize)
	}

	var in envelope
	if err := codec.Unmarshal(data, &in); err != nil || in.Format != formatName {
		return Document{}, ErrNotBackup
	}
	if in.Version > formatVersion {
		return Document{}, fmt.Errorf("backup: version %d: %w", in.Version, ErrUnsupportedVersion)
	}

	compressed := in.Payload
	if in.Encrypted {
		if len(identities) == 0 {
			return Document{}, ErrIdentityRequired
		}
		compressed, err = decrypt(in.Payload, identities)
		if err != nil {
			return Document{}, err
		}
	}

	if blake3.Sum256(compressed) != in.Digest {
		return Document{}, ErrChecksumMismatch
	}

	plain, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return Document{}, fmt.Errorf("backup: decompressing: %w", err)
	}

	var document Document
	if err := codec.Unmarshal(plain, &document); err != nil {
		return Document{}, fmt.Errorf("backup: decoding document: %w", err)
	}
	if document.Entries == nil {
		document.Entries = []intake.Entry{}
	}
	return document, nil
}

func encrypt(plaintext []byte, recipients []age.Recipient) ([]byte, error) {
	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("backup: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("backup: encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("backup: finalizing encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

func decrypt(ciphertext []byte, identities []age.Identity) ([]byte, error) {
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("backup: decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(io.LimitReader(reader, maxBackupSize+1))
	if err != nil {
		return nil, fmt.Errorf("backup: decrypting: %w", err)
	}
	return plaintext, nil
}
