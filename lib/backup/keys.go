// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"fmt"
	"io"

	"filippo.io/age"
)

// ParseRecipients parses age X25519 public keys ("age1...").
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(keys))
	for _, key := range keys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("backup: parsing recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

// ParseIdentities reads an age identity file: one AGE-SECRET-KEY per
// line, with # comments.
func ParseIdentities(r io.Reader) ([]age.Identity, error) {
	identities, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("backup: parsing identities: %w", err)
	}
	return identities, nil
}

// PassphraseRecipient encrypts to a passphrase. age requires it to be
// the only recipient of a file.
func PassphraseRecipient(passphrase string) (age.Recipient, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("backup: passphrase: %w", err)
	}
	return recipient, nil
}

// PassphraseIdentity decrypts a passphrase-encrypted backup.
func PassphraseIdentity(passphrase string) (age.Identity, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("backup: passphrase: %w", err)
	}
	return identity, nil
}
