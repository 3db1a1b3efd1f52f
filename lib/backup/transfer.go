// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"filippo.io/age"

	"github.com/hydra-tracker/hydra/lib/atomicfile"
	"github.com/hydra-tracker/hydra/lib/intake"
)

// Source is what Export reads. *store.Store implements it.
type Source interface {
	AllEntries(ctx context.Context) ([]intake.Entry, error)
	Settings(ctx context.Context) (intake.Settings, error)
}

// Sink is what Import writes. *store.Store implements it.
type Sink interface {
	Restore(ctx context.Context, entries []intake.Entry, settings intake.Settings) error
}

// Snapshot reads the full store into a Document stamped with now.
func Snapshot(ctx context.Context, source Source, now time.Time) (Document, error) {
	entries, err := source.AllEntries(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("backup: reading entries: %w", err)
	}
	settings, err := source.Settings(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("backup: reading settings: %w", err)
	}
	return Document{CreatedAt: now.UTC(), Settings: settings, Entries: entries}, nil
}

// ExportFile writes a snapshot of source to path atomically with mode
// 0600, and returns the exported document.
func ExportFile(ctx context.Context, source Source, path string, now time.Time, recipients ...age.Recipient) (Document, error) {
	document, err := Snapshot(ctx, source, now)
	if err != nil {
		return Document{}, err
	}
	var buffer bytes.Buffer
	if err := Encode(&buffer, document, recipients...); err != nil {
		return Document{}, err
	}
	if err := atomicfile.WriteFile(path, buffer.Bytes(), 0o600); err != nil {
		return Document{}, fmt.Errorf("backup: %w", err)
	}
	return document, nil
}

// Import decodes a backup from r and replaces the sink's contents with
// it. Nothing is written unless the whole backup decodes and
// validates.
func Import(ctx context.Context, sink Sink, r io.Reader, identities ...age.Identity) (Document, error) {
	document, err := Decode(r, identities...)
	if err != nil {
		return Document{}, err
	}
	if err := sink.Restore(ctx, document.Entries, document.Settings); err != nil {
		return Document{}, fmt.Errorf("backup: restoring: %w", err)
	}
	return document, nil
}
