// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hydra-tracker/hydra/lib/intake"
)

// Permissions answers whether notifications may be shown.
type Permissions interface {
	IsGranted(ctx context.Context) (bool, error)

	// Request asks for permission and reports the outcome. It does
	// not re-ask a user who has already refused.
	Request(ctx context.Context) (bool, error)
}

// PermissionStore persists the user's answer. *store.Store
// implements it.
type PermissionStore interface {
	Permission(ctx context.Context) (intake.Permission, error)
	SavePermission(ctx context.Context, permission intake.Permission) error
}

// StoredPermissions keeps the grant in a PermissionStore.
type StoredPermissions struct {
	store     PermissionStore
	available func() bool
	logger    *slog.Logger
}

// NewStoredPermissions returns a Permissions backed by store.
// available reports whether a delivery mechanism exists; a request is
// granted only when it does. A nil available always reports true.
func NewStoredPermissions(store PermissionStore, available func() bool, logger *slog.Logger) *StoredPermissions {
	if available == nil {
		available = func() bool { return true }
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StoredPermissions{store: store, available: available, logger: logger}
}

// IsGranted reports whether a grant is on record.
func (p *StoredPermissions) IsGranted(ctx context.Context) (bool, error) {
	permission, err := p.store.Permission(ctx)
	if err != nil {
		return false, fmt.Errorf("notify: reading permission: %w", err)
	}
	return permission == intake.PermissionGranted, nil
}

// Request grants permission when the user has not refused and a
// delivery mechanism is available. Only a grant is persisted; a
// missing notify-send is re-checked on the next request.
func (p *StoredPermissions) Request(ctx context.Context) (bool, error) {
	permission, err := p.store.Permission(ctx)
	if err != nil {
		return false, fmt.Errorf("notify: reading permission: %w", err)
	}
	switch permission {
	case intake.PermissionGranted:
		return true, nil
	case intake.PermissionRefused:
		p.logger.Info("notification permission previously denied")
		return false, nil
	}

	if !p.available() {
		p.logger.Warn("no notification delivery tool available")
		return false, nil
	}
	if err := p.store.SavePermission(ctx, intake.PermissionGranted); err != nil {
		return false, fmt.Errorf("notify: saving permission: %w", err)
	}
	p.logger.Info("notification permission granted")
	return true, nil
}

// Set records an explicit answer from the user. PermissionUnknown
// resets the grant so the next Request decides again.
func (p *StoredPermissions) Set(ctx context.Context, permission intake.Permission) error {
	switch permission {
	case intake.PermissionUnknown, intake.PermissionGranted, intake.PermissionRefused:
	default:
		return intake.Validation("unknown permission %q", permission)
	}
	if err := p.store.SavePermission(ctx, permission); err != nil {
		return fmt.Errorf("notify: saving permission: %w", err)
	}
	return nil
}

// Current returns the answer on record.
func (p *StoredPermissions) Current(ctx context.Context) (intake.Permission, error) {
	permission, err := p.store.Permission(ctx)
	if err != nil {
		return intake.PermissionUnknown, fmt.Errorf("notify: reading permission: %w", err)
	}
	return permission, nil
}
