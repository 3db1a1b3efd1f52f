// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the presentation layer can decide
// what to show without parsing messages.
type ErrorKind string

const (
	// KindValidation: the caller supplied a non-positive amount, an
	// invalid goal or interval, or an unknown theme. Nothing was
	// mutated.
	KindValidation ErrorKind = "validation"

	// KindPermissionDenied: the user refused notification permission.
	// Reminders stay disarmed until the user re-enables them.
	KindPermissionDenied ErrorKind = "permission_denied"

	// KindOSIntegration: an autostart toggle failed. The persisted
	// setting keeps its prior value.
	KindOSIntegration ErrorKind = "os_integration"

	// KindStore: the record store failed. Only the operation in flight
	// is affected.
	KindStore ErrorKind = "store"
)

// Error is a classified error. It wraps the underlying cause so
// errors.Is and errors.As see the full chain.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

// PermissionDenied returns a KindPermissionDenied error.
func PermissionDenied(format string, args ...any) *Error {
	return &Error{Kind: KindPermissionDenied, Err: fmt.Errorf(format, args...)}
}

// OSIntegration returns a KindOSIntegration error.
func OSIntegration(format string, args ...any) *Error {
	return &Error{Kind: KindOSIntegration, Err: fmt.Errorf(format, args...)}
}

// Store returns a KindStore error.
func Store(format string, args ...any) *Error {
	return &Error{Kind: KindStore, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}

// IsKind reports whether err's chain carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// ValidateAmount rejects non-positive intake amounts.
func ValidateAmount(amountML int) error {
	if amountML <= 0 {
		return Validation("amount must be positive, got %d ml", amountML)
	}
	return nil
}
