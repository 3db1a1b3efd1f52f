// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/hydra-tracker/hydra/lib/intake"
)

type recordedCommand struct {
	name string
	args []string
}

func TestNotifySendArguments(t *testing.T) {
	tests := []struct {
		name    string
		message Message
		want    []string
	}{
		{
			name:    "silent",
			message: Message{Title: "Time to drink", Body: "Stay hydrated"},
			want:    []string{"--app-name=Hydra", "--urgency=normal", "--", "Time to drink", "Stay hydrated"},
		},
		{
			name:    "with sound",
			message: Message{Title: "Time to drink", Body: "-dash body", Sound: true},
			want: []string{
				"--app-name=Hydra", "--urgency=normal",
				"--hint=string:sound-name:message-new-instant",
				"--", "Time to drink", "-dash body",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var recorded []recordedCommand
			notifier := NewNotifySend(NotifySendConfig{
				Run: func(ctx context.Context, name string, args ...string) error {
					recorded = append(recorded, recordedCommand{name: name, args: args})
					return nil
				},
			})

			if err := notifier.Send(context.Background(), test.message); err != nil {
				t.Fatalf("Send: %v", err)
			}
			if len(recorded) != 1 {
				t.Fatalf("ran %d commands, want 1", len(recorded))
			}
			if recorded[0].name != "notify-send" {
				t.Errorf("command = %q, want notify-send", recorded[0].name)
			}
			if !slices.Equal(recorded[0].args, test.want) {
				t.Errorf("args = %q, want %q", recorded[0].args, test.want)
			}
		})
	}
}

func TestNotifySendPropagatesFailure(t *testing.T) {
	sentinel := errors.New("no daemon")
	notifier := NewNotifySend(NotifySendConfig{
		Run: func(context.Context, string, ...string) error { return sentinel },
	})
	err := notifier.Send(context.Background(), Message{Title: "t", Body: "b"})
	if !errors.Is(err, sentinel) {
		t.Errorf("Send error = %v, want wrapping %v", err, sentinel)
	}
}

type memoryPermissionStore struct {
	permission intake.Permission
	saves      int
	readErr    error
}

func (m *memoryPermissionStore) Permission(context.Context) (intake.Permission, error) {
	return m.permission, m.readErr
}

func (m *memoryPermissionStore) SavePermission(_ context.Context, permission intake.Permission) error {
	m.permission = permission
	m.saves++
	return nil
}

func TestRequestPermission(t *testing.T) {
	tests := []struct {
		name          string
		stored        intake.Permission
		available     bool
		wantGranted   bool
		wantStored    intake.Permission
		wantSaveCount int
	}{
		{"unknown and available", intake.PermissionUnknown, true, true, intake.PermissionGranted, 1},
		{"unknown and unavailable", intake.PermissionUnknown, false, false, intake.PermissionUnknown, 0},
		{"already granted", intake.PermissionGranted, false, true, intake.PermissionGranted, 0},
		{"denied stays denied", intake.PermissionRefused, true, false, intake.PermissionRefused, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := &memoryPermissionStore{permission: test.stored}
			available := test.available
			permissions := NewStoredPermissions(store, func() bool { return available }, nil)

			granted, err := permissions.Request(context.Background())
			if err != nil {
				t.Fatalf("Request: %v", err)
			}
			if granted != test.wantGranted {
				t.Errorf("granted = %v, want %v", granted, test.wantGranted)
			}
			if store.permission != test.wantStored {
				t.Errorf("stored = %q, want %q", store.permission, test.wantStored)
			}
			if store.saves != test.wantSaveCount {
				t.Errorf("saves = %d, want %d", store.saves, test.wantSaveCount)
			}
		})
	}
}

func TestIsGrantedReadsStore(t *testing.T) {
	store := &memoryPermissionStore{}
	permissions := NewStoredPermissions(store, nil, nil)
	ctx := context.Background()

	if granted, _ := permissions.IsGranted(ctx); granted {
		t.Error("IsGranted with nothing stored = true")
	}
	if err := permissions.Set(ctx, intake.PermissionGranted); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if granted, _ := permissions.IsGranted(ctx); !granted {
		t.Error("IsGranted after Set(granted) = false")
	}

	store.readErr = errors.New("disk gone")
	if _, err := permissions.IsGranted(ctx); err == nil {
		t.Error("IsGranted with failing store returned nil error")
	}
}

func TestSetRejectsUnknownValue(t *testing.T) {
	permissions := NewStoredPermissions(&memoryPermissionStore{}, nil, nil)
	err := permissions.Set(context.Background(), intake.Permission("maybe"))
	if !intake.IsKind(err, intake.KindValidation) {
		t.Errorf("Set(maybe) error = %v, want validation error", err)
	}
}
