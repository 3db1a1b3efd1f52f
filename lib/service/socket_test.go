// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hydra-tracker/hydra/lib/codec"
	"github.com/hydra-tracker/hydra/lib/testutil"
)

// startServer runs server until the test ends.
func startServer(t *testing.T, server *SocketServer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	var serveErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr = server.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
		if serveErr != nil {
			t.Errorf("Serve returned error: %v", serveErr)
		}
	})

	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "socket server ready")
}

func testSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(testutil.SocketDir(t), "hydra.sock")
}

// sendRaw writes request bytes directly, for malformed inputs the
// client cannot produce.
func sendRaw(t *testing.T, socketPath string, payload []byte) Response {
	t.Helper()
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("writing: %v", err)
	}
	conn.(*net.UnixConn).CloseWrite()

	var response Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return response
}

type quickAddRequest struct {
	AmountML int `cbor:"amount_ml"`
}

type quickAddResult struct {
	ID       int64 `cbor:"id"`
	AmountML int   `cbor:"amount_ml"`
}

func TestClientServerRoundTrip(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, nil)
	server.Handle("quick-add", func(ctx context.Context, raw []byte) (any, error) {
		var request quickAddRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, err
		}
		return quickAddResult{ID: 17, AmountML: request.AmountML}, nil
	})
	startServer(t, server)

	var result quickAddResult
	err := NewClient(socketPath).Call(context.Background(), "quick-add", map[string]any{"amount_ml": 250}, &result)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.ID != 17 || result.AmountML != 250 {
		t.Errorf("result = %+v, want id 17 with 250 ml", result)
	}
}

func TestSocketIsPrivate(t *testing.T) {
	socketPath := testSocketPath(t)
	startServer(t, NewSocketServer(socketPath, nil))

	info, err := os.Stat(socketPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("socket mode = %o, want 600", mode)
	}
}

func TestHandlerErrorBecomesServiceError(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, nil)
	server.Handle("quick-add", func(context.Context, []byte) (any, error) {
		return nil, errors.New("amount must be positive, got 0 ml")
	})
	startServer(t, server)

	err := NewClient(socketPath).Call(context.Background(), "quick-add", map[string]any{"amount_ml": 0}, nil)
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("Call error = %v (%T), want *ServiceError", err, err)
	}
	if serviceErr.Action != "quick-add" || serviceErr.Message != "amount must be positive, got 0 ml" {
		t.Errorf("ServiceError = %+v", serviceErr)
	}
}

func TestUnknownAction(t *testing.T) {
	socketPath := testSocketPath(t)
	startServer(t, NewSocketServer(socketPath, nil))

	err := NewClient(socketPath).Call(context.Background(), "drink-for-me", nil, nil)
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("Call error = %v, want *ServiceError", err)
	}
	if serviceErr.Message != `unknown action "drink-for-me"` {
		t.Errorf("message = %q", serviceErr.Message)
	}
}

func TestMalformedRequests(t *testing.T) {
	socketPath := testSocketPath(t)
	startServer(t, NewSocketServer(socketPath, nil))

	missingAction, err := codec.Marshal(map[string]any{"amount_ml": 250})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{"missing action", missingAction},
		{"not cbor", []byte{0xFF, 0xFF, 0xFF}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := sendRaw(t, socketPath, test.payload)
			if response.OK || response.Error == "" {
				t.Errorf("response = %+v, want an error", response)
			}
		})
	}
}

func TestPerActionRequestLimit(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, nil)
	var called atomic.Bool
	server.Handle("reload-settings", func(context.Context, []byte) (any, error) {
		called.Store(true)
		return nil, nil
	}, MaxRequestSize(64))
	startServer(t, server)

	small, err := codec.Marshal(map[string]string{"action": "reload-settings"})
	if err != nil {
		t.Fatal(err)
	}
	if response := sendRaw(t, socketPath, small); !response.OK {
		t.Fatalf("small request refused: %+v", response)
	}

	called.Store(false)
	padded, err := codec.Marshal(map[string]string{
		"action":  "reload-settings",
		"padding": strings.Repeat("x", 128),
	})
	if err != nil {
		t.Fatal(err)
	}
	response := sendRaw(t, socketPath, padded)
	if response.OK || !strings.Contains(response.Error, "limit is 64") {
		t.Errorf("response = %+v, want a size error", response)
	}
	if called.Load() {
		t.Error("handler ran for an oversized request")
	}
}

func TestActionTimeoutBoundsContext(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, nil)
	server.Handle("status", func(ctx context.Context, _ []byte) (any, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			return nil, errors.New("no deadline")
		}
		if remaining := time.Until(deadline); remaining > time.Second {
			return nil, errors.New("deadline too far away")
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}, Timeout(50*time.Millisecond))
	startServer(t, server)

	payload, err := codec.Marshal(map[string]string{"action": "status"})
	if err != nil {
		t.Fatal(err)
	}
	response := sendRaw(t, socketPath, payload)
	if response.OK || response.Error != context.DeadlineExceeded.Error() {
		t.Errorf("response = %+v, want %q", response, context.DeadlineExceeded)
	}
}

func TestNilResultHasNoData(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, nil)
	server.Handle("reload-settings", func(context.Context, []byte) (any, error) { return nil, nil })
	startServer(t, server)

	payload, err := codec.Marshal(map[string]string{"action": "reload-settings"})
	if err != nil {
		t.Fatal(err)
	}
	response := sendRaw(t, socketPath, payload)
	if !response.OK || len(response.Data) != 0 {
		t.Errorf("response = %+v, want ok with no data", response)
	}
}

func TestConcurrentRequests(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, nil)

	var mu sync.Mutex
	total := 0
	server.Handle("quick-add", func(ctx context.Context, raw []byte) (any, error) {
		var request quickAddRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		total += request.AmountML
		return nil, nil
	})
	startServer(t, server)

	client := NewClient(socketPath)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.Call(context.Background(), "quick-add", map[string]any{"amount_ml": 50}, nil); err != nil {
				t.Errorf("Call: %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if total != 1000 {
		t.Errorf("total = %d, want 1000", total)
	}
}

func TestClientReportsNotRunning(t *testing.T) {
	err := NewClient(testSocketPath(t)).Call(context.Background(), "status", nil, nil)
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("Call error = %v, want ErrNotRunning", err)
	}
}

func TestDuplicateHandlerPanics(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), nil)
	server.Handle("status", func(context.Context, []byte) (any, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Error("second Handle did not panic")
		}
	}()
	server.Handle("status", func(context.Context, []byte) (any, error) { return nil, nil })
}
