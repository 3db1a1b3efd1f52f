// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/hydra-tracker/hydra/lib/codec"
)

// ActionFunc handles one action. raw is the whole CBOR request,
// including the "action" key. A nil result yields {ok: true}.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the envelope of every reply.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

// ActionOption tunes how one action is served.
type ActionOption func(*action)

// MaxRequestSize caps the encoded request for an action. Requests
// larger than the server-wide ceiling are refused regardless.
func MaxRequestSize(bytes int) ActionOption {
	return func(a *action) { a.maxRequestSize = bytes }
}

// Timeout bounds the handler's context for an action.
func Timeout(d time.Duration) ActionOption {
	return func(a *action) { a.timeout = d }
}

type action struct {
	handler        ActionFunc
	maxRequestSize int
	timeout        time.Duration
}

// SocketServer dispatches CBOR requests on a unix socket to registered
// actions.
type SocketServer struct {
	socketPath string
	actions    map[string]*action
	logger     *slog.Logger
	ready      chan struct{}

	activeConnections sync.WaitGroup
}

// NewSocketServer returns a server for socketPath. Register actions
// with Handle before calling Serve.
func NewSocketServer(socketPath string, logger *slog.Logger) *SocketServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SocketServer{
		socketPath: socketPath,
		actions:    make(map[string]*action),
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Handle registers handler for name. It panics on a duplicate. Without
// options an action accepts requests up to the server-wide ceiling and
// runs until the server shuts down.
func (s *SocketServer) Handle(name string, handler ActionFunc, options ...ActionOption) {
	if _, exists := s.actions[name]; exists {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", name))
	}
	registered := &action{handler: handler, maxRequestSize: maxRequestSize}
	for _, option := range options {
		option(registered)
	}
	if registered.maxRequestSize <= 0 || registered.maxRequestSize > maxRequestSize {
		registered.maxRequestSize = maxRequestSize
	}
	s.actions[name] = registered
}

// Ready is closed once the socket is listening.
func (s *SocketServer) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens until ctx is cancelled, then waits for in-flight
// requests. A stale socket file is replaced; the socket file is
// removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		return fmt.Errorf("restricting socket %s: %w", s.socketPath, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("socket server listening", "path", s.socketPath)
	close(s.ready)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	return nil
}

const (
	readTimeout    = 10 * time.Second
	writeTimeout   = 10 * time.Second
	maxRequestSize = 64 * 1024
)

func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if header.Action == "" {
		s.writeError(conn, "missing required field: action")
		return
	}

	registered, exists := s.actions[header.Action]
	if !exists {
		s.writeError(conn, fmt.Sprintf("unknown action %q", header.Action))
		return
	}
	if len(raw) > registered.maxRequestSize {
		s.writeError(conn, fmt.Sprintf("request for %q is %d bytes, limit is %d", header.Action, len(raw), registered.maxRequestSize))
		return
	}

	if registered.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, registered.timeout)
		defer cancel()
	}

	started := time.Now()
	result, err := registered.handler(ctx, []byte(raw))
	if err != nil {
		s.logger.Debug("action failed", "action", header.Action, "error", err, "duration", time.Since(started))
		s.writeError(conn, err.Error())
		return
	}

	s.writeSuccess(conn, result)
}

func (s *SocketServer) writeError(conn net.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(Response{OK: false, Error: message}); err != nil {
		s.logger.Debug("failed to write error response", "error", err)
	}
}

func (s *SocketServer) writeSuccess(conn net.Conn, result any) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	response := Response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			s.writeError(conn, fmt.Sprintf("internal: marshaling response: %v", err))
			return
		}
		response.Data = data
	}

	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("failed to write success response", "error", err)
	}
}
