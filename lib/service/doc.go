// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package service carries requests from Hydra's CLI to the running
// daemon over a unix socket.
//
// Each connection holds one request and one response, both CBOR (see
// lib/codec). A request is a map with an "action" key plus
// action-specific fields; the response envelope is
// {ok, error, data}. There is no authentication: the socket lives in
// the user's runtime directory with mode 0600.
package service
