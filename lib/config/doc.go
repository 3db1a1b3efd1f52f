// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Hydra.
//
// Configuration comes from a single file named by the HYDRA_CONFIG
// environment variable (via [Load]) or a --config flag (via
// [LoadFile]). When neither is given, [Load] returns [Default], whose
// paths follow the XDG base directory layout: the database lives under
// $XDG_DATA_HOME/hydra and the daemon socket under $XDG_RUNTIME_DIR/hydra.
//
// Path fields support ${HOME}, ${XDG_DATA_HOME}, ${XDG_RUNTIME_DIR} and
// ${VAR:-default} expansion after loading. Environment variables never
// override values set in the file.
//
// This package depends on no other Hydra packages.
package config
