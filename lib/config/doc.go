// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for fleetgrid.
//
// Configuration is loaded from a single file named by either the
// FLEETGRID_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no discovery and no file search.
// Running without a file at all uses [Default].
//
// [Default] supplies every field; the file overrides what it names and
// [Config.Validate] rejects malformed values. The only expansion
// performed is ${VAR} and ${VAR:-default} in the snapshot path.
//
// Command-line flags override individual fields after loading; see
// cmd/bureau-fleetgrid.
package config
