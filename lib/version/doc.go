// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version holds build version information for fleetgrid
// binaries.
//
// Four variables are injected at build time via -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string
//
//	go build -ldflags "-X github.com/bureau-foundation/fleetgrid/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When they are not injected, [Current] falls back to the VCS stamps
// the go command embeds (vcs.revision, vcs.time, vcs.modified).
package version
