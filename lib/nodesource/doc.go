// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package nodesource supplies node lists to the grid from snapshot
// files written by a cluster collector.
//
// A snapshot lists every node (index, name, state) and, optionally,
// the composite groups that span index intervals. The format follows
// the file extension: .yaml/.yml, .json, .jsonc (JSON with comments)
// or .cbor, optionally wrapped in .zst or .lz4 compression:
//
//	nodes:
//	  - {index: 0, name: bgl000, state: idle}
//	  - {index: 1, name: bgl001, state: down}
//	composites:
//	  - {start: 0, end: 7, members: [bgl000], sub_members: "0-3", state: running}
//
// [FileSource] re-reads the file on every fetch and reports whether
// it changed since the last one by comparing blake3 digests of the
// raw bytes, so an unchanged file is never decoded twice. [Watch]
// delivers a signal whenever the file is rewritten, letting the
// viewer refresh immediately instead of waiting for its next tick.
package nodesource
