// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds fleetgrid's CBOR configuration. Node snapshots
// written by collectors in CBOR are decoded through it, and the
// snapshot tests encode their fixtures with it.
//
// Encoding is Core Deterministic (RFC 8949 §4.2), so the same node
// list always produces the same bytes and the same snapshot digest.
// Types implementing encoding.TextMarshaler, such as nodestate.State,
// travel as CBOR text strings.
//
//	data, err := codec.Marshal(snapshot)
//	err = codec.Unmarshal(data, &snapshot)
//
// Snapshot types carry `json` tags only. fxamacker/cbor falls back to
// them when `cbor` tags are absent, so one tag set names fields in
// every snapshot format.
package codec
