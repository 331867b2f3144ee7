// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// safety valve so tests that wait on channels fail instead of hanging.
// They are the only place in the test suite that touches the wall
// clock; everything else uses lib/clock's fake.
package testutil
