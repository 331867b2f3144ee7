// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for the grid's
// periodic work: the refresh scheduler and the blink ticker.
//
// Production code holds a [Clock] field set to [Real]. Tests use
// [Fake], whose time stands still until Advance is called:
//
//	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	blinker := grid.NewBlinker(fakeClock, 500*time.Millisecond)
//	blinker.Start()
//	fakeClock.WaitForTimers(1)                  // ticker registered
//	fakeClock.Advance(500 * time.Millisecond)   // deliver one tick
//
// WaitForTimers closes the race between a goroutine registering its
// ticker and the test advancing time.
package clock
