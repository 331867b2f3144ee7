// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"time"

	"github.com/bureau-foundation/fleetgrid/lib/clock"
)

// Blinker periodically asks its owner to toggle the highlight of a set
// of cells. The ticker goroutine never touches a collection: it only
// signals on C, and the owner calls Toggle from the goroutine that
// owns the collection.
//
// Start, Stop, Set and Toggle must all be called from that owning
// goroutine.
type Blinker struct {
	clock    clock.Clock
	interval time.Duration
	ranges   []Range

	ticks chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// NewBlinker returns a stopped blinker.
func NewBlinker(timeSource clock.Clock, interval time.Duration) *Blinker {
	return &Blinker{clock: timeSource, interval: interval}
}

// Set replaces the blinking set.
func (blinker *Blinker) Set(ranges []Range) {
	blinker.ranges = append([]Range(nil), ranges...)
}

// Ranges returns the blinking set.
func (blinker *Blinker) Ranges() []Range {
	return blinker.ranges
}

// Running reports whether the ticker goroutine is active.
func (blinker *Blinker) Running() bool {
	return blinker.stop != nil
}

// Start launches the ticker. Starting a running blinker does nothing.
func (blinker *Blinker) Start() {
	if blinker.Running() {
		return
	}
	blinker.ticks = make(chan struct{}, 1)
	blinker.stop = make(chan struct{})
	blinker.done = make(chan struct{})
	go blinker.run(blinker.clock.NewTicker(blinker.interval), blinker.ticks, blinker.stop, blinker.done)
}

// Stop halts the ticker and waits for its goroutine to exit. C is
// closed once the goroutine exits. Stopping a stopped blinker does
// nothing.
func (blinker *Blinker) Stop() {
	if !blinker.Running() {
		return
	}
	close(blinker.stop)
	<-blinker.done
	blinker.stop = nil
	blinker.done = nil
}

// C delivers one value per blink. The channel holds at most one
// pending blink; blinks the owner has not consumed are dropped. Nil
// before the first Start.
func (blinker *Blinker) C() <-chan struct{} {
	return blinker.ticks
}

// Toggle flips the highlight of the blinking cells in collection.
func (blinker *Blinker) Toggle(collection *Collection) Outcome {
	toggled := collection.ToggleHighlight(blinker.ranges)
	return Outcome{Touched: toggled, Changed: toggled > 0}
}

func (blinker *Blinker) run(ticker *clock.Ticker, ticks chan<- struct{}, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(ticks)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case ticks <- struct{}{}:
			default:
			}
		}
	}
}
