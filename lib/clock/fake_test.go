// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockAfterFiresOnAdvance(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(3 * time.Second)

	select {
	case <-channel:
		t.Fatal("After fired before Advance")
	default:
	}

	clock.Advance(3 * time.Second)

	select {
	case fired := <-channel:
		if !fired.Equal(epoch.Add(3 * time.Second)) {
			t.Errorf("After delivered %v, want %v", fired, epoch.Add(3*time.Second))
		}
	default:
		t.Fatal("After did not fire after Advance")
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after firing, want 0", clock.PendingCount())
	}
}

func TestFakeTickerRepeats(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)
	defer ticker.Stop()

	for round := 0; round < 3; round++ {
		clock.Advance(time.Second)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("round %d: ticker did not fire", round)
		}
	}
}

func TestFakeTickerStop(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()
	clock.Advance(5 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", clock.PendingCount())
	}
}

func TestWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	registered := make(chan struct{})
	go func() {
		<-clock.After(time.Minute)
		close(registered)
	}()
	clock.WaitForTimers(1)
	clock.Advance(time.Minute)
	<-registered
}
