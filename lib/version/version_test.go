// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, settings ...debug.BuildSetting) {
	t.Helper()
	saved := readBuildInfo
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		readBuildInfo = saved
		GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestCurrentPrefersLinkerValues(t *testing.T) {
	stubBuildInfo(t, debug.BuildSetting{Key: "vcs.revision", Value: "ffffffffffff"})
	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-03-01T00:00:00Z"

	want := Version + " (abc1234-dirty, 2026-03-01T00:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestCurrentFallsBackToVCSStamps(t *testing.T) {
	stubBuildInfo(t,
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-02-10T08:00:00Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)
	GitCommit, GitDirty, BuildTime = "unknown", "false", "unknown"

	build := Current()
	if build.Commit != "0123456" {
		t.Errorf("Commit = %q, want %q", build.Commit, "0123456")
	}
	if build.Time != "2026-02-10T08:00:00Z" {
		t.Errorf("Time = %q, want the vcs.time stamp", build.Time)
	}
	if !build.Dirty {
		t.Error("Dirty should follow vcs.modified")
	}
}

func TestFprint(t *testing.T) {
	stubBuildInfo(t)
	var buffer bytes.Buffer
	Fprint(&buffer, "bureau-fleetgrid")
	output := buffer.String()
	if !strings.HasPrefix(output, "bureau-fleetgrid "+Version) {
		t.Errorf("Fprint output = %q, want prefix %q", output, "bureau-fleetgrid "+Version)
	}
	if !strings.Contains(output, "Platform:") {
		t.Errorf("Fprint output = %q, want platform line", output)
	}
}
