// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags at build time.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// readBuildInfo is swapped out by tests.
var readBuildInfo = debug.ReadBuildInfo

// Build is the resolved build identity.
type Build struct {
	Version string
	Commit  string
	Dirty   bool
	Time    string
}

// Current returns the build identity. Values injected with -ldflags
// win; otherwise the VCS stamps the go command records are used.
func Current() Build {
	build := Build{
		Version: Version,
		Commit:  GitCommit,
		Dirty:   GitDirty == "true",
		Time:    BuildTime,
	}
	info, ok := readBuildInfo()
	if !ok {
		return build
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "unknown" && len(setting.Value) >= 7 {
				build.Commit = setting.Value[:7]
			}
		case "vcs.time":
			if build.Time == "unknown" {
				build.Time = setting.Value
			}
		case "vcs.modified":
			if GitDirty == "false" && setting.Value == "true" {
				build.Dirty = true
			}
		}
	}
	return build
}

// String is "version (commit[-dirty], time)".
func (build Build) String() string {
	dirty := ""
	if build.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", build.Version, build.Commit, dirty, build.Time)
}

// Info returns the one-line version string used by --version.
func Info() string {
	return Current().String()
}

// Fprint writes the binary name, Info, the Go version and the platform.
func Fprint(writer io.Writer, binary string) {
	fmt.Fprintf(writer, "%s %s\n  Go: %s\n  Platform: %s/%s\n",
		binary, Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
