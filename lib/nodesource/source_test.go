// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodesource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/testutil"
)

func writeSnapshot(t *testing.T, path string, snapshot *Snapshot) {
	t.Helper()
	data, err := Encode(path, snapshot)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// --- FetchNodeList ---

func TestFetchNodeListReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.yaml")
	writeSnapshot(t, path, sampleSnapshot())
	source := NewFileSource(path, nil)

	nodes, changed, err := source.FetchNodeList()
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !changed || len(nodes) != 3 {
		t.Fatalf("first fetch = %d nodes, changed %v; want 3, true", len(nodes), changed)
	}

	nodes, changed, err = source.FetchNodeList()
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if changed {
		t.Error("unchanged file reported changed")
	}
	if len(nodes) != 3 {
		t.Errorf("unchanged fetch returned %d nodes, want 3", len(nodes))
	}

	source.Force()
	if _, changed, _ = source.FetchNodeList(); !changed {
		t.Error("forced fetch reported unchanged")
	}
	if _, changed, _ = source.FetchNodeList(); changed {
		t.Error("force persisted past one fetch")
	}

	updated := sampleSnapshot()
	updated.Nodes = updated.Nodes[:2]
	writeSnapshot(t, path, updated)
	nodes, changed, err = source.FetchNodeList()
	if err != nil {
		t.Fatalf("fetch after rewrite: %v", err)
	}
	if !changed || len(nodes) != 2 {
		t.Errorf("fetch after rewrite = %d nodes, changed %v; want 2, true", len(nodes), changed)
	}
}

func TestFetchNodeListKeepsPreviousOnParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	writeSnapshot(t, path, sampleSnapshot())
	source := NewFileSource(path, nil)
	if _, _, err := source.FetchNodeList(); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := source.FetchNodeList(); err == nil {
		t.Fatal("corrupt snapshot fetched without error")
	}
	groups, err := source.CompositeMembership(0)
	if err != nil || len(groups) != 1 {
		t.Errorf("CompositeMembership after failure = %v, %v; want the previous snapshot", groups, err)
	}
}

func TestFetchNodeListMissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if _, _, err := source.FetchNodeList(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

// --- CompositeMembership ---

func TestCompositeMembership(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.cbor")
	writeSnapshot(t, path, sampleSnapshot())
	source := NewFileSource(path, nil)

	if _, err := source.CompositeMembership(0); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("before fetch: error = %v, want ErrNotLoaded", err)
	}
	if _, _, err := source.FetchNodeList(); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	groups, err := source.CompositeMembership(1)
	if err != nil {
		t.Fatalf("CompositeMembership: %v", err)
	}
	if len(groups) != 1 || groups[0].State != nodestate.GroupRunning || groups[0].Name() != "bgl000,bgl001[0-3]" {
		t.Errorf("groups for 1 = %+v", groups)
	}
	if groups, _ := source.CompositeMembership(2); len(groups) != 0 {
		t.Errorf("groups for 2 = %+v, want none", groups)
	}
}

// --- Watch ---

func TestWatchSignalsOnRewriteAndRename(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "nodes.yaml")
	writeSnapshot(t, path, sampleSnapshot())

	watcher, err := Watch(path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer watcher.Close()

	writeSnapshot(t, path, sampleSnapshot())
	testutil.RequireReceive(t, watcher.Events(), 5*time.Second, "waiting for in-place rewrite")

	staging := filepath.Join(directory, "staging.yaml")
	writeSnapshot(t, staging, sampleSnapshot())
	if err := os.Rename(staging, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	testutil.RequireReceive(t, watcher.Events(), 5*time.Second, "waiting for atomic replace")
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "nodes.yaml")
	writeSnapshot(t, path, sampleSnapshot())

	watcher, err := Watch(path, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeSnapshot(t, filepath.Join(directory, "other.yaml"), sampleSnapshot())
	select {
	case <-watcher.Events():
		t.Error("event delivered for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}

	watcher.Close()
	testutil.RequireClosed(t, watcher.Events(), 5*time.Second, "events after Close")
	watcher.Close()
}
