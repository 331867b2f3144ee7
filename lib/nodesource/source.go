// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodesource

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
)

// ErrNotLoaded is returned by CompositeMembership before the first
// successful fetch.
var ErrNotLoaded = errors.New("no snapshot loaded")

// FileSource reads node lists from one snapshot file. It is safe for
// concurrent use: the viewer fetches from a command goroutine while
// the grid queries composite membership from the update loop.
type FileSource struct {
	path   string
	logger *slog.Logger

	mu         sync.Mutex
	loaded     bool
	forced     bool
	digest     [32]byte
	nodes      []nodestate.Node
	composites []nodestate.Composite
}

// NewFileSource returns a source for the snapshot at path. The file
// is not read until the first fetch.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileSource{path: path, logger: logger}
}

// Path is the snapshot file being read.
func (source *FileSource) Path() string {
	return source.path
}

// FetchNodeList reads the snapshot and returns its nodes. changed is
// false when the file is byte-identical to the previous fetch; the
// previous node list is returned without decoding again. A file that
// fails to read or parse leaves the previous snapshot in place.
func (source *FileSource) FetchNodeList() (nodes []nodestate.Node, changed bool, err error) {
	data, err := os.ReadFile(source.path)
	if err != nil {
		return nil, false, fmt.Errorf("reading node snapshot: %w", err)
	}
	digest := blake3.Sum256(data)

	source.mu.Lock()
	defer source.mu.Unlock()

	if source.loaded && !source.forced && digest == source.digest {
		return append([]nodestate.Node(nil), source.nodes...), false, nil
	}

	snapshot, err := Decode(source.path, data)
	if err != nil {
		return nil, false, err
	}
	nodes, err = snapshot.NodeList()
	if err != nil {
		return nil, false, fmt.Errorf("node snapshot %s: %w", source.path, err)
	}
	composites, err := snapshot.CompositeList()
	if err != nil {
		return nil, false, fmt.Errorf("node snapshot %s: %w", source.path, err)
	}

	source.loaded = true
	source.forced = false
	source.digest = digest
	source.nodes = nodes
	source.composites = composites
	source.logger.Debug("node snapshot loaded",
		"path", source.path,
		"nodes", len(nodes),
		"composites", len(composites),
	)
	return append([]nodestate.Node(nil), nodes...), true, nil
}

// Force makes the next FetchNodeList report changed even when the
// file has not been modified.
func (source *FileSource) Force() {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.forced = true
}

// CompositeMembership lists the composite groups of the last loaded
// snapshot whose interval contains index.
func (source *FileSource) CompositeMembership(index int) ([]nodestate.Composite, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if !source.loaded {
		return nil, ErrNotLoaded
	}
	var result []nodestate.Composite
	for _, composite := range source.composites {
		if composite.Contains(index) {
			result = append(result, composite)
		}
	}
	return result, nil
}
