// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodesource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/fleetgrid/lib/codec"
	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
)

// ErrUnknownFormat is returned for snapshot paths whose extension
// names no supported format.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// NodeRecord is one node as written in a snapshot.
type NodeRecord struct {
	Index int             `json:"index" yaml:"index"`
	Name  string          `json:"name" yaml:"name"`
	State nodestate.State `json:"state" yaml:"state"`
}

// CompositeRecord is one composite group as written in a snapshot.
// State is "free" (the default), "running" or "error".
type CompositeRecord struct {
	Start      int      `json:"start" yaml:"start"`
	End        int      `json:"end" yaml:"end"`
	Members    []string `json:"members" yaml:"members"`
	SubMembers string   `json:"sub_members,omitempty" yaml:"sub_members,omitempty"`
	State      string   `json:"state,omitempty" yaml:"state,omitempty"`
}

// Snapshot is the decoded content of a snapshot file.
type Snapshot struct {
	Nodes      []NodeRecord      `json:"nodes" yaml:"nodes"`
	Composites []CompositeRecord `json:"composites,omitempty" yaml:"composites,omitempty"`
}

// NodeList validates the node records and converts them.
func (snapshot *Snapshot) NodeList() ([]nodestate.Node, error) {
	nodes := make([]nodestate.Node, len(snapshot.Nodes))
	for position, record := range snapshot.Nodes {
		if record.Index < 0 {
			return nil, fmt.Errorf("node %d (%q): negative index %d", position, record.Name, record.Index)
		}
		if record.Name == "" {
			return nil, fmt.Errorf("node %d (index %d): empty name", position, record.Index)
		}
		nodes[position] = nodestate.Node{Index: record.Index, Name: record.Name, State: record.State}
	}
	return nodes, nil
}

// CompositeList validates the composite records and converts them.
func (snapshot *Snapshot) CompositeList() ([]nodestate.Composite, error) {
	composites := make([]nodestate.Composite, len(snapshot.Composites))
	for position, record := range snapshot.Composites {
		if record.Start < 0 || record.End < record.Start {
			return nil, fmt.Errorf("composite %d: invalid interval [%d, %d]", position, record.Start, record.End)
		}
		state, err := parseGroupState(record.State)
		if err != nil {
			return nil, fmt.Errorf("composite %d: %w", position, err)
		}
		composites[position] = nodestate.Composite{
			Start:      record.Start,
			End:        record.End,
			Members:    append([]string(nil), record.Members...),
			SubMembers: record.SubMembers,
			State:      state,
		}
	}
	return composites, nil
}

func parseGroupState(text string) (nodestate.GroupState, error) {
	switch strings.ToLower(text) {
	case "", "free":
		return nodestate.GroupFree, nil
	case "running":
		return nodestate.GroupRunning, nil
	case "error":
		return nodestate.GroupError, nil
	default:
		return 0, fmt.Errorf("unknown composite state %q", text)
	}
}

// Format is a snapshot serialization.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatJSON
	FormatJSONC
	FormatCBOR
)

// Compression is the optional outer wrapping of a snapshot file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// DetectFormat maps a snapshot path to its format and compression,
// e.g. "nodes.json.zst" is zstd-compressed JSON.
func DetectFormat(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))
	compression := CompressionNone
	switch {
	case strings.HasSuffix(name, ".zst"):
		compression = CompressionZstd
		name = strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".lz4"):
		compression = CompressionLZ4
		name = strings.TrimSuffix(name, ".lz4")
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML, compression, nil
	case ".json":
		return FormatJSON, compression, nil
	case ".jsonc":
		return FormatJSONC, compression, nil
	case ".cbor":
		return FormatCBOR, compression, nil
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("nodesource: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("nodesource: zstd decoder initialization failed: " + err.Error())
	}
}

// Decode parses the content of the snapshot file at path.
func Decode(path string, data []byte) (*Snapshot, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(data, compression)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	var snapshot Snapshot
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &snapshot)
	case FormatJSON:
		err = json.Unmarshal(raw, &snapshot)
	case FormatJSONC:
		err = json.Unmarshal(jsonc.ToJSON(raw), &snapshot)
	case FormatCBOR:
		err = codec.Unmarshal(raw, &snapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &snapshot, nil
}

// Encode serializes snapshot in the format path names. Collectors
// and tests use it to write snapshot files.
func Encode(path string, snapshot *Snapshot) ([]byte, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	var raw []byte
	switch format {
	case FormatYAML:
		raw, err = yaml.Marshal(snapshot)
	case FormatJSON, FormatJSONC:
		raw, err = json.MarshalIndent(snapshot, "", "  ")
	case FormatCBOR:
		raw, err = codec.Marshal(snapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return compress(raw, compression)
}

func decompress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionZstd:
		return zstdDecoder.DecodeAll(data, nil)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return data, nil
	}
}

func compress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil
	default:
		return data, nil
	}
}
