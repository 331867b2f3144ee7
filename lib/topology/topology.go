// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNodeName is returned when a torus node name does not end
// in three decodable, in-range coordinate characters.
var ErrInvalidNodeName = errors.New("invalid node name")

// ErrBadTopology is returned for topologies the grid cannot lay out.
var ErrBadTopology = errors.New("unsupported topology")

// Kind identifies the logical arrangement of the fleet.
type Kind int

const (
	Linear Kind = iota
	Torus3D
	Unsupported4D
)

func (kind Kind) String() string {
	switch kind {
	case Linear:
		return "linear"
	case Torus3D:
		return "torus3d"
	case Unsupported4D:
		return "unsupported4d"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// ParseKind accepts the names produced by [Kind.String], plus the
// short forms "1d", "3d" and "4d".
func ParseKind(text string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "linear", "1d":
		return Linear, nil
	case "torus3d", "torus", "3d":
		return Torus3D, nil
	case "unsupported4d", "4d":
		return Unsupported4D, nil
	default:
		return 0, fmt.Errorf("unknown topology kind %q", text)
	}
}

// Axis indexes into Descriptor.Dims.
const (
	X = 0
	Y = 1
	Z = 2
)

// Descriptor is the immutable topology description for a run. Dims is
// only meaningful for Torus3D.
type Descriptor struct {
	Kind Kind
	Dims [3]int
}

// LinearDescriptor returns the descriptor for a flat fleet.
func LinearDescriptor() Descriptor {
	return Descriptor{Kind: Linear}
}

// TorusDescriptor returns a 3-D torus descriptor with the given axis
// sizes.
func TorusDescriptor(x, y, z int) Descriptor {
	return Descriptor{Kind: Torus3D, Dims: [3]int{x, y, z}}
}

// Validate checks that the descriptor can be laid out. Unsupported4D
// returns ErrBadTopology; a torus needs every axis in 1..36 since each
// coordinate is a single base-36 digit.
func (descriptor Descriptor) Validate() error {
	switch descriptor.Kind {
	case Linear:
		return nil
	case Torus3D:
		for axis, size := range descriptor.Dims {
			if size < 1 || size > 36 {
				return fmt.Errorf("torus axis %d has size %d, want 1..36", axis, size)
			}
		}
		return nil
	case Unsupported4D:
		return fmt.Errorf("%w: %s", ErrBadTopology, descriptor.Kind)
	default:
		return fmt.Errorf("%w: %s", ErrBadTopology, descriptor.Kind)
	}
}

func (descriptor Descriptor) String() string {
	if descriptor.Kind == Torus3D {
		return fmt.Sprintf("torus3d(%dx%dx%d)", descriptor.Dims[X], descriptor.Dims[Y], descriptor.Dims[Z])
	}
	return descriptor.Kind.String()
}
