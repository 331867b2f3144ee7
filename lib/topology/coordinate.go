// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import "fmt"

// decodeDigit maps '0'-'9' to 0-9 and 'A'-'Z' to 10-35. Anything else
// returns -1.
func decodeDigit(character byte) int {
	switch {
	case character >= '0' && character <= '9':
		return int(character - '0')
	case character >= 'A' && character <= 'Z':
		return int(character-'A') + 10
	default:
		return -1
	}
}

// Coordinate is a node's position in the 3-D torus.
type Coordinate struct {
	X, Y, Z int
}

// DecodeCoordinate extracts the torus coordinate from the last three
// characters of name. Names shorter than four characters (a prefix
// plus three digits) are rejected, as are characters outside 0-9/A-Z
// and coordinates beyond the descriptor's axis sizes.
func DecodeCoordinate(name string, dims [3]int) (Coordinate, error) {
	if len(name) < 4 {
		return Coordinate{}, fmt.Errorf("%w: %q is shorter than 4 characters", ErrInvalidNodeName, name)
	}
	suffix := name[len(name)-3:]
	var values [3]int
	for axis := 0; axis < 3; axis++ {
		value := decodeDigit(suffix[axis])
		if value < 0 {
			return Coordinate{}, fmt.Errorf("%w: %q has undecodable coordinate character %q", ErrInvalidNodeName, name, suffix[axis])
		}
		if value >= dims[axis] {
			return Coordinate{}, fmt.Errorf("%w: %q axis %d coordinate %d exceeds size %d", ErrInvalidNodeName, name, axis, value, dims[axis])
		}
		values[axis] = value
	}
	return Coordinate{X: values[X], Y: values[Y], Z: values[Z]}, nil
}

// Project converts a torus coordinate to screen coordinates. X shifts
// right and Z shifts left so successive Z planes appear stacked behind
// one another; each Y slab occupies dimZ rows, stacked bottom-up.
func Project(coordinate Coordinate, dims [3]int) Position {
	dimY := dims[Y]
	dimZ := dims[Z]
	screenX := coordinate.X + (dimZ - 1) - coordinate.Z
	yOffset := ((dimZ * dimY) + (dimY - dimZ)) - (dimZ * coordinate.Y)
	screenY := (yOffset - coordinate.Y) + coordinate.Z
	return Position{X: screenX, Y: screenY}
}
