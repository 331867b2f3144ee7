// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"errors"
	"testing"
)

// --- DecodeCoordinate ---

func TestDecodeCoordinateBase36(t *testing.T) {
	coordinate, err := DecodeCoordinate("bgl0AZ", [3]int{36, 36, 36})
	if err != nil {
		t.Fatalf("DecodeCoordinate: %v", err)
	}
	want := Coordinate{X: 0, Y: 10, Z: 35}
	if coordinate != want {
		t.Errorf("DecodeCoordinate = %+v, want %+v", coordinate, want)
	}
}

func TestDecodeCoordinateOutOfRange(t *testing.T) {
	// 'A' decodes to 10, beyond a 4-wide Y axis.
	_, err := DecodeCoordinate("bgl0A2", [3]int{4, 4, 4})
	if !errors.Is(err, ErrInvalidNodeName) {
		t.Errorf("DecodeCoordinate error = %v, want ErrInvalidNodeName", err)
	}
}

func TestDecodeCoordinateShortName(t *testing.T) {
	_, err := DecodeCoordinate("120", [3]int{4, 4, 4})
	if !errors.Is(err, ErrInvalidNodeName) {
		t.Errorf("DecodeCoordinate error = %v, want ErrInvalidNodeName", err)
	}
}

func TestDecodeCoordinateLowercaseRejected(t *testing.T) {
	_, err := DecodeCoordinate("bgl1a0", [3]int{36, 36, 36})
	if !errors.Is(err, ErrInvalidNodeName) {
		t.Errorf("DecodeCoordinate error = %v, want ErrInvalidNodeName", err)
	}
}

// --- Layout.Place ---

func TestTorusPlacement(t *testing.T) {
	layout, err := NewLayout(TorusDescriptor(4, 4, 4), 64, Options{})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	placement, err := layout.Place(9, "bgl120")
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if placement.Position != (Position{X: 4, Y: 6}) {
		t.Errorf("Place(bgl120) = %v, want (4,6)", placement.Position)
	}

	again, err := layout.Place(9, "bgl120")
	if err != nil || again != placement {
		t.Errorf("second Place = %+v, %v; want %+v", again, err, placement)
	}
}

func TestTorusDimensions(t *testing.T) {
	layout, err := NewLayout(TorusDescriptor(4, 3, 2), 24, Options{})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if layout.Width() != 6 {
		t.Errorf("Width() = %d, want 6", layout.Width())
	}
	if layout.Height() != 9 {
		t.Errorf("Height() = %d, want 9", layout.Height())
	}
}

func TestTorusPlacementsStayInsideGrid(t *testing.T) {
	dims := [3]int{3, 4, 5}
	layout, err := NewLayout(TorusDescriptor(dims[X], dims[Y], dims[Z]), 60, Options{})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	seen := make(map[Position]string)
	digits := "0123456789"
	for x := 0; x < dims[X]; x++ {
		for y := 0; y < dims[Y]; y++ {
			for z := 0; z < dims[Z]; z++ {
				name := "r" + string(digits[x]) + string(digits[y]) + string(digits[z])
				placement, err := layout.Place(0, name)
				if err != nil {
					t.Fatalf("Place(%s): %v", name, err)
				}
				position := placement.Position
				if position.X < 0 || position.X >= layout.Width() || position.Y < 0 || position.Y >= layout.Height() {
					t.Errorf("Place(%s) = %v outside %dx%d", name, position, layout.Width(), layout.Height())
				}
				if previous, collides := seen[position]; collides {
					t.Errorf("Place(%s) = %v collides with %s", name, position, previous)
				}
				seen[position] = name
			}
		}
	}
}

func TestLinearPlacement(t *testing.T) {
	layout, err := NewLayout(LinearDescriptor(), 60, Options{})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if layout.Width() != 10 || layout.Height() != 7 {
		t.Fatalf("dimensions = %dx%d, want 10x7", layout.Width(), layout.Height())
	}
	placement, err := layout.Place(23, "node23")
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if placement.Position != (Position{X: 3, Y: 2}) {
		t.Errorf("Place(23) = %v, want (3,2)", placement.Position)
	}
}

func TestLinearGutters(t *testing.T) {
	layout, err := NewLayout(LinearDescriptor(), 600, Options{})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	// 20 columns: index 9 is column 9, the last of the first block.
	placement, _ := layout.Place(9, "")
	if !placement.ColumnGutter {
		t.Error("column 9 should carry a column gutter")
	}
	placement, _ = layout.Place(19, "")
	if placement.ColumnGutter {
		t.Error("last column should not carry a column gutter")
	}
	// Row 9 (indexes 180..199) is the tenth row.
	placement, _ = layout.Place(180, "")
	if !placement.RowGutter {
		t.Error("row 9 should carry a row gutter")
	}
	placement, _ = layout.Place(160, "")
	if placement.RowGutter {
		t.Error("row 8 should not carry a row gutter")
	}
}

func TestAdaptiveColumns(t *testing.T) {
	for _, test := range []struct {
		count int
		want  int
	}{
		{0, 1}, {49, 1}, {50, 10}, {499, 10}, {500, 20}, {10000, 20},
	} {
		if got := AdaptiveColumns(test.count); got != test.want {
			t.Errorf("AdaptiveColumns(%d) = %d, want %d", test.count, got, test.want)
		}
	}
}

func TestColumnsStickAcrossResize(t *testing.T) {
	layout, err := NewLayout(LinearDescriptor(), 60, Options{})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	layout.Resize(30)
	if layout.Width() != 10 {
		t.Errorf("Width() after shrink = %d, want 10", layout.Width())
	}
	if layout.Height() != 4 {
		t.Errorf("Height() after shrink = %d, want 4", layout.Height())
	}
}

func TestUnsupported4D(t *testing.T) {
	_, err := NewLayout(Descriptor{Kind: Unsupported4D}, 10, Options{})
	if !errors.Is(err, ErrBadTopology) {
		t.Errorf("NewLayout(4D) error = %v, want ErrBadTopology", err)
	}
}

func TestParseKind(t *testing.T) {
	for text, want := range map[string]Kind{"linear": Linear, "3d": Torus3D, "Torus3D": Torus3D, "4d": Unsupported4D} {
		got, err := ParseKind(text)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", text, got, err, want)
		}
	}
	if _, err := ParseKind("hypercube"); err == nil {
		t.Error("ParseKind(hypercube) succeeded, want error")
	}
}
