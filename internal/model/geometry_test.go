package model

import (
	"reflect"
	"strings"
	"testing"
)

func numberedGrid(size int) [][]int {
	grid := make([][]int, size)
	for x := range grid {
		grid[x] = make([]int, size)
		for y := range grid[x] {
			grid[x][y] = x*size + y
		}
	}
	return grid
}

func TestRotateGrid(t *testing.T) {
	t.Run("quarter turn is clockwise", func(t *testing.T) {
		got := RotateGrid([][]string{{"a", "b"}, {"c", "d"}}, 90)
		want := [][]string{{"c", "a"}, {"d", "b"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("identities", func(t *testing.T) {
		grid := numberedGrid(DisplaySize)
		for _, deg := range []int{0, 360, -360, 720} {
			if got := RotateGrid(grid, deg); !reflect.DeepEqual(got, grid) {
				t.Errorf("rotation by %d changed the grid", deg)
			}
		}
		r := grid
		for i := 0; i < 4; i++ {
			r = RotateGrid(r, 90)
		}
		if !reflect.DeepEqual(r, grid) {
			t.Error("four quarter turns should be the identity")
		}
		if !reflect.DeepEqual(RotateGrid(RotateGrid(grid, 90), 90), RotateGrid(grid, 180)) {
			t.Error("two quarter turns should equal a half turn")
		}
		if !reflect.DeepEqual(RotateGrid(grid, -90), RotateGrid(grid, 270)) {
			t.Error("-90 should equal 270")
		}
	})

	t.Run("input is not modified", func(t *testing.T) {
		grid := numberedGrid(4)
		orig := numberedGrid(4)
		out := RotateGrid(grid, 0)
		out[0][0] = 99
		RotateGrid(grid, 90)
		if !reflect.DeepEqual(grid, orig) {
			t.Error("RotateGrid modified its input")
		}
	})

	t.Run("panics off the quarter turns", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic for 45 degrees")
			}
		}()
		RotateGrid(numberedGrid(3), 45)
	})

	t.Run("panics on a ragged grid", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic for a non-square grid")
			}
		}()
		RotateGrid([][]int{{1, 2}, {3}}, 90)
	})
}

func TestParseOrientation(t *testing.T) {
	tests := map[string]Orientation{
		"":       OrientationBottom,
		"bottom": OrientationBottom,
		"Left":   OrientationLeft,
		" top ":  OrientationTop,
		"right":  OrientationRight,
	}
	for in, want := range tests {
		got, err := ParseOrientation(in)
		if err != nil || got != want {
			t.Errorf("ParseOrientation(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOrientation("diagonal"); err == nil {
		t.Error("expected an error for an unknown orientation")
	}
}

func TestScreenMapping(t *testing.T) {
	orientations := []Orientation{OrientationBottom, OrientationLeft, OrientationTop, OrientationRight}

	t.Run("round trip for every square", func(t *testing.T) {
		for _, o := range orientations {
			seen := map[[2]int]bool{}
			for rank := 0; rank < BoardSize; rank++ {
				for file := 0; file < BoardSize; file++ {
					sq := Sq(file, rank)
					row, col := BoardToScreen(sq, o)
					if row < 1 || row > BoardSize || col < 1 || col > BoardSize {
						t.Fatalf("%s: %s mapped onto the border (%d,%d)", o, sq, row, col)
					}
					if seen[[2]int{row, col}] {
						t.Fatalf("%s: two squares share cell (%d,%d)", o, row, col)
					}
					seen[[2]int{row, col}] = true
					back, ok := ScreenToBoard(row, col, o)
					if !ok || back != sq {
						t.Fatalf("%s: %s -> (%d,%d) -> %s, %v", o, sq, row, col, back, ok)
					}
				}
			}
		}
	})

	t.Run("known corners", func(t *testing.T) {
		tests := []struct {
			o        Orientation
			row, col int
		}{
			{OrientationBottom, 10, 1},
			{OrientationLeft, 1, 1},
			{OrientationTop, 1, 10},
			{OrientationRight, 10, 10},
		}
		for _, tt := range tests {
			row, col := BoardToScreen(Sq(0, 0), tt.o)
			if row != tt.row || col != tt.col {
				t.Errorf("%s: a1 at (%d,%d), want (%d,%d)", tt.o, row, col, tt.row, tt.col)
			}
		}
	})

	t.Run("border cells are not squares", func(t *testing.T) {
		for _, cell := range [][2]int{{0, 0}, {0, 5}, {11, 11}, {5, 0}, {-1, 3}, {12, 3}} {
			if _, ok := ScreenToBoard(cell[0], cell[1], OrientationBottom); ok {
				t.Errorf("cell %v should not map to a square", cell)
			}
		}
	})

	t.Run("matches the rotated display grid", func(t *testing.T) {
		g := NewGame()
		for _, o := range orientations {
			grid := DisplayGridFor(g.Board(), o)
			for _, sq := range []Square{Sq(0, 0), Sq(5, 0), Sq(9, 9), Sq(3, 8)} {
				row, col := BoardToScreen(sq, o)
				if got, want := grid[row][col], g.PieceAt(sq).String(); got != want {
					t.Errorf("%s: cell (%d,%d) = %q, want %q for %s", o, row, col, got, want, sq)
				}
			}
		}
	})
}

func TestDisplayGrid(t *testing.T) {
	grid := DisplayGrid(NewGame().Board())
	if len(grid) != DisplaySize || len(grid[0]) != DisplaySize {
		t.Fatalf("grid is %dx%d", len(grid), len(grid[0]))
	}
	checks := []struct {
		row, col int
		want     string
	}{
		{0, 1, "a"},
		{11, 10, "j"},
		{10, 0, "1"},
		{1, 11, "10"},
		{10, 1, "T"},
		{1, 6, "k"},
		{5, 5, "."},
		{0, 0, ""},
	}
	for _, c := range checks {
		if got := grid[c.row][c.col]; got != c.want {
			t.Errorf("grid[%d][%d] = %q, want %q", c.row, c.col, got, c.want)
		}
	}

	text := RenderText(NewGame().Board(), OrientationBottom)
	if lines := strings.Split(strings.TrimRight(text, "\n"), "\n"); len(lines) != DisplaySize {
		t.Errorf("RenderText produced %d lines", len(lines))
	}
}
