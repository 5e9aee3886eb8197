package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Orientation names the screen edge the white side is drawn against.
type Orientation string

const (
	OrientationBottom Orientation = "bottom"
	OrientationLeft   Orientation = "left"
	OrientationTop    Orientation = "top"
	OrientationRight  Orientation = "right"
)

// DisplaySize is the side of the labelled display grid: the board plus a
// one-cell border on every edge.
const DisplaySize = BoardSize + 2

func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case OrientationBottom, OrientationLeft, OrientationTop, OrientationRight:
		return o, nil
	case "":
		return OrientationBottom, nil
	}
	return "", fmt.Errorf("invalid orientation: %q", s)
}

// Degrees is the clockwise rotation that takes the canonical board to o.
func (o Orientation) Degrees() int {
	switch o {
	case OrientationLeft:
		return 90
	case OrientationTop:
		return 180
	case OrientationRight:
		return 270
	default:
		return 0
	}
}

// quarterTurns normalises a rotation in degrees to 0-3 clockwise quarter
// turns. Anything that is not a multiple of 90 is a caller bug.
func quarterTurns(degrees int) int {
	if degrees%90 != 0 {
		panic(fmt.Sprintf("model: rotation of %d degrees is not a multiple of 90", degrees))
	}
	return ((degrees/90)%4 + 4) % 4
}

// rotateCell is the elementary 90 degree clockwise rotation of cell (x, y)
// in a grid of the given size.
func rotateCell(x, y, size int) (int, int) {
	return y, size - 1 - x
}

// RotateGrid returns a copy of the square grid rotated clockwise by degrees.
// The input is never modified. It panics if degrees is not a multiple of 90
// or the grid is not square.
func RotateGrid[T any](grid [][]T, degrees int) [][]T {
	turns := quarterTurns(degrees)
	size := len(grid)
	out := make([][]T, size)
	for x := range grid {
		if len(grid[x]) != size {
			panic(fmt.Sprintf("model: cannot rotate a non-square grid (row %d has %d cells, want %d)", x, len(grid[x]), size))
		}
		out[x] = append([]T(nil), grid[x]...)
	}
	for i := 0; i < turns; i++ {
		out = rotateOnce(out)
	}
	return out
}

func rotateOnce[T any](grid [][]T) [][]T {
	size := len(grid)
	out := make([][]T, size)
	for i := range out {
		out[i] = make([]T, size)
	}
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			nx, ny := rotateCell(x, y, size)
			out[nx][ny] = grid[x][y]
		}
	}
	return out
}

// displayCell locates sq in the unrotated display grid as (row, col), row 0
// being the top edge.
func displayCell(sq Square) (int, int) {
	return BoardSize - sq.Rank, sq.File + 1
}

// BoardToScreen maps a board square to its (row, col) cell in the display grid
// drawn for orientation o.
func BoardToScreen(sq Square, o Orientation) (int, int) {
	row, col := displayCell(sq)
	for i := quarterTurns(o.Degrees()); i > 0; i-- {
		row, col = rotateCell(row, col, DisplaySize)
	}
	return row, col
}

// ScreenToBoard maps a display grid cell back to a board square. Border and
// out-of-range cells report false.
func ScreenToBoard(row, col int, o Orientation) (Square, bool) {
	if row < 0 || row >= DisplaySize || col < 0 || col >= DisplaySize {
		return Square{}, false
	}
	for i := quarterTurns(360 - o.Degrees()); i > 0; i-- {
		row, col = rotateCell(row, col, DisplaySize)
	}
	sq := Square{File: col - 1, Rank: BoardSize - row}
	if !sq.Valid() {
		return Square{}, false
	}
	return sq, true
}

// DisplayGrid builds the unrotated labelled grid: file letters along the top
// and bottom border, rank numbers along the left and right, FEN letters for
// pieces and "." for empty squares.
func DisplayGrid(b Board) [][]string {
	grid := make([][]string, DisplaySize)
	for row := range grid {
		grid[row] = make([]string, DisplaySize)
	}
	for i := 0; i < BoardSize; i++ {
		file := string(rune('a' + i))
		grid[0][i+1] = file
		grid[DisplaySize-1][i+1] = file

		rank := strconv.Itoa(i + 1)
		row, _ := displayCell(Sq(0, i))
		grid[row][0] = rank
		grid[row][DisplaySize-1] = rank
	}
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			row, col := displayCell(Sq(file, rank))
			grid[row][col] = b[rank][file].String()
		}
	}
	return grid
}

// DisplayGridFor returns the labelled grid rotated for orientation o.
func DisplayGridFor(b Board, o Orientation) [][]string {
	return RotateGrid(DisplayGrid(b), o.Degrees())
}

// RenderText draws the board as fixed-width text for orientation o.
func RenderText(b Board, o Orientation) string {
	var sb strings.Builder
	for _, row := range DisplayGridFor(b, o) {
		for col, cell := range row {
			if col > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%2s", cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
