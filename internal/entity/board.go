package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	WinnerDraw = "draw"

	EmptyCell = ""

	BoardSize = 3
)

// winLines - the three rows, three columns and two diagonals as (row, col) triples.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a 3x3 grid of cell markers. The zero value is an empty board.
type Board [BoardSize][BoardSize]string

// Place - puts a mark on the cell, failing if the cell is occupied or out of range.
func (that *Board) Place(row, col int, mark string) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOutOfRange, row, col)
	}

	if that[row][col] != EmptyCell {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, row, col)
	}

	that[row][col] = mark

	return nil
}

// Winner - returns the mark holding a full line, or EmptyCell if there is none.
func (that *Board) Winner() string {
	for _, line := range winLines {
		a := that[line[0][0]][line[0][1]]
		b := that[line[1][0]][line[1][1]]
		c := that[line[2][0]][line[2][1]]

		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// IsFull - reports whether no cell is empty.
func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Reset - sets all cells back to empty.
func (that *Board) Reset() {
	*that = Board{}
}

// EmptySlots - returns the (row, col) pairs of all empty cells.
func (that *Board) EmptySlots() [][2]int {
	slots := make([][2]int, 0, BoardSize*BoardSize)

	for row := range that {
		for col, cell := range that[row] {
			if cell == EmptyCell {
				slots = append(slots, [2]int{row, col})
			}
		}
	}

	return slots
}

func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
