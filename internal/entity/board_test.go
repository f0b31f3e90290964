package entity

import (
	"fmt"
	"testing"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Places mark on an empty cell", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: X is placed on (1, 1)
		err := board.Place(1, 1, PlayerX)

		// Then: the cell holds X
		require.NoError(t, err)
		assert.Equal(t, PlayerX, board[1][1])
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: a board with X on (0, 0)
		board := Board{}
		require.NoError(t, board.Place(0, 0, PlayerX))

		// When: O is placed on the same cell
		err := board.Place(0, 0, PlayerO)

		// Then: the move is rejected and the cell is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerX, board[0][0])
	})

	t.Run("Rejects out of range indices", func(t *testing.T) {
		board := Board{}

		for _, pair := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
			err := board.Place(pair[0], pair[1], PlayerX)
			require.ErrorIs(t, err, apperror.ErrCellOutOfRange)
		}

		// And: the board stays empty
		assert.Len(t, board.EmptySlots(), 9)
	})
}

func TestBoard_Winner(t *testing.T) {
	lines := map[string][3][2]int{
		"top row":       {{0, 0}, {0, 1}, {0, 2}},
		"middle row":    {{1, 0}, {1, 1}, {1, 2}},
		"bottom row":    {{2, 0}, {2, 1}, {2, 2}},
		"left column":   {{0, 0}, {1, 0}, {2, 0}},
		"middle column": {{0, 1}, {1, 1}, {2, 1}},
		"right column":  {{0, 2}, {1, 2}, {2, 2}},
		"main diagonal": {{0, 0}, {1, 1}, {2, 2}},
		"anti diagonal": {{0, 2}, {1, 1}, {2, 0}},
	}

	for name, line := range lines {
		for _, mark := range []string{PlayerX, PlayerO} {
			t.Run(fmt.Sprintf("%s wins for %s", name, mark), func(t *testing.T) {
				// Given: a board where the whole line holds one mark
				board := Board{}
				for _, cell := range line {
					board[cell[0]][cell[1]] = mark
				}

				// Then: that mark is the winner
				assert.Equal(t, mark, board.Winner())
			})
		}
	}

	t.Run("No winner on an ongoing board", func(t *testing.T) {
		board := Board{
			{PlayerX, PlayerO, EmptyCell},
			{EmptyCell, PlayerX, EmptyCell},
			{EmptyCell, EmptyCell, PlayerO},
		}

		assert.Equal(t, EmptyCell, board.Winner())
	})

	t.Run("No winner on a drawn board", func(t *testing.T) {
		board := Board{
			{PlayerX, PlayerO, PlayerX},
			{PlayerO, PlayerX, PlayerO},
			{PlayerO, PlayerX, PlayerO},
		}

		assert.Equal(t, EmptyCell, board.Winner())
		assert.True(t, board.IsFull())
	})
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		board := Board{}

		assert.False(t, board.IsFull())
	})

	t.Run("One empty cell is not full", func(t *testing.T) {
		board := Board{
			{PlayerX, PlayerO, PlayerX},
			{PlayerO, PlayerX, PlayerO},
			{PlayerO, PlayerX, EmptyCell},
		}

		assert.False(t, board.IsFull())
	})
}

func TestBoard_Reset(t *testing.T) {
	// Given: a board with a few marks
	board := Board{}
	require.NoError(t, board.Place(0, 0, PlayerX))
	require.NoError(t, board.Place(1, 1, PlayerO))

	// When: the board is reset
	board.Reset()

	// Then: every cell is empty again
	assert.Equal(t, Board{}, board)
	assert.Len(t, board.EmptySlots(), 9)
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, PlayerO, ToggleMark(PlayerX))
	assert.Equal(t, PlayerX, ToggleMark(PlayerO))
}
