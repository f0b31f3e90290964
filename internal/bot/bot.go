package bot

import (
	"errors"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// PickMove - chooses a uniformly random empty cell of the board.
func PickMove(board *entity.Board) (row, col int, err error) {
	slots := board.EmptySlots()
	if len(slots) == 0 {
		return 0, 0, ErrNoAvailableMoves
	}

	chosen := slots[rand.Intn(len(slots))] //nolint: gosec // it's ok

	return chosen[0], chosen[1], nil
}
