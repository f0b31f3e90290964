package client

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/bot"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// LocalGame is the offline single-player mode: the same rule engine as the
// server, with a random bot as the opponent. Intended for a single
// presentation loop, so it is not safe for concurrent use.
type LocalGame struct {
	board      entity.Board
	playerMark string
	botMark    string
	turn       string
	scores     map[string]int
}

func NewLocalGame(playerMark string) *LocalGame {
	game := &LocalGame{
		playerMark: playerMark,
		botMark:    entity.ToggleMark(playerMark),
		turn:       entity.PlayerX,
		scores:     make(map[string]int),
	}

	// X opens every round; if the player chose O the bot moves first.
	game.maybeBotTurn()

	return game
}

// PlayerMove - applies the player's move and, if the round continues, the
// bot's reply. Returns the round result: a winning mark, "draw", or the
// empty string while the round is still going.
func (that *LocalGame) PlayerMove(row, col int) (string, error) {
	if that.turn != that.playerMark {
		return "", apperror.ErrNotYourTurn
	}

	if err := that.board.Place(row, col, that.playerMark); err != nil {
		return "", fmt.Errorf("failed to place mark: %w", err)
	}

	if result := that.evaluate(); result != "" {
		return result, nil
	}

	that.turn = that.botMark

	return that.botMove()
}

// botMove picks a uniformly random empty cell for the bot.
func (that *LocalGame) botMove() (string, error) {
	row, col, err := bot.PickMove(&that.board)
	if err != nil {
		return "", fmt.Errorf("bot has no move: %w", err)
	}

	if err = that.board.Place(row, col, that.botMark); err != nil {
		return "", fmt.Errorf("bot failed to place mark: %w", err)
	}

	if result := that.evaluate(); result != "" {
		return result, nil
	}

	that.turn = that.playerMark

	return "", nil
}

// evaluate closes the round on a win or draw and opens the next one.
func (that *LocalGame) evaluate() string {
	if winner := that.board.Winner(); winner != entity.EmptyCell {
		that.scores[winner]++
		that.startRound()

		return winner
	}

	if that.board.IsFull() {
		that.startRound()

		return entity.WinnerDraw
	}

	return ""
}

func (that *LocalGame) startRound() {
	that.board.Reset()
	that.turn = entity.PlayerX
	that.maybeBotTurn()
}

// maybeBotTurn lets the bot open the round when it holds X.
func (that *LocalGame) maybeBotTurn() {
	if that.turn != that.botMark {
		return
	}

	// A fresh round always has empty cells, the bot cannot fail here.
	if _, err := that.botMove(); err != nil {
		that.turn = that.playerMark
	}
}

// Reset - abandons the current round without scoring it.
func (that *LocalGame) Reset() {
	that.startRound()
}

func (that *LocalGame) Board() entity.Board {
	return that.board
}

func (that *LocalGame) Turn() string {
	return that.turn
}

// Scores - running win counts per mark across rounds.
func (that *LocalGame) Scores() map[string]int {
	scores := make(map[string]int, len(that.scores))
	for mark, wins := range that.scores {
		scores[mark] = wins
	}

	return scores
}
