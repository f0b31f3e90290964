package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/protocol"
)

// Participant is one live connection bound to a session. Send must not
// block: the transport enqueues the message for FIFO delivery and may drop
// it when the peer cannot keep up.
type Participant interface {
	ID() string
	Send(message protocol.Message)
}

type roomStore interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	DeleteByID(ctx context.Context, id int64) error
}

type sessionPlayer struct {
	participant Participant
	mark        string
}

// Session pairs exactly two participants around one board. The board, the
// turn and the status form a single unit of mutual exclusion: every
// mutating operation takes the session lock and re-checks state inside it.
type Session struct {
	logger *slog.Logger
	store  roomStore

	id int64

	mu      sync.Mutex
	board   entity.Board
	turn    string
	status  string
	players []sessionPlayer
	scores  map[string]int
}

func newSession(id int64, logger *slog.Logger, store roomStore) *Session {
	return &Session{
		logger: logger.With("component", "session", "room_id", id),
		store:  store,
		id:     id,
		turn:   entity.PlayerX,
		status: entity.StatusWaiting,
		scores: make(map[string]int),
	}
}

func (that *Session) ID() int64 {
	return that.id
}

// Join - adds a participant, assigning X to the first arrival and O to the
// second. The second arrival starts the game.
func (that *Session) Join(ctx context.Context, participant Participant) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == entity.StatusTerminated {
		return "", apperror.ErrSessionTerminated
	}

	if len(that.players) == 2 {
		return "", apperror.ErrRoomFull
	}

	mark := entity.PlayerX
	if len(that.players) == 1 {
		mark = entity.PlayerO
	}

	that.players = append(that.players, sessionPlayer{participant: participant, mark: mark})
	participant.Send(protocol.NewAssignSymbol(mark, that.id))

	that.logger.Info("participant joined", "participant_id", participant.ID(), "mark", mark)

	if len(that.players) == 2 {
		that.status = entity.StatusPlaying
		that.turn = entity.PlayerX

		for _, player := range that.players {
			greeting := fmt.Sprintf("Game started! You are %s", player.mark)
			player.participant.Send(protocol.NewGameStart(greeting, player.mark == that.turn))
		}

		that.logger.Info("game started")
	}

	that.persist(ctx)

	return mark, nil
}

// Move - applies one move for the given mark and broadcasts the outcome.
// Rejections have no state effect and are surfaced to the caller only.
func (that *Session) Move(ctx context.Context, mark string, row, col int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.status {
	case entity.StatusTerminated:
		return apperror.ErrSessionTerminated
	case entity.StatusWaiting:
		return apperror.ErrGameNotStarted
	}

	if that.turn != mark {
		return apperror.ErrNotYourTurn
	}

	if err := that.board.Place(row, col, mark); err != nil {
		return fmt.Errorf("failed to place mark: %w", err)
	}

	that.broadcast(protocol.NewMoveMade(row, col, mark))

	switch winner := that.board.Winner(); {
	case winner != entity.EmptyCell:
		that.scores[winner]++
		that.finishRound(winner)
	case that.board.IsFull():
		that.finishRound(entity.WinnerDraw)
	default:
		that.turn = entity.ToggleMark(mark)
		that.broadcast(protocol.NewTurnChange(that.turn))
	}

	that.persist(ctx)

	return nil
}

// Reset - clears the board on an explicit client request, independent of
// win or draw. The next round opens with X to move.
func (that *Session) Reset(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.status {
	case entity.StatusTerminated:
		return apperror.ErrSessionTerminated
	case entity.StatusWaiting:
		return apperror.ErrGameNotStarted
	}

	that.board.Reset()
	that.turn = entity.PlayerX
	that.broadcast(protocol.NewGameReset())

	that.persist(ctx)

	return nil
}

// Leave - tears the session down after a participant drops. The remaining
// participant is notified once; the session accepts no further operations.
func (that *Session) Leave(ctx context.Context, participantID string) {
	that.mu.Lock()

	if that.status == entity.StatusTerminated {
		that.mu.Unlock()
		return
	}

	that.status = entity.StatusTerminated

	for _, player := range that.players {
		if player.participant.ID() != participantID {
			player.participant.Send(protocol.NewOpponentDisconnected())
		}
	}

	that.logger.Info("participant left, session terminated", "participant_id", participantID)
	that.mu.Unlock()

	if err := that.store.DeleteByID(ctx, that.id); err != nil {
		that.logger.Error("failed to delete room snapshot", "error", err)
	}
}

// Status - reports the current lifecycle status.
func (that *Session) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

// Snapshot - returns a copy of the room state for storage and inspection.
func (that *Session) Snapshot() *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// finishRound announces the result and opens the next round. Called with
// the lock held.
func (that *Session) finishRound(winner string) {
	that.broadcast(protocol.NewGameOver(winner))
	that.board.Reset()
	that.turn = entity.PlayerX
}

// broadcast delivers a message to every participant. Called with the lock
// held so every participant observes messages in emission order.
func (that *Session) broadcast(message protocol.Message) {
	for _, player := range that.players {
		player.participant.Send(message)
	}
}

func (that *Session) snapshot() *entity.Room {
	players := make([]*entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, &entity.Player{ID: player.participant.ID(), Mark: player.mark})
	}

	scores := make(map[string]int, len(that.scores))
	for mark, wins := range that.scores {
		scores[mark] = wins
	}

	return &entity.Room{
		ID:      that.id,
		Board:   that.board,
		Turn:    that.turn,
		Status:  that.status,
		Players: players,
		Scores:  scores,
	}
}

// persist writes the current snapshot. Storage is advisory for a live
// session, so failures are logged and never fail the operation.
func (that *Session) persist(ctx context.Context) {
	if err := that.store.CreateOrUpdate(ctx, that.snapshot()); err != nil {
		that.logger.Error("failed to persist room snapshot", "error", err)
	}
}
