package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

// Matchmaker pairs arriving connections: the first arrival opens a room and
// plays X, the next one fills it and plays O. Room ids are monotonic and
// never reused; a terminated room is removed from the registry for good.
type Matchmaker struct {
	logger        *slog.Logger
	sessionLogger *slog.Logger
	store         roomStore

	mu     sync.Mutex
	nextID int64
	open   *Session
	active map[int64]*Session
}

func NewMatchmaker(logger *slog.Logger, store roomStore) *Matchmaker {
	return &Matchmaker{
		logger:        logger.With("component", "matchmaker"),
		sessionLogger: logger,
		store:         store,
		active:        make(map[int64]*Session),
	}
}

// Accept - assigns the participant to the oldest room with a free slot, or
// opens a new one. Returns the session and the assigned mark.
func (that *Matchmaker) Accept(ctx context.Context, participant Participant) (*Session, string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.open != nil {
		session := that.open
		that.open = nil

		mark, err := session.Join(ctx, participant)
		switch {
		case err == nil:
			that.logger.Info("room filled", "room_id", session.ID(), "participant_id", participant.ID())
			return session, mark, nil
		case errors.Is(err, apperror.ErrSessionTerminated):
			// the lone occupant dropped before we could pair; the room has
			// no free slot anymore, so open a fresh one instead
			delete(that.active, session.ID())
			that.logger.Info("open room terminated before pairing", "room_id", session.ID())
		default:
			return nil, "", fmt.Errorf("failed to join room %d: %w", session.ID(), err)
		}
	}

	session := newSession(that.nextID, that.sessionLogger, that.store)
	that.nextID++

	mark, err := session.Join(ctx, participant)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open room %d: %w", session.ID(), err)
	}

	that.active[session.ID()] = session
	that.open = session

	that.logger.Info("room opened", "room_id", session.ID(), "participant_id", participant.ID())

	return session, mark, nil
}

// Disconnect - terminates the participant's session and drops it from the
// active registry.
func (that *Matchmaker) Disconnect(ctx context.Context, session *Session, participantID string) {
	session.Leave(ctx, participantID)

	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.active, session.ID())
	if that.open == session {
		that.open = nil
	}
}

// ActiveRooms - the number of rooms currently registered.
func (that *Matchmaker) ActiveRooms() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.active)
}
