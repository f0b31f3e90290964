package apperror

import "errors"

var (
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrCellOutOfRange    = errors.New("cell is out of range")
	ErrGameNotStarted    = errors.New("game is not started")
	ErrRoomFull          = errors.New("room already has two players")
	ErrSessionTerminated = errors.New("session is terminated")
	ErrProtocol          = errors.New("malformed protocol message")
)
