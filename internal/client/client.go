package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/protocol"
)

const eventBuffer = 64

var ErrInvalidAddr = errors.New("invalid game server address")

type EventType string

const (
	EventAssigned       EventType = "assigned"
	EventGameStarted    EventType = "game_started"
	EventMoveMade       EventType = "move_made"
	EventTurnChanged    EventType = "turn_changed"
	EventGameOver       EventType = "game_over"
	EventGameReset      EventType = "game_reset"
	EventOpponentLeft   EventType = "opponent_left"
	EventError          EventType = "error"
	EventConnectionLost EventType = "connection_lost"
)

// Event is what the presentation layer consumes. The receive loop posts
// events through a buffered channel so it never blocks on a slow UI.
type Event struct {
	Type    EventType
	Symbol  string
	Row     int
	Col     int
	Winner  string
	MyTurn  bool
	Message string
}

// Client mirrors the server-side room into local state. The server is
// authoritative: inbound messages are applied directly, the rule engine is
// never re-run here.
type Client struct {
	logger *slog.Logger
	conn   net.Conn
	codec  *protocol.Codec
	events chan Event

	mu     sync.Mutex
	board  entity.Board
	mark   string
	roomID int64
	myTurn bool
	active bool
	scores map[string]int
}

// Dial - validates the address, connects and starts the receive loop.
func Dial(logger *slog.Logger, addr string) (*Client, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddr, err)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to game server: %w", err)
	}

	return New(logger, conn), nil
}

// New - wraps an established connection and starts the receive loop.
func New(logger *slog.Logger, conn net.Conn) *Client {
	client := &Client{
		logger: logger.With("component", "client"),
		conn:   conn,
		codec:  protocol.NewCodec(conn),
		events: make(chan Event, eventBuffer),
		scores: make(map[string]int),
	}

	go client.receiveLoop()

	return client
}

// Events - the ordered event feed for the presentation loop.
func (that *Client) Events() <-chan Event {
	return that.events
}

// Move - sends a move request. The server decides whether it is legal.
func (that *Client) Move(row, col int) error {
	if err := that.codec.Write(protocol.NewMove(row, col)); err != nil {
		return fmt.Errorf("failed to send move: %w", err)
	}

	return nil
}

// Reset - asks the server for a fresh round.
func (that *Client) Reset() error {
	if err := that.codec.Write(protocol.NewReset()); err != nil {
		return fmt.Errorf("failed to send reset: %w", err)
	}

	return nil
}

func (that *Client) Close() error {
	if err := that.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}

// Board - a copy of the mirrored board.
func (that *Client) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board
}

func (that *Client) Mark() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mark
}

func (that *Client) RoomID() int64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.roomID
}

func (that *Client) MyTurn() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.myTurn
}

// Active - false until game_start and after the session became unusable.
func (that *Client) Active() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.active
}

// Scores - running win counts per mark, kept across rounds.
func (that *Client) Scores() map[string]int {
	that.mu.Lock()
	defer that.mu.Unlock()

	scores := make(map[string]int, len(that.scores))
	for mark, wins := range that.scores {
		scores[mark] = wins
	}

	return scores
}

// receiveLoop blocks on the socket and translates server messages into
// local state changes plus one event each.
func (that *Client) receiveLoop() {
	for {
		message, err := that.codec.Read()
		if err != nil {
			if errors.Is(err, apperror.ErrProtocol) {
				that.logger.Warn("dropping malformed message", "error", err)
				continue
			}

			that.mu.Lock()
			that.active = false
			that.mu.Unlock()

			that.logger.Info("disconnected from game server", "error", err)
			that.post(Event{Type: EventConnectionLost})
			close(that.events)

			return
		}

		that.apply(message)
	}
}

func (that *Client) apply(message protocol.Message) {
	that.mu.Lock()

	var event Event

	switch inbound := message.(type) {
	case *protocol.AssignSymbol:
		that.mark = inbound.Symbol
		that.roomID = inbound.RoomID
		event = Event{Type: EventAssigned, Symbol: inbound.Symbol}
	case *protocol.GameStart:
		that.active = true
		that.myTurn = inbound.Turn
		event = Event{Type: EventGameStarted, MyTurn: inbound.Turn, Message: inbound.Message}
	case *protocol.MoveMade:
		if inbound.Row >= 0 && inbound.Row < entity.BoardSize && inbound.Col >= 0 && inbound.Col < entity.BoardSize {
			that.board[inbound.Row][inbound.Col] = inbound.Symbol
		}
		event = Event{Type: EventMoveMade, Row: inbound.Row, Col: inbound.Col, Symbol: inbound.Symbol}
	case *protocol.TurnChange:
		that.myTurn = inbound.Turn == that.mark
		event = Event{Type: EventTurnChanged, MyTurn: that.myTurn}
	case *protocol.GameOver:
		if inbound.Winner != entity.WinnerDraw {
			that.scores[inbound.Winner]++
		}
		that.board.Reset()
		that.myTurn = that.mark == entity.PlayerX
		event = Event{Type: EventGameOver, Winner: inbound.Winner, MyTurn: that.myTurn}
	case *protocol.GameReset:
		that.board.Reset()
		that.myTurn = that.mark == entity.PlayerX
		event = Event{Type: EventGameReset, MyTurn: that.myTurn}
	case *protocol.OpponentDisconnected:
		that.active = false
		event = Event{Type: EventOpponentLeft}
	case *protocol.Error:
		event = Event{Type: EventError, Message: inbound.Message}
	default:
		that.mu.Unlock()
		that.logger.Warn("dropping unexpected message", "message_type", message.MessageType())

		return
	}

	that.mu.Unlock()

	that.post(event)
}

// post hands an event to the presentation loop without ever blocking the
// receive loop.
func (that *Client) post(event Event) {
	select {
	case that.events <- event:
	default:
		that.logger.Warn("event buffer full, dropping event", "event_type", event.Type)
	}
}
