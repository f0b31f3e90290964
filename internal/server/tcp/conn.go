package tcp

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
	"github.com/rocketscienceinc/tictactoe-arena/internal/protocol"
)

const outboundBuffer = 64

// connection is the per-socket handler. Inbound messages are read on the
// handler goroutine; session broadcasts are enqueued on the outbound channel
// and written by a dedicated writer goroutine, so a peer's move can produce
// output on this socket without touching the reader.
type connection struct {
	id     string
	logger *slog.Logger
	conn   net.Conn
	codec  *protocol.Codec

	outbound chan protocol.Message
	done     chan struct{}
	dead     chan struct{}
}

func newConnection(logger *slog.Logger, conn net.Conn) *connection {
	id := uuid.NewString()

	return &connection{
		id:       id,
		logger:   logger.With("component", "connection", "connection_id", id),
		conn:     conn,
		codec:    protocol.NewCodec(conn),
		outbound: make(chan protocol.Message, outboundBuffer),
		done:     make(chan struct{}),
		dead:     make(chan struct{}),
	}
}

func (that *connection) ID() string {
	return that.id
}

// Send - enqueues a message for delivery in FIFO order. Never blocks: when
// the connection is shutting down, its socket already failed, or a stalled
// peer filled the buffer, the message is dropped instead.
func (that *connection) Send(message protocol.Message) {
	select {
	case that.outbound <- message:
	case <-that.done:
	case <-that.dead:
	default:
		that.logger.Warn("dropping message for stalled connection", "message_type", message.MessageType())
	}
}

// writeLoop drains the outbound channel onto the socket until the handler
// closes done.
func (that *connection) writeLoop() {
	for {
		select {
		case <-that.done:
			return
		case message := <-that.outbound:
			if err := that.codec.Write(message); err != nil {
				that.logger.Error("failed to write message", "error", err)
				close(that.dead)
				that.drain()

				return
			}
		}
	}
}

// drain keeps the outbound channel from backing up after a write failure,
// discarding messages until the handler shuts the connection down.
func (that *connection) drain() {
	for {
		select {
		case <-that.done:
			return
		case <-that.outbound:
		}
	}
}

// readLoop decodes inbound messages and dispatches them to the session.
// Malformed messages are dropped; only socket errors end the loop.
func (that *connection) readLoop(ctx context.Context, session *game.Session, mark string) {
	log := that.logger.With("room_id", session.ID(), "mark", mark)

	for {
		message, err := that.codec.Read()
		if err != nil {
			if errors.Is(err, apperror.ErrProtocol) {
				log.Warn("dropping malformed message", "error", err)
				continue
			}

			log.Info("connection closed", "error", err)

			return
		}

		switch inbound := message.(type) {
		case *protocol.Move:
			if err = session.Move(ctx, mark, inbound.Row, inbound.Col); err != nil {
				log.Warn("move rejected", "error", err)
				that.Send(protocol.NewError(rejectionMessage(err)))
			}
		case *protocol.Reset:
			if err = session.Reset(ctx); err != nil {
				log.Warn("reset rejected", "error", err)
				that.Send(protocol.NewError(rejectionMessage(err)))
			}
		default:
			log.Warn("dropping unexpected message", "message_type", message.MessageType())
		}
	}
}

// rejectionMessage maps a rejection to the text shown to the offending
// client.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "Not your turn!"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "Cell already taken!"
	case errors.Is(err, apperror.ErrCellOutOfRange):
		return "Cell is out of range!"
	case errors.Is(err, apperror.ErrGameNotStarted):
		return "Waiting for an opponent!"
	case errors.Is(err, apperror.ErrSessionTerminated):
		return "Session is terminated!"
	default:
		return err.Error()
	}
}
