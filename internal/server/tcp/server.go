package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
)

type matchmaker interface {
	Accept(ctx context.Context, participant game.Participant) (*game.Session, string, error)
	Disconnect(ctx context.Context, session *game.Session, participantID string)
}

// Server accepts TCP connections and runs one handler goroutine per
// connection. Each connection belongs to exactly one room for its lifetime.
type Server struct {
	logger     *slog.Logger
	matchmaker matchmaker
}

func New(logger *slog.Logger, matchmaker matchmaker) *Server {
	return &Server{
		logger:     logger.With("component", "tcp-server"),
		matchmaker: matchmaker,
	}
}

// Start - listens on addr until the context is canceled.
func (that *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	that.logger.Info("game server listening", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			return fmt.Errorf("failed to accept connection: %w", err)
		}

		go that.handleConnection(ctx, conn)
	}
}

// handleConnection - joins the connection to a room and runs its read loop
// until the socket drops.
func (that *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connection := newConnection(that.logger, conn)

	session, mark, err := that.matchmaker.Accept(ctx, connection)
	if err != nil {
		that.logger.Error("failed to accept connection", "error", err)
		return
	}

	go connection.writeLoop()
	defer close(connection.done)

	defer that.matchmaker.Disconnect(ctx, session, connection.ID())

	connection.readLoop(ctx, session, mark)
}
