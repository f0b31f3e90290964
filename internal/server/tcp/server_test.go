package tcp

import (
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
	"github.com/rocketscienceinc/tictactoe-arena/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopStore struct{}

func (noopStore) CreateOrUpdate(_ context.Context, _ *entity.Room) error { return nil }
func (noopStore) DeleteByID(_ context.Context, _ int64) error            { return nil }

type testClient struct {
	conn  net.Conn
	codec *protocol.Codec
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// connect wires a pipe into the server as if it had been accepted.
func connect(t *testing.T, server *Server) *testClient {
	t.Helper()

	clientSide, serverSide := net.Pipe()
	go server.handleConnection(context.Background(), serverSide)

	t.Cleanup(func() {
		clientSide.Close()
	})

	return &testClient{conn: clientSide, codec: protocol.NewCodec(clientSide)}
}

func (that *testClient) read(t *testing.T) protocol.Message {
	t.Helper()

	require.NoError(t, that.conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	message, err := that.codec.Read()
	require.NoError(t, err)

	return message
}

func (that *testClient) expectSilence(t *testing.T) {
	t.Helper()

	require.NoError(t, that.conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))

	message, err := that.codec.Read()
	require.Error(t, err, "expected no message, got %+v", message)

	require.NoError(t, that.conn.SetReadDeadline(time.Time{}))
}

func (that *testClient) write(t *testing.T, message protocol.Message) {
	t.Helper()

	require.NoError(t, that.codec.Write(message))
}

func TestServer_EndToEnd(t *testing.T) {
	server := New(testLogger(), game.NewMatchmaker(testLogger(), noopStore{}))

	// Given: client A connects and is assigned X in room 0
	clientA := connect(t, server)

	assignA, ok := clientA.read(t).(*protocol.AssignSymbol)
	require.True(t, ok)
	assert.Equal(t, entity.PlayerX, assignA.Symbol)
	assert.Equal(t, int64(0), assignA.RoomID)

	// And: client B connects, is assigned O and the game starts
	clientB := connect(t, server)

	assignB, ok := clientB.read(t).(*protocol.AssignSymbol)
	require.True(t, ok)
	assert.Equal(t, entity.PlayerO, assignB.Symbol)
	assert.Equal(t, int64(0), assignB.RoomID)

	startA, ok := clientA.read(t).(*protocol.GameStart)
	require.True(t, ok)
	assert.True(t, startA.Turn)

	startB, ok := clientB.read(t).(*protocol.GameStart)
	require.True(t, ok)
	assert.False(t, startB.Turn)

	// When: A moves to (0, 0)
	clientA.write(t, protocol.NewMove(0, 0))

	// Then: both clients see the move, then the turn handover to O
	for _, client := range []*testClient{clientA, clientB} {
		assert.Equal(t, protocol.NewMoveMade(0, 0, entity.PlayerX), client.read(t))
		assert.Equal(t, protocol.NewTurnChange(entity.PlayerO), client.read(t))
	}

	// When: B aims at the occupied cell
	clientB.write(t, protocol.NewMove(0, 0))

	// Then: B alone receives an error
	errorB, ok := clientB.read(t).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, "Cell already taken!", errorB.Message)
	clientA.expectSilence(t)

	// When: B plays a legal move
	clientB.write(t, protocol.NewMove(1, 1))

	// Then: both see it and the turn goes back to X
	for _, client := range []*testClient{clientA, clientB} {
		assert.Equal(t, protocol.NewMoveMade(1, 1, entity.PlayerO), client.read(t))
		assert.Equal(t, protocol.NewTurnChange(entity.PlayerX), client.read(t))
	}
}

func TestServer_RejectsOutOfTurnMove(t *testing.T) {
	server := New(testLogger(), game.NewMatchmaker(testLogger(), noopStore{}))

	clientA := connect(t, server)
	clientB := connect(t, server)

	clientA.read(t) // assign_symbol
	clientB.read(t) // assign_symbol
	clientA.read(t) // game_start
	clientB.read(t) // game_start

	// When: O moves while it is X's turn
	clientB.write(t, protocol.NewMove(2, 2))

	// Then: only O hears about it
	errorB, ok := clientB.read(t).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, "Not your turn!", errorB.Message)
	clientA.expectSilence(t)
}

func TestServer_MalformedMessageIsDropped(t *testing.T) {
	server := New(testLogger(), game.NewMatchmaker(testLogger(), noopStore{}))

	clientA := connect(t, server)
	clientB := connect(t, server)

	clientA.read(t) // assign_symbol
	clientB.read(t) // assign_symbol
	clientA.read(t) // game_start
	clientB.read(t) // game_start

	// When: A sends garbage and then a valid move
	_, err := clientA.conn.Write([]byte("this is not json\n"))
	require.NoError(t, err)
	clientA.write(t, protocol.NewMove(1, 1))

	// Then: the garbage is dropped and the move still goes through
	assert.Equal(t, protocol.NewMoveMade(1, 1, entity.PlayerX), clientA.read(t))
}

func TestServer_DisconnectNotifiesPeer(t *testing.T) {
	server := New(testLogger(), game.NewMatchmaker(testLogger(), noopStore{}))

	clientA := connect(t, server)
	clientB := connect(t, server)

	clientA.read(t) // assign_symbol
	clientB.read(t) // assign_symbol
	clientA.read(t) // game_start
	clientB.read(t) // game_start

	// When: B drops mid game
	require.NoError(t, clientB.conn.Close())

	// Then: A is told exactly once
	assert.Equal(t, protocol.NewOpponentDisconnected(), clientA.read(t))

	// And: further moves into the terminated room fail
	clientA.write(t, protocol.NewMove(0, 0))

	errorA, ok := clientA.read(t).(*protocol.Error)
	require.True(t, ok)
	assert.Equal(t, "Session is terminated!", errorA.Message)
}
