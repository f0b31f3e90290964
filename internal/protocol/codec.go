package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

// Codec frames messages as newline-delimited JSON over a byte stream. TCP
// does not preserve message boundaries, so the delimiter is part of the
// protocol contract.
type Codec struct {
	reader *bufio.Reader

	mu     sync.Mutex
	writer *bufio.Writer
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		reader: bufio.NewReader(rw),
		writer: bufio.NewWriter(rw),
	}
}

// Read - blocks until one full message is available. A malformed or unknown
// message is reported as apperror.ErrProtocol; socket errors and EOF are
// returned as-is.
func (that *Codec) Read() (Message, error) {
	line, err := that.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	message, err := Decode(line)
	if err != nil {
		return nil, err
	}

	return message, nil
}

// Write - encodes one message and flushes it to the stream.
func (that *Codec) Write(message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err = that.writer.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = that.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush message: %w", err)
	}

	return nil
}

// Decode - parses one frame into its concrete message type.
func Decode(data []byte) (Message, error) {
	var envelope struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrProtocol, err)
	}

	var message Message

	switch envelope.Type {
	case TypeAssignSymbol:
		message = &AssignSymbol{}
	case TypeGameStart:
		message = &GameStart{}
	case TypeMove:
		message = &Move{}
	case TypeMoveMade:
		message = &MoveMade{}
	case TypeTurnChange:
		message = &TurnChange{}
	case TypeGameOver:
		message = &GameOver{}
	case TypeReset:
		message = &Reset{}
	case TypeGameReset:
		message = &GameReset{}
	case TypeOpponentDisconnected:
		message = &OpponentDisconnected{}
	case TypeError:
		message = &Error{}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", apperror.ErrProtocol, envelope.Type)
	}

	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrProtocol, err)
	}

	return message, nil
}
