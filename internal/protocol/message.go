package protocol

// Wire message types. One JSON object per line, discriminated by "type".
const (
	TypeAssignSymbol         = "assign_symbol"
	TypeGameStart            = "game_start"
	TypeMove                 = "move"
	TypeMoveMade             = "move_made"
	TypeTurnChange           = "turn_change"
	TypeGameOver             = "game_over"
	TypeReset                = "reset"
	TypeGameReset            = "game_reset"
	TypeOpponentDisconnected = "opponent_disconnected"
	TypeError                = "error"
)

// Message is one logical unit of the wire protocol.
type Message interface {
	MessageType() string
}

// AssignSymbol - server to client, right after the connection is accepted.
type AssignSymbol struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
	RoomID int64  `json:"room_id"`
}

func NewAssignSymbol(symbol string, roomID int64) *AssignSymbol {
	return &AssignSymbol{Type: TypeAssignSymbol, Symbol: symbol, RoomID: roomID}
}

func (that *AssignSymbol) MessageType() string { return TypeAssignSymbol }

// GameStart - server to both clients once the room is full. Turn is true for
// the recipient that moves first.
type GameStart struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Turn    bool   `json:"turn"`
}

func NewGameStart(message string, turn bool) *GameStart {
	return &GameStart{Type: TypeGameStart, Message: message, Turn: turn}
}

func (that *GameStart) MessageType() string { return TypeGameStart }

// Move - client to server.
type Move struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

func NewMove(row, col int) *Move {
	return &Move{Type: TypeMove, Row: row, Col: col}
}

func (that *Move) MessageType() string { return TypeMove }

// MoveMade - server to both clients after an accepted move.
type MoveMade struct {
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Symbol string `json:"symbol"`
}

func NewMoveMade(row, col int, symbol string) *MoveMade {
	return &MoveMade{Type: TypeMoveMade, Row: row, Col: col, Symbol: symbol}
}

func (that *MoveMade) MessageType() string { return TypeMoveMade }

// TurnChange - server to both clients; the mark that may move next.
type TurnChange struct {
	Type string `json:"type"`
	Turn string `json:"turn"`
}

func NewTurnChange(turn string) *TurnChange {
	return &TurnChange{Type: TypeTurnChange, Turn: turn}
}

func (that *TurnChange) MessageType() string { return TypeTurnChange }

// GameOver - server to both clients; winner is "X", "O" or "draw".
type GameOver struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
}

func NewGameOver(winner string) *GameOver {
	return &GameOver{Type: TypeGameOver, Winner: winner}
}

func (that *GameOver) MessageType() string { return TypeGameOver }

// Reset - client to server, asks for a fresh round.
type Reset struct {
	Type string `json:"type"`
}

func NewReset() *Reset {
	return &Reset{Type: TypeReset}
}

func (that *Reset) MessageType() string { return TypeReset }

// GameReset - server to both clients after an explicit reset.
type GameReset struct {
	Type string `json:"type"`
}

func NewGameReset() *GameReset {
	return &GameReset{Type: TypeGameReset}
}

func (that *GameReset) MessageType() string { return TypeGameReset }

// OpponentDisconnected - server to the remaining client of a torn down room.
type OpponentDisconnected struct {
	Type string `json:"type"`
}

func NewOpponentDisconnected() *OpponentDisconnected {
	return &OpponentDisconnected{Type: TypeOpponentDisconnected}
}

func (that *OpponentDisconnected) MessageType() string { return TypeOpponentDisconnected }

// Error - server to the offending client only.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) *Error {
	return &Error{Type: TypeError, Message: message}
}

func (that *Error) MessageType() string { return TypeError }
