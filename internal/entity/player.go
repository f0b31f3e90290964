package entity

// Player describes one participant of a room as stored in snapshots.
type Player struct {
	ID   string `json:"id"`
	Mark string `json:"mark,omitempty"`
}

// Room statuses as they appear in snapshots.
const (
	StatusWaiting    = "waiting"
	StatusPlaying    = "playing"
	StatusTerminated = "terminated"
)

// Room is the persisted view of one session: the board, whose turn it is,
// the lifecycle status, the participants and the running score per mark.
type Room struct {
	ID      int64          `json:"id"`
	Board   Board          `json:"board"`
	Turn    string         `json:"turn"`
	Status  string         `json:"status"`
	Players []*Player      `json:"players,omitempty"`
	Scores  map[string]int `json:"scores,omitempty"`
}
