package model

// PlayerKind tells whether a seat is played by a person or the external engine.
type PlayerKind string

const (
	PlayerHuman  PlayerKind = "human"
	PlayerEngine PlayerKind = "engine"
)

type Player struct {
	ID   string
	Kind PlayerKind
}

// ClientPlayer is the seat as shown to clients. TimeLeft is in tenths of a second.
type ClientPlayer struct {
	ID       string     `json:"id"`
	Color    Color      `json:"color"`
	Kind     PlayerKind `json:"kind"`
	TimeLeft int        `json:"timeLeft"`
}

func (p ClientPlayer) seated() bool {
	return p.ID != ""
}

// MatchFoundEvent is pushed to a queued player once they are paired.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
