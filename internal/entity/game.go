package entity

import "time"

// GameState is a read-only snapshot of one round.
type GameState struct {
	Board       [BoardSize]Mark `json:"board"`
	Turn        Mark            `json:"player_turn"`
	Status      Status          `json:"status"`
	Winner      Mark            `json:"winner,omitempty"`
	WinningLine *Line           `json:"winning_line,omitempty"`
}

// InitialState - the state of every round before the first move.
func InitialState() GameState {
	return GameState{
		Board:  [BoardSize]Mark{},
		Turn:   PlayerX,
		Status: StatusInProgress,
	}
}

func (that GameState) IsActive() bool {
	return that.Status == StatusInProgress
}

func (that GameState) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusTied
}

type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeWin      Outcome = "win"
	OutcomeTie      Outcome = "tie"
)

// MoveResult describes an accepted move.
type MoveResult struct {
	Outcome     Outcome `json:"outcome"`
	Cell        int     `json:"cell"`
	Player      Mark    `json:"player"`
	NextPlayer  Mark    `json:"next_player,omitempty"`
	Winner      Mark    `json:"winner,omitempty"`
	WinningLine *Line   `json:"winning_line,omitempty"`
}

func (that MoveResult) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeTie
}

// Session is the stored form of a game session: the current round plus the tally.
type Session struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	Scores    Scores    `json:"scores"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     InitialState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
