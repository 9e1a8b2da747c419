package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	actionSessionState = "session:state"
	actionSessionEnd   = "session:end"
	actionTurn         = "game:turn"
	actionReset        = "game:reset"
	actionKey          = "game:key"
	actionResult       = "game:result"
	actionDismiss      = "game:dismiss"
	actionError        = "error"
	actionPing         = "ping"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type keyRequest struct {
	Key string `json:"key"`
}

type StatePayload struct {
	SessionID string             `json:"session_id"`
	State     entity.GameState   `json:"state"`
	Scores    entity.Scores      `json:"scores"`
	Result    *entity.MoveResult `json:"result,omitempty"`
	Status    string             `json:"status_text"`
	ScoreLine string             `json:"score_text"`
}

type ResultPayload struct {
	Message     string       `json:"message"`
	Winner      entity.Mark  `json:"winner,omitempty"`
	WinningLine *entity.Line `json:"winning_line,omitempty"`
}

type ErrorPayload struct {
	Error string            `json:"error"`
	State *entity.GameState `json:"state,omitempty"`
}

func newMessage(action string, payload any) []byte {
	message := Message{Action: action}
	if payload != nil {
		message.Payload = mustMarshal(payload)
	}

	return mustMarshal(message)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
