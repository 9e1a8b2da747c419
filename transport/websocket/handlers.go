package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/keymap"
)

func (that *Server) handleState(ctx context.Context, c *client, _ *Message) error {
	session, err := that.sessions.GetSession(ctx, c.sessionID)
	if err != nil {
		c.trySend(newMessage(actionError, ErrorPayload{Error: apperror.Reason(err)}))
		return fmt.Errorf("failed to get session: %w", err)
	}

	c.trySend(newMessage(actionSessionState, statePayload(session, nil)))

	return nil
}

func (that *Server) handleTurn(ctx context.Context, c *client, msg *Message) error {
	var req turnRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.Cell == nil {
		c.trySend(newMessage(actionError, ErrorPayload{Error: "cell is required"}))
		return nil
	}

	return that.turn(ctx, c, *req.Cell)
}

func (that *Server) handleReset(ctx context.Context, c *client, _ *Message) error {
	c.room.op.Lock()
	defer c.room.op.Unlock()

	session, err := that.sessions.ResetRound(ctx, c.sessionID)
	if err != nil {
		c.trySend(newMessage(actionError, ErrorPayload{Error: apperror.Reason(err)}))
		return fmt.Errorf("failed to reset round: %w", err)
	}

	that.hub.broadcastReset(session)

	return nil
}

// handleKey - keyboard input forwarded from the page: digits play, r resets, Escape
// dismisses the result dialog, anything else is dropped.
func (that *Server) handleKey(ctx context.Context, c *client, msg *Message) error {
	var req keyRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.trySend(newMessage(actionError, ErrorPayload{Error: "key is required"}))
		return nil
	}

	command := keymap.Translate(req.Key)
	that.logger.Debug("key pressed", "sessionID", c.sessionID, "key", req.Key, "command", command.Kind.String())

	switch command.Kind {
	case keymap.Move:
		return that.turn(ctx, c, command.Cell)
	case keymap.Reset:
		return that.handleReset(ctx, c, msg)
	case keymap.Dismiss:
		that.hub.broadcastDismiss(c.sessionID)
	case keymap.Ignore:
	}

	return nil
}

// turn - a rejected move is reported only to the sender; the game is unchanged.
func (that *Server) turn(ctx context.Context, c *client, cell int) error {
	c.room.op.Lock()
	defer c.room.op.Unlock()

	session, result, err := that.sessions.MakeTurn(ctx, c.sessionID, cell)
	if apperror.IsRejection(err) {
		payload := ErrorPayload{Error: apperror.Reason(err)}
		if session != nil {
			payload.State = &session.State
		}

		c.trySend(newMessage(actionError, payload))

		return nil
	}

	if err != nil {
		c.trySend(newMessage(actionError, ErrorPayload{Error: apperror.Reason(err)}))
		return fmt.Errorf("failed to make turn: %w", err)
	}

	that.hub.broadcastTurn(session, result)

	return nil
}
