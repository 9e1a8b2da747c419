package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	sendBufferSize      = 16
	defaultPingInterval = 30 * time.Second
)

type sessionService interface {
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, entity.MoveResult, error)
	ResetRound(ctx context.Context, id string) (*entity.Session, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger   *slog.Logger
	sessions sessionService

	hub          *hub
	upgrader     websocket.Upgrader
	pingInterval time.Duration

	handlers map[string]handlerFunc
}

// New - creates the realtime adapter. resultDelay is the pause between the final move of a
// round and the game:result message.
func New(logger *slog.Logger, sessions sessionService, resultDelay time.Duration) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,

		hub: newHub(resultDelay),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		pingInterval: defaultPingInterval,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionSessionState] = server.handleState
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionKey] = server.handleKey

	return server
}

// Routes - mounts the endpoint on a router.
func (that *Server) Routes(router chi.Router) {
	router.Get("/ws", that.ServeHTTP)
}

// ServeHTTP - upgrades GET /ws?session=<id> and serves the connection until it closes.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	log := that.logger.With("method", "ServeHTTP", "sessionID", sessionID)

	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	session, err := that.sessions.GetSession(r.Context(), sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, apperror.ReasonSessionNotFound, http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(sessionID)
	that.hub.register(c)
	c.trySend(newMessage(actionSessionState, statePayload(session, nil)))

	log.Info("WebSocket connection established")

	go func() {
		defer conn.Close()

		if err := that.writeWithHeartbeat(conn, c.send); err != nil {
			log.Debug("writer stopped", "error", err)
		}
	}()

	that.handleMessages(r.Context(), conn, c)

	that.hub.unregister(c)
	c.close()
	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, c *client) {
	log := that.logger.With("method", "handleMessages", "sessionID", c.sessionID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("connection lost", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			c.trySend(newMessage(actionError, ErrorPayload{Error: "invalid message"}))
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			c.trySend(newMessage(actionError, ErrorPayload{Error: "unknown action"}))
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// writeWithHeartbeat - drains send into the connection; an idle connection gets a ping message.
func (that *Server) writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(that.pingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()
	ping := newMessage(actionPing, nil)

	for {
		select {
		case data, ok := <-send:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < that.pingInterval {
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

// BroadcastTurn - sends an accepted move made elsewhere to the session's clients.
func (that *Server) BroadcastTurn(session *entity.Session, result entity.MoveResult) {
	that.hub.broadcastTurn(session, result)
}

func (that *Server) BroadcastReset(session *entity.Session) {
	that.hub.broadcastReset(session)
}

// BroadcastEnd - closes every connection of an ended session.
func (that *Server) BroadcastEnd(id string) {
	that.hub.close(id)
}
