package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type sessionService interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, entity.MoveResult, error)
	ResetRound(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

// notifier forwards changes made over HTTP to the realtime clients of a session.
type notifier interface {
	BroadcastTurn(session *entity.Session, result entity.MoveResult)
	BroadcastReset(session *entity.Session)
	BroadcastEnd(id string)
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type moveResponse struct {
	Result entity.MoveResult `json:"result"`
	State  entity.GameState  `json:"state"`
	Scores entity.Scores     `json:"scores"`
}

type errorResponse struct {
	Error string            `json:"error"`
	State *entity.GameState `json:"state,omitempty"`
}

type sessionHandlers struct {
	logger   *slog.Logger
	sessions sessionService
	notifier notifier
}

func newSessionHandlers(logger *slog.Logger, sessions sessionService, notifier notifier) *sessionHandlers {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &sessionHandlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		notifier: notifier,
	}
}

func ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *sessionHandlers) create(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, "create", err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (that *sessionHandlers) get(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "get", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (that *sessionHandlers) scores(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "scores", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, session.Scores)
}

func (that *sessionHandlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	session, result, err := that.sessions.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		var state *entity.GameState
		if session != nil {
			state = &session.State
		}

		that.writeError(w, "move", err, state)
		return
	}

	that.notifier.BroadcastTurn(session, result)

	writeJSON(w, http.StatusOK, moveResponse{
		Result: result,
		State:  session.State,
		Scores: session.Scores,
	})
}

func (that *sessionHandlers) reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.ResetRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "reset", err, nil)
		return
	}

	that.notifier.BroadcastReset(session)

	writeJSON(w, http.StatusOK, session)
}

func (that *sessionHandlers) end(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := that.sessions.EndSession(r.Context(), id); err != nil {
		that.writeError(w, "end", err, nil)
		return
	}

	that.notifier.BroadcastEnd(id)

	w.WriteHeader(http.StatusNoContent)
}

func (that *sessionHandlers) writeError(w http.ResponseWriter, method string, err error, state *entity.GameState) {
	reason := apperror.Reason(err)
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: reason, State: state})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameNotActive):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type nopNotifier struct{}

func (nopNotifier) BroadcastTurn(*entity.Session, entity.MoveResult) {}
func (nopNotifier) BroadcastReset(*entity.Session)                   {}
func (nopNotifier) BroadcastEnd(string)                              {}
