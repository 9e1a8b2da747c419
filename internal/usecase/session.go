package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager - runs game sessions stored in a repository. Each call loads the record,
// applies one engine operation and writes the record back while holding that session's lock.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	now   func() time.Time
	newID func() string

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock is dropped from the map once nobody holds or waits for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo) *SessionManager {
	return &SessionManager{
		logger:      logger.With("component", "session-manager"),
		sessionRepo: sessionRepo,

		now:   time.Now,
		newID: uuid.NewString,

		locks: make(map[string]*sessionLock),
	}
}

func (that *SessionManager) CreateSession(ctx context.Context) (*entity.Session, error) {
	log := that.logger.With("method", "CreateSession")

	session := entity.NewSession(that.newID(), that.now().UTC())

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("session created", "sessionID", session.ID)

	return session, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeTurn - plays the current player's mark into cell. A rejected move returns the unchanged
// session together with the rejection error; the record is not written.
func (that *SessionManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, entity.MoveResult, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", id, "cell", cell)

	unlock := that.lock(id)
	defer unlock()

	session, controller, err := that.load(ctx, id)
	if err != nil {
		return nil, entity.MoveResult{}, err
	}

	result, err := controller.AttemptMove(cell)
	if apperror.IsRejection(err) {
		log.Info("move rejected", "reason", apperror.Reason(err))

		return session, entity.MoveResult{}, err
	}

	if err != nil {
		return nil, entity.MoveResult{}, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.save(ctx, session, controller); err != nil {
		return nil, entity.MoveResult{}, err
	}

	log.Info("move accepted", "player", result.Player, "outcome", result.Outcome)

	return session, result, nil
}

// ResetRound - clears the board and gives the first move to X. Scores are kept.
func (that *SessionManager) ResetRound(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "ResetRound", "sessionID", id)

	unlock := that.lock(id)
	defer unlock()

	session, controller, err := that.load(ctx, id)
	if err != nil {
		return nil, err
	}

	controller.Reset()

	if err = that.save(ctx, session, controller); err != nil {
		return nil, err
	}

	log.Info("round reset", "scores", session.Scores)

	return session, nil
}

func (that *SessionManager) EndSession(ctx context.Context, id string) error {
	log := that.logger.With("method", "EndSession", "sessionID", id)

	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session ended")

	return nil
}

func (that *SessionManager) load(ctx context.Context, id string) (*entity.Session, *tictactoe.GameController, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	controller, err := tictactoe.Restore(session.State, session.Scores)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}

	return session, controller, nil
}

func (that *SessionManager) save(ctx context.Context, session *entity.Session, controller *tictactoe.GameController) error {
	session.State, session.Scores = controller.Snapshot()
	session.UpdatedAt = that.now().UTC()

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *SessionManager) lock(id string) func() {
	that.locksMu.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{}
		that.locks[id] = l
	}
	l.refs++
	that.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		that.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMu.Unlock()
	}
}
