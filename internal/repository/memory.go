package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

type memorySession struct {
	mu      sync.RWMutex
	records map[string][]byte
	touched map[string]time.Time

	ttl time.Duration
	now func() time.Time
}

// NewMemorySessionRepository - keeps sessions in process memory. Records idle longer than ttl
// are dropped on the next access; zero ttl keeps them forever.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memorySession {
	return &memorySession{
		records: make(map[string][]byte),
		touched: make(map[string]time.Time),
		ttl:     ttl,
		now:     now,
	}
}

// Records are kept encoded so callers never share memory with the store.
func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.records[session.ID] = sessionJSON
	that.touched[session.ID] = that.now()

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	sessionJSON, ok := that.records[id]
	expired := ok && that.expiredLocked(id)
	that.mu.RUnlock()

	if expired {
		that.drop(id)
		return nil, apperror.ErrSessionNotFound
	}

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	var session entity.Session
	if err := json.Unmarshal(sessionJSON, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.records[id]; !ok || that.expiredLocked(id) {
		that.deleteLocked(id)
		return apperror.ErrSessionNotFound
	}

	that.deleteLocked(id)

	return nil
}

func (that *memorySession) expiredLocked(id string) bool {
	if that.ttl <= 0 {
		return false
	}

	return that.now().Sub(that.touched[id]) >= that.ttl
}

func (that *memorySession) drop(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.expiredLocked(id) {
		that.deleteLocked(id)
	}
}

func (that *memorySession) deleteLocked(id string) {
	delete(that.records, id)
	delete(that.touched, id)
}
