package service

import (
	"context"
	"sync"
	"time"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/repository"
	"github.com/evetabi/raceledger/internal/storage"
)

// SessionService keeps the single local operator session. There is no
// authentication: starting a session only records who is at the desk and
// since when.
type SessionService struct {
	mu  sync.Mutex
	gw  repository.Gateway
	now func() time.Time
}

// NewSessionService creates a SessionService persisting through gw. A nil
// now uses time.Now.
func NewSessionService(gw repository.Gateway, now func() time.Time) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{gw: gw, now: now}
}

// Start records a new session for userID, replacing any previous one.
func (s *SessionService) Start(ctx context.Context, userID string) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := domain.Session{UserID: userID, StartTime: s.now().UTC()}
	s.gw.Put(ctx, storage.KeySession, sess)
	return sess
}

// Get returns the active session.
func (s *SessionService) Get(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess domain.Session
	if !s.gw.Get(ctx, storage.KeySession, &sess) || sess.UserID == "" {
		return domain.Session{}, domain.ErrNoSession
	}
	return sess, nil
}

// End clears the active session. Ending when none is active is a no-op.
func (s *SessionService) End(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gw.Delete(ctx, storage.KeySession)
}
