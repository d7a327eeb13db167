package sessions

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cinebook/booking-gateway/internal/models"
)

type SessionMaker interface {
	NewSession() (models.Session, error)
}

type SessionMakerImpl struct {
	idleSessionTTLSeconds int
	maxSessionTTLSeconds  int
	idGenerator           models.IDGenerator
}

func (sm *SessionMakerImpl) NewSession() (models.Session, error) {
	id, err := sm.idGenerator.ID()
	if err != nil {
		return models.Session{}, err
	}
	session := models.Session{
		ID:             id,
		CreatedAt:      time.Now().UTC(),
		IdleTTLSeconds: models.SerializableInt(sm.idleSessionTTLSeconds),
		MaxTTLSeconds:  models.SerializableInt(sm.maxSessionTTLSeconds),
	}
	session.Touch()
	slog.Debug("NEW SESSION", "message", "session created", "expiresAt", session.ExpiresAt)
	return session, nil
}

type SessionMakerOption func(*SessionMakerImpl) error

func WithIdleSessionTTLSeconds(s int) SessionMakerOption {
	return func(sm *SessionMakerImpl) error {
		sm.idleSessionTTLSeconds = s
		return nil
	}
}

func WithMaxSessionTTLSeconds(s int) SessionMakerOption {
	return func(sm *SessionMakerImpl) error {
		sm.maxSessionTTLSeconds = s
		return nil
	}
}

func WithSessionIDGenerator(g models.IDGenerator) SessionMakerOption {
	return func(sm *SessionMakerImpl) error {
		sm.idGenerator = g
		return nil
	}
}

func NewSessionMaker(options ...SessionMakerOption) (SessionMaker, error) {
	sm := SessionMakerImpl{idGenerator: models.NewRandomGenerator(24)}
	for _, opt := range options {
		err := opt(&sm)
		if err != nil {
			return nil, err
		}
	}
	if sm.idleSessionTTLSeconds <= 0 {
		return nil, fmt.Errorf("idle session TTL is not initialized")
	}
	if sm.idGenerator == nil {
		return nil, fmt.Errorf("session ID generator is not initialized")
	}
	return &sm, nil
}
