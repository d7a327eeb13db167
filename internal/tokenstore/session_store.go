package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/models"
)

// SessionStore keeps the token pair of a single gateway session in a TokenRepository
type SessionStore struct {
	sessionID string
	tokenRepo models.TokenRepository
}

type SessionStoreOption func(*SessionStore) error

func WithSessionID(sessionID string) SessionStoreOption {
	return func(s *SessionStore) error {
		s.sessionID = sessionID
		return nil
	}
}

func WithTokenRepository(repo models.TokenRepository) SessionStoreOption {
	return func(s *SessionStore) error {
		s.tokenRepo = repo
		return nil
	}
}

func NewSessionStore(options ...SessionStoreOption) (*SessionStore, error) {
	s := SessionStore{}
	for _, opt := range options {
		err := opt(&s)
		if err != nil {
			return &SessionStore{}, err
		}
	}
	if s.sessionID == "" {
		return &SessionStore{}, fmt.Errorf("session ID is not initialized")
	}
	if s.tokenRepo == nil {
		return &SessionStore{}, fmt.Errorf("token repository is not initialized")
	}
	return &s, nil
}

func (s *SessionStore) SessionID() string {
	return s.sessionID
}

func (s *SessionStore) Set(ctx context.Context, tokens models.TokenPair) error {
	return s.tokenRepo.SetTokens(ctx, s.sessionID, tokens)
}

func (s *SessionStore) Get(ctx context.Context) (models.TokenPair, bool) {
	tokens, err := s.Lookup(ctx)
	if err != nil {
		if !errors.Is(err, gwerrors.ErrTokenNotFound) {
			slog.Error(
				"TOKEN STORE",
				"message",
				"reading tokens failed, treating them as absent",
				"sessionID",
				s.sessionID,
				"error",
				err,
			)
		}
		return models.TokenPair{}, false
	}
	return tokens, true
}

// Lookup reads the tokens like Get but keeps a failed read apart from absent tokens,
// which are reported as gwerrors.ErrTokenNotFound.
func (s *SessionStore) Lookup(ctx context.Context) (models.TokenPair, error) {
	tokens, err := s.tokenRepo.GetTokens(ctx, s.sessionID)
	if err != nil {
		return models.TokenPair{}, err
	}
	if tokens.Empty() {
		return models.TokenPair{}, gwerrors.ErrTokenNotFound
	}
	return tokens, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.tokenRepo.RemoveTokens(ctx, s.sessionID)
}
