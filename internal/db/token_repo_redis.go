package db

import (
	"context"
	"log/slog"

	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/models"
)

const tokensPrefix string = "tokens"

// storedTokens is the redis hash layout of a token pair
type storedTokens struct {
	Access  string
	Refresh string
}

// GetTokens reads the token pair of a session, decrypting it if necessary
func (r RedisAdapter) GetTokens(ctx context.Context, sessionID string) (models.TokenPair, error) {
	var stored storedTokens
	err := r.readHash(ctx, r.tokensKey(sessionID), &stored)
	if err != nil {
		if err == gwerrors.ErrMissingDBResource {
			err = gwerrors.ErrTokenNotFound
		}
		return models.TokenPair{}, err
	}
	access, err := r.decrypt(stored.Access)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := r.decrypt(stored.Refresh)
	if err != nil {
		return models.TokenPair{}, err
	}
	tokens := models.TokenPair{Access: access, Refresh: refresh}
	if tokens.Empty() {
		return models.TokenPair{}, gwerrors.ErrTokenNotFound
	}
	return tokens, nil
}

// SetTokens replaces the token pair of a session
func (r RedisAdapter) SetTokens(ctx context.Context, sessionID string, tokens models.TokenPair) error {
	access, err := r.encrypt(tokens.Access)
	if err != nil {
		return err
	}
	refresh, err := r.encrypt(tokens.Refresh)
	if err != nil {
		return err
	}
	slog.Debug(
		"TOKEN STORE",
		"message",
		"saving tokens",
		"sessionID",
		sessionID,
		"tokens",
		tokens,
	)
	return r.writeHash(ctx, r.tokensKey(sessionID), storedTokens{Access: access, Refresh: refresh})
}

func (r RedisAdapter) RemoveTokens(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, r.tokensKey(sessionID)).Err()
}

func (r RedisAdapter) encrypt(val string) (string, error) {
	if r.encryptor == nil || val == "" {
		return val, nil
	}
	return r.encryptor.Encrypt(val)
}

func (r RedisAdapter) decrypt(val string) (string, error) {
	if r.encryptor == nil || val == "" {
		return val, nil
	}
	return r.encryptor.Decrypt(val)
}

func (RedisAdapter) tokensKey(sessionID string) string {
	return redisKey(tokensPrefix, sessionID)
}
