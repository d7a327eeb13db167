package db

import (
	"context"
	"time"

	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/models"
)

const (
	sessionPrefix string = "session"
)

const sessionExpiresAtLeeway time.Duration = 10 * time.Second

func (r RedisAdapter) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	output := models.Session{}
	err := r.readHash(ctx, r.sessionKey(sessionID), &output)
	if err != nil {
		if err == gwerrors.ErrMissingDBResource {
			err = gwerrors.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return output, nil
}

// SetSession writes the session and aligns the expiry of the session tokens with it
func (r RedisAdapter) SetSession(ctx context.Context, session models.Session) error {
	key := r.sessionKey(session.ID)
	err := r.writeHash(ctx, key, session)
	if err != nil {
		return err
	}
	expiresAt := session.ExpiresAt.Add(sessionExpiresAtLeeway)
	err = r.rdb.ExpireAt(ctx, key, expiresAt).Err()
	if err != nil {
		return err
	}
	return r.rdb.ExpireAt(ctx, r.tokensKey(session.ID), expiresAt).Err()
}

// RemoveSession deletes the session together with its tokens
func (r RedisAdapter) RemoveSession(ctx context.Context, sessionID string) error {
	return r.rdb.Del(
		ctx,
		r.sessionKey(sessionID),
		r.tokensKey(sessionID),
	).Err()
}

func (RedisAdapter) sessionKey(sessionID string) string {
	return redisKey(sessionPrefix, sessionID)
}
