package models

import "context"

type Encryptor interface {
	Encrypt(value string) (encrypted string, err error)
	Decrypt(value string) (decrypted string, err error)
}

type IDGenerator interface {
	ID() (string, error)
}

// TokenRepository persists the token pair of a gateway session
type TokenRepository interface {
	GetTokens(ctx context.Context, sessionID string) (TokenPair, error)
	SetTokens(ctx context.Context, sessionID string, tokens TokenPair) error
	RemoveTokens(ctx context.Context, sessionID string) error
}

type SessionRepository interface {
	SessionGetter
	SessionSetter
	SessionRemover
}

type SessionGetter interface {
	GetSession(ctx context.Context, sessionID string) (Session, error)
}

type SessionSetter interface {
	SetSession(ctx context.Context, session Session) error
}

type SessionRemover interface {
	RemoveSession(ctx context.Context, sessionID string) error
}
