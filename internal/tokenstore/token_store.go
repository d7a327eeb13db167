// Package tokenstore holds the access and refresh token pair of one backend client.
package tokenstore

import (
	"context"
	"sync"

	"github.com/cinebook/booking-gateway/internal/models"
)

// Store is the persistent home of one token pair. Get never fails, absence is reported as false.
type Store interface {
	Set(ctx context.Context, tokens models.TokenPair) error
	Get(ctx context.Context) (models.TokenPair, bool)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token pair in process memory
type MemoryStore struct {
	lock   sync.RWMutex
	tokens models.TokenPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Set(_ context.Context, tokens models.TokenPair) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.tokens = tokens
	return nil
}

func (m *MemoryStore) Get(_ context.Context) (models.TokenPair, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.tokens.Empty() {
		return models.TokenPair{}, false
	}
	return m.tokens, true
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.tokens = models.TokenPair{}
	return nil
}
