package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionExpired(t *testing.T) {
	session := Session{CreatedAt: time.Now().UTC(), IdleTTLSeconds: 3600}
	session.Touch()
	assert.False(t, session.Expired())
	session.ExpiresAt = time.Now().UTC().Add(-8 * time.Hour)
	assert.True(t, session.Expired())
}

func TestSessionTouchIsCappedByMaxTTL(t *testing.T) {
	createdAt := time.Now().UTC().Add(-50 * time.Minute)
	session := Session{CreatedAt: createdAt, IdleTTLSeconds: 3600, MaxTTLSeconds: 3600}

	session.Touch()

	assert.Equal(t, createdAt.Add(time.Hour), session.ExpiresAt)
}

func TestSessionTouchWithoutMaxTTL(t *testing.T) {
	session := Session{CreatedAt: time.Now().UTC().Add(-48 * time.Hour), IdleTTLSeconds: 60}

	session.Touch()

	assert.False(t, session.Expired())
	assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), session.ExpiresAt, 5*time.Second)
}
