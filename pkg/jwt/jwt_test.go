package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.GenerateToken(userID, "qa@bakery.test", "QA", "QA_MANAGER", []string{"trace:view"}, "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"trace:view"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewManager("a", time.Hour).GenerateToken(uuid.New(), "x@y.z", "x", "", nil, "")
	require.NoError(t, err)

	_, err = NewManager("b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("s", -time.Minute)
	token, err := m.GenerateToken(uuid.New(), "x@y.z", "x", "", nil, "")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
