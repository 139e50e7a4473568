package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
)

func newManager(t *testing.T, secret, alg string) *Manager {
	t.Helper()
	m, err := NewManager(secret, alg, 30*time.Minute)
	require.NoError(t, err)
	return m
}

func TestManager_IssueAndParse(t *testing.T) {
	m := newManager(t, "secret", "HS256")

	raw, expiration, err := m.Issue("64b7f0c2e4b0a1a2b3c4d5e6", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiration, 5*time.Second)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2e4b0a1a2b3c4d5e6", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestManager_Parse(t *testing.T) {
	t.Run("Should reject expired tokens", func(t *testing.T) {
		m := newManager(t, "secret", "HS256")
		m.now = func() time.Time { return time.Now().Add(-time.Hour) }
		raw, _, err := m.Issue("sub", domain.RoleUser)
		require.NoError(t, err)

		m.now = time.Now
		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Should reject tokens signed with another secret", func(t *testing.T) {
		raw, _, err := newManager(t, "other", "HS256").Issue("sub", domain.RoleUser)
		require.NoError(t, err)

		_, err = newManager(t, "secret", "HS256").Parse(raw)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("Should reject tokens signed with another algorithm", func(t *testing.T) {
		raw, _, err := newManager(t, "secret", "HS512").Issue("sub", domain.RoleUser)
		require.NoError(t, err)

		_, err = newManager(t, "secret", "HS256").Parse(raw)
		assert.Error(t, err)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := newManager(t, "secret", "HS256").Parse("not-a-token")
		assert.Error(t, err)
	})
}

func TestNewManager_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewManager("secret", "RS256", time.Minute)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
