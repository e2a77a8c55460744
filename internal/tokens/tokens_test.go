package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvaldez/character-api/internal/models"
)

var testUser = models.User{
	ID:    1700000000000,
	Email: "a@x.com",
	Role:  models.RoleUser,
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc := NewService([]byte("test-secret"))

	token, err := svc.IssueAccessToken(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
	assert.NotEmpty(t, claims.ID, "jti must be set")
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	svc := NewService([]byte("test-secret"))

	access, err := svc.IssueAccessToken(testUser)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(testUser.ID)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	// Same user, same instant: jti keeps the strings distinct.
	again, err := svc.IssueAccessToken(testUser)
	require.NoError(t, err)
	assert.NotEqual(t, access, again)
}

func TestVerifyAccess_Expired(t *testing.T) {
	svc := NewService([]byte("test-secret"))
	svc.AccessTTL = -time.Minute

	token, err := svc.IssueAccessToken(testUser)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	svc := NewService([]byte("test-secret"))
	other := NewService([]byte("other-secret"))

	token, err := other.IssueAccessToken(testUser)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccess_Garbage(t *testing.T) {
	svc := NewService([]byte("test-secret"))

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.VerifyAccess(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
