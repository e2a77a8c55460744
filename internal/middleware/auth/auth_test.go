package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvaldez/character-api/internal/models"
	"github.com/hvaldez/character-api/internal/store"
	"github.com/hvaldez/character-api/internal/tokens"
)

func newMiddleware() (*Middleware, *store.RevokedTokenStore, *tokens.Service) {
	revoked := store.NewRevokedTokenStore()
	svc := tokens.NewService([]byte("test-secret"))
	return &Middleware{Tokens: svc, Revoked: revoked}, revoked, svc
}

func runAuth(t *testing.T, m *Middleware, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/characters", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := m.RequireAuth(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth_MissingToken(t *testing.T) {
	m, _, _ := newMiddleware()

	rec, reached := runAuth(t, m, "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token doesn't exist.", decodeBody(t, rec)["reason"])
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	m, revoked, svc := newMiddleware()

	user := models.User{ID: 1, Email: "a@x.com", Role: models.RoleUser}
	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	revoked.Revoke(token)

	rec, reached := runAuth(t, m, "Bearer "+token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Token has been revoked.", decodeBody(t, rec)["reason"])
}

func TestRequireAuth_RevocationCheckedBeforeVerification(t *testing.T) {
	m, revoked, _ := newMiddleware()

	// A revoked string that is not even a valid token still hits the
	// revocation branch, not the verification branch.
	revoked.Revoke("garbage")
	rec, reached := runAuth(t, m, "Bearer garbage")
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Token has been revoked.", decodeBody(t, rec)["reason"])
}

func TestRequireAuth_InvalidAndExpiredTokens(t *testing.T) {
	m, _, _ := newMiddleware()

	rec, reached := runAuth(t, m, "Bearer not-a-token")
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	expiredSvc := tokens.NewService([]byte("test-secret"))
	expiredSvc.AccessTTL = -time.Minute
	token, err := expiredSvc.IssueAccessToken(models.User{ID: 1, Email: "a@x.com", Role: models.RoleUser})
	require.NoError(t, err)

	rec, reached = runAuth(t, m, "Bearer "+token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	// Invalid is indistinguishable from revoked in the body.
	assert.Equal(t, "Token has been revoked.", decodeBody(t, rec)["reason"])
}

func TestRequireAuth_ValidTokenAttachesIdentity(t *testing.T) {
	m, _, svc := newMiddleware()

	user := models.User{ID: 42, Email: "a@x.com", Role: models.RoleAdmin}
	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/characters", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.RequireAuth(func(c echo.Context) error {
		claims, ok := CurrentUser(c)
		require.True(t, ok)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, models.RoleAdmin, claims.Role)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func runRoles(t *testing.T, claims *tokens.AccessClaims, allowed ...models.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/characters", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(userContextKey, claims)
	}

	reached := false
	handler := RequireRoles(allowed...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestRequireRoles_NoIdentity(t *testing.T) {
	rec, reached := runRoles(t, nil, models.RoleAdmin)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: No user info", decodeBody(t, rec)["message"])
}

func TestRequireRoles_RoleGating(t *testing.T) {
	userClaims := &tokens.AccessClaims{UserID: 1, Email: "a@x.com", Role: models.RoleUser}

	rec, reached := runRoles(t, userClaims, models.RoleAdmin)
	assert.False(t, reached, "user must not pass an admin-only gate")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden: Role not allowed", decodeBody(t, rec)["message"])

	rec, reached = runRoles(t, userClaims, models.RoleAdmin, models.RoleUser)
	assert.True(t, reached, "user must pass an {admin,user} gate")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, reached = runRoles(t, userClaims)
	assert.False(t, reached, "empty role set denies everyone")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
