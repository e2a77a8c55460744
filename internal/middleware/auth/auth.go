package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hvaldez/character-api/internal/models"
	"github.com/hvaldez/character-api/internal/store"
	"github.com/hvaldez/character-api/internal/tokens"
)

const (
	userContextKey  = "user"
	tokenContextKey = "token"
)

// Middleware authenticates requests from the Authorization header.
type Middleware struct {
	Tokens  *tokens.Service
	Revoked *store.RevokedTokenStore
}

// BearerToken extracts the raw token from "Authorization: Bearer <t>".
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth decides whether the request carries a valid, non-revoked
// identity. The revocation set is consulted before cryptographic
// verification, and revoked and merely-invalid tokens get the same
// response body so revocation-list membership never leaks.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := BearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"message": "Unauthorized",
				"reason":  "Token doesn't exist.",
			})
		}

		if m.Revoked.IsRevoked(token) {
			return c.JSON(http.StatusForbidden, echo.Map{
				"message": "Forbidden",
				"reason":  "Token has been revoked.",
			})
		}

		claims, err := m.Tokens.VerifyAccess(token)
		if err != nil {
			return c.JSON(http.StatusForbidden, echo.Map{
				"message": "Forbidden",
				"reason":  "Token has been revoked.",
			})
		}

		c.Set(userContextKey, claims)
		c.Set(tokenContextKey, token)
		return next(c)
	}
}

// RequireRoles permits the request only when an authenticated identity
// is present and its role is in the allowed set. It trusts the
// identity attached by RequireAuth and must run after it.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "Unauthorized: No user info",
				})
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{
				"message": "Forbidden: Role not allowed",
			})
		}
	}
}

func CurrentUser(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(userContextKey).(*tokens.AccessClaims)
	return claims, ok
}
