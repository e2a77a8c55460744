package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hvaldez/character-api/internal/logging"
	authmw "github.com/hvaldez/character-api/internal/middleware/auth"
	"github.com/hvaldez/character-api/internal/models"
	"github.com/hvaldez/character-api/internal/mykafka"
	"github.com/hvaldez/character-api/internal/store"
	"github.com/hvaldez/character-api/internal/tokens"
)

type AuthHandler struct {
	Users    *store.UserStore
	Revoked  *store.RevokedTokenStore
	Tokens   *tokens.Service
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["email"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("parse body: %v", err)
	}

	creds := models.Credentials{Email: req.Email, Password: req.Password}
	if err := creds.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad Request"})
	}

	role := models.RoleUser
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad Request"})
		}
		role = parsed
	}

	user, err := h.Users.Create(req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
		}
		return fmt.Errorf("create user: %w", err)
	}

	h.publish(c, map[string]any{
		"type":  "user_registered",
		"id":    user.ID,
		"email": user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.Credentials
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("parse body: %v", err)
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad Request"})
	}

	// A missing user and a wrong password get the same answer so the
	// response never confirms which emails are registered.
	user, ok := h.Users.FindByEmail(req.Email)
	if !ok || !h.Users.ValidatePassword(user, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid Email or Password"})
	}

	accessToken, err := h.Tokens.IssueAccessToken(user)
	if err != nil {
		return fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := h.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return fmt.Errorf("sign refresh token: %w", err)
	}

	h.Users.SetRefreshToken(user.Email, refreshToken)

	h.publish(c, map[string]any{
		"type":  "user_logged_in",
		"id":    user.ID,
		"email": user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout revokes the presented bearer token unconditionally. Clearing
// the stored refresh token is best-effort: a token that no longer
// verifies still gets revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := authmw.BearerToken(c)
	if token != "" {
		h.Revoked.Revoke(token)

		if claims, err := h.Tokens.VerifyAccess(token); err == nil {
			h.Users.ClearRefreshToken(claims.Email)
			h.publish(c, map[string]any{
				"type":  "user_logged_out",
				"id":    claims.UserID,
				"email": claims.Email,
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}
