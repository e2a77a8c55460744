package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hvaldez/character-api/internal/handlers"
	"github.com/hvaldez/character-api/internal/logging"
	authmw "github.com/hvaldez/character-api/internal/middleware/auth"
	"github.com/hvaldez/character-api/internal/models"
)

type Deps struct {
	AuthHandler      *handlers.AuthHandler
	CharacterHandler *handlers.CharacterHandler
	Auth             *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)

	ch := e.Group("/characters", d.Auth.RequireAuth)
	ch.GET("", d.CharacterHandler.GetAll)
	ch.GET("/search", d.CharacterHandler.Search)
	ch.GET("/:id", d.CharacterHandler.GetByID)
	ch.POST("", d.CharacterHandler.Create, authmw.RequireRoles(models.RoleAdmin, models.RoleUser))
	ch.PATCH("/:id", d.CharacterHandler.Update, authmw.RequireRoles(models.RoleAdmin))
	ch.DELETE("/:id", d.CharacterHandler.Delete, authmw.RequireRoles(models.RoleAdmin))
}

// ErrorHandler is the outermost dispatch boundary. Unmatched routes
// become a uniform 404 body, expected HTTP errors keep their code, and
// everything else becomes a generic 500 with no detail leakage.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			_ = c.JSON(http.StatusNotFound, echo.Map{"message": "Endpoint Not Found"})
			return
		}
		_ = c.JSON(he.Code, echo.Map{"message": fmt.Sprint(he.Message)})
		return
	}

	logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal Server Error"})
}
