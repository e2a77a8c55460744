package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hvaldez/character-api/internal/service/search"
	"github.com/hvaldez/character-api/internal/util"
)

// Search queries the character index. Returns 503 when no
// Elasticsearch client is configured.
func (h *CharacterHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "Search is not available"})
	}

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing query parameter 'q'"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, chars, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "characters": chars})
}
