package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/hvaldez/character-api/internal/logging"
	"github.com/hvaldez/character-api/internal/models"
	"github.com/hvaldez/character-api/internal/mykafka"
	"github.com/hvaldez/character-api/internal/service/search"
	"github.com/hvaldez/character-api/internal/store"
)

type CharacterHandler struct {
	Store    *store.CharacterStore
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *CharacterHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "character_events", fmt.Sprint(event["characterID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *CharacterHandler) indexCharacter(c echo.Context, ch models.Character) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Index(ctx, h.ES, h.Index, ch); err != nil {
		logging.FromContext(c.Request().Context()).Error("search index failed", "error", err, "id", ch.ID)
	}
}

func (h *CharacterHandler) deindexCharacter(c echo.Context, id int64) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Delete(ctx, h.ES, h.Index, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("search deindex failed", "error", err, "id", id)
	}
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Character not found"})
}

func (h *CharacterHandler) GetAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.All())
}

func (h *CharacterHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}

	ch, ok := h.Store.Get(id)
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *CharacterHandler) Create(c echo.Context) error {
	var input models.CharacterInput
	if err := c.Bind(&input); err != nil {
		return fmt.Errorf("parse body: %v", err)
	}

	if err := input.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	ch := h.Store.Create(input)

	h.indexCharacter(c, ch)
	h.publish(c, map[string]any{
		"type":        "character_created",
		"characterID": ch.ID,
		"name":        ch.Name,
	})

	return c.JSON(http.StatusCreated, ch)
}

func (h *CharacterHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}

	var input models.CharacterInput
	if err := c.Bind(&input); err != nil {
		return fmt.Errorf("parse body: %v", err)
	}

	ch, ok := h.Store.Update(id, input)
	if !ok {
		return notFound(c)
	}

	h.indexCharacter(c, ch)
	h.publish(c, map[string]any{
		"type":        "character_updated",
		"characterID": ch.ID,
		"name":        ch.Name,
	})

	return c.JSON(http.StatusOK, ch)
}

func (h *CharacterHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}

	if !h.Store.Delete(id) {
		return notFound(c)
	}

	h.deindexCharacter(c, id)
	h.publish(c, map[string]any{
		"type":        "character_deleted",
		"characterID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
