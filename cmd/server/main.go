package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hvaldez/character-api/internal/config"
	"github.com/hvaldez/character-api/internal/es"
	"github.com/hvaldez/character-api/internal/handlers"
	"github.com/hvaldez/character-api/internal/logging"
	authmw "github.com/hvaldez/character-api/internal/middleware/auth"
	loggingmw "github.com/hvaldez/character-api/internal/middleware/logging"
	"github.com/hvaldez/character-api/internal/mykafka"
	"github.com/hvaldez/character-api/internal/store"
	"github.com/hvaldez/character-api/internal/tokens"
	httpserver "github.com/hvaldez/character-api/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	users := store.NewUserStore()
	characters := store.NewCharacterStore()
	revoked := store.NewRevokedTokenStore()
	tokenSvc := tokens.NewService([]byte(cfg.JWTSecret))

	prod := mykafka.NewProducer(cfg.KafkaBrokers)
	if prod == nil {
		logger.Info("kafka disabled: no brokers configured")
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if esClient == nil {
		logger.Info("search disabled: no ES_URL configured")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			Users:    users,
			Revoked:  revoked,
			Tokens:   tokenSvc,
			Producer: prod,
		},
		CharacterHandler: &handlers.CharacterHandler{
			Store:    characters,
			Producer: prod,
			ES:       esClient,
			Index:    "character",
		},
		Auth: &authmw.Middleware{Tokens: tokenSvc, Revoked: revoked},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
