package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/bookvault/books-api/internal/api"
	"github.com/bookvault/books-api/internal/infrastructure/config"
	redisdb "github.com/bookvault/books-api/internal/infrastructure/db/redis"
	"github.com/bookvault/books-api/internal/infrastructure/supabase"
	"github.com/bookvault/books-api/pkg/logger"

	_ "github.com/bookvault/books-api/docs"
)

// @title           Books API
// @version         1.0
// @description     Thin CRUD backend for books, delegating persistence and authentication to a managed backend.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	_ = godotenv.Load(".env")

	// Bootstrap logger so config loading can report failures; rebuilt below
	// once the configured level is known.
	log := logger.New(logger.Options{Level: os.Getenv("LOG_LEVEL")})
	cfg := config.Load(log)
	log = logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sb := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.Key)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		var err error
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
	}

	e := api.NewRouter(cfg, sb, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("books api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
