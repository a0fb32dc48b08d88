package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Custard69/BurnoutZero/internal/adapters"
	"github.com/Custard69/BurnoutZero/internal/auth"
	"github.com/Custard69/BurnoutZero/internal/config"
	"github.com/Custard69/BurnoutZero/internal/features"
	"github.com/Custard69/BurnoutZero/internal/model"
	"github.com/Custard69/BurnoutZero/internal/pipeline"
	"github.com/Custard69/BurnoutZero/internal/ratelimit"
	"github.com/Custard69/BurnoutZero/internal/server"
	"github.com/Custard69/BurnoutZero/internal/store"
	"github.com/Custard69/BurnoutZero/internal/tokens"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	// Model and scaler artifacts load once; the scorer is immutable after
	// this point and safe for concurrent reads.
	scorer, err := model.LoadArtifacts(cfg.ArtifactsDir)
	if err != nil {
		slog.Error("Failed to load model artifacts", "dir", cfg.ArtifactsDir, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	tokenProvider := tokens.NewService(db, tokens.Config{
		TokenURL:     cfg.OAuthTokenURL,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
	})

	calendar := adapters.NewCalendarAdapter(cfg.CalendarBaseURL, tokenProvider, db)
	rescueTime := adapters.NewRescueTimeAdapter(cfg.RescueTimeBaseURL, tokenProvider)

	assembler := features.NewAssembler(db, calendar, rescueTime)
	pipe := pipeline.New(db, assembler, scorer)

	redisClient := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig())

	r := server.New(server.Deps{
		Pipeline: pipe,
		History:  db,
		Events:   db,
		Auth:     auth.NewService(cfg.JWTSecret),
		Limiter:  limiter,
		Store:    db,
		Redis:    redisClient,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
