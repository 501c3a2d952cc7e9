package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/landai/chatd/config"
	"github.com/landai/chatd/internal/answer"
	"github.com/landai/chatd/internal/logger"
	"github.com/landai/chatd/internal/service"
	"github.com/landai/chatd/internal/store"
	transport "github.com/landai/chatd/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("database", cfg.DatabaseURL).
		Str("answer_url", cfg.AnswerURL).
		Msg("starting chatd")

	// Initialize the snapshot store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize snapshot store")
	}
	defer db.Close()

	// Initialize the answering client
	answerClient := answer.NewClient(cfg.AnswerURL, cfg.AnswerAPIKey, cfg.AnswerTimeout)

	// Initialize the conversation store
	svc, err := service.New(context.Background(), db, answerClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize conversation store")
	}

	e := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.HTTPPort).Msg("chatd API started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down chatd")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	log.Info().Msg("chatd stopped")
}
