// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/relaydev/chatstream/internal/config"
	"github.com/relaydev/chatstream/internal/domain"
	"github.com/relaydev/chatstream/internal/handlers"
	"github.com/relaydev/chatstream/internal/middleware"
	chatrepo "github.com/relaydev/chatstream/internal/repository/chat"
	messagerepo "github.com/relaydev/chatstream/internal/repository/message"
	"github.com/relaydev/chatstream/internal/services"
	"github.com/relaydev/chatstream/internal/services/ai"
	chatservice "github.com/relaydev/chatstream/internal/services/chat"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("chatstream")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.Model = cfg.OpenAIModel
	provider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("Failed to initialize completion provider: %v", err)
	}

	relayConfig := chatservice.DefaultConfig()
	relayConfig.StreamTimeout = cfg.StreamTimeout
	relay, err := chatservice.NewStreamingService(relayConfig, chatRepo, messageRepo, provider, logger)
	if err != nil {
		log.Fatalf("Failed to initialize streaming service: %v", err)
	}

	// --- Router Setup ---
	chatHandler := handlers.NewChatHandler(relay, logger)

	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.Logging(logger))
	chatHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "model", cfg.OpenAIModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
}
