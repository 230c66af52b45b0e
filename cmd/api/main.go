package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/activegames/reservation/internal/adapter/gateway"
	"github.com/activegames/reservation/internal/adapter/handler"
	"github.com/activegames/reservation/internal/adapter/repository/postgres"
	"github.com/activegames/reservation/internal/adapter/repository/redisstore"
	"github.com/activegames/reservation/internal/core/services"
	"github.com/activegames/reservation/internal/platform/config"
	"github.com/activegames/reservation/internal/platform/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	log.Printf("Connecting to Redis at %s:%s...", cfg.RedisHost, cfg.RedisPort)

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		DB:   0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")

	backend := gateway.NewBackend(cfg.BackendBaseURL, nil)

	store := redisstore.NewSessionStore(redisClient)
	journal := postgres.NewAttemptRepository(db)

	termsGate := services.NewTermsGate(store, backend)
	abandonment := services.NewAbandonmentTracker(store, backend, backend)
	wizard := services.NewWizardService(store, backend, backend, abandonment)
	orchestrator := services.NewPaymentOrchestrator(store, backend, backend, journal, termsGate)

	sessionHandler := handler.NewSessionHandler(wizard, orchestrator, termsGate)

	mux := http.NewServeMux()
	sessionHandler.Register(mux)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
