package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suPer8Hu/chatflow/internal/ai"
	"github.com/suPer8Hu/chatflow/internal/chat"
	"github.com/suPer8Hu/chatflow/internal/config"
	"github.com/suPer8Hu/chatflow/internal/httpapi"
	"github.com/suPer8Hu/chatflow/internal/httpapi/handlers"
	"github.com/suPer8Hu/chatflow/internal/weather"
)

func main() {
	cfg := config.Load()

	if cfg.GroqAPIKey == "" {
		log.Printf("[main] GROQ_API_KEY not set; chat requests will fail until it is configured")
	}

	store := chat.NewStore()
	gateway := weather.New(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)

	var completer ai.Completer
	if c, err := ai.NewOpenAICompleter(cfg.GroqBaseURL, cfg.GroqAPIKey); err == nil {
		completer = c
	}

	var agent ai.Agent
	if cfg.AgentEnabled {
		a, err := ai.NewToolAgent(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.DefaultModel(), gateway)
		if err != nil {
			log.Printf("[main] agent backend unavailable: %v", err)
		} else {
			agent = a
		}
	}

	svc := chat.NewService(
		store,
		chat.NewDetector(),
		gateway,
		completer,
		agent,
		chat.NewContextBuilder(cfg.ChatContextWindowSize, cfg.AgentContextWindowSize),
		cfg.Models,
		cfg.BackendTimeout,
	)

	h := handlers.NewHandler(cfg, store, svc)
	router := httpapi.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("[main] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
