package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwebster45206/zenquest/internal/config"
	"github.com/jwebster45206/zenquest/internal/handlers"
	"github.com/jwebster45206/zenquest/internal/logger"
	"github.com/jwebster45206/zenquest/internal/middleware"
	"github.com/jwebster45206/zenquest/internal/services"
	"github.com/jwebster45206/zenquest/internal/services/events"
	"github.com/jwebster45206/zenquest/internal/storage"
	"github.com/jwebster45206/zenquest/pkg/battle"
	"github.com/jwebster45206/zenquest/pkg/quest"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting ZenQuest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = defaultModel(strings.ToLower(cfg.LLMProvider))
		log.Info("MODEL_NAME not set, using provider default", "model_name", modelName)
	}

	var gen services.Generator
	switch strings.ToLower(cfg.LLMProvider) {
	case config.ProviderAnthropic:
		gen = services.NewAnthropicService(cfg.AnthropicAPIKey, modelName, log)
		log.Info("Using Anthropic LLM provider")
	case config.ProviderOpenAI:
		gen = services.NewOpenAIService(cfg.OpenAIAPIKey, modelName, log)
		log.Info("Using OpenAI LLM provider")
	case config.ProviderGemini:
		geminiService, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey, modelName, log)
		if err != nil {
			log.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		gen = geminiService
		log.Info("Using Gemini LLM provider")
	case config.ProviderOllama:
		gen = services.NewOllamaService(cfg.OllamaURL, modelName, log)
		log.Info("Using Ollama LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider,
			"supported", []string{"anthropic", "openai", "gemini", "ollama"})
		os.Exit(1)
	}

	// Initialize the model on startup
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := gen.InitModel(initCtx); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", modelName)
		os.Exit(1)
	}

	var (
		store       quest.Store
		locker      quest.Locker
		journal     quest.Journal
		redisStore  *storage.RedisStore
		broadcaster *events.Broadcaster
	)
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStore(cfg.RedisURL, cfg.SessionTTL, log)
		if err != nil {
			log.Error("Failed to configure Redis store", "error", err)
			os.Exit(1)
		}
		storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := rs.WaitForConnection(storageCtx); err != nil {
			storageCancel()
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		storageCancel()
		store, locker, journal = rs, rs, rs
		redisStore = rs
		broadcaster = events.NewBroadcaster(rs.Client(), log)
		log.Info("Redis session store connected")
	} else {
		store = storage.NewMemoryStore()
		locker = storage.NewMemoryLocker()
		journal = storage.NewMemoryJournal()
		log.Warn("REDIS_URL not set, sessions live in process memory and vanish on restart")
	}

	ledger, err := storage.OpenLedger(cfg.SQLitePath, log)
	if err != nil {
		log.Error("Failed to open zen point ledger", "error", err, "path", cfg.SQLitePath)
		os.Exit(1)
	}

	rng := quest.NewRand()
	arena := battle.NewArena(gen, rng, log)

	opts := quest.Options{
		Store:      store,
		Locker:     locker,
		Generator:  gen,
		Battles:    arena,
		Ledger:     ledger,
		Journal:    journal,
		Rand:       rng,
		Logger:     log,
		GenTimeout: cfg.GenTimeout,
	}
	if broadcaster != nil {
		opts.Events = broadcaster
	}
	engine, err := quest.New(opts)
	if err != nil {
		log.Error("Failed to build quest engine", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	var pinger handlers.Pinger
	if redisStore != nil {
		pinger = redisStore
	}
	healthHandler := handlers.NewHealthHandler(pinger, log)
	mux.Handle("/health", healthHandler)

	questHandler := handlers.NewQuestHandler(engine, log)
	mux.Handle("/v1/quests", questHandler)
	mux.Handle("/v1/quests/", questHandler)

	eventsHandler := handlers.NewEventsHandler(broadcaster, log)
	mux.Handle("/v1/events/quests/", eventsHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout removed to enable streaming - streaming endpoints handle their own timeouts
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout; stores close after requests drain
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := ledger.Close(); err != nil {
		log.Error("Error closing zen point ledger", "error", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			log.Error("Error closing Redis connection", "error", err)
		}
	}
	if closer, ok := gen.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing LLM client", "error", err)
		}
	}

	log.Info("Server exited")
}

// defaultModel picks a sensible model when MODEL_NAME is not set.
func defaultModel(provider string) string {
	switch provider {
	case config.ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	case config.ProviderOpenAI:
		return "gpt-4o-mini"
	case config.ProviderGemini:
		return "gemini-1.5-flash"
	case config.ProviderOllama:
		return "llama3"
	}
	return ""
}
