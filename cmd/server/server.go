package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"catalog-assistant/internal/config"
	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/domain/tool"
	"catalog-assistant/internal/infrastructure/conversation"
	"catalog-assistant/internal/infrastructure/database"
	"catalog-assistant/internal/infrastructure/llmprovider"
	"catalog-assistant/internal/infrastructure/logger"
	"catalog-assistant/internal/infrastructure/observability"
	itemrepo "catalog-assistant/internal/infrastructure/repository/item"
	"catalog-assistant/internal/interfaces/httpserver"
)

// @title Catalog Assistant API
// @version 1.0
// @description Conversational catalog management: user prompts are orchestrated through an OpenAI-compatible model with catalog tools.
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, err := newItemStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize item store")
	}

	conversationStore, err := conversation.NewLRUStore(cfg.MaxConversations, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize conversation store")
	}

	itemService := item.NewService(store, log)
	dispatcher := tool.NewDispatcher(itemService, log)
	llmClient := llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	chatService := chat.NewService(llmClient, dispatcher, conversationStore, cfg.LLMModel, cfg.MaxHistoryTurns, log)

	httpServer := httpserver.New(cfg, log, chatService, itemService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newItemStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (item.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(database.Config{
			DSN:             cfg.DatabaseURL,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: cfg.DBConnLifetime,
			LogLevel:        gormlogger.Warn,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return itemrepo.NewPostgresStore(db), nil
	case config.StoreDriverMemory:
		return itemrepo.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
