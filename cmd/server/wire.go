//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalog-assistant/internal/config"
	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/domain/llm"
	"catalog-assistant/internal/domain/tool"
	"catalog-assistant/internal/infrastructure/conversation"
	"catalog-assistant/internal/infrastructure/database"
	"catalog-assistant/internal/infrastructure/llmprovider"
	"catalog-assistant/internal/infrastructure/logger"
	itemrepo "catalog-assistant/internal/infrastructure/repository/item"
	"catalog-assistant/internal/interfaces/httpserver"
)

var assistantSet = wire.NewSet(
	itemrepo.NewPostgresStore,
	wire.Bind(new(item.Store), new(*itemrepo.PostgresStore)),
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newConversationStore,
	wire.Bind(new(chat.ConversationStore), new(*conversation.LRUStore)),
	item.NewService,
	tool.NewDispatcher,
	newChatService,
)

// BuildApplication assembles the postgres-backed assistant with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		assistantSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout)
}

func newConversationStore(cfg *config.Config, log zerolog.Logger) (*conversation.LRUStore, error) {
	return conversation.NewLRUStore(cfg.MaxConversations, log)
}

func newChatService(cfg *config.Config, provider llm.Provider, dispatcher *tool.Dispatcher, store chat.ConversationStore, log zerolog.Logger) *chat.Service {
	return chat.NewService(provider, dispatcher, store, cfg.LLMModel, cfg.MaxHistoryTurns, log)
}
