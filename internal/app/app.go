package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/handlers"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/services/assistant"
	"github.com/ternarybob/respondeo/internal/services/events"
	"github.com/ternarybob/respondeo/internal/services/export"
	"github.com/ternarybob/respondeo/internal/services/ingestion"
	"github.com/ternarybob/respondeo/internal/services/llm"
	"github.com/ternarybob/respondeo/internal/services/retrieval"
	"github.com/ternarybob/respondeo/internal/services/scheduler"
	"github.com/ternarybob/respondeo/internal/services/session"
	"github.com/ternarybob/respondeo/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	EventService   interfaces.EventService

	// Answer pipeline
	Retriever        interfaces.Retriever
	AssistantService interfaces.AssistantService
	SessionService   interfaces.SessionService

	// Knowledge base maintenance
	IngestionService interfaces.IngestionService
	SchedulerService interfaces.SchedulerService

	ExportService interfaces.ExportService

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	ChatHandler    *handlers.ChatHandler
	SessionHandler *handlers.SessionHandler
	IngestHandler  *handlers.IngestHandler
	PageHandler    *handlers.PageHandler
	WSHandler      *handlers.WebSocketHandler
}

// New wires the application. AWS clients are constructed once here and
// shared read-only across all sessions; they hold no per-request state.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	a.EventService = events.NewService(logger)
	if err := events.SubscribeLoggerToAllEvents(a.EventService, logger); err != nil {
		return nil, fmt.Errorf("failed to subscribe event logging: %w", err)
	}

	awsConfig, err := common.NewAWSConfig(ctx, &cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	agentRuntime := bedrockagentruntime.NewFromConfig(awsConfig)
	a.Retriever = retrieval.NewBedrockRetriever(agentRuntime, cfg, logger)

	// Exactly one integration mode is live per deployment
	var generator interfaces.Generator
	var combined interfaces.CombinedGenerator
	if cfg.Bedrock.Mode == common.ModeCombined {
		combined = llm.NewBedrockCombined(agentRuntime, cfg, logger)
	} else {
		generator, err = llm.NewGenerator(ctx, cfg, awsConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize generation provider: %w", err)
		}
	}

	assistantService, err := assistant.NewService(cfg, a.Retriever, generator, combined, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant: %w", err)
	}
	a.AssistantService = assistantService

	a.SessionService = session.NewController(assistantService, storageManager.SessionStorage(), a.EventService, logger)

	a.IngestionService = ingestion.NewService(bedrockagent.NewFromConfig(awsConfig), cfg, storageManager.KeyValueStorage(), a.EventService, logger)
	a.SchedulerService = scheduler.NewService(a.IngestionService, cfg, logger)

	a.ExportService = export.NewService(logger)

	a.APIHandler = handlers.NewAPIHandler(a.SchedulerService)
	a.ChatHandler = handlers.NewChatHandler(a.SessionService, logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.ExportService, logger)
	a.IngestHandler = handlers.NewIngestHandler(a.IngestionService, logger)
	a.PageHandler = handlers.NewPageHandler(logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger)

	logger.Info().
		Str("mode", cfg.Bedrock.Mode).
		Str("provider", cfg.LLM.Provider).
		Str("knowledge_base", cfg.KnowledgeBase.ID).
		Msg("Application initialized")

	return a, nil
}

// Start begins background services
func (a *App) Start() error {
	return a.SchedulerService.Start()
}

// Close shuts down all components in reverse dependency order
func (a *App) Close() error {
	if err := a.SchedulerService.Stop(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
	}

	if err := a.EventService.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close event service")
	}

	if err := a.StorageManager.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
		return err
	}

	return nil
}
