package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/services/assistant"
	"github.com/ternarybob/respondeo/internal/services/llm"
	"github.com/ternarybob/respondeo/internal/services/retrieval"
)

func main() {
	// Load configuration
	configPath := os.Getenv("RESPONDEO_CONFIG")
	if configPath == "" {
		configPath = "respondeo.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal console-only logger to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	if err := config.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Configuration is incomplete")
	}

	ctx := context.Background()

	awsConfig, err := common.NewAWSConfig(ctx, &config.AWS)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load AWS configuration")
	}

	agentRuntime := bedrockagentruntime.NewFromConfig(awsConfig)
	retriever := retrieval.NewBedrockRetriever(agentRuntime, config, logger)

	var assistantService *assistant.Service
	if config.Bedrock.Mode == common.ModeCombined {
		combined := llm.NewBedrockCombined(agentRuntime, config, logger)
		assistantService, err = assistant.NewService(config, retriever, nil, combined, logger)
	} else {
		generator, genErr := llm.NewGenerator(ctx, config, awsConfig, logger)
		if genErr != nil {
			logger.Fatal().Err(genErr).Msg("Failed to initialize generator")
		}
		assistantService, err = assistant.NewService(config, retriever, generator, nil, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize assistant service")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"respondeo",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createAskGuidelinesTool(), handleAskGuidelines(assistantService, logger))
	mcpServer.AddTool(createRetrievePassagesTool(), handleRetrievePassages(retriever, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
