package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Integration modes for the answer pipeline. Exactly one is active per
// deployment.
const (
	// ModeOrchestrated runs retrieval and generation as separate steps
	ModeOrchestrated = "orchestrated"
	// ModeCombined delegates retrieval and generation to a single managed
	// RetrieveAndGenerate call
	ModeCombined = "combined"
)

// Generation providers
const (
	ProviderBedrock = "bedrock"
	ProviderClaude  = "claude"
	ProviderGemini  = "gemini"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Storage       StorageConfig       `toml:"storage"`
	Logging       LoggingConfig       `toml:"logging"`
	AWS           AWSConfig           `toml:"aws"`
	KnowledgeBase KnowledgeBaseConfig `toml:"knowledge_base"`
	Bedrock       BedrockConfig       `toml:"bedrock"`
	Claude        ClaudeConfig        `toml:"claude"`
	Gemini        GeminiConfig        `toml:"gemini"`
	LLM           LLMConfig           `toml:"llm"`
	Ingestion     IngestionConfig     `toml:"ingestion"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// AWSConfig holds region and optional static credentials. When the key pair
// is empty the default AWS credential chain applies.
type AWSConfig struct {
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// KnowledgeBaseConfig identifies the managed vector index over the guideline
// documents
type KnowledgeBaseConfig struct {
	ID              string `toml:"id"`                // Bedrock knowledge base id (required)
	DataSourceID    string `toml:"data_source_id"`    // Data source id for ingestion triggers
	NumberOfResults int    `toml:"number_of_results"` // Passages per retrieval (default: 3)
}

// BedrockConfig contains Bedrock model configuration for both integration
// modes
type BedrockConfig struct {
	ModelID     string  `toml:"model_id"`    // Model for InvokeModel (default: "amazon.nova-micro-v1:0")
	ModelARN    string  `toml:"model_arn"`   // Model ARN for RetrieveAndGenerate (combined mode)
	Mode        string  `toml:"mode"`        // "orchestrated" or "combined" (default: "orchestrated")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 2048)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between model calls (default: "1s")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (ANTHROPIC_API_KEY or config)
	Model       string  `toml:"model"`       // Model id (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 2048)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between model calls (default: "1s")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Gemini API key
	Model       string  `toml:"model"`       // Model id (default: "gemini-3-flash-preview")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between model calls (default: "4s")
}

// LLMConfig selects the generation provider for orchestrated mode
type LLMConfig struct {
	Provider string `toml:"provider"` // "bedrock" (default), "claude", or "gemini"
}

// IngestionConfig controls the scheduled ingestion trigger
type IngestionConfig struct {
	Enabled  bool   `toml:"enabled"`  // Enable cron-scheduled ingestion triggers (default: false)
	Schedule string `toml:"schedule"` // Cron schedule (default: "0 3 * * *" - daily at 3am)
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in respondeo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		KnowledgeBase: KnowledgeBaseConfig{
			NumberOfResults: 3, // Matches the deployed retrieval configuration
		},
		Bedrock: BedrockConfig{
			ModelID:     "amazon.nova-micro-v1:0",
			Mode:        ModeOrchestrated,
			MaxTokens:   2048,
			Temperature: 0.2,
			RateLimit:   "1s",
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   2048,
			Temperature: 0.2,
			RateLimit:   "1s",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-3-flash-preview",
			Temperature: 0.2,
			RateLimit:   "4s", // 15 RPM free tier
		},
		LLM: LLMConfig{
			Provider: ProviderBedrock,
		},
		Ingestion: IngestionConfig{
			Enabled:  false, // Manual trigger only unless explicitly enabled
			Schedule: "0 3 * * *",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// CLI flag overrides are applied separately via ApplyFlagOverrides.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier files, environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Server configuration
	if port := os.Getenv("RESPONDEO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("RESPONDEO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("RESPONDEO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("RESPONDEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("RESPONDEO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// AWS configuration (standard AWS variable names)
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.AWS.Region = region
	}
	if keyID := os.Getenv("AWS_ACCESS_KEY_ID"); keyID != "" {
		config.AWS.AccessKeyID = keyID
	}
	if secret := os.Getenv("AWS_SECRET_ACCESS_KEY"); secret != "" {
		config.AWS.SecretAccessKey = secret
	}

	// Knowledge base configuration
	if kbID := os.Getenv("RESPONDEO_KNOWLEDGE_BASE_ID"); kbID != "" {
		config.KnowledgeBase.ID = kbID
	}
	if dsID := os.Getenv("RESPONDEO_DATA_SOURCE_ID"); dsID != "" {
		config.KnowledgeBase.DataSourceID = dsID
	}
	if n := os.Getenv("RESPONDEO_NUMBER_OF_RESULTS"); n != "" {
		if k, err := strconv.Atoi(n); err == nil && k > 0 {
			config.KnowledgeBase.NumberOfResults = k
		}
	}

	// Bedrock configuration
	if modelID := os.Getenv("RESPONDEO_MODEL_ID"); modelID != "" {
		config.Bedrock.ModelID = modelID
	}
	if modelARN := os.Getenv("RESPONDEO_MODEL_ARN"); modelARN != "" {
		config.Bedrock.ModelARN = modelARN
	}
	if mode := os.Getenv("RESPONDEO_MODE"); mode != "" {
		config.Bedrock.Mode = mode
	}

	// Provider configuration
	if provider := os.Getenv("RESPONDEO_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}

	// Ingestion configuration
	if enabled := os.Getenv("RESPONDEO_INGESTION_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Ingestion.Enabled = e
		}
	}
	if schedule := os.Getenv("RESPONDEO_INGESTION_SCHEDULE"); schedule != "" {
		config.Ingestion.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks required deployment configuration. A missing region or
// knowledge base id is fatal at startup: no session can begin without them.
func (c *Config) Validate() error {
	if c.AWS.Region == "" {
		return fmt.Errorf("aws.region is not set - configure it in respondeo.toml or AWS_REGION")
	}
	if c.KnowledgeBase.ID == "" {
		return fmt.Errorf("knowledge_base.id is not set - configure it in respondeo.toml or RESPONDEO_KNOWLEDGE_BASE_ID")
	}

	switch c.Bedrock.Mode {
	case ModeOrchestrated:
	case ModeCombined:
		if c.Bedrock.ModelARN == "" {
			return fmt.Errorf("bedrock.model_arn is required for combined mode")
		}
	default:
		return fmt.Errorf("bedrock.mode must be %q or %q, got %q", ModeOrchestrated, ModeCombined, c.Bedrock.Mode)
	}

	switch c.LLM.Provider {
	case ProviderBedrock, ProviderClaude, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be one of bedrock, claude, gemini, got %q", c.LLM.Provider)
	}

	if c.KnowledgeBase.NumberOfResults <= 0 {
		return fmt.Errorf("knowledge_base.number_of_results must be positive, got %d", c.KnowledgeBase.NumberOfResults)
	}

	return nil
}
