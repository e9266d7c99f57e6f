package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/povarna/generative-ai-agents/csv-agent/internal/config"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/csvdata"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/executor"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/llm/gemini"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/session"
	"github.com/rs/zerolog"
)

type Config struct {
	CSVFile         string
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	GeminiKey       string
	GeminiModelID   string
	DefaultProvider string
	ContinueOnError bool
	LogLevel        string
}

type Dependencies struct {
	Session *session.Session
	Logger  *zerolog.Logger

	closer io.Closer
}

// Close releases the LLM client when the provider holds open resources.
func (d *Dependencies) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// ClientFactory builds the LLM engine for a provider name
type ClientFactory func(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error)

func LoadConfig() *Config {
	return &Config{
		CSVFile:         getEnv("CSV_FILE", csvdata.DefaultFile),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		GeminiKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:   getEnv("GEMINI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		ContinueOnError: getEnvBool("CONTINUE_ON_ERROR", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Wire loads the CSV data and builds the engine once. Any failure here happens
// before the first question is read.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	return WireWith(ctx, cfg, logger, createLLMClient)
}

func WireWith(ctx context.Context, cfg *Config, logger *zerolog.Logger, newClient ClientFactory) (*Dependencies, error) {
	data, err := csvdata.LoadFile(cfg.CSVFile)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("file", cfg.CSVFile).
		Int("bytes", len(data)).
		Msg("CSV data loaded")

	agentConfig, err := config.LoadAgentConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load agent config: %w", err)
	}

	llmClient, err := newClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.DefaultProvider, err)
	}

	logger.Info().
		Str("provider", cfg.DefaultProvider).
		Int("max_tokens", agentConfig.Model.MaxTokens).
		Float64("temperature", agentConfig.Model.Temperature).
		Msg("LLM client initialized")

	stepExecutor := executor.NewStepExecutor(llmClient, agentConfig.Model, logger)

	s := session.New(
		data,
		prompt.NewBuilder(),
		stepExecutor,
		logger,
		session.WithContinueOnError(cfg.ContinueOnError),
	)

	deps := &Dependencies{
		Session: s,
		Logger:  logger,
	}
	if closer, ok := llmClient.(io.Closer); ok {
		deps.closer = closer
	}

	return deps, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case "gemini":
		return gemini.NewClient(ctx, cfg.GeminiKey, cfg.GeminiModelID)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
