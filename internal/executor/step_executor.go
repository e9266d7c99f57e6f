package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/csv-agent/internal/config"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/llm"
	"github.com/rs/zerolog"
)

// StepExecutor submits one rendered prompt per call to the model and waits for
// its completion. Calls are serialised: a prompt is never submitted while an
// earlier one is still pending.
type StepExecutor struct {
	llmClient   llm.LLMClient
	modelConfig config.ModelConfig
	logger      *zerolog.Logger

	mu sync.Mutex
}

func NewStepExecutor(llmClient llm.LLMClient, modelConfig config.ModelConfig, logger *zerolog.Logger) *StepExecutor {
	return &StepExecutor{
		llmClient:   llmClient,
		modelConfig: modelConfig,
		logger:      logger,
	}
}

// Complete runs prompt as a single invocation without history and returns the
// completion text. Failures are returned as-is, without retry.
func (e *StepExecutor) Complete(ctx context.Context, prompt string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()

	resp, err := e.llmClient.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   e.modelConfig.MaxTokens,
		Temperature: e.modelConfig.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("prompt execution failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("prompt execution failed: %w", llm.ErrNoCompletion)
	}
	if resp.Content == "" {
		e.logger.Warn().
			Str("stop_reason", resp.StopReason).
			Msg("model returned an empty completion")
	}

	e.logger.Debug().
		Int("prompt_bytes", len(prompt)).
		Int("completion_bytes", len(resp.Content)).
		Str("stop_reason", resp.StopReason).
		Dur("duration", time.Since(now)).
		Msg("prompt completed")

	return resp.Content, nil
}
