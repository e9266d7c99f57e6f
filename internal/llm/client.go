package llm

import (
	"context"
	"errors"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// ErrNoCompletion is returned when a response carries no completion at all.
// A completion with empty text is not an error.
var ErrNoCompletion = errors.New("model response carried no completion")

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}
