package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	model := c.client.GenerativeModel(c.ModelID)
	model.SetMaxOutputTokens(int32(request.MaxTokens))
	model.SetTemperature(float32(request.Temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(request.Prompt))
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gemini model: %w", err)
	}

	return extractCompletion(resp)
}

// extractCompletion joins the text parts of the first candidate.
func extractCompletion(resp *genai.GenerateContentResponse) (*llm.LLMResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates in response: %w", llm.ErrNoCompletion)
	}

	candidate := resp.Candidates[0]

	var content string
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			content += string(txt)
		}
	}

	return &llm.LLMResponse{
		Content:    content,
		StopReason: fmt.Sprint(candidate.FinishReason),
	}, nil
}
