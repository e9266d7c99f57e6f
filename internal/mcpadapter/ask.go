package mcpadapter

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/csv-agent/internal/models"
)

// Answerer answers one question about the loaded CSV data
type Answerer interface {
	Answer(ctx context.Context, question string) (models.AskResponse, error)
}

var ErrEmptyQuestion = errors.New("question must not be empty")

// NewAskHandler returns a tool handler that uses the given answerer.
// Pass the returned function to mcp.AddTool.
func NewAskHandler(answerer Answerer) func(context.Context, *mcp.CallToolRequest, models.AskRequest) (*mcp.CallToolResult, models.AskResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input models.AskRequest) (*mcp.CallToolResult, models.AskResponse, error) {
		return Ask(ctx, answerer, req, input)
	}
}

// Ask answers the question in input and returns the completion as structured output.
func Ask(
	ctx context.Context,
	answerer Answerer,
	req *mcp.CallToolRequest,
	input models.AskRequest,
) (*mcp.CallToolResult, models.AskResponse, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, models.AskResponse{}, ErrEmptyQuestion
	}

	result, err := answerer.Answer(ctx, question)
	return nil, result, err
}

// NewServer registers the ask_csv tool on a new MCP server
func NewServer(answerer Answerer, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "csv-agent",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_csv",
		Description: "Answer a free-text question about the CSV file loaded by the server",
	}, NewAskHandler(answerer))

	return server
}
