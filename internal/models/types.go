package models

import (
	"time"
)

// AskRequest is the question payload accepted by the HTTP and MCP surfaces
type AskRequest struct {
	Question string `json:"question" jsonschema:"question about the loaded CSV data"`
}

// AskResponse carries one completion back to the caller
type AskResponse struct {
	RequestID string        `json:"request_id"`
	Question  string        `json:"question"`
	Answer    string        `json:"answer"`
	Duration  time.Duration `json:"duration_ns"`
}
