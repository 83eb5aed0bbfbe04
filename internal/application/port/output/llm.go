package output

import (
	"context"

	"trip-planner/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}

// LLMFactory builds a language model handle bound to one API key.
type LLMFactory func(apiKey string) LLMPort
