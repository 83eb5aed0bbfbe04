package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
	"trip-planner/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "web_search",
					Arguments: `{"query":"Charminar history"}`,
				},
			},
		},
	}

	result := convertResponseMessage(msg)

	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, "web_search", result.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"Charminar history"}`, result.ToolCalls[0].Arguments)
}

func TestConvertMessages_ToolRoundTrip(t *testing.T) {
	messages := []entity.Message{
		{Role: entity.RoleUser, Content: "Plan a trip"},
		{
			Role:      entity.RoleAssistant,
			ToolCalls: []entity.ToolCall{{ID: "c1", Name: "web_search", Arguments: `{"query":"q"}`}},
		},
		{Role: entity.RoleTool, ToolCallID: "c1", Name: "web_search", Content: "results"},
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "user", result[0].Role)
	require.Len(t, result[1].ToolCalls, 1)
	assert.Equal(t, openai.ToolTypeFunction, result[1].ToolCalls[0].Type)
	assert.Equal(t, "c1", result[2].ToolCallID)
	assert.Equal(t, "web_search", result[2].Name)
}

func TestAdapter_ChatAgainstServer(t *testing.T) {
	var captured openai.ChatCompletionRequest
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Visit Golconda Fort."},
			}},
		})
	}))
	defer srv.Close()

	cfg := DefaultConfig("sk-test", "")
	cfg.BaseURL = srv.URL + "/v1"
	cfg.Logger = logger.NewNop()
	adapter := NewAdapter(cfg)

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		Messages:    []entity.Message{{Role: entity.RoleUser, Content: "hi"}},
		Tools:       []entity.ToolDefinition{{Name: entity.ToolWebSearch, Description: "search", Parameters: map[string]interface{}{"type": "object"}}},
		Temperature: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Visit Golconda Fort.", resp.Message.Content)
	assert.Equal(t, "Bearer sk-test", authHeader)
	assert.Equal(t, DefaultModel, captured.Model)
	assert.InDelta(t, 0.5, captured.Temperature, 1e-6)
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "web_search", captured.Tools[0].Function.Name)
}

func TestAdapter_ChatPropagatesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	build := Factory(Config{BaseURL: srv.URL + "/v1"})
	_, err := build("sk-wrong").Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}},
	})

	require.Error(t, err)
	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
}

func TestAdapter_ChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	adapter := NewAdapter(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := adapter.Chat(context.Background(), output.ChatRequest{})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}
