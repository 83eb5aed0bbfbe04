package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*Adapter)(nil)

const DefaultModel = "gpt-4"

// ErrEmptyResponse is returned when the service answers without any choice.
var ErrEmptyResponse = errors.New("no choices in response")

type Adapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey string
	Model  string
	// BaseURL is optional; empty means the OpenAI default.
	BaseURL string
	Logger  output.LoggerPort
	// HTTPClient overrides the transport; used by tests.
	HTTPClient *http.Client
}

func DefaultConfig(apiKey, model string) Config {
	if model == "" {
		model = DefaultModel
	}
	return Config{
		APIKey: apiKey,
		Model:  model,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var requestData struct {
		Model    string            `json:"model"`
		Messages []json.RawMessage `json:"messages"`
		Tools    []json.RawMessage `json:"tools"`
	}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &requestData)
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"model", requestData.Model,
		"messages", len(requestData.Messages),
		"tools", len(requestData.Tools),
		"bodyBytes", len(bodyBytes),
	)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP Request failed", "url", req.URL.String(), "error", err)
		return nil, err
	}

	t.logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
	)

	return resp, nil
}

func NewAdapter(cfg Config) *Adapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Logger != nil {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		wrapped := *httpClient
		wrapped.Transport = &loggingTransport{base: base, logger: cfg.Logger}
		httpClient = &wrapped
	}
	config.HTTPClient = httpClient

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Adapter{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: cfg.Logger,
	}
}

// Factory returns an output.LLMFactory that builds adapters sharing every
// setting in base except the API key.
func Factory(base Config) output.LLMFactory {
	return func(apiKey string) output.LLMPort {
		cfg := base
		cfg.APIKey = apiKey
		return NewAdapter(cfg)
	}
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	request := openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
	}
	if tools := convertTools(req.Tools); len(tools) > 0 {
		request.Tools = tools
		request.ToolChoice = "auto"
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	if a.logger != nil {
		a.logger.Debug("Chat completion received",
			"model", resp.Model,
			"finishReason", resp.Choices[0].FinishReason,
			"promptTokens", resp.Usage.PromptTokens,
			"completionTokens", resp.Usage.CompletionTokens)
	}

	return &output.ChatResponse{
		Message: convertResponseMessage(resp.Choices[0].Message),
	}, nil
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}

		if msg.ToolCallID != "" {
			oaiMsg.ToolCallID = msg.ToolCallID
		}
		if msg.Name != "" {
			oaiMsg.Name = msg.Name
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}

		result = append(result, oaiMsg)
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}

func convertResponseMessage(msg openai.ChatCompletionMessage) entity.Message {
	result := entity.Message{
		Role:    entity.MessageRole(msg.Role),
		Content: msg.Content,
	}

	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return result
}
