package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
)

var _ output.SearchPort = (*Client)(nil)

const (
	DefaultBaseURL    = "https://google.serper.dev"
	DefaultMaxResults = 10
)

var (
	ErrMissingAPIKey = errors.New("serper: API key is missing")
	ErrEmptyQuery    = errors.New("serper: query is empty")
)

// StatusError is returned for any non-200 reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("serper http %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg}
}

// Factory returns an output.SearchFactory sharing every setting in base
// except the API key.
func Factory(base Config) output.SearchFactory {
	return func(apiKey string) output.SearchPort {
		cfg := base
		cfg.APIKey = apiKey
		return NewClient(cfg)
	}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type searchResponse struct {
	AnswerBox *struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"answerBox"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Website     string `json:"website"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
}

// Search runs one query against the Serper web search endpoint. The answer
// box and knowledge graph, when present, are returned ahead of the organic
// results.
func (c *Client) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	body, err := json.Marshal(searchRequest{Q: query, Num: c.cfg.MaxResults})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}

	results := collectResults(payload, c.cfg.MaxResults)

	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug("Serper search completed",
			"query", query,
			"results", len(results),
			"durationMs", time.Since(start).Milliseconds())
	}

	return results, nil
}

func collectResults(payload searchResponse, limit int) []entity.SearchResult {
	results := make([]entity.SearchResult, 0, len(payload.Organic)+2)

	if ab := payload.AnswerBox; ab != nil {
		snippet := ab.Answer
		if snippet == "" {
			snippet = ab.Snippet
		}
		if snippet != "" {
			results = append(results, entity.SearchResult{
				Title:   CleanSnippet(ab.Title),
				Link:    ab.Link,
				Snippet: CleanSnippet(snippet),
			})
		}
	}

	if kg := payload.KnowledgeGraph; kg != nil && kg.Description != "" {
		title := kg.Title
		if kg.Type != "" {
			title = fmt.Sprintf("%s (%s)", kg.Title, kg.Type)
		}
		results = append(results, entity.SearchResult{
			Title:   CleanSnippet(title),
			Link:    kg.Website,
			Snippet: CleanSnippet(kg.Description),
		})
	}

	for _, o := range payload.Organic {
		if len(results) >= limit {
			break
		}
		results = append(results, entity.SearchResult{
			Title:   CleanSnippet(o.Title),
			Link:    o.Link,
			Snippet: CleanSnippet(o.Snippet),
		})
	}

	for i := range results {
		results[i].Position = i + 1
	}
	return results
}
