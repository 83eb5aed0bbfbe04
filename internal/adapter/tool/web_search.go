package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
)

var _ output.ToolPort = (*WebSearchTool)(nil)

type WebSearchTool struct {
	search  output.SearchPort
	logger  output.LoggerPort
	timeout time.Duration
}

// NewWebSearchTool wraps a search capability. Every call is bounded by
// timeout; zero means no bound beyond the caller's context.
func NewWebSearchTool(search output.SearchPort, logger output.LoggerPort, timeout time.Duration) *WebSearchTool {
	return &WebSearchTool{search: search, logger: logger, timeout: timeout}
}

func (t *WebSearchTool) Name() entity.ToolName { return entity.ToolWebSearch }

func (t *WebSearchTool) Description() string {
	return "Search the internet for up-to-date information such as sights, opening hours, prices, transport options and weather. Returns ranked results with title, link and snippet."
}

func (t *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": stringProperty("The search query"),
		},
		"required": []string{"query"},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", invalidArguments("%v", err)
	}
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return "", invalidArguments("query is required")
	}

	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	results, err := t.search.Search(callCtx, query)
	if err != nil {
		t.logger.Error("Search failed", "query", query, "error", err)
		return "", entity.NewExternalError(entity.ServiceSearch, err)
	}

	t.logger.Debug("Search completed", "query", query, "results", len(results))
	return FormatResults(query, results), nil
}

// FormatResults renders search results as the ranked text block the model sees.
func FormatResults(query string, results []entity.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Search results for %q:\n", query)
	for i, r := range results {
		pos := r.Position
		if pos == 0 {
			pos = i + 1
		}
		fmt.Fprintf(&sb, "\n%d. %s\n", pos, r.Title)
		if r.Link != "" {
			fmt.Fprintf(&sb, "   Link: %s\n", r.Link)
		}
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "   Snippet: %s\n", r.Snippet)
		}
	}
	return sb.String()
}
