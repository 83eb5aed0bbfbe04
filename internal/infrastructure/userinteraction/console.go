package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.PipelineObserver = (*ConsoleObserver)(nil)

// ConsoleObserver prints pipeline progress to a terminal.
type ConsoleObserver struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleObserver() *ConsoleObserver {
	return NewConsoleObserverTo(os.Stdout)
}

func NewConsoleObserverTo(w io.Writer) *ConsoleObserver {
	return &ConsoleObserver{out: w}
}

func (c *ConsoleObserver) StageStarted(ctx context.Context, stage entity.Stage, index, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(c.out, "\n━━━ Stage %d/%d: %s ━━━\n", index, total, stage.Role)

	dim := color.New(color.Faint)
	dim.Fprintf(c.out, "   %s\n", truncate(stage.Goal, 120))
}

func (c *ConsoleObserver) ToolInvoked(ctx context.Context, stage entity.StageName, tool entity.ToolName, arguments string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon, name := getToolDisplay(tool)
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(c.out, "%s %s\n", icon, name)

	if summary := formatToolArguments(tool, arguments); summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(c.out, "   %s\n", summary)
	}
}

func (c *ConsoleObserver) StageCompleted(ctx context.Context, stage entity.StageName, output string, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	green := color.New(color.FgGreen)
	green.Fprintf(c.out, "✓ %s finished in %s\n", stage, elapsed.Round(time.Millisecond))

	dim := color.New(color.Faint)
	dim.Fprintln(c.out, truncate(output, 300))
}

func (c *ConsoleObserver) StageFailed(ctx context.Context, stage entity.StageName, err error, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	red := color.New(color.FgRed)
	red.Fprintf(c.out, "❌ %s failed after %s: ", stage, elapsed.Round(time.Millisecond))

	dim := color.New(color.Faint)
	dim.Fprintln(c.out, truncate(err.Error(), 300))
}

func getToolDisplay(tool entity.ToolName) (string, string) {
	displays := map[entity.ToolName][2]string{
		entity.ToolWebSearch:    {"🔎", "Web search"},
		entity.ToolDelegateWork: {"🤝", "Delegate work"},
	}

	if display, ok := displays[tool]; ok {
		return display[0], display[1]
	}
	return "🔧", tool.String()
}

func formatToolArguments(tool entity.ToolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch tool {
	case entity.ToolWebSearch:
		if query, ok := args["query"].(string); ok {
			return fmt.Sprintf("Query: %s", truncate(query, 80))
		}

	case entity.ToolDelegateWork:
		coworker, _ := args["coworker"].(string)
		task, _ := args["task"].(string)
		if coworker != "" {
			return fmt.Sprintf("Coworker: %s | Task: %s", coworker, truncate(task, 60))
		}
	}

	return ""
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
