package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
)

var _ output.ToolPort = (*DelegateWorkTool)(nil)

// Delegator runs a coworker stage on a delegated task and returns its answer.
type Delegator func(ctx context.Context, coworker entity.Stage, task, taskContext string) (string, error)

type DelegateWorkTool struct {
	coworkers []entity.Stage
	delegate  Delegator
	logger    output.LoggerPort
}

// NewDelegateWorkTool offers the given coworker stages, in order, as
// delegation targets.
func NewDelegateWorkTool(coworkers []entity.Stage, delegate Delegator, logger output.LoggerPort) *DelegateWorkTool {
	return &DelegateWorkTool{
		coworkers: coworkers,
		delegate:  delegate,
		logger:    logger,
	}
}

func (t *DelegateWorkTool) Name() entity.ToolName { return entity.ToolDelegateWork }

func (t *DelegateWorkTool) Description() string {
	var sb strings.Builder
	sb.WriteString("Delegate a specific task or question to one of your coworkers. Provide everything they need to know in the context, they know nothing about your task.\n\nAvailable coworkers:\n")
	for _, c := range t.coworkers {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Role, c.Goal)
	}
	return sb.String()
}

func (t *DelegateWorkTool) Parameters() map[string]interface{} {
	roles := make([]string, 0, len(t.coworkers))
	for _, c := range t.coworkers {
		roles = append(roles, c.Role)
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"coworker": map[string]interface{}{
				"type":        "string",
				"enum":        roles,
				"description": "Role of the coworker to delegate to",
			},
			"task":    stringProperty("The task or question for the coworker"),
			"context": stringProperty("All the context the coworker needs to do the task"),
		},
		"required": []string{"coworker", "task"},
	}
}

func (t *DelegateWorkTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		Coworker string `json:"coworker"`
		Task     string `json:"task"`
		Context  string `json:"context"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", invalidArguments("%v", err)
	}
	if strings.TrimSpace(args.Task) == "" {
		return "", invalidArguments("task is required")
	}

	coworker, ok := t.find(args.Coworker)
	if !ok {
		return "", invalidArguments("unknown coworker %q", args.Coworker)
	}

	t.logger.Info("Delegating work", "coworker", coworker.Role, "task", args.Task)

	answer, err := t.delegate(ctx, coworker, args.Task, args.Context)
	if err != nil {
		return "", fmt.Errorf("coworker %s: %w", coworker.Role, err)
	}
	return answer, nil
}

func (t *DelegateWorkTool) find(role string) (entity.Stage, bool) {
	role = strings.TrimSpace(role)
	for _, c := range t.coworkers {
		if strings.EqualFold(c.Role, role) || string(c.Name) == role {
			return c, true
		}
	}
	return entity.Stage{}, false
}
