package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"trip-planner/internal/domain/entity"

	"github.com/tmc/langchaingo/prompts"
)

var tripVariables = []string{"destination", "budget"}

// RenderStage interpolates the trip parameters into a stage template.
func RenderStage(tmpl entity.StageTemplate, req entity.TripRequest) (entity.Stage, error) {
	values := map[string]any{
		"destination": req.Destination,
		"budget":      strconv.Itoa(req.Budget),
	}

	goal, err := prompts.NewPromptTemplate(tmpl.Goal, tripVariables).Format(values)
	if err != nil {
		return entity.Stage{}, fmt.Errorf("render goal of %s: %w", tmpl.Name, err)
	}

	description, err := prompts.NewPromptTemplate(tmpl.Task.Description, tripVariables).Format(values)
	if err != nil {
		return entity.Stage{}, fmt.Errorf("render task of %s: %w", tmpl.Name, err)
	}

	return entity.Stage{
		Name:      tmpl.Name,
		Role:      tmpl.Role,
		Goal:      goal,
		Backstory: tmpl.Backstory,
		Task: entity.TaskSpec{
			Description:    description,
			ExpectedOutput: tmpl.Task.ExpectedOutput,
		},
		Tools:      append([]entity.ToolName(nil), tmpl.Tools...),
		Delegation: tmpl.Delegation,
	}, nil
}

// RenderStages renders every template in order.
func RenderStages(tmpls []entity.StageTemplate, req entity.TripRequest) ([]entity.Stage, error) {
	stages := make([]entity.Stage, 0, len(tmpls))
	for _, tmpl := range tmpls {
		st, err := RenderStage(tmpl, req)
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	return stages, nil
}

// GenerateSystemPrompt builds the persona prompt for a stage. coworkers are
// listed only when the stage may delegate.
func GenerateSystemPrompt(baseTemplate string, stage entity.Stage, tools []entity.ToolName, coworkers []string) (string, error) {
	var toolsLine, coworkersLine string
	if len(tools) > 0 {
		names := make([]string, 0, len(tools))
		for _, t := range tools {
			names = append(names, t.String())
		}
		toolsLine = "You have access to these tools: " + strings.Join(names, ", ") + ".\n"
	}
	if stage.CanDelegate() && len(coworkers) > 0 {
		coworkersLine = "You can delegate work or ask questions to these coworkers: " + strings.Join(coworkers, ", ") + ".\n"
	}

	tmpl := prompts.NewPromptTemplate(baseTemplate, []string{"role", "backstory", "goal", "tools", "coworkers"})
	return tmpl.Format(map[string]any{
		"role":      stage.Role,
		"backstory": stage.Backstory,
		"goal":      stage.Goal,
		"tools":     toolsLine,
		"coworkers": coworkersLine,
	})
}

// GenerateTaskPrompt builds the user turn for a stage, embedding the outputs
// of earlier stages as context.
func GenerateTaskPrompt(baseTemplate string, stage entity.Stage, prior []entity.StageOutput) (string, error) {
	tmpl := prompts.NewPromptTemplate(baseTemplate, []string{"description", "expected_output", "context"})
	return tmpl.Format(map[string]any{
		"description":     stage.Task.Description,
		"expected_output": stage.Task.ExpectedOutput,
		"context":         FormatContext(prior),
	})
}

// FormatContext renders prior stage outputs in execution order.
func FormatContext(prior []entity.StageOutput) string {
	if len(prior) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\nThis is the context you're working with:\n")
	for _, out := range prior {
		fmt.Fprintf(&sb, "\n### %s\n%s\n", out.Role, strings.TrimSpace(out.Output))
	}
	return sb.String()
}
