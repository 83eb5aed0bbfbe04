package prompts

import (
	_ "embed"
	"fmt"

	"trip-planner/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed stages.yaml
var StagesYAML []byte

//go:embed agent_system.tmpl
var AgentSystemPrompt string

//go:embed agent_task.tmpl
var AgentTaskPrompt string

type catalogue struct {
	Stages []entity.StageTemplate `yaml:"stages"`
}

// LoadStages parses the embedded stage catalogue.
func LoadStages() ([]entity.StageTemplate, error) {
	return ParseStages(StagesYAML)
}

// ParseStages decodes and checks a stage catalogue. Order in the document is
// execution order.
func ParseStages(data []byte) ([]entity.StageTemplate, error) {
	var c catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse stage catalogue: %w", err)
	}
	if len(c.Stages) == 0 {
		return nil, entity.ErrNoStages
	}

	seen := make(map[entity.StageName]bool, len(c.Stages))
	for i, st := range c.Stages {
		if st.Name == "" || st.Role == "" || st.Goal == "" || st.Task.Description == "" {
			return nil, fmt.Errorf("stage #%d: name, role, goal and task.description are required", i+1)
		}
		if seen[st.Name] {
			return nil, fmt.Errorf("stage %s: duplicate name", st.Name)
		}
		seen[st.Name] = true

		switch st.Delegation {
		case entity.CanDelegate, entity.CannotDelegate:
		case "":
			c.Stages[i].Delegation = entity.CannotDelegate
		default:
			return nil, fmt.Errorf("stage %s: unknown delegation %q", st.Name, st.Delegation)
		}
	}

	return c.Stages, nil
}
