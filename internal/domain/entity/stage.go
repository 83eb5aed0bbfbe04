package entity

type StageName string

const (
	StageResearcher       StageName = "researcher"
	StageBudgetPlanner    StageName = "budget_planner"
	StageItineraryPlanner StageName = "itinerary_planner"
)

// Delegation tags whether a stage may hand work off to a coworker stage.
type Delegation string

const (
	CanDelegate    Delegation = "can_delegate"
	CannotDelegate Delegation = "cannot_delegate"
)

// StageTemplate is the declarative, not yet interpolated form of a stage.
// Goal and Task.Description may reference {{.destination}} and {{.budget}}.
type StageTemplate struct {
	Name       StageName  `yaml:"name"`
	Role       string     `yaml:"role"`
	Goal       string     `yaml:"goal"`
	Backstory  string     `yaml:"backstory"`
	Task       TaskSpec   `yaml:"task"`
	Tools      []ToolName `yaml:"tools"`
	Delegation Delegation `yaml:"delegation"`
}

type TaskSpec struct {
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

// Stage is a StageTemplate rendered for one trip request.
type Stage struct {
	Name       StageName
	Role       string
	Goal       string
	Backstory  string
	Task       TaskSpec
	Tools      []ToolName
	Delegation Delegation
}

func (s Stage) CanDelegate() bool {
	return s.Delegation == CanDelegate
}

func (s Stage) HasTool(name ToolName) bool {
	for _, t := range s.Tools {
		if t == name {
			return true
		}
	}
	return false
}

type StageOutput struct {
	Stage      StageName
	Role       string
	Output     string
	Iterations int
}
