package entity

type ToolName string

const (
	ToolWebSearch    ToolName = "web_search"
	ToolDelegateWork ToolName = "delegate_work"
)

func (t ToolName) String() string {
	return string(t)
}
