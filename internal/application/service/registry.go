package service

import (
	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

// ToolRegistryImpl keeps tools in registration order so that the tool list
// sent to the model is stable between runs.
type ToolRegistryImpl struct {
	order []entity.ToolName
	tools map[entity.ToolName]output.ToolPort
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	result := make([]entity.ToolDefinition, 0, len(r.order))
	for _, tool := range r.All() {
		result = append(result, entity.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}

// Subset returns a new registry holding only the named tools, in the order
// they were registered here. Unknown names are skipped.
func (r *ToolRegistryImpl) Subset(names []entity.ToolName) *ToolRegistryImpl {
	sub := NewToolRegistry()
	for _, name := range r.order {
		for _, wanted := range names {
			if name == wanted {
				sub.Register(r.tools[name])
				break
			}
		}
	}
	return sub
}
