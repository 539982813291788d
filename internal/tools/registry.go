package tools

import (
	"context"
	"fmt"
	"sync"
)

// Registry holds the tools offered to the model and dispatches invocations
// by name.
type Registry struct {
	mutex sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool under its declared name. Registering a second tool
// with the same name replaces the first.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()
	if def.Name == "" {
		return fmt.Errorf("tool must have a name in its definition")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.tools[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = tool
	return nil
}

// Definitions returns the definitions of all registered tools in
// registration order.
func (r *Registry) Definitions() []Definition {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	defs := make([]Definition, 0, len(r.tools))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches one invocation to the named tool. An unknown name is a
// domain-level failure reported in the returned string, not an error: the
// message goes back to the model as the tool result.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	r.mutex.RLock()
	tool, exists := r.tools[name]
	r.mutex.RUnlock()

	if !exists {
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}
	return tool.Execute(ctx, args)
}

// LastSources collects the sources recorded by every tool that tracks them,
// in registration order.
func (r *Registry) LastSources() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var sources []string
	for _, name := range r.order {
		if tracker, ok := r.tools[name].(SourceTracker); ok {
			sources = append(sources, tracker.LastSources()...)
		}
	}
	return sources
}

// ResetSources clears the recorded sources of every tool that tracks them.
func (r *Registry) ResetSources() {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, tool := range r.tools {
		if tracker, ok := tool.(SourceTracker); ok {
			tracker.ResetSources()
		}
	}
}
