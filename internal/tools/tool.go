package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// Definition describes one tool in the shape the model expects: a name, a
// human-readable description and a JSON schema for the arguments.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Tool is one callable tool. Execute returns the tool output as a string to
// be handed back to the model; domain-level failures (bad input, nothing
// found) are reported inside that string, while the error return is reserved
// for infrastructure failures the caller must handle.
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// SourceTracker is implemented by tools that record where their last output
// came from, so the caller can surface citations after a response.
type SourceTracker interface {
	LastSources() []string
	ResetSources()
}
