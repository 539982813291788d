package llm

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Message roles accepted by the Claude messages API on Bedrock.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Stop reasons returned by the model.
const (
	StopReasonEndTurn = "end_turn"
	StopReasonToolUse = "tool_use"
)

// Content block types.
const (
	ContentTypeText       = "text"
	ContentTypeToolUse    = "tool_use"
	ContentTypeToolResult = "tool_result"
)

// ContentBlock is one element of a message's content list. The populated
// fields depend on Type: text blocks carry Text; tool_use blocks carry
// ID, Name and Input; tool_result blocks carry ToolUseID and Content.
type ContentBlock struct {
	Type      string                 `json:"type"`
	Text      string                 `json:"text,omitempty"`
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name,omitempty"`
	Input     map[string]interface{} `json:"input,omitempty"`
	ToolUseID string                 `json:"tool_use_id,omitempty"`
	Content   string                 `json:"content,omitempty"`
}

// Message represents one turn in the conversation.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewTextMessage builds a message with a single text block.
func NewTextMessage(role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentBlock{{Type: ContentTypeText, Text: text}},
	}
}

// ToolResultBlock builds a tool_result content block tied to the tool_use
// block that requested it.
func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{
		Type:      ContentTypeToolResult,
		ToolUseID: toolUseID,
		Content:   content,
	}
}

// ToolSpec describes one tool offered to the model.
type ToolSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// ToolChoice controls how the model selects tools. The only mode used here
// is {"type": "auto"}: the model decides whether to call a tool.
type ToolChoice struct {
	Type string `json:"type"`
}

// MessageRequest is one call to the model. Tools and ToolChoice are omitted
// from the wire payload entirely when no tools are offered.
type MessageRequest struct {
	System      string
	Messages    []Message
	Tools       []ToolSpec
	ToolChoice  *ToolChoice
	MaxTokens   int
	Temperature float64
}

// MessageResponse is the model's reply.
type MessageResponse struct {
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Usage      Usage          `json:"usage,omitempty"`
}

// Usage represents token usage information
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Text returns the text of the first text content block, or an empty string
// when the response contains none.
func (r *MessageResponse) Text() string {
	for _, block := range r.Content {
		if block.Type == ContentTypeText {
			return block.Text
		}
	}
	return ""
}

// ToolUses returns the tool_use blocks of the response in declared order.
func (r *MessageResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Content {
		if block.Type == ContentTypeToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}
