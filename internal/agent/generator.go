package agent

import (
	"context"
	"fmt"

	"github.com/edslab/courserag/internal/llm"
	"github.com/edslab/courserag/internal/tools"
)

// systemPrompt steers the model toward course material answers and bounded
// tool usage.
const systemPrompt = `You are an AI assistant specialized in course materials and educational content, with a search tool for course information.

Tool usage:
- Use the search tool for questions about specific course content or detailed educational materials
- You may search more than once when the first search does not fully answer the question, but keep searches focused
- Synthesize search results into accurate, fact-based responses
- If a search yields no results, state this clearly without offering alternatives

Response protocol:
- General knowledge questions: answer using existing knowledge without searching
- Course-specific questions: search first, then answer
- No meta-commentary: provide direct answers only. Do not mention searching, reasoning, or the question itself

All responses must be:
1. Brief and focused - get to the point quickly
2. Educational - maintain instructional value
3. Clear - use accessible language
4. Example-supported - include relevant examples when they aid understanding`

// toolFailureMessage is returned to the user when a follow-up search fails
// after the conversation already contains one round of tool results.
const toolFailureMessage = "I encountered an issue while searching for additional information. Please try rephrasing your question."

// maxToolRounds bounds how many rounds of tool execution one query may
// trigger. With two rounds the model makes at most three calls; the last one
// never offers tools.
const maxToolRounds = 2

// LLMClient is the slice of the chat client the generator needs.
type LLMClient interface {
	CreateMessage(ctx context.Context, req *llm.MessageRequest) (*llm.MessageResponse, error)
}

// ToolExecutor dispatches one tool invocation by name. The tools.Registry
// satisfies this.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) (string, error)
}

// Generator runs the model call loop for one user query: it offers tools,
// feeds tool results back, and returns the model's final text.
type Generator struct {
	client      LLMClient
	temperature float64
	maxTokens   int
}

// NewGenerator creates a Generator over the given chat client.
func NewGenerator(client LLMClient) *Generator {
	return &Generator{
		client:    client,
		maxTokens: 800,
	}
}

// GenerateResponse answers one query. conversationHistory, when non-empty,
// is appended to the system prompt. Tool invocations requested by the model
// are executed serially in the order they appear, and all results of one
// round go back in a single user message.
//
// A tool failure in the first round aborts the query with an error. A
// failure in the second round returns a fixed fallback message instead: the
// conversation already holds useful results and the model can no longer
// recover the context of the failed call.
func (g *Generator) GenerateResponse(ctx context.Context, query, conversationHistory string, toolDefs []tools.Definition, executor ToolExecutor) (string, error) {
	system := systemPrompt
	if conversationHistory != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", systemPrompt, conversationHistory)
	}

	toolSpecs := toToolSpecs(toolDefs)
	messages := []llm.Message{llm.NewTextMessage(llm.RoleUser, query)}

	for round := 0; ; round++ {
		offerTools := round < maxToolRounds && len(toolSpecs) > 0 && executor != nil

		req := &llm.MessageRequest{
			System:      system,
			Messages:    messages,
			MaxTokens:   g.maxTokens,
			Temperature: g.temperature,
		}
		if offerTools {
			req.Tools = toolSpecs
			req.ToolChoice = &llm.ToolChoice{Type: "auto"}
		}

		response, err := g.client.CreateMessage(ctx, req)
		if err != nil {
			return "", fmt.Errorf("failed to generate response: %w", err)
		}

		if !offerTools || response.StopReason != llm.StopReasonToolUse {
			return response.Text(), nil
		}

		toolUses := response.ToolUses()
		if len(toolUses) == 0 {
			return response.Text(), nil
		}

		messages = append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: response.Content,
		})

		resultBlocks := make([]llm.ContentBlock, 0, len(toolUses))
		for _, use := range toolUses {
			output, err := executor.Execute(ctx, use.Name, use.Input)
			if err != nil {
				if round == 0 {
					return "", fmt.Errorf("tool execution failed: %w", err)
				}
				return toolFailureMessage, nil
			}
			resultBlocks = append(resultBlocks, llm.ToolResultBlock(use.ID, output))
		}

		messages = append(messages, llm.Message{
			Role:    llm.RoleUser,
			Content: resultBlocks,
		})
	}
}

func toToolSpecs(defs []tools.Definition) []llm.ToolSpec {
	if len(defs) == 0 {
		return nil
	}
	specs := make([]llm.ToolSpec, 0, len(defs))
	for _, def := range defs {
		specs = append(specs, llm.ToolSpec{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return specs
}
