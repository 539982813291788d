package ragsystem

import (
	"context"
	"fmt"

	"github.com/edslab/courserag/internal/agent"
	"github.com/edslab/courserag/internal/session"
	"github.com/edslab/courserag/internal/tools"
	"github.com/edslab/courserag/internal/vectorstore"
)

// Generator answers one query given history and the tools it may call.
type Generator interface {
	GenerateResponse(ctx context.Context, query, conversationHistory string, toolDefs []tools.Definition, executor agent.ToolExecutor) (string, error)
}

// System ties the pieces of one Q&A turn together: session history in, model
// loop with the search tool, answer and sources out.
type System struct {
	generator Generator
	sessions  *session.Manager
	store     *vectorstore.Store
}

// Answer is the result of one query: the response text and the sources the
// search tool consulted, in citation form ("<course> - Lesson <n>").
type Answer struct {
	Response string
	Sources  []string
}

// New creates a System over the given generator, session manager and store.
func New(generator Generator, sessions *session.Manager, store *vectorstore.Store) *System {
	return &System{
		generator: generator,
		sessions:  sessions,
		store:     store,
	}
}

// CreateSession starts a new conversation and returns its ID.
func (s *System) CreateSession() string {
	return s.sessions.CreateSession()
}

// Query answers one user question. sessionID may be empty for a one-shot
// question with no history.
//
// The tool registry is built fresh for every turn so source attribution
// can never leak between concurrent conversations.
func (s *System) Query(ctx context.Context, query, sessionID string) (*Answer, error) {
	registry := tools.NewRegistry()
	searchTool := tools.NewCourseSearchTool(s.store)
	if err := registry.Register(searchTool); err != nil {
		return nil, fmt.Errorf("failed to register search tool: %w", err)
	}

	prompt := fmt.Sprintf("Answer this question about course materials: %s", query)

	history := ""
	if sessionID != "" {
		history = s.sessions.History(sessionID)
	}

	response, err := s.generator.GenerateResponse(ctx, prompt, history, registry.Definitions(), registry)
	if err != nil {
		return nil, err
	}

	sources := registry.LastSources()
	registry.ResetSources()

	if sessionID != "" {
		s.sessions.AddExchange(sessionID, query, response)
	}

	return &Answer{
		Response: response,
		Sources:  sources,
	}, nil
}

// Analytics describes the indexed course catalog.
type Analytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// GetCourseAnalytics reports how many courses are indexed and their titles.
func (s *System) GetCourseAnalytics(ctx context.Context) (*Analytics, error) {
	titles, err := s.store.ExistingCourseTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load course analytics: %w", err)
	}
	return &Analytics{
		TotalCourses: len(titles),
		CourseTitles: titles,
	}, nil
}
