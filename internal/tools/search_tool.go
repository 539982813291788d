package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/edslab/courserag/internal/vectorstore"
)

// SearchToolName is the name the model uses to invoke course content search.
const SearchToolName = "search_course_content"

// CourseSearchTool searches course content with fuzzy course name matching
// and optional lesson filtering. It records the sources of its last search
// so the caller can attach citations to the final answer.
type CourseSearchTool struct {
	store *vectorstore.Store

	mutex       sync.Mutex
	lastSources []string
}

// NewCourseSearchTool creates a search tool over the given store.
func NewCourseSearchTool(store *vectorstore.Store) *CourseSearchTool {
	return &CourseSearchTool{store: store}
}

// Definition returns the tool definition offered to the model.
func (t *CourseSearchTool) Definition() Definition {
	schemaMap := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "What to search for in the course content",
			},
			"course_name": map[string]interface{}{
				"type":        "string",
				"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
			},
			"lesson_number": map[string]interface{}{
				"type":        "integer",
				"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
			},
		},
		"required": []string{"query"},
	}

	var inputSchema *jsonschema.Schema
	schemaBytes, err := json.Marshal(schemaMap)
	if err == nil {
		inputSchema = &jsonschema.Schema{}
		_ = json.Unmarshal(schemaBytes, inputSchema)
	}

	return Definition{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: inputSchema,
	}
}

// Execute runs one search. Search failures and empty result sets are
// reported in the returned string so the model can react to them; the error
// return stays nil for those cases.
func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	if t.store == nil {
		t.setSources(nil)
		return "Search error: vector store is not configured", nil
	}

	query, _ := args["query"].(string)
	if query == "" {
		t.setSources(nil)
		return "Search error: query parameter is required", nil
	}

	courseName, _ := args["course_name"].(string)

	var lessonNumber *int
	if raw, ok := args["lesson_number"]; ok {
		switch v := raw.(type) {
		case float64:
			n := int(v)
			lessonNumber = &n
		case int:
			n := v
			lessonNumber = &n
		case json.Number:
			if f, err := v.Float64(); err == nil {
				n := int(f)
				lessonNumber = &n
			}
		}
	}

	results := t.store.Search(ctx, query, courseName, lessonNumber, 0)

	if results.Error != "" {
		t.setSources(nil)
		return results.Error, nil
	}

	if results.IsEmpty() {
		t.setSources(nil)
		var filterInfo strings.Builder
		if courseName != "" {
			fmt.Fprintf(&filterInfo, " in course '%s'", courseName)
		}
		if lessonNumber != nil {
			fmt.Fprintf(&filterInfo, " in lesson %d", *lessonNumber)
		}
		return fmt.Sprintf("No relevant content found%s.", filterInfo.String()), nil
	}

	return t.formatResults(results), nil
}

// formatResults renders hits as cited blocks and records the sources. Each
// block is headed by the course title and, when known, the lesson number.
func (t *CourseSearchTool) formatResults(results *vectorstore.SearchResults) string {
	count := len(results.Documents)
	if len(results.Metadata) < count {
		count = len(results.Metadata)
	}

	formatted := make([]string, 0, count)
	sources := make([]string, 0, count)

	for i := 0; i < count; i++ {
		metadata := results.Metadata[i]

		courseTitle := "unknown"
		if title, ok := metadata["course_title"].(string); ok && title != "" {
			courseTitle = title
		}

		header := courseTitle
		if lesson, ok := lessonNumberFrom(metadata); ok {
			header = fmt.Sprintf("%s - Lesson %d", courseTitle, lesson)
		}

		formatted = append(formatted, fmt.Sprintf("[%s]\n%s", header, results.Documents[i]))
		sources = append(sources, header)
	}

	t.setSources(sources)
	return strings.Join(formatted, "\n\n")
}

// lessonNumberFrom reads a lesson number out of hit metadata, tolerating the
// numeric types JSON decoding produces.
func lessonNumberFrom(metadata map[string]interface{}) (int, bool) {
	switch v := metadata["lesson_number"].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func (t *CourseSearchTool) setSources(sources []string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.lastSources = sources
}

// LastSources returns the sources of the most recent search.
func (t *CourseSearchTool) LastSources() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.lastSources
}

// ResetSources clears the recorded sources.
func (t *CourseSearchTool) ResetSources() {
	t.setSources(nil)
}
