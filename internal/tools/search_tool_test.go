package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edslab/courserag/internal/vectorstore"
)

// stubIndex implements vectorstore.Index with scripted query results.
type stubIndex struct {
	hits []vectorstore.Hit
	err  error
}

func (s *stubIndex) Query(context.Context, string, map[string]interface{}, int) ([]vectorstore.Hit, error) {
	return s.hits, s.err
}
func (s *stubIndex) Add(context.Context, []vectorstore.Entry) error        { return nil }
func (s *stubIndex) Get(context.Context, []string) ([]vectorstore.Entry, error) { return nil, nil }
func (s *stubIndex) ListKeys(context.Context) ([]string, error)            { return nil, nil }
func (s *stubIndex) Clear(context.Context) (int, error)                    { return 0, nil }

func storeWith(catalog, content *stubIndex) *vectorstore.Store {
	return vectorstore.NewStore(catalog, content, 5)
}

func catalogFor(title string) *stubIndex {
	return &stubIndex{hits: []vectorstore.Hit{
		{Metadata: map[string]interface{}{"title": title}},
	}}
}

func TestCourseSearchTool_Definition(t *testing.T) {
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, &stubIndex{}))

	def := tool.Definition()

	assert.Equal(t, "search_course_content", def.Name)
	require.NotNil(t, def.InputSchema)
	assert.Contains(t, def.InputSchema.Properties, "query")
	assert.Contains(t, def.InputSchema.Properties, "course_name")
	assert.Contains(t, def.InputSchema.Properties, "lesson_number")
	assert.Equal(t, []string{"query"}, def.InputSchema.Required)
}

func TestCourseSearchTool_Execute_FormatsResults(t *testing.T) {
	content := &stubIndex{hits: []vectorstore.Hit{
		{
			Document: "Python is a high-level programming language.",
			Metadata: map[string]interface{}{"course_title": "Python Basics", "lesson_number": float64(1)},
		},
		{
			Document: "Variables store data values.",
			Metadata: map[string]interface{}{"course_title": "Python Basics", "lesson_number": float64(2)},
		},
	}}
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, content))

	result, err := tool.Execute(context.Background(), map[string]interface{}{"query": "what is python"})

	require.NoError(t, err)
	assert.Equal(t,
		"[Python Basics - Lesson 1]\nPython is a high-level programming language.\n\n"+
			"[Python Basics - Lesson 2]\nVariables store data values.",
		result)
	assert.Equal(t, []string{"Python Basics - Lesson 1", "Python Basics - Lesson 2"}, tool.LastSources())
}

func TestCourseSearchTool_Execute_MissingMetadata(t *testing.T) {
	content := &stubIndex{hits: []vectorstore.Hit{
		{Document: "Some content", Metadata: map[string]interface{}{}},
	}}
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, content))

	result, err := tool.Execute(context.Background(), map[string]interface{}{"query": "anything"})

	require.NoError(t, err)
	assert.Equal(t, "[unknown]\nSome content", result)
	assert.Equal(t, []string{"unknown"}, tool.LastSources())
}

func TestCourseSearchTool_Execute_EmptyResults(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		catalog  *stubIndex
		expected string
	}{
		{
			name:     "no filters",
			args:     map[string]interface{}{"query": "nothing"},
			catalog:  &stubIndex{},
			expected: "No relevant content found.",
		},
		{
			name:     "course filter",
			args:     map[string]interface{}{"query": "nothing", "course_name": "Python"},
			catalog:  catalogFor("Python Basics"),
			expected: "No relevant content found in course 'Python'.",
		},
		{
			name:     "lesson filter",
			args:     map[string]interface{}{"query": "nothing", "lesson_number": float64(3)},
			catalog:  &stubIndex{},
			expected: "No relevant content found in lesson 3.",
		},
		{
			name:     "both filters",
			args:     map[string]interface{}{"query": "nothing", "course_name": "Python", "lesson_number": float64(5)},
			catalog:  catalogFor("Python Basics"),
			expected: "No relevant content found in course 'Python' in lesson 5.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewCourseSearchTool(storeWith(tt.catalog, &stubIndex{}))

			result, err := tool.Execute(context.Background(), tt.args)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.Empty(t, tool.LastSources())
		})
	}
}

func TestCourseSearchTool_Execute_CourseNotFound(t *testing.T) {
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, &stubIndex{}))

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"query":       "anything",
		"course_name": "Nonexistent",
	})

	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Nonexistent'", result)
}

func TestCourseSearchTool_Execute_SearchError(t *testing.T) {
	content := &stubIndex{err: errors.New("connection refused")}
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, content))

	result, err := tool.Execute(context.Background(), map[string]interface{}{"query": "anything"})

	require.NoError(t, err)
	assert.Equal(t, "Search error: connection refused", result)
	assert.Empty(t, tool.LastSources())
}

func TestCourseSearchTool_Execute_MissingQuery(t *testing.T) {
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, &stubIndex{}))

	result, err := tool.Execute(context.Background(), map[string]interface{}{})

	require.NoError(t, err)
	assert.Contains(t, result, "Search error:")
}

func TestCourseSearchTool_Execute_NilStore(t *testing.T) {
	tool := NewCourseSearchTool(nil)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"query": "anything"})

	require.NoError(t, err)
	assert.Contains(t, result, "Search error:")
}

func TestCourseSearchTool_FormatResults_MoreDocumentsThanMetadata(t *testing.T) {
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, &stubIndex{}))

	// A document without matching metadata cannot be cited, so it is dropped.
	results := &vectorstore.SearchResults{
		Documents: []string{"First doc", "Second doc", "Third doc"},
		Metadata: []map[string]interface{}{
			{"course_title": "Course A", "lesson_number": float64(1)},
			{"course_title": "Course B"},
		},
	}

	formatted := tool.formatResults(results)

	assert.Equal(t,
		"[Course A - Lesson 1]\nFirst doc\n\n[Course B]\nSecond doc",
		formatted)
	assert.Equal(t, []string{"Course A - Lesson 1", "Course B"}, tool.LastSources())
}

func TestCourseSearchTool_SourcesOverwrittenPerCall(t *testing.T) {
	content := &stubIndex{hits: []vectorstore.Hit{
		{Document: "First", Metadata: map[string]interface{}{"course_title": "Course A", "lesson_number": float64(1)}},
	}}
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, content))

	_, err := tool.Execute(context.Background(), map[string]interface{}{"query": "first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Course A - Lesson 1"}, tool.LastSources())

	content.hits = []vectorstore.Hit{
		{Document: "Second", Metadata: map[string]interface{}{"course_title": "Course B", "lesson_number": float64(2)}},
	}
	_, err = tool.Execute(context.Background(), map[string]interface{}{"query": "second"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Course B - Lesson 2"}, tool.LastSources(),
		"a new search must replace the previous sources, not append")
}

func TestCourseSearchTool_ResetSources(t *testing.T) {
	content := &stubIndex{hits: []vectorstore.Hit{
		{Document: "Doc", Metadata: map[string]interface{}{"course_title": "Course A"}},
	}}
	tool := NewCourseSearchTool(storeWith(&stubIndex{}, content))

	_, err := tool.Execute(context.Background(), map[string]interface{}{"query": "doc"})
	require.NoError(t, err)
	require.NotEmpty(t, tool.LastSources())

	tool.ResetSources()
	assert.Empty(t, tool.LastSources())
}
