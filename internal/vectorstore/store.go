package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edslab/courserag/internal/types"
)

// Entry is one record written to or read from a similarity index.
type Entry struct {
	Key      string
	Document string
	Metadata map[string]interface{}
}

// Hit is one ranked result returned by a similarity index query.
type Hit struct {
	Key      string
	Document string
	Distance float64
	Metadata map[string]interface{}
}

// Index abstracts a similarity index over embedded documents. Queries accept
// an optional exact-match metadata filter alongside the free-text query.
type Index interface {
	Query(ctx context.Context, text string, filter map[string]interface{}, topK int) ([]Hit, error)
	Add(ctx context.Context, entries []Entry) error
	Get(ctx context.Context, keys []string) ([]Entry, error)
	ListKeys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) (int, error)
}

// Store owns the course catalog and course content indexes. The catalog holds
// one entry per course title and is used for fuzzy course name resolution; the
// content index holds the chunked course material.
type Store struct {
	catalog    Index
	content    Index
	maxResults int
}

// NewStore creates a Store over the given catalog and content indexes.
// maxResults is the default result limit for searches that don't supply one.
func NewStore(catalog, content Index, maxResults int) *Store {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Store{
		catalog:    catalog,
		content:    content,
		maxResults: maxResults,
	}
}

// BuildFilter builds the exact-match metadata predicate for a content query.
// It returns nil when neither field is present, a single-field predicate when
// exactly one is, and an $and conjunction when both are. courseTitle must be
// an already-resolved title, never the raw user input.
func BuildFilter(courseTitle string, lessonNumber *int) map[string]interface{} {
	switch {
	case courseTitle != "" && lessonNumber != nil:
		return map[string]interface{}{
			"$and": []map[string]interface{}{
				{"course_title": courseTitle},
				{"lesson_number": *lessonNumber},
			},
		}
	case courseTitle != "":
		return map[string]interface{}{"course_title": courseTitle}
	case lessonNumber != nil:
		return map[string]interface{}{"lesson_number": *lessonNumber}
	default:
		return nil
	}
}

// ResolveCourseName resolves a partial or fuzzy course name to the best
// matching catalog title using a limit-1 similarity lookup. It reports false
// when the catalog has no match or the lookup itself fails; it never returns
// an error.
func (s *Store) ResolveCourseName(ctx context.Context, name string) (string, bool) {
	hits, err := s.catalog.Query(ctx, name, nil, 1)
	if err != nil || len(hits) == 0 {
		return "", false
	}
	title, ok := hits[0].Metadata["title"].(string)
	if !ok || title == "" {
		return "", false
	}
	return title, true
}

// Search executes a similarity search over course content. courseName may be
// a partial name and is resolved against the catalog first; an unresolvable
// name short-circuits with an error result and no index query. Index failures
// are converted to error results. Search never returns a Go error.
func (s *Store) Search(ctx context.Context, query, courseName string, lessonNumber *int, limit int) *SearchResults {
	resolvedTitle := ""
	if courseName != "" {
		title, ok := s.ResolveCourseName(ctx, courseName)
		if !ok {
			return EmptyResults(fmt.Sprintf("No course found matching '%s'", courseName))
		}
		resolvedTitle = title
	}

	filter := BuildFilter(resolvedTitle, lessonNumber)

	if limit <= 0 {
		limit = s.maxResults
	}

	hits, err := s.content.Query(ctx, query, filter, limit)
	if err != nil {
		return EmptyResults(fmt.Sprintf("Search error: %v", err))
	}

	results := &SearchResults{
		Documents: make([]string, 0, len(hits)),
		Metadata:  make([]map[string]interface{}, 0, len(hits)),
		Distances: make([]float64, 0, len(hits)),
	}
	for _, hit := range hits {
		results.Documents = append(results.Documents, hit.Document)
		results.Metadata = append(results.Metadata, hit.Metadata)
		results.Distances = append(results.Distances, hit.Distance)
	}
	return results
}

// AddCourseMetadata stores one course in the catalog index. The course title
// doubles as the entry key, so re-adding a course overwrites its entry.
func (s *Store) AddCourseMetadata(ctx context.Context, course *types.Course) error {
	if course == nil || course.Title == "" {
		return fmt.Errorf("course title cannot be empty")
	}

	lessonsJSON, err := json.Marshal(course.Lessons)
	if err != nil {
		return fmt.Errorf("failed to marshal lessons for course %q: %w", course.Title, err)
	}

	entry := Entry{
		Key:      course.Title,
		Document: course.Title,
		Metadata: map[string]interface{}{
			"title":        course.Title,
			"instructor":   course.Instructor,
			"course_link":  course.CourseLink,
			"lesson_count": len(course.Lessons),
			"lessons_json": string(lessonsJSON),
		},
	}

	if err := s.catalog.Add(ctx, []Entry{entry}); err != nil {
		return fmt.Errorf("failed to add course metadata for %q: %w", course.Title, err)
	}
	return nil
}

// AddCourseContent stores chunked course material in the content index.
func (s *Store) AddCourseContent(ctx context.Context, chunks []types.CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(chunks))
	for _, chunk := range chunks {
		metadata := map[string]interface{}{
			"course_title": chunk.CourseTitle,
			"chunk_index":  chunk.ChunkIndex,
		}
		if chunk.LessonNumber != nil {
			metadata["lesson_number"] = *chunk.LessonNumber
		}
		entries = append(entries, Entry{
			Key:      fmt.Sprintf("%s_%d", strings.ReplaceAll(chunk.CourseTitle, " ", "_"), chunk.ChunkIndex),
			Document: chunk.Content,
			Metadata: metadata,
		})
	}

	if err := s.content.Add(ctx, entries); err != nil {
		return fmt.Errorf("failed to add course content: %w", err)
	}
	return nil
}

// ExistingCourseTitles returns the titles of all courses in the catalog.
func (s *Store) ExistingCourseTitles(ctx context.Context) ([]string, error) {
	keys, err := s.catalog.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course titles: %w", err)
	}
	return keys, nil
}

// CourseCount returns the number of courses in the catalog.
func (s *Store) CourseCount(ctx context.Context) (int, error) {
	titles, err := s.ExistingCourseTitles(ctx)
	if err != nil {
		return 0, err
	}
	return len(titles), nil
}

// AllCoursesMetadata returns the full metadata of every catalog entry with
// the packed lessons_json expanded into a "lessons" list.
func (s *Store) AllCoursesMetadata(ctx context.Context) ([]map[string]interface{}, error) {
	keys, err := s.catalog.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	entries, err := s.catalog.Get(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog entries: %w", err)
	}

	courses := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		metadata := entry.Metadata
		if metadata == nil {
			continue
		}
		if lessonsJSON, ok := metadata["lessons_json"].(string); ok {
			var lessons []types.Lesson
			if err := json.Unmarshal([]byte(lessonsJSON), &lessons); err == nil {
				metadata["lessons"] = lessons
			}
			delete(metadata, "lessons_json")
		}
		courses = append(courses, metadata)
	}
	return courses, nil
}

// CourseLink returns the link of the course with the given exact title, or
// an empty string when the course has none.
func (s *Store) CourseLink(ctx context.Context, title string) (string, error) {
	entries, err := s.catalog.Get(ctx, []string{title})
	if err != nil {
		return "", fmt.Errorf("failed to get course %q: %w", title, err)
	}
	if len(entries) == 0 || entries[0].Metadata == nil {
		return "", nil
	}
	link, _ := entries[0].Metadata["course_link"].(string)
	return link, nil
}

// LessonLink returns the link of a specific lesson within a course, or an
// empty string when the lesson has none or does not exist.
func (s *Store) LessonLink(ctx context.Context, title string, lessonNumber int) (string, error) {
	entries, err := s.catalog.Get(ctx, []string{title})
	if err != nil {
		return "", fmt.Errorf("failed to get course %q: %w", title, err)
	}
	if len(entries) == 0 || entries[0].Metadata == nil {
		return "", nil
	}
	lessonsJSON, ok := entries[0].Metadata["lessons_json"].(string)
	if !ok {
		return "", nil
	}
	var lessons []types.Lesson
	if err := json.Unmarshal([]byte(lessonsJSON), &lessons); err != nil {
		return "", nil
	}
	for _, lesson := range lessons {
		if lesson.LessonNumber == lessonNumber {
			return lesson.LessonLink, nil
		}
	}
	return "", nil
}

// ClearAll removes every entry from both indexes.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.catalog.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear course catalog: %w", err)
	}
	if _, err := s.content.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear course content: %w", err)
	}
	return nil
}
