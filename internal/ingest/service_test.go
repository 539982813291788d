package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edslab/courserag/internal/docproc"
	"github.com/edslab/courserag/internal/scanner"
	"github.com/edslab/courserag/internal/vectorstore"
)

// memIndex is a minimal in-memory vectorstore.Index for pipeline tests.
type memIndex struct {
	mu      sync.Mutex
	entries map[string]vectorstore.Entry
}

func newMemIndex() *memIndex {
	return &memIndex{entries: make(map[string]vectorstore.Entry)}
}

func (m *memIndex) Query(context.Context, string, map[string]interface{}, int) ([]vectorstore.Hit, error) {
	return nil, nil
}

func (m *memIndex) Add(_ context.Context, entries []vectorstore.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.Key] = e
	}
	return nil
}

func (m *memIndex) Get(_ context.Context, keys []string) ([]vectorstore.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []vectorstore.Entry
	for _, k := range keys {
		if e, ok := m.entries[k]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memIndex) ListKeys(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memIndex) Clear(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[string]vectorstore.Entry)
	return n, nil
}

func scriptFile(name, title string) *scanner.ScriptFile {
	return &scanner.ScriptFile{
		Path: name,
		Name: name,
		Content: fmt.Sprintf(
			"Course Title: %s\nCourse Link: https://example.com\nCourse Instructor: Someone\n\nLesson 1: Intro\nThis lesson explains the basics. It keeps things short.\n",
			title),
	}
}

func TestService_Run_IndexesCourses(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 2)

	files := []*scanner.ScriptFile{
		scriptFile("a.txt", "Course A"),
		scriptFile("b.txt", "Course B"),
	}

	result, err := service.Run(context.Background(), files, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedFiles)
	assert.Equal(t, 2, result.CoursesAdded)
	assert.Equal(t, 0, result.CoursesSkipped)
	assert.Empty(t, result.Errors)
	assert.Greater(t, result.ChunksIndexed, 0)

	titles, err := store.ExistingCourseTitles(context.Background())
	require.NoError(t, err)
	assert.Len(t, titles, 2)
}

func TestService_Run_SkipsExistingCourses(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 2)

	_, err := service.Run(context.Background(), []*scanner.ScriptFile{scriptFile("a.txt", "Course A")}, nil, false)
	require.NoError(t, err)

	result, err := service.Run(context.Background(), []*scanner.ScriptFile{
		scriptFile("a.txt", "Course A"),
		scriptFile("b.txt", "Course B"),
	}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CoursesAdded)
	assert.Equal(t, 1, result.CoursesSkipped)
}

func TestService_Run_DuplicateTitlesInOneRun(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 4)

	result, err := service.Run(context.Background(), []*scanner.ScriptFile{
		scriptFile("a.txt", "Course A"),
		scriptFile("a_copy.txt", "Course A"),
	}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CoursesAdded)
	assert.Equal(t, 1, result.CoursesSkipped)
}

func TestService_Run_ClearExisting(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 2)

	_, err := service.Run(context.Background(), []*scanner.ScriptFile{scriptFile("a.txt", "Course A")}, nil, false)
	require.NoError(t, err)

	result, err := service.Run(context.Background(), []*scanner.ScriptFile{scriptFile("a.txt", "Course A")}, nil, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CoursesAdded, "after clearing, the course is re-indexed")
	assert.Equal(t, 0, result.CoursesSkipped)
}

func TestService_Run_CollectsPerFileErrors(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 2)

	files := []*scanner.ScriptFile{
		{Path: "bad.txt", Name: "bad.txt", Content: "no headers at all"},
		scriptFile("good.txt", "Course Good"),
	}

	result, err := service.Run(context.Background(), files, nil, false)
	require.NoError(t, err, "per-file failures must not abort the run")

	assert.Equal(t, 1, result.CoursesAdded)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad.txt", result.Errors[0].FilePath)
}

func TestService_Run_UsesLoader(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 2)

	loaded := scriptFile("remote.txt", "Remote Course").Content
	files := []*scanner.ScriptFile{{Path: "s3://bucket/remote.txt", Name: "remote.txt"}}

	result, err := service.Run(context.Background(), files,
		func(context.Context, *scanner.ScriptFile) (string, error) { return loaded, nil }, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CoursesAdded)
}

func TestService_Run_LoaderFailureRecorded(t *testing.T) {
	catalog, content := newMemIndex(), newMemIndex()
	store := vectorstore.NewStore(catalog, content, 5)
	service := NewService(store, docproc.NewProcessor(800, 100), 2)

	files := []*scanner.ScriptFile{{Path: "s3://bucket/gone.txt", Name: "gone.txt"}}

	result, err := service.Run(context.Background(), files,
		func(context.Context, *scanner.ScriptFile) (string, error) { return "", errors.New("404") }, false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CoursesAdded)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "404")
}
