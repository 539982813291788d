package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRepos_SingleRepo(t *testing.T) {
	repos, err := ParseGitHubRepos("owner/repo")
	require.NoError(t, err)
	assert.Len(t, repos, 1)
	assert.Equal(t, "owner", repos[0].Owner)
	assert.Equal(t, "repo", repos[0].Name)
}

func TestParseGitHubRepos_MultipleRepos(t *testing.T) {
	repos, err := ParseGitHubRepos("owner1/repo1,owner2/repo2")
	require.NoError(t, err)
	assert.Len(t, repos, 2)
	assert.Equal(t, "owner1", repos[0].Owner)
	assert.Equal(t, "repo1", repos[0].Name)
	assert.Equal(t, "owner2", repos[1].Owner)
	assert.Equal(t, "repo2", repos[1].Name)
}

func TestParseGitHubRepos_WhitespaceHandling(t *testing.T) {
	repos, err := ParseGitHubRepos(" owner/repo , owner2/repo2 ")
	require.NoError(t, err)
	assert.Len(t, repos, 2)
	assert.Equal(t, "owner", repos[0].Owner)
	assert.Equal(t, "repo", repos[0].Name)
}

func TestParseGitHubRepos_InvalidFormat(t *testing.T) {
	_, err := ParseGitHubRepos("invalid")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid GitHub repo format")
}

func TestParseGitHubRepos_EmptyString(t *testing.T) {
	_, err := ParseGitHubRepos("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseGitHubRepos_MissingOwner(t *testing.T) {
	_, err := ParseGitHubRepos("/repo")
	assert.Error(t, err)
}

func TestParseGitHubRepos_MissingRepo(t *testing.T) {
	_, err := ParseGitHubRepos("owner/")
	assert.Error(t, err)
}

func TestParseGitHubRepos_TooManySlashes(t *testing.T) {
	_, err := ParseGitHubRepos("owner/repo/extra")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid GitHub repo format")
}

func TestNewGitHubScanner(t *testing.T) {
	repos := []GitHubRepo{
		{Owner: "owner1", Name: "repo1"},
		{Owner: "owner2", Name: "repo2"},
	}

	s := NewGitHubScanner(repos, "test-token")
	assert.NotNil(t, s)
	assert.Len(t, s.repos, 2)
	assert.Equal(t, "test-token", s.token)
}

func TestGitHubScanner_ScanRepository(t *testing.T) {
	tmpDir := t.TempDir()

	coursesDir := filepath.Join(tmpDir, "docs", "courses")
	require.NoError(t, os.MkdirAll(coursesDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# Overview"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(coursesDir, "course1.txt"), []byte("Course Title: Test\nLesson 1: Intro"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "main.go"), []byte("package main"), 0o644))

	gitDir := filepath.Join(tmpDir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "config"), []byte("[core]"), 0o644))

	repo := GitHubRepo{Owner: "testowner", Name: "testrepo"}
	s := NewGitHubScanner([]GitHubRepo{repo}, "")

	files, err := s.ScanRepository(context.Background(), repo, tmpDir)
	require.NoError(t, err)

	assert.Len(t, files, 2)

	pathMap := make(map[string]*ScriptFile)
	for _, f := range files {
		pathMap[f.Path] = f
	}

	course, ok := pathMap["github://testowner/testrepo/docs/courses/course1.txt"]
	require.True(t, ok, "course1.txt should be found")
	assert.Equal(t, "course1.txt", course.Name)
	assert.Equal(t, "github", course.SourceType)
	assert.Equal(t, "Course Title: Test\nLesson 1: Intro", course.Content,
		"content is loaded eagerly for temporary clones")

	_, goFileExists := pathMap["github://testowner/testrepo/main.go"]
	assert.False(t, goFileExists, ".go files should not be included")
}

func TestGitHubScanner_Cleanup(t *testing.T) {
	tmpDir := t.TempDir()

	innerDir, err := os.MkdirTemp(tmpDir, "courserag-test-*")
	require.NoError(t, err)

	s := &GitHubScanner{
		tempDirs: []string{innerDir},
	}

	s.Cleanup()

	_, err = os.Stat(innerDir)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, s.tempDirs)
}

func TestIsGitHubPath(t *testing.T) {
	assert.True(t, IsGitHubPath("github://owner/repo/file.md"))
	assert.False(t, IsGitHubPath("s3://bucket/file.md"))
	assert.False(t, IsGitHubPath("/local/file.md"))
}
