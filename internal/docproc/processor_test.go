package docproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `Course Title: Building Toward Computer Use
Course Link: https://example.com/course
Course Instructor: Colt Steele

Lesson 0: Introduction
Lesson Link: https://example.com/lesson0
Welcome to the course. This lesson introduces the main concepts. We will cover the basics first.

Lesson 1: Getting Started
Lesson Link: https://example.com/lesson1
This lesson covers setup. Install the required tools before continuing.
`

func TestProcessor_ProcessDocument(t *testing.T) {
	processor := NewProcessor(800, 100)

	course, chunks, err := processor.ProcessDocument("course1.txt", sampleScript)
	require.NoError(t, err)

	assert.Equal(t, "Building Toward Computer Use", course.Title)
	assert.Equal(t, "https://example.com/course", course.CourseLink)
	assert.Equal(t, "Colt Steele", course.Instructor)

	require.Len(t, course.Lessons, 2)
	assert.Equal(t, 0, course.Lessons[0].LessonNumber)
	assert.Equal(t, "Introduction", course.Lessons[0].Title)
	assert.Equal(t, "https://example.com/lesson0", course.Lessons[0].LessonLink)
	assert.Equal(t, 1, course.Lessons[1].LessonNumber)

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, "Building Toward Computer Use", chunk.CourseTitle)
		assert.Equal(t, i, chunk.ChunkIndex, "chunk indexes are sequential across the course")
		require.NotNil(t, chunk.LessonNumber)
	}
	assert.Equal(t, 0, *chunks[0].LessonNumber)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Lesson 0 content: "),
		"the first chunk of a lesson carries the lesson context prefix")
}

func TestProcessor_MissingTitle(t *testing.T) {
	processor := NewProcessor(800, 100)

	_, _, err := processor.ProcessDocument("bad.txt", "Just some text without headers")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Course Title")
}

func TestProcessor_ContentBeforeFirstLesson(t *testing.T) {
	script := "Course Title: Intro Course\n\nSome preamble text before any lesson marker.\n\nLesson 1: Start\nLesson body here.\n"
	processor := NewProcessor(800, 100)

	_, chunks, err := processor.ProcessDocument("pre.txt", script)
	require.NoError(t, err)

	require.NotEmpty(t, chunks)
	assert.Nil(t, chunks[0].LessonNumber, "preamble chunks carry no lesson number")
}

func TestProcessor_LessonWithoutLink(t *testing.T) {
	script := "Course Title: No Links\n\nLesson 1: Only Title\nBody text of the lesson.\n"
	processor := NewProcessor(800, 100)

	course, _, err := processor.ProcessDocument("nolink.txt", script)
	require.NoError(t, err)

	require.Len(t, course.Lessons, 1)
	assert.Empty(t, course.Lessons[0].LessonLink)
}

func TestSplitter_ShortTextSingleChunk(t *testing.T) {
	splitter := NewSplitter(800, 100)

	chunks := splitter.Split("One short sentence.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "One short sentence.", chunks[0])
}

func TestSplitter_RespectsChunkSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("This is sentence number one of the long transcript. ")
	}
	splitter := NewSplitter(200, 50)

	chunks := splitter.Split(b.String())

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
		assert.True(t, strings.HasSuffix(chunk, "."), "chunks end on sentence boundaries")
	}
}

func TestSplitter_OverlapCarriesSentences(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third sentence ends. Fourth sentence closes. Fifth sentence done."
	splitter := NewSplitter(60, 30)

	chunks := splitter.Split(text)
	require.Greater(t, len(chunks), 1)

	// The first sentence of each later chunk must appear in the previous one.
	for i := 1; i < len(chunks); i++ {
		firstSentence := strings.SplitAfter(chunks[i], ".")[0]
		assert.Contains(t, chunks[i-1], strings.TrimSpace(firstSentence))
	}
}

func TestSplitter_NormalizesWhitespace(t *testing.T) {
	splitter := NewSplitter(800, 100)

	chunks := splitter.Split("Line one\nwraps   oddly.\n\nAnd continues here.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Line one wraps oddly. And continues here.", chunks[0])
}

func TestSplitter_EmptyText(t *testing.T) {
	splitter := NewSplitter(800, 100)

	assert.Nil(t, splitter.Split(""))
	assert.Nil(t, splitter.Split("   \n\t  "))
}

func TestSplitter_OversizedSentenceKept(t *testing.T) {
	long := strings.Repeat("word ", 100) + "end."
	splitter := NewSplitter(50, 10)

	chunks := splitter.Split(long)

	require.Len(t, chunks, 1, "a sentence longer than the limit is not cut mid-sentence")
}
