package docproc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edslab/courserag/internal/types"
)

var lessonMarkerRE = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// Processor parses course scripts into a Course plus content chunks ready
// for indexing.
//
// The expected format is a three-line header followed by lesson sections:
//
//	Course Title: <title>
//	Course Link: <url>
//	Course Instructor: <name>
//
//	Lesson 0: Introduction
//	Lesson Link: <url>
//	<transcript...>
type Processor struct {
	splitter *Splitter
}

// NewProcessor creates a processor chunking with the given size and overlap.
func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	return &Processor{
		splitter: NewSplitter(chunkSize, chunkOverlap),
	}
}

// ProcessDocument parses one course script. source names the document in
// error messages. Content before the first lesson marker is chunked without
// a lesson number.
func (p *Processor) ProcessDocument(source, content string) (*types.Course, []types.CourseChunk, error) {
	lines := strings.Split(content, "\n")

	course, bodyStart, err := parseHeader(source, lines)
	if err != nil {
		return nil, nil, err
	}

	var chunks []types.CourseChunk
	chunkIndex := 0

	var currentLesson *int
	var buffer []string

	flush := func() {
		text := strings.Join(buffer, "\n")
		buffer = buffer[:0]
		for i, piece := range p.splitter.Split(text) {
			if i == 0 && currentLesson != nil {
				piece = fmt.Sprintf("Lesson %d content: %s", *currentLesson, piece)
			}
			chunks = append(chunks, types.CourseChunk{
				Content:      piece,
				CourseTitle:  course.Title,
				LessonNumber: currentLesson,
				ChunkIndex:   chunkIndex,
			})
			chunkIndex++
		}
	}

	for i := bodyStart; i < len(lines); i++ {
		line := lines[i]

		if m := lessonMarkerRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()

			number, convErr := strconv.Atoi(m[1])
			if convErr != nil {
				return nil, nil, fmt.Errorf("invalid lesson number in %s: %w", source, convErr)
			}
			lesson := types.Lesson{
				LessonNumber: number,
				Title:        strings.TrimSpace(m[2]),
			}

			// An optional link line directly follows the marker.
			if i+1 < len(lines) {
				if link, ok := headerValue(lines[i+1], "Lesson Link:"); ok {
					lesson.LessonLink = link
					i++
				}
			}

			course.Lessons = append(course.Lessons, lesson)
			currentLesson = &course.Lessons[len(course.Lessons)-1].LessonNumber
			continue
		}

		buffer = append(buffer, line)
	}
	flush()

	return course, chunks, nil
}

// parseHeader reads the three header lines and returns the course plus the
// index of the first body line. The title is mandatory; link and instructor
// may be absent.
func parseHeader(source string, lines []string) (*types.Course, int, error) {
	course := &types.Course{}
	consumed := 0

	for i := 0; i < len(lines) && i < 4; i++ {
		line := lines[i]
		if v, ok := headerValue(line, "Course Title:"); ok {
			course.Title = v
			consumed = i + 1
			continue
		}
		if v, ok := headerValue(line, "Course Link:"); ok {
			course.CourseLink = v
			consumed = i + 1
			continue
		}
		if v, ok := headerValue(line, "Course Instructor:"); ok {
			course.Instructor = v
			consumed = i + 1
			continue
		}
		if strings.TrimSpace(line) == "" && consumed == i {
			consumed = i + 1
			continue
		}
		break
	}

	if course.Title == "" {
		return nil, 0, fmt.Errorf("missing 'Course Title:' header in %s", source)
	}
	return course, consumed, nil
}

func headerValue(line, prefix string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)), true
}
