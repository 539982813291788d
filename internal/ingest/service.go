package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/edslab/courserag/internal/docproc"
	"github.com/edslab/courserag/internal/scanner"
	"github.com/edslab/courserag/internal/types"
	"github.com/edslab/courserag/internal/vectorstore"
)

// ContentLoader fetches the content of a discovered script when the scanner
// did not load it eagerly.
type ContentLoader func(ctx context.Context, file *scanner.ScriptFile) (string, error)

// Service runs the ingestion pipeline: parse course scripts, skip courses
// that are already indexed, and write catalog and content entries.
type Service struct {
	store       *vectorstore.Store
	processor   *docproc.Processor
	concurrency int64
}

// NewService creates an ingestion service processing up to concurrency files
// at once.
func NewService(store *vectorstore.Store, processor *docproc.Processor, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Service{
		store:       store,
		processor:   processor,
		concurrency: int64(concurrency),
	}
}

// Run ingests the given scripts. Courses whose titles already exist in the
// catalog are skipped, so re-running ingestion is cheap. clearExisting wipes
// both indexes first. Per-file failures are collected in the result, not
// returned as errors.
func (s *Service) Run(ctx context.Context, files []*scanner.ScriptFile, load ContentLoader, clearExisting bool) (*types.IngestResult, error) {
	result := &types.IngestResult{StartTime: time.Now()}

	if clearExisting {
		log.Printf("Clearing existing course data")
		if err := s.store.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	titles, err := s.store.ExistingCourseTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing courses: %w", err)
	}
	existing := make(map[string]bool, len(titles))
	for _, title := range titles {
		existing[title] = true
	}

	log.Printf("Ingesting %d course scripts (concurrency: %d, %d courses already indexed)",
		len(files), s.concurrency, len(existing))

	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	recordError := func(file *scanner.ScriptFile, err error) {
		mu.Lock()
		defer mu.Unlock()
		result.Errors = append(result.Errors, &types.ProcessingError{
			Message:   err.Error(),
			FilePath:  file.Path,
			Timestamp: time.Now(),
		})
	}

	for _, file := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("ingestion cancelled: %w", err)
		}

		wg.Add(1)
		go func(file *scanner.ScriptFile) {
			defer wg.Done()
			defer sem.Release(1)

			mu.Lock()
			result.ProcessedFiles++
			mu.Unlock()

			content := file.Content
			if content == "" && load != nil {
				loaded, err := load(ctx, file)
				if err != nil {
					recordError(file, fmt.Errorf("failed to load content: %w", err))
					return
				}
				content = loaded
			}

			course, chunks, err := s.processor.ProcessDocument(file.Path, content)
			if err != nil {
				recordError(file, err)
				return
			}

			// Claim the title before indexing so two files with the same
			// course are not indexed twice in one run.
			mu.Lock()
			if existing[course.Title] {
				result.CoursesSkipped++
				mu.Unlock()
				log.Printf("Skipping %q: already indexed", course.Title)
				return
			}
			existing[course.Title] = true
			mu.Unlock()

			if err := s.store.AddCourseMetadata(ctx, course); err != nil {
				recordError(file, err)
				return
			}
			if err := s.store.AddCourseContent(ctx, chunks); err != nil {
				recordError(file, err)
				return
			}

			mu.Lock()
			result.CoursesAdded++
			result.ChunksIndexed += len(chunks)
			mu.Unlock()

			log.Printf("Indexed %q: %d lessons, %d chunks", course.Title, len(course.Lessons), len(chunks))
		}(file)
	}

	wg.Wait()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	log.Printf("Ingestion finished: %d added, %d skipped, %d chunks, %d errors in %v",
		result.CoursesAdded, result.CoursesSkipped, result.ChunksIndexed, len(result.Errors), result.Duration)

	return result, nil
}
