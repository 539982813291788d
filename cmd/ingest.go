package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/edslab/courserag/internal/docproc"
	"github.com/edslab/courserag/internal/embedding"
	"github.com/edslab/courserag/internal/ingest"
	"github.com/edslab/courserag/internal/metrics"
	"github.com/edslab/courserag/internal/scanner"
	"github.com/edslab/courserag/internal/types"
)

var (
	ingestDocsDir       string
	ingestClearExisting bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index course scripts into the vector store",
	Long: `
Index course scripts (.txt and .md) into Amazon S3 Vectors. Scripts can come
from a local directory, an S3 bucket (DOCS_S3_BUCKET) or GitHub repositories
(DOCS_GITHUB_REPOS). Courses whose titles are already indexed are skipped, so
re-running ingestion only picks up new material.

Examples:
  courserag ingest --docs ./docs
  courserag ingest --docs ./docs --clear
`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDocsDir, "docs", "d", "", "Local directory containing course scripts")
	ingestCmd.Flags().BoolVar(&ingestClearExisting, "clear", false, "Clear all indexed data before ingesting")
}

func runIngest(cmd *cobra.Command, args []string) error {
	metrics.RecordInvocation(metrics.ModeIngest)

	cfg := rootConfig
	if ingestDocsDir == "" && cfg.DocsS3Bucket == "" && cfg.DocsGitReposStr == "" {
		return fmt.Errorf("no document source configured: pass --docs or set DOCS_S3_BUCKET or DOCS_GITHUB_REPOS")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	throttled := embedding.NewThrottled(embedder, cfg.EmbedRateLimit, cfg.EmbedRateBurst)

	store, err := buildStore(ctx, cfg, throttled)
	if err != nil {
		return err
	}

	files, loaders, cleanup, err := collectScripts(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(files) == 0 {
		log.Println("No course scripts found, nothing to do")
		return nil
	}

	processor := docproc.NewProcessor(cfg.ChunkSize, cfg.ChunkOverlap)
	service := ingest.NewService(store, processor, cfg.Concurrency)

	result, err := service.Run(ctx, files, loaders, ingestClearExisting)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion summary:\n")
	fmt.Printf("  Files processed: %d\n", result.ProcessedFiles)
	fmt.Printf("  Courses added:   %d\n", result.CoursesAdded)
	fmt.Printf("  Courses skipped: %d\n", result.CoursesSkipped)
	fmt.Printf("  Chunks indexed:  %d\n", result.ChunksIndexed)
	fmt.Printf("  Duration:        %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:          %d\n", len(result.Errors))
		for _, procErr := range result.Errors {
			fmt.Printf("    - %s\n", procErr.Error())
		}
	}

	return nil
}

// collectScripts discovers course scripts from all configured sources and
// returns a loader that can fetch content the scanners left unloaded.
func collectScripts(ctx context.Context, cfg *types.Config) ([]*scanner.ScriptFile, ingest.ContentLoader, func(), error) {
	var files []*scanner.ScriptFile
	cleanup := func() {}

	fileScanner := scanner.NewFileScanner()
	if ingestDocsDir != "" {
		local, err := fileScanner.ScanDirectory(ingestDocsDir)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("failed to scan local directory: %w", err)
		}
		log.Printf("Found %d course scripts in %s", len(local), ingestDocsDir)
		files = append(files, local...)
	}

	var s3Scanner *scanner.S3Scanner
	if cfg.DocsS3Bucket != "" {
		var err error
		s3Scanner, err = scanner.NewS3Scanner(cfg.DocsS3Bucket, cfg.DocsS3Prefix, cfg.AWSRegion)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("failed to create S3 scanner: %w", err)
		}
		if err := s3Scanner.ValidateBucket(ctx); err != nil {
			return nil, nil, cleanup, err
		}
		remote, err := s3Scanner.ScanBucket(ctx)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("failed to scan S3 bucket: %w", err)
		}
		files = append(files, remote...)
	}

	if cfg.DocsGitReposStr != "" {
		repos, err := scanner.ParseGitHubRepos(cfg.DocsGitReposStr)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("invalid DOCS_GITHUB_REPOS: %w", err)
		}
		gitScanner := scanner.NewGitHubScanner(repos, cfg.GitHubToken)
		cleanup = gitScanner.Cleanup
		cloned, err := gitScanner.ScanAllRepositories(ctx)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("failed to scan GitHub repositories: %w", err)
		}
		files = append(files, cloned...)
	}

	loader := func(ctx context.Context, file *scanner.ScriptFile) (string, error) {
		if scanner.IsS3Path(file.Path) && s3Scanner != nil {
			return s3Scanner.DownloadFile(ctx, file.Path)
		}
		return fileScanner.ReadFileContent(file.Path)
	}

	return files, loader, cleanup, nil
}
