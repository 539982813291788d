package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edslab/courserag/internal/metrics"
)

var coursesOutputJSON bool

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the indexed courses",
	Long: `
List the courses currently indexed in the vector store.

Examples:
  courserag courses
  courserag courses --json
`,
	RunE: runCourses,
}

func init() {
	coursesCmd.Flags().BoolVarP(&coursesOutputJSON, "json", "j", false, "Output in JSON format")
}

func runCourses(cmd *cobra.Command, args []string) error {
	metrics.RecordInvocation(metrics.ModeCourses)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	embedder, err := newEmbedder(ctx, rootConfig)
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, rootConfig, embedder)
	if err != nil {
		return err
	}

	titles, err := store.ExistingCourseTitles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}

	if coursesOutputJSON {
		courses, err := store.AllCoursesMetadata(ctx)
		if err != nil {
			return fmt.Errorf("failed to load course metadata: %w", err)
		}
		output, err := json.MarshalIndent(map[string]interface{}{
			"total_courses": len(titles),
			"course_titles": titles,
			"courses":       courses,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Indexed courses: %d\n", len(titles))
	for _, title := range titles {
		fmt.Printf("  - %s\n", title)
	}

	return nil
}
