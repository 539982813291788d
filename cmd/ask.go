package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edslab/courserag/internal/metrics"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question about the indexed course materials",
	Long: `
Ask a single question about the indexed course materials. The model searches
the course content when it needs to and cites the course and lesson each
answer was grounded in.

Examples:
  courserag ask "What is covered in lesson 5 of the MCP course?"
  courserag ask --sources=false "Are there courses about prompt engineering?"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", true, "Print the sources consulted for the answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	metrics.RecordInvocation(metrics.ModeAsk)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	system, err := buildSystem(ctx, rootConfig)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")

	answer, err := system.Query(ctx, question, "")
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	fmt.Println(answer.Response)

	if askShowSources && len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range answer.Sources {
			fmt.Printf("  - %s\n", source)
		}
	}

	return nil
}
