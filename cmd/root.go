package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appconfig "github.com/edslab/courserag/internal/config"
	"github.com/edslab/courserag/internal/metrics"
	"github.com/edslab/courserag/internal/observability"
	"github.com/edslab/courserag/internal/types"
)

var (
	rootConfig   *types.Config
	otelShutdown observability.ShutdownFunc
)

var rootCmd = &cobra.Command{
	Use:   "courserag",
	Short: "CourseRAG - question answering over course materials",
	Long: `CourseRAG is a CLI tool for indexing course scripts and answering questions
about them. Questions are answered by a Claude model on Amazon Bedrock that
can search the indexed content stored in Amazon S3 Vectors.`,
	PersistentPreRunE:  setupRuntime,
	PersistentPostRunE: teardownRuntime,
	SilenceUsage:       true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(coursesCmd)
}

func setupRuntime(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	rootConfig = cfg

	shutdown, err := observability.Init(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	otelShutdown = shutdown

	if err := metrics.Init(); err != nil {
		log.Printf("Warning: invocation metrics disabled: %v", err)
	} else if err := metrics.InitOTelMetrics(); err != nil {
		log.Printf("Warning: metric export disabled: %v", err)
	}

	return nil
}

func teardownRuntime(cmd *cobra.Command, args []string) error {
	if err := metrics.Close(); err != nil {
		log.Printf("Warning: failed to close metrics store: %v", err)
	}

	if otelShutdown != nil {
		if err := otelShutdown(context.Background()); err != nil {
			log.Printf("Warning: failed to flush telemetry: %v", err)
		}
	}

	return nil
}
