package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/edslab/courserag/internal/agent"
	"github.com/edslab/courserag/internal/embedding"
	"github.com/edslab/courserag/internal/embedding/bedrock"
	"github.com/edslab/courserag/internal/embedding/voyage"
	"github.com/edslab/courserag/internal/llm"
	"github.com/edslab/courserag/internal/ragsystem"
	"github.com/edslab/courserag/internal/s3vector"
	"github.com/edslab/courserag/internal/session"
	"github.com/edslab/courserag/internal/types"
	"github.com/edslab/courserag/internal/vectorstore"
)

// newEmbedder selects the embedding backend from EMBEDDING_PROVIDER.
func newEmbedder(ctx context.Context, cfg *types.Config) (embedding.Client, error) {
	switch cfg.EmbeddingProvider {
	case "voyage":
		return voyage.NewVoyageClient(cfg.VoyageAPIKey, cfg.VoyageAPIURL, cfg.EmbeddingModel), nil
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.BedrockRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration for embeddings: %w", err)
		}
		return bedrock.NewTitanClient(awsCfg, cfg.EmbeddingModel), nil
	}
}

// buildStore wires the catalog and content indexes on S3 Vectors behind one
// vector store.
func buildStore(ctx context.Context, cfg *types.Config, embedder embedding.Client) (*vectorstore.Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	service, err := s3vector.NewServiceFromConfig(awsCfg, cfg.AWSS3VectorBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 Vectors service: %w", err)
	}

	catalog := s3vector.NewIndex(service, embedder, cfg.CatalogIndexName)
	content := s3vector.NewIndex(service, embedder, cfg.ContentIndexName)

	return vectorstore.NewStore(catalog, content, cfg.MaxResults), nil
}

// buildSystem assembles the full question answering stack: embedder, vector
// store, Bedrock chat client and session manager.
func buildSystem(ctx context.Context, cfg *types.Config) (*ragsystem.System, error) {
	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg, embedder)
	if err != nil {
		return nil, err
	}

	bedrockCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.BedrockRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration for Bedrock: %w", err)
	}

	chatClient := llm.NewBedrockClient(bedrockCfg, cfg.ChatModel)
	generator := agent.NewGenerator(chatClient)
	sessions := session.NewManager(cfg.MaxHistory)

	return ragsystem.New(generator, sessions, store), nil
}
