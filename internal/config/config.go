package config

import (
	"fmt"
	"net/url"
	"strings"

	env "github.com/netflix/go-env"

	"github.com/edslab/courserag/internal/types"
)

// Type alias for Config
type Config = types.Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var config Config

	_, err := env.UnmarshalFromEnviron(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values and adjusts them to safe ranges
func validateConfig(config *Config) error {
	if config.MaxResults < 1 {
		config.MaxResults = 1
	}
	if config.MaxResults > 100 {
		config.MaxResults = 100
	}

	if config.MaxHistory < 0 {
		config.MaxHistory = 0
	}

	// Chunk overlap must leave room for forward progress
	if config.ChunkSize < 100 {
		config.ChunkSize = 100
	}
	if config.ChunkOverlap < 0 {
		config.ChunkOverlap = 0
	}
	if config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 4
	}

	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.Concurrency > 20 {
		config.Concurrency = 20
	}

	if config.EmbedRateLimit <= 0 {
		config.EmbedRateLimit = 1.0
	}
	if config.EmbedRateBurst < 1 {
		config.EmbedRateBurst = 1
	}

	if err := validateEmbeddingConfig(config); err != nil {
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}

	return nil
}

// validateEmbeddingConfig validates the embedding provider selection
func validateEmbeddingConfig(config *Config) error {
	provider := strings.ToLower(strings.TrimSpace(config.EmbeddingProvider))
	switch provider {
	case "bedrock":
		// Titan models use the default AWS credential chain; nothing to check
	case "voyage":
		if config.VoyageAPIKey == "" {
			return fmt.Errorf("VOYAGE_API_KEY is required when EMBEDDING_PROVIDER is voyage")
		}
		parsedURL, err := url.Parse(config.VoyageAPIURL)
		if err != nil {
			return fmt.Errorf("invalid VOYAGE_API_URL format: %w", err)
		}
		if parsedURL.Scheme == "" || !strings.HasPrefix(parsedURL.Scheme, "http") {
			return fmt.Errorf("VOYAGE_API_URL must include an http or https scheme")
		}
		if parsedURL.Host == "" {
			return fmt.Errorf("VOYAGE_API_URL must include a valid host")
		}
		// EMBEDDING_MODEL defaults to a Bedrock Titan ID, which the Voyage
		// API rejects.
		if strings.HasPrefix(config.EmbeddingModel, "amazon.") {
			return fmt.Errorf("EMBEDDING_MODEL %q is a Bedrock model: set a Voyage model such as voyage-3 when EMBEDDING_PROVIDER is voyage", config.EmbeddingModel)
		}
	default:
		return fmt.Errorf("unsupported EMBEDDING_PROVIDER %q: expected bedrock or voyage", config.EmbeddingProvider)
	}
	config.EmbeddingProvider = provider

	return nil
}
