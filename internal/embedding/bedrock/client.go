package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// TitanClient generates text embeddings using Amazon Titan models on Bedrock.
type TitanClient struct {
	client  *bedrockruntime.Client
	modelID string
	region  string
}

// TitanEmbeddingRequest represents the request structure for Titan embedding models
type TitanEmbeddingRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
}

// TitanEmbeddingResponse represents the response structure from Titan embedding models
type TitanEmbeddingResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// NewTitanClient creates a new AWS Bedrock client for embeddings
func NewTitanClient(awsConfig aws.Config, modelID string) *TitanClient {
	client := bedrockruntime.NewFromConfig(awsConfig)

	// Default to Titan v2 model if not specified
	if modelID == "" {
		modelID = "amazon.titan-embed-text-v2:0"
	}

	return &TitanClient{
		client:  client,
		modelID: modelID,
		region:  awsConfig.Region,
	}
}

// GenerateEmbedding creates an embedding vector from the given text using AWS Bedrock
func (c *TitanClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	// Prepare request payload for Titan v2
	request := TitanEmbeddingRequest{
		InputText:  text,
		Dimensions: 1024, // Titan v2 default dimension
		Normalize:  true,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	}

	result, err := c.client.InvokeModel(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke bedrock model: %w", err)
	}

	var response TitanEmbeddingResponse
	if err := json.Unmarshal(result.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}

	return response.Embedding, nil
}

// ValidateConnection checks if the Bedrock embedding service is accessible
func (c *TitanClient) ValidateConnection(ctx context.Context) error {
	if _, err := c.GenerateEmbedding(ctx, "test connection"); err != nil {
		return fmt.Errorf("connection validation failed: %w", err)
	}
	return nil
}

// GetModelInfo returns information about the embedding model being used
func (c *TitanClient) GetModelInfo() (string, int, error) {
	dimensions := map[string]int{
		"amazon.titan-embed-text-v2:0": 1024,
		"amazon.titan-embed-text-v1":   1536,
	}

	dim, exists := dimensions[c.modelID]
	if !exists {
		// Default to Titan v2 dimensions for unknown models
		dim = 1024
	}

	return c.modelID, dim, nil
}

// GetRegion returns the AWS region being used
func (c *TitanClient) GetRegion() string {
	return c.region
}
