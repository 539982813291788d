package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	defaultMaxTokens        = 800
	defaultAnthropicVersion = "bedrock-2023-05-31"
)

// BedrockClient invokes Claude models on AWS Bedrock using the anthropic
// messages wire format.
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
	region  string
}

// invokeRequest is the InvokeModel body for Claude models on Bedrock.
type invokeRequest struct {
	AnthropicVersion string      `json:"anthropic_version"`
	MaxTokens        int         `json:"max_tokens"`
	Temperature      float64     `json:"temperature"`
	System           string      `json:"system,omitempty"`
	Messages         []Message   `json:"messages"`
	Tools            []ToolSpec  `json:"tools,omitempty"`
	ToolChoice       *ToolChoice `json:"tool_choice,omitempty"`
}

// NewBedrockClient creates a new Bedrock chat client for the given model
func NewBedrockClient(awsConfig aws.Config, modelID string) *BedrockClient {
	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(awsConfig),
		modelID: modelID,
		region:  awsConfig.Region,
	}
}

// CreateMessage sends one messages-API call and returns the parsed response.
// The call is synchronous; any transport or service failure is returned as
// an error and never masked.
func (c *BedrockClient) CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := invokeRequest{
		AnthropicVersion: defaultAnthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      req.Temperature,
		System:           req.System,
		Messages:         req.Messages,
	}
	if len(req.Tools) > 0 {
		body.Tools = req.Tools
		body.ToolChoice = req.ToolChoice
	}

	requestBody, err := json.Marshal(body)
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

	var response MessageResponse
	if err := json.Unmarshal(result.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Content) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	return &response, nil
}

// ValidateConnection checks if the Bedrock chat service is accessible
func (c *BedrockClient) ValidateConnection(ctx context.Context) error {
	req := &MessageRequest{
		Messages:  []Message{NewTextMessage(RoleUser, "Hello")},
		MaxTokens: 16,
	}
	if _, err := c.CreateMessage(ctx, req); err != nil {
		return fmt.Errorf("connection validation failed: %w", err)
	}
	return nil
}

// GetRegion returns the AWS region being used
func (c *BedrockClient) GetRegion() string {
	return c.region
}
