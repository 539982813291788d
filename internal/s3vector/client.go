package s3vector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/document"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/types"

	commontypes "github.com/edslab/courserag/internal/types"
)

// Vector is one record written to an S3 Vectors index. Metadata values must
// be filterable types; large documents go in as regular metadata fields and
// count against the per-vector metadata size limit.
type Vector struct {
	Key       string
	Embedding []float64
	Metadata  map[string]interface{}
}

// Service wraps the S3 Vectors API for a single vector bucket. All methods
// take the index name explicitly so one service can back multiple indexes.
type Service struct {
	client     *s3vectors.Client
	bucketName string
	region     string
}

// NewService creates a Service bound to the given vector bucket using the
// default AWS credential chain.
func NewService(ctx context.Context, bucketName, region string) (*Service, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("vector bucket name is required")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:     s3vectors.NewFromConfig(awsConfig),
		bucketName: bucketName,
		region:     region,
	}, nil
}

// NewServiceFromConfig creates a Service from an existing AWS config.
func NewServiceFromConfig(awsConfig aws.Config, bucketName string) (*Service, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("vector bucket name is required")
	}
	return &Service{
		client:     s3vectors.NewFromConfig(awsConfig),
		bucketName: bucketName,
		region:     awsConfig.Region,
	}, nil
}

// PutVectors uploads a batch of vectors to the given index.
func (s *Service) PutVectors(ctx context.Context, indexName string, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	putVectors := make([]types.PutInputVector, 0, len(vectors))
	for _, v := range vectors {
		if v.Key == "" {
			return fmt.Errorf("vector key cannot be empty")
		}
		if len(v.Embedding) == 0 {
			return fmt.Errorf("vector embedding cannot be empty for key %s", v.Key)
		}

		float32Embedding := make([]float32, len(v.Embedding))
		for i, val := range v.Embedding {
			float32Embedding[i] = float32(val)
		}

		putVectors = append(putVectors, types.PutInputVector{
			Key: aws.String(v.Key),
			Data: &types.VectorDataMemberFloat32{
				Value: float32Embedding,
			},
			Metadata: document.NewLazyDocument(v.Metadata),
		})
	}

	_, err := s.client.PutVectors(ctx, &s3vectors.PutVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(indexName),
		Vectors:          putVectors,
	})
	if err != nil {
		return fmt.Errorf("failed to upload vectors to index %s: %w", indexName, err)
	}
	return nil
}

// QueryVectors performs a similarity search against the given index. filter
// is an optional exact-match metadata predicate.
func (s *Service) QueryVectors(ctx context.Context, indexName string, queryVector []float64, topK int, filter map[string]interface{}) (*commontypes.QueryVectorsResult, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	float32Vector := make([]float32, len(queryVector))
	for i, v := range queryVector {
		float32Vector[i] = float32(v)
	}

	input := &s3vectors.QueryVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(indexName),
		QueryVector: &types.VectorDataMemberFloat32{
			Value: float32Vector,
		},
		TopK:           aws.Int32(int32(topK)),
		ReturnDistance: true,
		ReturnMetadata: true,
	}
	if len(filter) > 0 {
		input.Filter = document.NewLazyDocument(filter)
	}

	result, err := s.client.QueryVectors(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	queryResult := &commontypes.QueryVectorsResult{
		Results:    make([]commontypes.QueryResult, 0, len(result.Vectors)),
		TotalCount: len(result.Vectors),
		TopK:       topK,
	}

	for _, vector := range result.Vectors {
		queryRes := commontypes.QueryResult{}

		if vector.Key != nil {
			queryRes.Key = *vector.Key
		}
		if vector.Distance != nil {
			queryRes.Distance = float64(*vector.Distance)
		}
		if vector.Metadata != nil {
			var metadata map[string]interface{}
			if err := vector.Metadata.UnmarshalSmithyDocument(&metadata); err != nil {
				queryRes.Metadata = make(map[string]interface{})
			} else {
				queryRes.Metadata = metadata
			}
		}

		queryResult.Results = append(queryResult.Results, queryRes)
	}

	return queryResult, nil
}

// GetVectors fetches vectors by key with their metadata. Keys that don't
// exist are silently absent from the result.
func (s *Service) GetVectors(ctx context.Context, indexName string, keys []string) ([]commontypes.QueryResult, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	result, err := s.client.GetVectors(ctx, &s3vectors.GetVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(indexName),
		Keys:             keys,
		ReturnMetadata:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get vectors from index %s: %w", indexName, err)
	}

	out := make([]commontypes.QueryResult, 0, len(result.Vectors))
	for _, vector := range result.Vectors {
		res := commontypes.QueryResult{}
		if vector.Key != nil {
			res.Key = *vector.Key
		}
		if vector.Metadata != nil {
			var metadata map[string]interface{}
			if err := vector.Metadata.UnmarshalSmithyDocument(&metadata); err != nil {
				res.Metadata = make(map[string]interface{})
			} else {
				res.Metadata = metadata
			}
		}
		out = append(out, res)
	}
	return out, nil
}

// ListVectorKeys returns every vector key in the given index, following
// pagination.
func (s *Service) ListVectorKeys(ctx context.Context, indexName string) ([]string, error) {
	var keys []string
	var nextToken *string

	for {
		result, err := s.client.ListVectors(ctx, &s3vectors.ListVectorsInput{
			VectorBucketName: aws.String(s.bucketName),
			IndexName:        aws.String(indexName),
			NextToken:        nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list vectors in index %s: %w", indexName, err)
		}

		for _, vector := range result.Vectors {
			if vector.Key != nil {
				keys = append(keys, *vector.Key)
			}
		}

		if result.NextToken == nil {
			break
		}
		nextToken = result.NextToken
	}

	return keys, nil
}

// DeleteVectors removes the given keys from the index.
func (s *Service) DeleteVectors(ctx context.Context, indexName string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := s.client.DeleteVectors(ctx, &s3vectors.DeleteVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(indexName),
		Keys:             keys,
	})
	if err != nil {
		return fmt.Errorf("failed to delete vectors from index %s: %w", indexName, err)
	}
	return nil
}

// DeleteAllVectors removes every vector from the index and returns how many
// were deleted.
func (s *Service) DeleteAllVectors(ctx context.Context, indexName string) (int, error) {
	keys, err := s.ListVectorKeys(ctx, indexName)
	if err != nil {
		return 0, fmt.Errorf("failed to list vectors before deletion: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := s.DeleteVectors(ctx, indexName, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// ValidateAccess checks that the vector bucket and the given indexes exist
// and are reachable with the current credentials.
func (s *Service) ValidateAccess(ctx context.Context, indexNames ...string) error {
	_, err := s.client.GetVectorBucket(ctx, &s3vectors.GetVectorBucketInput{
		VectorBucketName: aws.String(s.bucketName),
	})
	if err != nil {
		return fmt.Errorf("cannot access vector bucket %s: %w", s.bucketName, err)
	}

	for _, indexName := range indexNames {
		_, err := s.client.GetIndex(ctx, &s3vectors.GetIndexInput{
			VectorBucketName: aws.String(s.bucketName),
			IndexName:        aws.String(indexName),
		})
		if err != nil {
			return fmt.Errorf("cannot access index %s in bucket %s: %w", indexName, s.bucketName, err)
		}
	}

	return nil
}

// GetBucketName returns the vector bucket this service is bound to.
func (s *Service) GetBucketName() string {
	return s.bucketName
}

// GetRegion returns the AWS region being used
func (s *Service) GetRegion() string {
	return s.region
}
