package types

import (
	"fmt"
	"time"
)

// Lesson represents a single lesson within a course.
type Lesson struct {
	LessonNumber int    `json:"lesson_number"`
	Title        string `json:"lesson_title"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

// Course represents the parsed metadata of one course document.
type Course struct {
	Title      string   `json:"title"`
	CourseLink string   `json:"course_link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// CourseChunk is one indexable piece of course content.
// LessonNumber is nil for content that precedes the first lesson marker.
type CourseChunk struct {
	Content      string `json:"content"`
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// QueryResult represents a single result from a vector query.
type QueryResult struct {
	Key      string                 `json:"key"`
	Distance float64                `json:"distance"`
	Metadata map[string]interface{} `json:"metadata"`
}

// QueryVectorsResult represents the complete result from a vector query.
type QueryVectorsResult struct {
	Results    []QueryResult `json:"results"`
	TotalCount int           `json:"total_count"`
	TopK       int           `json:"top_k"`
}

// ProcessingError represents an error that occurred during ingestion.
type ProcessingError struct {
	Message   string    `json:"message"`
	FilePath  string    `json:"file_path"`
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface for ProcessingError.
func (pe *ProcessingError) Error() string {
	return fmt.Sprintf("%s (file: %s)", pe.Message, pe.FilePath)
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	ProcessedFiles int                `json:"processed_files"`
	CoursesAdded   int                `json:"courses_added"`
	CoursesSkipped int                `json:"courses_skipped"`
	ChunksIndexed  int                `json:"chunks_indexed"`
	Errors         []*ProcessingError `json:"errors"`
	StartTime      time.Time          `json:"start_time"`
	EndTime        time.Time          `json:"end_time"`
	Duration       time.Duration      `json:"duration"`
}

// Config represents the application configuration loaded from environment variables.
type Config struct {
	// AWS S3 Vectors configuration
	AWSS3VectorBucket string `json:"aws_s3_vector_bucket" env:"AWS_S3_VECTOR_BUCKET,required=true"`
	CatalogIndexName  string `json:"catalog_index_name" env:"COURSE_CATALOG_INDEX,default=course-catalog"`
	ContentIndexName  string `json:"content_index_name" env:"COURSE_CONTENT_INDEX,default=course-content"`
	AWSRegion         string `json:"aws_region" env:"AWS_S3_REGION,default=us-east-1"`

	// Chat model configuration
	ChatModel     string `json:"chat_model" env:"CHAT_MODEL,default=anthropic.claude-3-5-sonnet-20240620-v1:0"`
	BedrockRegion string `json:"bedrock_region" env:"BEDROCK_REGION,default=us-east-1"`

	// Embedding configuration
	EmbeddingProvider string `json:"embedding_provider" env:"EMBEDDING_PROVIDER,default=bedrock"`
	EmbeddingModel    string `json:"embedding_model" env:"EMBEDDING_MODEL,default=amazon.titan-embed-text-v2:0"`
	VoyageAPIKey      string `json:"-" env:"VOYAGE_API_KEY"`
	VoyageAPIURL      string `json:"voyage_api_url" env:"VOYAGE_API_URL,default=https://api.voyageai.com/v1/embeddings"`

	// Retrieval and conversation limits
	MaxResults int `json:"max_results" env:"MAX_RESULTS,default=5"`
	MaxHistory int `json:"max_history" env:"MAX_HISTORY,default=2"`

	// Ingestion configuration
	ChunkSize      int     `json:"chunk_size" env:"CHUNK_SIZE,default=800"`
	ChunkOverlap   int     `json:"chunk_overlap" env:"CHUNK_OVERLAP,default=100"`
	Concurrency    int     `json:"concurrency" env:"INGEST_CONCURRENCY,default=4"`
	EmbedRateLimit float64 `json:"embed_rate_limit" env:"EMBED_RATE_LIMIT,default=5.0"`
	EmbedRateBurst int     `json:"embed_rate_burst" env:"EMBED_RATE_BURST,default=10"`

	// Optional remote document sources
	DocsS3Bucket    string `json:"docs_s3_bucket" env:"DOCS_S3_BUCKET"`
	DocsS3Prefix    string `json:"docs_s3_prefix" env:"DOCS_S3_PREFIX"`
	DocsGitReposStr string `json:"-" env:"DOCS_GITHUB_REPOS"`
	GitHubToken     string `json:"-" env:"GITHUB_TOKEN"`

	// OpenTelemetry metric export
	OTelEnabled                  bool   `json:"otel_enabled" env:"OTEL_ENABLED,default=false"`
	OTelServiceName              string `json:"otel_service_name" env:"OTEL_SERVICE_NAME,default=courserag"`
	OTelExporterOTLPEndpoint     string `json:"otel_exporter_otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelExporterOTLPProtocol     string `json:"otel_exporter_otlp_protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`
	OTelResourceAttributes       string `json:"otel_resource_attributes" env:"OTEL_RESOURCE_ATTRIBUTES"`
	OTelMetricExportIntervalSecs int    `json:"otel_metric_export_interval" env:"OTEL_METRIC_EXPORT_INTERVAL,default=60"`
}
