package scanner

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFakeS3 creates a fake S3 server and returns an S3 client configured to use it
func setupFakeS3(t *testing.T) (*s3.Client, *httptest.Server) {
	t.Helper()

	backend := s3mem.New()
	faker := gofakes3.New(backend)
	server := httptest.NewServer(faker.Server())

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(server.URL)
		o.UsePathStyle = true
	})

	return client, server
}

func createTestBucket(t *testing.T, client *s3.Client, bucketName string) {
	t.Helper()

	_, err := client.CreateBucket(context.Background(), &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	})
	require.NoError(t, err)
}

func uploadTestFile(t *testing.T, client *s3.Client, bucketName, key, content string) {
	t.Helper()

	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   strings.NewReader(content),
	})
	require.NoError(t, err)
}

// newS3ScannerWithClient creates an S3Scanner with a custom S3 client for testing
func newS3ScannerWithClient(client *s3.Client, bucket, prefix string) *S3Scanner {
	normalizedPrefix := prefix
	if normalizedPrefix != "" && !strings.HasSuffix(normalizedPrefix, "/") {
		normalizedPrefix += "/"
	}

	return &S3Scanner{
		client: client,
		bucket: bucket,
		prefix: normalizedPrefix,
	}
}

func TestNewS3Scanner_RequiresBucket(t *testing.T) {
	_, err := NewS3Scanner("", "", "us-east-1")
	assert.Error(t, err)
}

func TestS3Scanner_ScanBucket(t *testing.T) {
	client, server := setupFakeS3(t)
	defer server.Close()

	createTestBucket(t, client, "course-docs")
	uploadTestFile(t, client, "course-docs", "course1_script.txt", "Course Title: One")
	uploadTestFile(t, client, "course-docs", "course2_script.md", "Course Title: Two")
	uploadTestFile(t, client, "course-docs", "archive.zip", "binary")

	scanner := newS3ScannerWithClient(client, "course-docs", "")

	files, err := scanner.ScanBucket(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "course1_script.txt")
	assert.Contains(t, names, "course2_script.md")
	for _, f := range files {
		assert.Equal(t, "s3", f.SourceType)
		assert.True(t, strings.HasPrefix(f.Path, "s3://course-docs/"))
	}
}

func TestS3Scanner_ScanBucketWithPrefix(t *testing.T) {
	client, server := setupFakeS3(t)
	defer server.Close()

	createTestBucket(t, client, "course-docs")
	uploadTestFile(t, client, "course-docs", "courses/script.txt", "Course Title: In Prefix")
	uploadTestFile(t, client, "course-docs", "other/script.txt", "Course Title: Outside")

	scanner := newS3ScannerWithClient(client, "course-docs", "courses")

	files, err := scanner.ScanBucket(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "s3://course-docs/courses/script.txt", files[0].Path)
}

func TestS3Scanner_DownloadFile(t *testing.T) {
	client, server := setupFakeS3(t)
	defer server.Close()

	createTestBucket(t, client, "course-docs")
	uploadTestFile(t, client, "course-docs", "script.txt", "Course Title: Download Test")

	scanner := newS3ScannerWithClient(client, "course-docs", "")

	content, err := scanner.DownloadFile(context.Background(), "s3://course-docs/script.txt")
	require.NoError(t, err)
	assert.Equal(t, "Course Title: Download Test", content)
}

func TestS3Scanner_DownloadFile_InvalidPath(t *testing.T) {
	scanner := newS3ScannerWithClient(nil, "bucket", "")

	_, err := scanner.DownloadFile(context.Background(), "/local/path.txt")
	assert.Error(t, err)

	_, err = scanner.DownloadFile(context.Background(), "s3://bucketonly")
	assert.Error(t, err)
}

func TestS3Scanner_ValidateBucket(t *testing.T) {
	client, server := setupFakeS3(t)
	defer server.Close()

	createTestBucket(t, client, "course-docs")

	scanner := newS3ScannerWithClient(client, "course-docs", "")
	assert.NoError(t, scanner.ValidateBucket(context.Background()))

	missing := newS3ScannerWithClient(client, "no-such-bucket", "")
	assert.Error(t, missing.ValidateBucket(context.Background()))
}

func TestIsS3Path(t *testing.T) {
	assert.True(t, IsS3Path("s3://bucket/key.txt"))
	assert.False(t, IsS3Path("/local/key.txt"))
	assert.False(t, IsS3Path("github://owner/repo/key.txt"))
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("script.txt"))
	assert.True(t, IsSupportedFile("script.md"))
	assert.True(t, IsSupportedFile("script.MARKDOWN"))
	assert.False(t, IsSupportedFile("script.csv"))
	assert.False(t, IsSupportedFile("script.go"))
}
