package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSignalPath(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{
			name:     "bare host gets the signal path",
			endpoint: "http://collector:4318",
			want:     "http://collector:4318/v1/metrics",
		},
		{
			name:     "trailing slash is collapsed",
			endpoint: "https://collector:4318/",
			want:     "https://collector:4318/v1/metrics",
		},
		{
			name:     "existing signal path is kept once",
			endpoint: "http://collector:4318/v1/metrics",
			want:     "http://collector:4318/v1/metrics",
		},
		{
			name:     "custom prefix keeps its path",
			endpoint: "https://collector:4318/otlp",
			want:     "https://collector:4318/otlp/v1/metrics",
		},
		{
			name:     "query string survives",
			endpoint: "http://collector:4318?tenant=dev",
			want:     "http://collector:4318/v1/metrics?tenant=dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withSignalPath(tt.endpoint, "/v1/metrics")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithSignalPathEmptyEndpoint(t *testing.T) {
	_, err := withSignalPath("  ", "/v1/metrics")
	assert.Error(t, err)
}

func TestParseGRPCEndpoint(t *testing.T) {
	tests := []struct {
		name         string
		endpoint     string
		wantHost     string
		wantInsecure bool
	}{
		{"plain host and port", "collector:4317", "collector:4317", true},
		{"grpc scheme", "grpc://collector:4317", "collector:4317", true},
		{"https scheme", "https://collector:4317", "collector:4317", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, insecure, err := parseGRPCEndpoint(tt.endpoint)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantInsecure, insecure)
		})
	}
}

func TestParseGRPCEndpointRejectsUnknownScheme(t *testing.T) {
	_, _, err := parseGRPCEndpoint("ftp://collector:4317")
	assert.Error(t, err)
}
