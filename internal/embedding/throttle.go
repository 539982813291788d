package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Client is the embedding surface shared by the bedrock and voyage clients.
type Client interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Throttled wraps an embedding client with a rate limiter so bulk ingestion
// stays under provider quotas.
type Throttled struct {
	inner   Client
	limiter *rate.Limiter
}

// NewThrottled creates a rate-limited embedding client. limit is requests
// per second.
func NewThrottled(inner Client, limit float64, burst int) *Throttled {
	if limit <= 0 {
		limit = 5
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// GenerateEmbedding waits for a rate token, then delegates.
func (t *Throttled) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limiter: %w", err)
	}
	return t.inner.GenerateEmbedding(ctx, text)
}
