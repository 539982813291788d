package s3vector

import (
	"context"
	"fmt"

	"github.com/edslab/courserag/internal/vectorstore"
)

// metadataDocumentKey is where the raw document text lives inside vector
// metadata. It is stripped back out into Hit.Document on reads so the rest
// of the metadata stays filterable.
const metadataDocumentKey = "document"

// Embedder turns text into an embedding vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Index adapts one S3 Vectors index plus an embedder to the
// vectorstore.Index interface. Writes embed the document text and store it
// alongside the metadata; reads reverse the packing.
type Index struct {
	service   *Service
	embedder  Embedder
	indexName string
}

// NewIndex creates an Index over the named S3 Vectors index.
func NewIndex(service *Service, embedder Embedder, indexName string) *Index {
	return &Index{
		service:   service,
		embedder:  embedder,
		indexName: indexName,
	}
}

// Name returns the underlying S3 Vectors index name.
func (i *Index) Name() string {
	return i.indexName
}

// Query embeds the query text and runs a similarity search.
func (i *Index) Query(ctx context.Context, text string, filter map[string]interface{}, topK int) ([]vectorstore.Hit, error) {
	embedding, err := i.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	result, err := i.service.QueryVectors(ctx, i.indexName, embedding, topK, filter)
	if err != nil {
		return nil, err
	}

	hits := make([]vectorstore.Hit, 0, len(result.Results))
	for _, res := range result.Results {
		document, metadata := unpackMetadata(res.Metadata)
		hits = append(hits, vectorstore.Hit{
			Key:      res.Key,
			Document: document,
			Distance: res.Distance,
			Metadata: metadata,
		})
	}
	return hits, nil
}

// Add embeds each entry's document and uploads the batch.
func (i *Index) Add(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	vectors := make([]Vector, 0, len(entries))
	for _, entry := range entries {
		embedding, err := i.embedder.GenerateEmbedding(ctx, entry.Document)
		if err != nil {
			return fmt.Errorf("failed to embed document for key %s: %w", entry.Key, err)
		}
		vectors = append(vectors, Vector{
			Key:       entry.Key,
			Embedding: embedding,
			Metadata:  packMetadata(entry.Document, entry.Metadata),
		})
	}

	return i.service.PutVectors(ctx, i.indexName, vectors)
}

// Get fetches entries by key. Missing keys are absent from the result.
func (i *Index) Get(ctx context.Context, keys []string) ([]vectorstore.Entry, error) {
	results, err := i.service.GetVectors(ctx, i.indexName, keys)
	if err != nil {
		return nil, err
	}

	entries := make([]vectorstore.Entry, 0, len(results))
	for _, res := range results {
		document, metadata := unpackMetadata(res.Metadata)
		entries = append(entries, vectorstore.Entry{
			Key:      res.Key,
			Document: document,
			Metadata: metadata,
		})
	}
	return entries, nil
}

// ListKeys returns every key in the index.
func (i *Index) ListKeys(ctx context.Context) ([]string, error) {
	return i.service.ListVectorKeys(ctx, i.indexName)
}

// Clear removes every vector from the index.
func (i *Index) Clear(ctx context.Context) (int, error) {
	return i.service.DeleteAllVectors(ctx, i.indexName)
}

func packMetadata(document string, metadata map[string]interface{}) map[string]interface{} {
	packed := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		packed[k] = v
	}
	packed[metadataDocumentKey] = document
	return packed
}

func unpackMetadata(packed map[string]interface{}) (string, map[string]interface{}) {
	if packed == nil {
		return "", map[string]interface{}{}
	}
	document, _ := packed[metadataDocumentKey].(string)
	metadata := make(map[string]interface{}, len(packed))
	for k, v := range packed {
		if k == metadataDocumentKey {
			continue
		}
		metadata[k] = v
	}
	return document, metadata
}
