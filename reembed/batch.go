package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/docflow/ai"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// BatchProcessor regenerates embeddings for batches of stored records.
type BatchProcessor struct {
	vectors        storage.VectorStore
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorStore, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of records and writes them back
// to the vector store. Vectors are normalized after embedding to ensure
// compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Extract chunk text
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	// Normalize vectors and assign to records
	for i := range records {
		records[i].Vector = NormalizeVector(embeddings[i])
	}

	// Write updated records back
	if err := bp.vectors.Upsert(ctx, records...); err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}

	return nil
}
