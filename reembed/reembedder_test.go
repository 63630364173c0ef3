package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/docflow/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReembedderRun(t *testing.T) {
	ctx := context.Background()

	t.Run("re-embeds all records with normalized vectors", func(t *testing.T) {
		docs, vectors := setupStores(t)
		seedRecords(t, docs, vectors, "doc-1", 5)
		seedRecords(t, docs, vectors, "doc-2", 3)

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{3, 4, 0}
			}
			return out, nil
		}

		var buf bytes.Buffer
		config := &Config{BatchSize: 2, ReportInterval: 2, MaxRetries: 1, RetryDelay: time.Millisecond}
		reembedder := NewReembedder(docs, vectors, embedder, config, &buf)

		require.NoError(t, reembedder.Run(ctx))

		records, err := vectors.ListByFile(ctx, "doc-1")
		require.NoError(t, err)
		require.Len(t, records, 5)
		for _, record := range records {
			assert.InDelta(t, 0.6, float64(record.Vector[0]), 1e-6)
			assert.InDelta(t, 0.8, float64(record.Vector[1]), 1e-6)
			assert.InDelta(t, 1.0, magnitude(record.Vector), 1e-6)
		}

		assert.Contains(t, buf.String(), "Starting reembedding of 8 records")
		assert.Contains(t, buf.String(), "Reembedding complete")
	})

	t.Run("empty database reports and succeeds", func(t *testing.T) {
		docs, vectors := setupStores(t)

		var buf bytes.Buffer
		reembedder := NewReembedder(docs, vectors, mock.NewMockEmbedder(), nil, &buf)

		require.NoError(t, reembedder.Run(ctx))
		assert.Contains(t, buf.String(), "No records found")
	})

	t.Run("embedding failure aborts after retries", func(t *testing.T) {
		docs, vectors := setupStores(t)
		seedRecords(t, docs, vectors, "doc-1", 2)

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("service down")
		}

		var buf bytes.Buffer
		config := &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 2, RetryDelay: time.Millisecond}
		reembedder := NewReembedder(docs, vectors, embedder, config, &buf)

		err := reembedder.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to process batch")

		// Original vectors untouched
		records, listErr := vectors.ListByFile(ctx, "doc-1")
		require.NoError(t, listErr)
		for _, record := range records {
			assert.Equal(t, []float32{1, 0, 0}, record.Vector)
		}
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		docs, vectors := setupStores(t)
		var buf bytes.Buffer
		reembedder := NewReembedder(docs, vectors, mock.NewMockEmbedder(), nil, &buf)
		assert.Equal(t, DefaultConfig().BatchSize, reembedder.config.BatchSize)
	})
}
