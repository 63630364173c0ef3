package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStores(t *testing.T) (storage.DocumentRepository, storage.VectorStore) {
	t.Helper()

	docs, vectors, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return docs, vectors
}

func seedRecords(t *testing.T, docs storage.DocumentRepository, vectors storage.VectorStore, fileID string, count int) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, &core.SourceDocument{
		FileID:     fileID,
		Name:       fileID + ".md",
		Source:     "raw/" + fileID,
		Status:     core.StatusStored,
		ChunkCount: count,
	}))

	records := make([]*core.EmbeddingRecord, count)
	for i := 0; i < count; i++ {
		chunk := &core.Chunk{FileID: fileID, Index: i}
		records[i] = &core.EmbeddingRecord{
			Id:         chunk.ID(),
			FileID:     fileID,
			ChunkIndex: i,
			Page:       1,
			Text:       fmt.Sprintf("chunk %d of %s", i, fileID),
			Vector:     []float32{1, 0, 0},
		}
	}
	require.NoError(t, vectors.Upsert(ctx, records...))
}

func TestRecordIteratorForEach(t *testing.T) {
	ctx := context.Background()

	t.Run("iterates all records in batches", func(t *testing.T) {
		docs, vectors := setupStores(t)
		seedRecords(t, docs, vectors, "doc-1", 5)
		seedRecords(t, docs, vectors, "doc-2", 3)

		iterator := NewRecordIterator(docs, vectors, 2)

		var batches [][]*core.EmbeddingRecord
		err := iterator.ForEach(ctx, func(records []*core.EmbeddingRecord) error {
			batches = append(batches, records)
			return nil
		})
		require.NoError(t, err)

		total := 0
		for _, batch := range batches {
			assert.LessOrEqual(t, len(batch), 2)
			total += len(batch)
		}
		assert.Equal(t, 8, total)
	})

	t.Run("empty database is a no-op", func(t *testing.T) {
		docs, vectors := setupStores(t)
		iterator := NewRecordIterator(docs, vectors, 10)

		calls := 0
		err := iterator.ForEach(ctx, func([]*core.EmbeddingRecord) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Zero(t, calls)
	})

	t.Run("stops on callback error", func(t *testing.T) {
		docs, vectors := setupStores(t)
		seedRecords(t, docs, vectors, "doc-1", 10)

		iterator := NewRecordIterator(docs, vectors, 2)
		wantErr := errors.New("stop here")

		calls := 0
		err := iterator.ForEach(ctx, func([]*core.EmbeddingRecord) error {
			calls++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		docs, vectors := setupStores(t)
		seedRecords(t, docs, vectors, "doc-1", 10)

		cancelCtx, cancel := context.WithCancel(ctx)
		iterator := NewRecordIterator(docs, vectors, 2)

		err := iterator.ForEach(cancelCtx, func([]*core.EmbeddingRecord) error {
			cancel()
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("non-positive batch size uses default", func(t *testing.T) {
		docs, vectors := setupStores(t)
		iterator := NewRecordIterator(docs, vectors, 0)
		assert.Equal(t, DefaultBatchSize, iterator.batchSize)
	})
}

func TestRecordIteratorCount(t *testing.T) {
	docs, vectors := setupStores(t)
	seedRecords(t, docs, vectors, "doc-1", 4)
	seedRecords(t, docs, vectors, "doc-2", 2)

	iterator := NewRecordIterator(docs, vectors, 10)

	total, err := iterator.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}
