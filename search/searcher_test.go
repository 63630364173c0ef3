package search

import (
	"context"
	"testing"

	"github.com/poiesic/docflow/ai/mock"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearch(t *testing.T) (storage.DocumentRepository, storage.VectorStore, *mock.MockEmbedder) {
	t.Helper()

	docs, vectors, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return docs, vectors, mock.NewMockEmbedder()
}

func storeChunk(t *testing.T, docs storage.DocumentRepository, vectors storage.VectorStore, fileID, name, text string, index int, vector []float32) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, &core.SourceDocument{
		FileID: fileID,
		Name:   name,
		Source: "raw/" + fileID,
		Status: core.StatusStored,
	}))

	chunk := &core.Chunk{FileID: fileID, Index: index}
	require.NoError(t, vectors.Upsert(ctx, &core.EmbeddingRecord{
		Id:         chunk.ID(),
		FileID:     fileID,
		ChunkIndex: index,
		Page:       1,
		Text:       text,
		Vector:     vector,
	}))
}

func TestNewSearcherValidation(t *testing.T) {
	docs, vectors, embedder := setupSearch(t)

	_, err := NewSearcher(nil, vectors, embedder)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewSearcher(docs, nil, embedder)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewSearcher(docs, vectors, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestFindSimilar(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by similarity and joins metadata", func(t *testing.T) {
		docs, vectors, embedder := setupSearch(t)

		storeChunk(t, docs, vectors, "doc-1", "report.md", "quarterly revenue figures", 0, []float32{1, 0, 0})
		storeChunk(t, docs, vectors, "doc-2", "notes.md", "meeting notes summary", 0, []float32{0, 1, 0})

		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}

		searcher, err := NewSearcher(docs, vectors, embedder)
		require.NoError(t, err)

		results, err := searcher.FindSimilar(ctx, "revenue report", 10)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "doc-1", results[0].FileID)
		assert.Equal(t, "report.md", results[0].Name)
		assert.Equal(t, 1, results[0].Page)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("verbatim match boosts score", func(t *testing.T) {
		docs, vectors, embedder := setupSearch(t)

		// Equal similarity; only one chunk contains all query words
		storeChunk(t, docs, vectors, "doc-1", "a.md", "the budget overview for next year", 0, []float32{1, 0})
		storeChunk(t, docs, vectors, "doc-2", "b.md", "unrelated content entirely", 0, []float32{1, 0})

		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}

		searcher, err := NewSearcher(docs, vectors, embedder)
		require.NoError(t, err)

		results, err := searcher.FindSimilar(ctx, "budget overview", 10)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "doc-1", results[0].FileID)
		assert.InDelta(t, 0.3, float64(results[0].Score-results[1].Score), 1e-6)
	})

	t.Run("limits results to maxHits", func(t *testing.T) {
		docs, vectors, embedder := setupSearch(t)

		for i := 0; i < 5; i++ {
			storeChunk(t, docs, vectors, "doc-1", "a.md", "chunk text", i, []float32{1, 0})
		}

		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}

		searcher, err := NewSearcher(docs, vectors, embedder)
		require.NoError(t, err)

		results, err := searcher.FindSimilar(ctx, "chunk", 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		docs, vectors, embedder := setupSearch(t)
		searcher, err := NewSearcher(docs, vectors, embedder)
		require.NoError(t, err)

		_, err = searcher.FindSimilar(ctx, "   ", 10)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("empty store yields empty results", func(t *testing.T) {
		docs, vectors, embedder := setupSearch(t)
		searcher, err := NewSearcher(docs, vectors, embedder)
		require.NoError(t, err)

		results, err := searcher.FindSimilar(ctx, "anything", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestContainsAllQueryWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  bool
	}{
		{"all words present", "the quarterly revenue grew", "quarterly revenue", true},
		{"missing word", "the quarterly figures", "quarterly revenue", false},
		{"stop words ignored", "revenue grew", "the revenue", true},
		{"punctuation trimmed", "Revenue, grew!", "revenue grew", true},
		{"only stop words in query", "anything", "the a an", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, containsAllQueryWords(tt.text, tt.query))
		})
	}
}
