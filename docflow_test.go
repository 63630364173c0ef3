package docflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/docflow/ai/mock"
	"github.com/poiesic/docflow/chunk"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipeline(t *testing.T) {
	t.Run("create new pipeline", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		pipeline, err := NewPipeline(tmpDir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		defer pipeline.Close()

		// Verify components are initialized
		assert.NotNil(t, pipeline.DocumentRepository())
		assert.NotNil(t, pipeline.VectorStore())
		assert.NotNil(t, pipeline.ObjectStore())
		assert.NotNil(t, pipeline.Provider())
		assert.NotNil(t, pipeline.backend)
		assert.NotNil(t, pipeline.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open a backend at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		pipeline, err := NewPipeline(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, pipeline)
	})

	t.Run("invalid chunk config rejected", func(t *testing.T) {
		tmpDir := t.TempDir()
		badConfig := WithChunkConfig(chunk.Config{MaxSize: -1})
		pipeline, err := NewPipeline(tmpDir, WithProvider(mock.NewMockProvider()), badConfig)
		assert.Error(t, err)
		assert.Nil(t, pipeline)
	})
}

func TestPipeline_Close(t *testing.T) {
	pipeline, err := NewPipeline(t.TempDir(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, pipeline)

	err = pipeline.Close()
	assert.NoError(t, err)
}

func TestPipeline_FactoryMethods(t *testing.T) {
	pipeline, err := NewPipeline(t.TempDir(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	defer pipeline.Close()

	t.Run("can create orchestrator", func(t *testing.T) {
		orch, err := pipeline.NewOrchestrator()
		require.NoError(t, err)
		require.NotNil(t, orch)
		orch.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := pipeline.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create reembedder", func(t *testing.T) {
		reembedder := pipeline.NewReembedder(nil, os.Stderr)
		require.NotNil(t, reembedder)
	})
}

func TestPipeline_EndToEnd(t *testing.T) {
	pipeline, err := NewPipeline("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer pipeline.Close()

	ctx := context.Background()

	key := ingest.RawKey("doc-1")
	_, err = pipeline.ObjectStore().Put(ctx, key, []byte("intro text<!-- page break -->more text"))
	require.NoError(t, err)

	orch, err := pipeline.NewOrchestrator()
	require.NoError(t, err)
	defer orch.Release()

	result, err := orch.Process(ctx, ingest.DocumentRef{FileID: "doc-1", Name: "doc.md", Source: key})
	require.NoError(t, err)
	assert.Equal(t, core.StatusStored, result.Status)

	searcher, err := pipeline.NewSearcher()
	require.NoError(t, err)

	hits, err := searcher.FindSimilar(ctx, "intro text", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}
