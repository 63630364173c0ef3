package storage

import (
	"testing"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero", core.ID(0)},
		{"small", core.ID(42)},
		{"content derived", core.IDFromContent("doc-1:0")},
		{"max uint64", core.ID(^uint64(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			got, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, got)
		})
	}
}

func TestMarshalUnmarshalSourceDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	doc := &core.SourceDocument{
		FileID:      "doc-1",
		Name:        "annual-report.md",
		Source:      "raw/doc-1",
		MarkdownKey: "markdown/doc-1.md",
		ContentHash: core.HashBytes([]byte("body")),
		Status:      core.StatusStored,
		PageCount:   12,
		ChunkCount:  37,
		InsertedAt:  now,
		UpdatedAt:   now,
	}

	data := MarshalSourceDocument(doc)
	got, err := UnmarshalSourceDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestMarshalUnmarshalSourceDocumentFailed(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	doc := &core.SourceDocument{
		FileID:        "doc-2",
		Name:          "broken.md",
		Source:        "raw/doc-2",
		ContentHash:   core.HashBytes([]byte("broken body")),
		Status:        core.StatusFailed,
		FailedStage:   core.StageParse,
		FailureReason: "unsupported format",
		InsertedAt:    now,
		UpdatedAt:     now,
	}

	data := MarshalSourceDocument(doc)
	got, err := UnmarshalSourceDocument(data)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, got.Status)
	assert.Equal(t, core.StageParse, got.FailedStage)
	assert.Equal(t, "unsupported format", got.FailureReason)
}

func TestMarshalUnmarshalEmbeddingRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := &core.EmbeddingRecord{
		Id:         core.IDFromContent("doc-1:3"),
		FileID:     "doc-1",
		ChunkIndex: 3,
		Page:       2,
		Text:       "chunk text with unicode: héllo wörld",
		Vector:     []float32{0.25, -0.5, 1.0, 0.0},
		InsertedAt: now,
	}

	data := MarshalEmbeddingRecord(record)
	got, err := UnmarshalEmbeddingRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestMarshalUnmarshalEmbeddingRecordEmptyVector(t *testing.T) {
	record := &core.EmbeddingRecord{
		Id:         7,
		FileID:     "doc-1",
		ChunkIndex: 0,
		Page:       1,
		Text:       "not yet embedded",
		InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	data := MarshalEmbeddingRecord(record)
	got, err := UnmarshalEmbeddingRecord(data)
	require.NoError(t, err)
	assert.Nil(t, got.Vector)
	assert.Equal(t, record.Text, got.Text)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	doc := &core.SourceDocument{
		FileID: "doc-1",
		Source: "raw/doc-1",
		Status: core.StatusPending,
	}

	data := MarshalSourceDocument(doc)
	_, err := UnmarshalSourceDocument(data[:len(data)/2])
	assert.Error(t, err)
}
