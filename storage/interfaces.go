package storage

import (
	"context"

	"github.com/poiesic/docflow/core"
)

// ObjectStore is the capability for storing and retrieving raw and
// intermediate files by key. Keys are content- or file-id-derived strings
// (e.g. "raw/<file-id>", "markdown/<file-id>.md").
// Implementations must be thread-safe.
type ObjectStore interface {
	// Put stores data under the given key, overwriting any previous value.
	// Returns the key the object was stored under.
	Put(ctx context.Context, key string, data []byte) (string, error)

	// Get retrieves the object stored under key.
	// Returns ErrNotFound if no object exists for the key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close closes the store and releases resources.
	Close() error
}

// DocumentRepository persists per-document pipeline state. Each source
// document owns exactly one state row, keyed by its external file id.
// The orchestrator writes the row after every successful stage so a
// restart resumes from the last completed stage.
type DocumentRepository interface {
	// Get retrieves the state row for a file id.
	// Returns ErrNotFound if the document has never been seen.
	Get(ctx context.Context, fileID string) (*core.SourceDocument, error)

	// Save writes the state row, overwriting any previous version.
	// The write is atomic: concurrent readers see either the old or the
	// new row, never a partial update.
	Save(ctx context.Context, doc *core.SourceDocument) error

	// List returns all known documents ordered by file id.
	List(ctx context.Context) ([]*core.SourceDocument, error)

	// Delete removes the state row for a file id.
	// Returns ErrNotFound if no row exists.
	Delete(ctx context.Context, fileID string) error

	// Close closes the repository and releases resources.
	Close() error
}

// VectorStore persists embedding records and answers similarity queries.
// Records for a given document preserve chunk index order relative to each
// other; no ordering guarantee exists across documents.
type VectorStore interface {
	// Upsert writes embedding records, overwriting records with the same ID.
	Upsert(ctx context.Context, records ...*core.EmbeddingRecord) error

	// Query returns up to k records ranked by cosine similarity to vector,
	// highest first. The query path is not exercised by ingestion but is
	// part of the collaborator contract.
	Query(ctx context.Context, vector []float32, k int) ([]*core.VectorMatch, error)

	// ListByFile returns all embedding records for a file id in chunk
	// index order.
	ListByFile(ctx context.Context, fileID string) ([]*core.EmbeddingRecord, error)

	// DeleteByFile removes all embedding records for a file id.
	// Returns the number of records deleted.
	DeleteByFile(ctx context.Context, fileID string) (int, error)

	// CountByFile returns the number of embedding records stored for a file id.
	CountByFile(ctx context.Context, fileID string) (int, error)

	// Close closes the store and releases resources.
	Close() error
}
