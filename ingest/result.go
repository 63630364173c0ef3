package ingest

import (
	"time"

	"github.com/poiesic/docflow/core"
)

// DocumentRef identifies a document to ingest.
type DocumentRef struct {
	// FileID is the external identity of the document.
	FileID string
	// Name is the human-readable file name.
	Name string
	// Source is the object store key holding the raw bytes.
	Source string
}

// Result reports the outcome of processing one document.
type Result struct {
	// FileID is the document's external identity.
	FileID string
	// Status is the document's status after processing.
	Status core.Status
	// FailedStage is set when Status is Failed.
	FailedStage core.Stage
	// Pages is the number of parsed pages.
	Pages int
	// Chunks is the number of chunks derived from the document.
	Chunks int
	// NoOp is true when the document was already stored with unchanged
	// content and no work was performed.
	NoOp bool
	// Duration is the wall-clock processing time.
	Duration time.Duration
	// Err carries the processing error, if any. Batch processing uses it
	// to report per-document failures without failing the batch.
	Err error
}
