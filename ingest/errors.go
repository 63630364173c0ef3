// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"errors"
	"fmt"

	"github.com/poiesic/docflow/core"
)

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrObjectStoreRequired is returned when an object store is not provided.
	ErrObjectStoreRequired = errors.New("object store required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrParserRequired is returned when a document parser is not provided.
	ErrParserRequired = errors.New("document parser required")

	// ErrBuilderRequired is returned when a chunk builder is not provided.
	ErrBuilderRequired = errors.New("chunk builder required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

// Stage failure kinds. Every error returned by Process for a stage failure
// wraps exactly one of these, so callers can classify failures with
// errors.Is regardless of the underlying cause.
var (
	// ErrDownload indicates the raw bytes could not be fetched.
	ErrDownload = errors.New("download failed")

	// ErrParse indicates the document could not be converted to markdown pages.
	ErrParse = errors.New("parse failed")

	// ErrUpload indicates the markdown artifact could not be written.
	ErrUpload = errors.New("upload failed")

	// ErrChunk indicates the parsed document could not be split into chunks.
	ErrChunk = errors.New("chunk failed")

	// ErrEmbed indicates embedding generation failed or returned a
	// mismatched number of vectors.
	ErrEmbed = errors.New("embed failed")

	// ErrStore indicates embedding records could not be persisted.
	ErrStore = errors.New("store failed")
)

// StageError reports which pipeline stage failed and why. The wrapped error
// chain always contains the stage's sentinel kind (ErrDownload, ErrParse,
// ...) followed by the underlying cause.
type StageError struct {
	FileID string
	Stage  core.Stage
	Err    error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed for %s: %v", e.Stage, e.FileID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}
