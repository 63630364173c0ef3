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


package core

import "fmt"

// ValidateSourceDocument validates a SourceDocument according to domain rules.
//
// Validation rules:
//   - FileID must not be empty
//   - Source must not be empty
//   - Status must be a defined value
//
// NOT validated (populated by the orchestrator as stages complete):
//   - ContentHash (empty until the document has been downloaded)
//   - MarkdownKey (empty unless the upload stage ran)
//   - PageCount / ChunkCount (zero until the relevant stages complete)
func ValidateSourceDocument(doc *SourceDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidSourceDocument)
	}

	if doc.FileID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceDocument, ErrEmptyFileID)
	}

	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSourceDocument, ErrEmptySource)
	}

	if !doc.Status.Valid() {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidSourceDocument, ErrInvalidStatus, doc.Status)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - FileID must not be empty
//   - Index must not be negative
//   - Text must not be empty
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.FileID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyFileID)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	return nil
}

// ValidateEmbeddingRecord validates an EmbeddingRecord before persistence.
//
// Validation rules:
//   - FileID must not be empty
//   - ChunkIndex must not be negative
//   - Vector must not be empty
func ValidateEmbeddingRecord(record *EmbeddingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEmbeddingRecord)
	}

	if record.FileID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmbeddingRecord, ErrEmptyFileID)
	}

	if record.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbeddingRecord, ErrNegativeChunkIndex)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbeddingRecord, ErrEmptyVector)
	}

	return nil
}
