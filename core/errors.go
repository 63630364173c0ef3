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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSourceDocument indicates a SourceDocument failed validation.
	ErrInvalidSourceDocument = errors.New("invalid source document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidEmbeddingRecord indicates an EmbeddingRecord failed validation.
	ErrInvalidEmbeddingRecord = errors.New("invalid embedding record")

	// ErrEmptyFileID indicates the FileID field is empty.
	ErrEmptyFileID = errors.New("file id cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidStatus indicates an invalid Status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNegativeChunkIndex indicates a chunk index below zero.
	ErrNegativeChunkIndex = errors.New("chunk index cannot be negative")

	// ErrEmptyVector indicates an embedding record without a vector.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrInvalidVectorLength indicates serialized vector data whose declared
	// length is negative or exceeds the available bytes.
	ErrInvalidVectorLength = errors.New("invalid vector length")
)
