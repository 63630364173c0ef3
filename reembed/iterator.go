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


package reembed

import (
	"context"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

const (
	// DefaultBatchSize is the default number of records to process in each batch
	DefaultBatchSize = 100
)

// RecordIterator iterates over all stored embedding records, document by
// document, in batches. Within a document records arrive in chunk index
// order.
type RecordIterator struct {
	documents storage.DocumentRepository
	vectors   storage.VectorStore
	batchSize int
}

// NewRecordIterator creates a new record iterator.
// batchSize: number of records to process in each batch (must be > 0)
func NewRecordIterator(documents storage.DocumentRepository, vectors storage.VectorStore, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &RecordIterator{
		documents: documents,
		vectors:   vectors,
		batchSize: batchSize,
	}
}

// ForEach iterates over all embedding records, calling fn for each batch.
// Iteration stops on first error from fn or when all records are processed.
// Context cancellation is checked between batches.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]*core.EmbeddingRecord) error) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	docs, err := it.documents.List(ctx)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		records, err := it.vectors.ListByFile(ctx, doc.FileID)
		if err != nil {
			return err
		}

		for i := 0; i < len(records); i += it.batchSize {
			end := i + it.batchSize
			if end > len(records) {
				end = len(records)
			}

			if err := fn(records[i:end]); err != nil {
				return err
			}

			// Check context after each batch
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	return nil
}

// Count returns the total number of embedding records across all documents.
func (it *RecordIterator) Count(ctx context.Context) (int, error) {
	docs, err := it.documents.List(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, doc := range docs {
		count, err := it.vectors.CountByFile(ctx, doc.FileID)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}
