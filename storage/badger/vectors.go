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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// VectorStore implements storage.VectorStore for BadgerDB.
// Embedding records are keyed by file id and big-endian chunk index, so
// iteration within a file preserves chunk order.
type VectorStore struct {
	backend *Backend
}

var _ storage.VectorStore = (*VectorStore)(nil)

// NewVectorStore creates a new VectorStore.
func NewVectorStore(backend *Backend) storage.VectorStore {
	return &VectorStore{backend: backend}
}

// Upsert writes embedding records, overwriting records with the same
// file id and chunk index.
func (s *VectorStore) Upsert(ctx context.Context, records ...*core.EmbeddingRecord) error {
	for _, record := range records {
		if err := core.ValidateEmbeddingRecord(record); err != nil {
			return err
		}
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.InsertedAt.IsZero() {
				record.InsertedAt = time.Now().UTC()
			}
			key := makeEmbeddingKey(record.FileID, record.ChunkIndex)
			value := storage.MarshalEmbeddingRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns up to k records ranked by cosine similarity to vector.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]*core.VectorMatch, error) {
	if len(vector) == 0 || k <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var matches []*core.VectorMatch

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalEmbeddingRecord(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			matches = append(matches, &core.VectorMatch{
				Record: record,
				Score:  cosineSimilarity(vector, record.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

// ListByFile returns all embedding records for a file id. The big-endian
// chunk index in the key makes badger's key iteration order equal chunk
// index order.
func (s *VectorStore) ListByFile(ctx context.Context, fileID string) ([]*core.EmbeddingRecord, error) {
	var records []*core.EmbeddingRecord

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEmbeddingFilePrefix(fileID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, unmarshalErr := storage.UnmarshalEmbeddingRecord(val)
				if unmarshalErr != nil {
					return unmarshalErr
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByFile removes all embedding records for a file id.
func (s *VectorStore) DeleteByFile(ctx context.Context, fileID string) (int, error) {
	deleted := 0

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEmbeddingFilePrefix(fileID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CountByFile returns the number of embedding records stored for a file id.
func (s *VectorStore) CountByFile(ctx context.Context, fileID string) (int, error) {
	count := 0

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEmbeddingFilePrefix(fileID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (s *VectorStore) Close() error {
	return nil
}

// cosineSimilarity calculates the dot product of two vectors.
// For unit-normalized vectors this equals cosine similarity.
func cosineSimilarity(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
