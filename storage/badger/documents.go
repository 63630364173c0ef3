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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) storage.DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Get retrieves the state row for a file id.
func (r *DocumentRepository) Get(ctx context.Context, fileID string) (*core.SourceDocument, error) {
	var doc *core.SourceDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(fileID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			doc, unmarshalErr = storage.UnmarshalSourceDocument(val)
			return unmarshalErr
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes the state row, overwriting any previous version.
// Each save is a single atomic status update.
func (r *DocumentRepository) Save(ctx context.Context, doc *core.SourceDocument) error {
	if err := core.ValidateSourceDocument(doc); err != nil {
		return err
	}

	if doc.InsertedAt.IsZero() {
		doc.InsertedAt = time.Now().UTC()
	}
	doc.UpdatedAt = time.Now().UTC()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.FileID)
		value := storage.MarshalSourceDocument(doc)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// List returns all known documents ordered by file id.
func (r *DocumentRepository) List(ctx context.Context) ([]*core.SourceDocument, error) {
	var docs []*core.SourceDocument

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.SourceDocument
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				doc, unmarshalErr = storage.UnmarshalSourceDocument(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes the state row for a file id.
func (r *DocumentRepository) Delete(ctx context.Context, fileID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(fileID)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (r *DocumentRepository) Close() error {
	return nil
}
