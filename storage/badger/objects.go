package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/storage"
)

// ObjectStore implements storage.ObjectStore on BadgerDB. Raw files and
// markdown artifacts are stored as opaque blobs under file-id-derived keys.
type ObjectStore struct {
	backend *Backend
}

var _ storage.ObjectStore = (*ObjectStore)(nil)

// NewObjectStore creates a new ObjectStore.
func NewObjectStore(backend *Backend) storage.ObjectStore {
	return &ObjectStore{backend: backend}
}

// Put stores data under the given key, overwriting any previous value.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeObjectKey(key), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return "", err
	}
	return key, nil
}

// Get retrieves the object stored under key.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeObjectKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes the object stored under key. Missing keys are ignored.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeObjectKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the shared backend owns the database lifecycle.
func (s *ObjectStore) Close() error {
	return nil
}
