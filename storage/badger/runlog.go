// Copyright 2025 Quellwerk
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
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/storage"
)

// RunLogRepository implements storage.RunLogRepository for BadgerDB.
type RunLogRepository struct {
	backend *Backend
}

var _ storage.RunLogRepository = (*RunLogRepository)(nil)

// NewRunLogRepository creates a run log repository on the backend.
//
// Returns the storage interface to enforce abstraction.
func NewRunLogRepository(backend *Backend) (storage.RunLogRepository, error) {
	return &RunLogRepository{backend: backend}, nil
}

// Save writes a run record, overwriting any previous state of the same run.
func (r *RunLogRepository) Save(ctx context.Context, run *core.RunRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunRecordKey(run.ID)
		if err := tx.Set(key, storage.MarshalRunRecord(run)); err != nil {
			return err
		}

		// The date index key is derived from StartedAt, which never changes
		// across saves of the same run, so re-saving is idempotent.
		dateKey := makeRunDateKey(run.StartedAt, run.ID)
		if err := tx.Set(dateKey, []byte(run.ID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// Get retrieves a run record by its ID.
func (r *RunLogRepository) Get(ctx context.Context, id string) (*core.RunRecord, error) {
	var result *core.RunRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunRecordKey(id))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalRunRecord(val)
			return err
		})
	}, false)
	return result, err
}

// List retrieves up to limit run records, newest first.
func (r *RunLogRepository) List(ctx context.Context, limit int) ([]*core.RunRecord, error) {
	var ids []string
	prefix := dateIndexPrefix()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the index so the reverse scan starts at the
		// newest entry.
		seek := append(bytes.Clone(prefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seek); iter.ValidForPrefix(prefix); iter.Next() {
			if limit > 0 && len(ids) >= limit {
				break
			}
			err := iter.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
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

	runs := make([]*core.RunRecord, 0, len(ids))
	for _, id := range ids {
		run, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Close releases repository resources.
// The underlying backend stays open; it may be shared.
func (r *RunLogRepository) Close() error {
	return nil
}
