// Copyright 2026 Blink Labs Software
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

package session

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerRegistry is a Registry backed by Badger
type BadgerRegistry struct {
	db *badger.DB
}

// NewBadgerRegistry opens a Badger database in dir. An empty dir keeps the
// database in memory.
func NewBadgerRegistry(dir string) (*BadgerRegistry, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		if dir == "" {
			return nil, fmt.Errorf("open in-memory session store: %w", err)
		}
		return nil, fmt.Errorf("open session store at %s: %w", dir, err)
	}
	return &BadgerRegistry{db: db}, nil
}

func (r *BadgerRegistry) Remember(key string, value string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

func (r *BadgerRegistry) Recall(key string) (string, error) {
	var val []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("badger get: %w", err)
	}
	return string(val), nil
}

func (r *BadgerRegistry) Forget(key string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

func (r *BadgerRegistry) Close() error {
	return r.db.Close()
}
