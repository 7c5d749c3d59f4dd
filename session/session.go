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

// Package session keeps the small amount of state that links a CIP-68 mint
// to a later update or burn within one client session.
package session

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("session key not found")

// Registry is a string key/value store scoped to one client session
type Registry interface {
	Remember(key string, value string) error
	// Recall returns an error matching ErrNotFound for unknown keys
	Recall(key string) (string, error)
	Forget(key string) error
}

// MemoryRegistry is a Registry held in process memory
type MemoryRegistry struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{values: map[string]string{}}
}

func (r *MemoryRegistry) Remember(key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *MemoryRegistry) Recall(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Forget removes a key. Forgetting an unknown key is not an error.
func (r *MemoryRegistry) Forget(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
