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
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/blinklabs-io/spend-showcase/ledger"
)

const (
	keyPolicyId  = "policyId"
	keyAssetName = "assetName"
)

var ErrCorruptLink = errors.New("corrupt session link")

// Link is the asset family created by the most recent mint. AssetName is
// the full user token name, label prefix included.
type Link struct {
	Policy    ledger.PolicyId
	AssetName []byte
}

// Unit returns the user token unit
func (l Link) Unit() ledger.Unit {
	return ledger.Unit{Policy: l.Policy, Name: l.AssetName}
}

// Scope is a namespace within a Registry
type Scope struct {
	name     string
	registry Registry
}

func NewScope(name string, registry Registry) *Scope {
	return &Scope{name: name, registry: registry}
}

// NewScopeName returns a random namespace for an isolated session
func NewScopeName() string {
	return uuid.NewString()
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) key(field string) string {
	return s.name + "." + field
}

// SaveLink remembers the minted asset family
func (s *Scope) SaveLink(link Link) error {
	if err := s.registry.Remember(s.key(keyPolicyId), link.Policy.String()); err != nil {
		return err
	}
	return s.registry.Remember(s.key(keyAssetName), hex.EncodeToString(link.AssetName))
}

// LoadLink returns the remembered asset family, or an error matching
// ErrNotFound if either half is missing
func (s *Scope) LoadLink() (Link, error) {
	policyHex, err := s.registry.Recall(s.key(keyPolicyId))
	if err != nil {
		return Link{}, err
	}
	nameHex, err := s.registry.Recall(s.key(keyAssetName))
	if err != nil {
		return Link{}, err
	}
	policy, err := ledger.NewBlake2b224FromHex(policyHex)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %w", ErrCorruptLink, err)
	}
	name, err := hex.DecodeString(nameHex)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %w", ErrCorruptLink, err)
	}
	return Link{Policy: policy, AssetName: name}, nil
}

// ClearLink forgets the asset family
func (s *Scope) ClearLink() error {
	if err := s.registry.Forget(s.key(keyPolicyId)); err != nil {
		return err
	}
	return s.registry.Forget(s.key(keyAssetName))
}
