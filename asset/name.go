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

// Package asset derives asset names and CIP-67 labelled units.
package asset

import (
	"errors"

	"github.com/blinklabs-io/plutigo/data"

	"github.com/blinklabs-io/spend-showcase/ledger"
)

var ErrNoReferences = errors.New("no output references to derive an asset name from")

// DeriveName hashes the Plutus encoding of the output references, in the
// order given, to a 32-byte asset name
func DeriveName(refs []ledger.TransactionInput) (ledger.Blake2b256, error) {
	if len(refs) == 0 {
		return ledger.Blake2b256{}, ErrNoReferences
	}
	items := make([]data.PlutusData, 0, len(refs))
	for _, ref := range refs {
		items = append(items, ref.ToPlutusData())
	}
	preimage, err := data.Encode(data.NewList(items...))
	if err != nil {
		return ledger.Blake2b256{}, err
	}
	return ledger.Blake2b256Hash(preimage), nil
}
