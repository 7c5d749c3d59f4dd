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

// Package utxo selects and filters unspent outputs from a chain query
// provider.
package utxo

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/plutus"
)

var ErrNotFound = errors.New("utxo not found")

// Provider answers chain queries for unspent outputs
type Provider interface {
	UtxosAt(ctx context.Context, addr ledger.Address) ([]ledger.Utxo, error)
	// UtxoByUnit returns the single output holding the unit, or an error
	// matching ErrNotFound
	UtxoByUnit(ctx context.Context, unit ledger.Unit) (ledger.Utxo, error)
}

// Predicate reports whether a UTxO should be kept
type Predicate func(ledger.Utxo) bool

// Selector wraps a Provider with filtering
type Selector struct {
	provider Provider
}

func NewSelector(provider Provider) *Selector {
	return &Selector{provider: provider}
}

// At returns the outputs at an address that match every predicate. An empty
// result is not an error.
func (s *Selector) At(
	ctx context.Context,
	addr ledger.Address,
	preds ...Predicate,
) ([]ledger.Utxo, error) {
	utxos, err := s.provider.UtxosAt(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("query utxos at %s: %w", addr.String(), err)
	}
	return Filter(utxos, preds...), nil
}

// ByUnit returns the output carrying the unit
func (s *Selector) ByUnit(ctx context.Context, unit ledger.Unit) (ledger.Utxo, error) {
	ret, err := s.provider.UtxoByUnit(ctx, unit)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ledger.Utxo{}, fmt.Errorf("%w: unit %s", ErrNotFound, unit.String())
		}
		return ledger.Utxo{}, fmt.Errorf("query utxo by unit %s: %w", unit.String(), err)
	}
	return ret, nil
}

// Filter keeps the outputs matching every predicate, preserving order
func Filter(utxos []ledger.Utxo, preds ...Predicate) []ledger.Utxo {
	ret := make([]ledger.Utxo, 0, len(utxos))
	for _, u := range utxos {
		keep := true
		for _, pred := range preds {
			if !pred(u) {
				keep = false
				break
			}
		}
		if keep {
			ret = append(ret, u)
		}
	}
	return ret
}

// InlineDatumBytes keeps outputs whose inline datum is a byte string equal to
// expected. Outputs without an inline datum or with another shape are dropped.
func InlineDatumBytes(expected []byte) Predicate {
	return func(u ledger.Utxo) bool {
		if u.Output.Datum == nil {
			return false
		}
		datumCbor, err := u.Output.Datum.Cbor()
		if err != nil {
			return false
		}
		got, err := plutus.DecodeBytes(datumCbor)
		if err != nil {
			return false
		}
		return bytes.Equal(got, expected)
	}
}

// NoScriptRef drops outputs that carry a reference script
func NoScriptRef() Predicate {
	return func(u ledger.Utxo) bool {
		return u.Output.ScriptRef == nil
	}
}

// HoldsUnit keeps outputs carrying a non-zero quantity of the unit
func HoldsUnit(unit ledger.Unit) Predicate {
	return func(u ledger.Utxo) bool {
		if u.Output.Amount.Assets == nil {
			return false
		}
		return u.Output.Amount.Assets.Asset(unit.Policy, unit.Name) > 0
	}
}

// AdaOnly keeps outputs with no native assets
func AdaOnly() Predicate {
	return func(u ledger.Utxo) bool {
		return !u.Output.Amount.HasAssets()
	}
}
