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

package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/blinklabs-io/spend-showcase/cbor"
)

// MultiAsset represents a collection of policies, assets, and quantities. It's used for
// transaction outputs (uint64) and minting (int64)
type MultiAsset[T int64 | uint64] struct {
	data map[PolicyId]map[cbor.ByteString]T
}

// NewMultiAsset creates an empty MultiAsset
func NewMultiAsset[T int64 | uint64]() *MultiAsset[T] {
	return &MultiAsset[T]{data: map[PolicyId]map[cbor.ByteString]T{}}
}

func (m *MultiAsset[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(m.normalize())
}

func (m *MultiAsset[T]) UnmarshalCBOR(cborData []byte) error {
	tmp := map[PolicyId]map[cbor.ByteString]T{}
	if _, err := cbor.Decode(cborData, &tmp); err != nil {
		return err
	}
	m.data = tmp
	return nil
}

// Set sets the quantity of an asset, removing it when the quantity is zero
func (m *MultiAsset[T]) Set(policyId PolicyId, assetName []byte, amount T) {
	if m.data == nil {
		m.data = map[PolicyId]map[cbor.ByteString]T{}
	}
	key := cbor.NewByteString(assetName)
	if amount == 0 {
		if assets, ok := m.data[policyId]; ok {
			delete(assets, key)
			if len(assets) == 0 {
				delete(m.data, policyId)
			}
		}
		return
	}
	if _, ok := m.data[policyId]; !ok {
		m.data[policyId] = map[cbor.ByteString]T{}
	}
	m.data[policyId][key] = amount
}

// AddAsset adds to the quantity of a single asset
func (m *MultiAsset[T]) AddAsset(policyId PolicyId, assetName []byte, amount T) {
	m.Set(policyId, assetName, m.Asset(policyId, assetName)+amount)
}

// Add merges the provided assets into this MultiAsset
func (m *MultiAsset[T]) Add(assets *MultiAsset[T]) {
	if assets == nil {
		return
	}
	for policy, policyAssets := range assets.data {
		for asset, amount := range policyAssets {
			m.AddAsset(policy, asset.Bytes(), amount)
		}
	}
}

// Asset returns the quantity of an asset, or zero
func (m *MultiAsset[T]) Asset(policyId PolicyId, assetName []byte) T {
	if m == nil || m.data == nil {
		return 0
	}
	return m.data[policyId][cbor.NewByteString(assetName)]
}

// Policies returns the policy IDs in sorted order
func (m *MultiAsset[T]) Policies() []PolicyId {
	norm := m.normalize()
	ret := slices.Collect(maps.Keys(norm))
	slices.SortFunc(
		ret,
		func(a, b PolicyId) int { return bytes.Compare(a.Bytes(), b.Bytes()) },
	)
	return ret
}

// Assets returns the asset names under a policy in sorted order
func (m *MultiAsset[T]) Assets(policyId PolicyId) [][]byte {
	norm := m.normalize()
	names := slices.Collect(maps.Keys(norm[policyId]))
	slices.SortFunc(
		names,
		func(a, b cbor.ByteString) int { return bytes.Compare(a.Bytes(), b.Bytes()) },
	)
	ret := make([][]byte, 0, len(names))
	for _, name := range names {
		ret = append(ret, name.Bytes())
	}
	return ret
}

// Units returns every asset as a Unit, sorted by policy then name
func (m *MultiAsset[T]) Units() []Unit {
	var ret []Unit
	for _, policy := range m.Policies() {
		for _, name := range m.Assets(policy) {
			ret = append(ret, Unit{Policy: policy, Name: name})
		}
	}
	return ret
}

// IsEmpty reports whether there are no non-zero quantities
func (m *MultiAsset[T]) IsEmpty() bool {
	return len(m.normalize()) == 0
}

// Clone returns a deep copy
func (m *MultiAsset[T]) Clone() *MultiAsset[T] {
	ret := NewMultiAsset[T]()
	ret.Add(m)
	return ret
}

func (m *MultiAsset[T]) normalize() map[PolicyId]map[cbor.ByteString]T {
	ret := map[PolicyId]map[cbor.ByteString]T{}
	if m == nil || m.data == nil {
		return ret
	}
	for policy, assets := range m.data {
		for asset, amount := range assets {
			if amount == 0 {
				continue
			}
			if _, ok := ret[policy]; !ok {
				ret[policy] = make(map[cbor.ByteString]T)
			}
			ret[policy][asset] = amount
		}
	}
	return ret
}

// String returns a stable representation: [<policyId>.<assetNameHex>=<amount>, ...]
func (m *MultiAsset[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for idx, unit := range m.Units() {
		if idx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(
			&b,
			"%s.%s=%d",
			unit.Policy.String(),
			hex.EncodeToString(unit.Name),
			m.Asset(unit.Policy, unit.Name),
		)
	}
	b.WriteByte(']')
	return b.String()
}

// Value is an amount of lovelace plus optional native assets
type Value struct {
	Coin   uint64
	Assets *MultiAsset[uint64]
}

// NewValue returns a lovelace-only value
func NewValue(coin uint64) Value {
	return Value{Coin: coin}
}

// Clone returns a deep copy
func (v Value) Clone() Value {
	ret := Value{Coin: v.Coin}
	if v.Assets != nil {
		ret.Assets = v.Assets.Clone()
	}
	return ret
}

// WithAsset returns a copy of the value with the asset quantity added
func (v Value) WithAsset(unit Unit, amount uint64) Value {
	ret := v.Clone()
	if ret.Assets == nil {
		ret.Assets = NewMultiAsset[uint64]()
	}
	ret.Assets.AddAsset(unit.Policy, unit.Name, amount)
	return ret
}

// HasAssets reports whether the value carries any native assets
func (v Value) HasAssets() bool {
	return v.Assets != nil && !v.Assets.IsEmpty()
}

func (v Value) MarshalCBOR() ([]byte, error) {
	if !v.HasAssets() {
		return cbor.Encode(v.Coin)
	}
	return cbor.Encode([]any{v.Coin, v.Assets})
}

func (v *Value) UnmarshalCBOR(cborData []byte) error {
	if t, ok := cbor.MajorType(cborData); ok && t == cbor.CborTypeArray {
		var tmp struct {
			cbor.StructAsArray
			Coin   uint64
			Assets MultiAsset[uint64]
		}
		if _, err := cbor.Decode(cborData, &tmp); err != nil {
			return err
		}
		v.Coin = tmp.Coin
		v.Assets = &tmp.Assets
		return nil
	}
	v.Assets = nil
	_, err := cbor.Decode(cborData, &v.Coin)
	return err
}

// Unit identifies a native asset by policy ID and asset name
type Unit struct {
	Policy PolicyId
	Name   []byte
}

// ParseUnit parses the concatenated hex form <policy><name>
func ParseUnit(s string) (Unit, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: %w", ErrInvalidUnit, err)
	}
	if len(raw) < Blake2b224Size || len(raw) > Blake2b224Size+32 {
		return Unit{}, fmt.Errorf("%w: unexpected length %d", ErrInvalidUnit, len(raw))
	}
	return Unit{
		Policy: NewBlake2b224(raw[:Blake2b224Size]),
		Name:   raw[Blake2b224Size:],
	}, nil
}

// String returns the concatenated hex form
func (u Unit) String() string {
	return u.Policy.String() + hex.EncodeToString(u.Name)
}

// NameHex returns the hex-encoded asset name
func (u Unit) NameHex() string {
	return hex.EncodeToString(u.Name)
}

func (u Unit) Equal(other Unit) bool {
	return u.Policy == other.Policy && bytes.Equal(u.Name, other.Name)
}
