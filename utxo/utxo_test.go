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

package utxo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	test_ledger "github.com/blinklabs-io/spend-showcase/internal/test/ledger"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/plutus"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

func testScriptAddress() ledger.Address {
	var hash ledger.ScriptHash
	for i := range hash {
		hash[i] = 0xaa
	}
	return ledger.NewEnterpriseScriptAddress(ledger.AddressNetworkTestnet, hash)
}

func withDatum(u ledger.Utxo, v plutus.Value) ledger.Utxo {
	u.Output.Datum = ledger.NewDatum(v.ToPlutusData())
	return u
}

func TestSelectorAtEmptyIsNotError(t *testing.T) {
	chain := test_ledger.NewMockChain()
	sel := utxo.NewSelector(chain)
	got, err := sel.At(context.Background(), testScriptAddress())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectorAtFiltersByDatum(t *testing.T) {
	chain := test_ledger.NewMockChain()
	addr := testScriptAddress()
	commitment := []byte("0123abcd")
	match := withDatum(test_ledger.NewUtxo(1, 0, addr, ledger.NewValue(2_000_000)), plutus.Bytes(commitment))
	other := withDatum(test_ledger.NewUtxo(1, 1, addr, ledger.NewValue(2_000_000)), plutus.Bytes("nope"))
	wrongShape := withDatum(test_ledger.NewUtxo(1, 2, addr, ledger.NewValue(2_000_000)), plutus.NewInt(42))
	noDatum := test_ledger.NewUtxo(1, 3, addr, ledger.NewValue(2_000_000))
	for _, u := range []ledger.Utxo{match, other, wrongShape, noDatum} {
		chain.AddUtxo(u)
	}
	sel := utxo.NewSelector(chain)
	got, err := sel.At(context.Background(), addr, utxo.InlineDatumBytes(commitment))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.Input, got[0].Input)
}

func TestSelectorAtQueryError(t *testing.T) {
	chain := test_ledger.NewMockChain()
	chain.QueryErr = errors.New("boom")
	_, err := utxo.NewSelector(chain).At(context.Background(), testScriptAddress())
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.QueryErr)
}

func TestSelectorByUnit(t *testing.T) {
	chain := test_ledger.NewMockChain()
	addr, _ := test_ledger.KeyAddress(0x01)
	var policy ledger.PolicyId
	policy[0] = 0x42
	unit := ledger.Unit{Policy: policy, Name: []byte("token")}
	holder := test_ledger.NewUtxo(2, 0, addr, ledger.NewValue(2_000_000).WithAsset(unit, 1))
	chain.AddUtxo(holder)
	chain.AddUtxo(test_ledger.NewUtxo(2, 1, addr, ledger.NewValue(5_000_000)))
	sel := utxo.NewSelector(chain)

	got, err := sel.ByUnit(context.Background(), unit)
	require.NoError(t, err)
	assert.Equal(t, holder.Input, got.Input)

	missing := ledger.Unit{Policy: policy, Name: []byte("other")}
	_, err = sel.ByUnit(context.Background(), missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, utxo.ErrNotFound)
	assert.Contains(t, err.Error(), missing.String())
}

func TestFilterPredicates(t *testing.T) {
	addr, _ := test_ledger.KeyAddress(0x01)
	var policy ledger.PolicyId
	policy[0] = 0x42
	unit := ledger.Unit{Policy: policy, Name: []byte("token")}
	plain := test_ledger.NewUtxo(3, 0, addr, ledger.NewValue(2_000_000))
	withAsset := test_ledger.NewUtxo(3, 1, addr, ledger.NewValue(2_000_000).WithAsset(unit, 5))
	withRef := test_ledger.NewUtxo(3, 2, addr, ledger.NewValue(20_000_000))
	withRef.Output.ScriptRef = &ledger.ScriptRef{
		Script: ledger.PlutusV3Script{0x45, 0x01, 0x01, 0x00, 0x24, 0x99},
	}
	all := []ledger.Utxo{plain, withAsset, withRef}

	assert.Len(t, utxo.Filter(all), 3)
	assert.Equal(t, []ledger.Utxo{plain, withAsset}, utxo.Filter(all, utxo.NoScriptRef()))
	assert.Equal(t, []ledger.Utxo{withAsset}, utxo.Filter(all, utxo.HoldsUnit(unit)))
	assert.Equal(t, []ledger.Utxo{plain, withRef}, utxo.Filter(all, utxo.AdaOnly()))
	assert.Equal(t, []ledger.Utxo{plain}, utxo.Filter(all, utxo.AdaOnly(), utxo.NoScriptRef()))
	assert.Empty(t, utxo.Filter(nil, utxo.AdaOnly()))
}
