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

package test_ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/blinklabs-io/spend-showcase/cbor"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/tx"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

// Compile-time checks that MockChain implements the chain collaborators
var (
	_ utxo.Provider     = (*MockChain)(nil)
	_ tx.ParamsProvider = (*MockChain)(nil)
	_ tx.Submitter      = (*MockChain)(nil)
)

// MockChain is the canonical in-memory chain used by tests. Tests should
// construct it with NewMockChain, seed UTxOs with AddUtxo and override
// behavior with the *Func fields.
type MockChain struct {
	mu        sync.Mutex
	utxos     map[string][]ledger.Utxo
	scripts   map[ledger.ScriptHash]ledger.PlutusV3Script
	submitted [][]byte
	queries   int
	Params    *tx.ProtocolParameters
	// QueryErr is returned from every UTxO query when set
	QueryErr error
	// SubmitFunc optionally overrides submission
	SubmitFunc func([]byte) (string, error)
}

func NewMockChain() *MockChain {
	return &MockChain{
		utxos:   map[string][]ledger.Utxo{},
		scripts: map[ledger.ScriptHash]ledger.PlutusV3Script{},
		Params:  DefaultProtocolParameters(),
	}
}

// DefaultProtocolParameters returns parameters matching current preview
func DefaultProtocolParameters() *tx.ProtocolParameters {
	return &tx.ProtocolParameters{
		MinFeeA:                    44,
		MinFeeB:                    155381,
		CoinsPerUtxoByte:           4310,
		MaxTxSize:                  16384,
		PriceMemory:                big.NewRat(577, 10000),
		PriceSteps:                 big.NewRat(721, 10000000),
		MinFeeRefScriptCostPerByte: big.NewRat(15, 1),
		MaxTxExMemory:              14000000,
		MaxTxExSteps:               10000000000,
		CollateralPercentage:       150,
		MaxCollateralInputs:        3,
		CostModelV3:                []int64{100788, 420, 1, 1, 1000, 173, 0, 1},
	}
}

func (m *MockChain) AddUtxo(u ledger.Utxo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := u.Output.Address.String()
	m.utxos[key] = append(m.utxos[key], u)
}

// AddScript registers a script for ScriptBytes lookups
func (m *MockChain) AddScript(s ledger.PlutusV3Script) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[s.Hash()] = s
}

// Queries returns the number of chain queries served
func (m *MockChain) Queries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries
}

// Submitted returns every submitted transaction
func (m *MockChain) Submitted() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.submitted...)
}

func (m *MockChain) UtxosAt(_ context.Context, addr ledger.Address) ([]ledger.Utxo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return append([]ledger.Utxo(nil), m.utxos[addr.String()]...), nil
}

func (m *MockChain) UtxoByUnit(_ context.Context, unit ledger.Unit) (ledger.Utxo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.QueryErr != nil {
		return ledger.Utxo{}, m.QueryErr
	}
	var found []ledger.Utxo
	for _, utxos := range m.utxos {
		for _, u := range utxos {
			if utxo.HoldsUnit(unit)(u) {
				found = append(found, u)
			}
		}
	}
	switch len(found) {
	case 0:
		return ledger.Utxo{}, utxo.ErrNotFound
	case 1:
		return found[0], nil
	}
	return ledger.Utxo{}, fmt.Errorf("unit %s held by %d utxos", unit.String(), len(found))
}

// ScriptBytes returns a registered script by hash
func (m *MockChain) ScriptBytes(_ context.Context, hash ledger.ScriptHash) (ledger.PlutusV3Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	s, ok := m.scripts[hash]
	if !ok {
		return nil, fmt.Errorf("script %s: %w", hash.String(), utxo.ErrNotFound)
	}
	return s, nil
}

func (m *MockChain) ProtocolParameters(context.Context) (*tx.ProtocolParameters, error) {
	if m.Params == nil {
		return nil, errors.New("mock protocol parameters not configured")
	}
	return m.Params, nil
}

// Submit records the transaction and returns the ID of its body
func (m *MockChain) Submit(_ context.Context, txCbor []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(txCbor)
	}
	var parts []cbor.RawMessage
	if _, err := cbor.Decode(txCbor, &parts); err != nil {
		return "", err
	}
	if len(parts) != 4 {
		return "", fmt.Errorf("unexpected transaction array length %d", len(parts))
	}
	m.submitted = append(m.submitted, txCbor)
	return ledger.Blake2b256Hash(parts[0]).String(), nil
}

// NewUtxo builds a UTxO with a synthetic transaction ID derived from seed
func NewUtxo(seed byte, index uint32, addr ledger.Address, value ledger.Value) ledger.Utxo {
	var txId ledger.Blake2b256
	for i := range txId {
		txId[i] = seed
	}
	return ledger.Utxo{
		Input: ledger.TransactionInput{TxId: txId, Index: index},
		Output: ledger.TransactionOutput{
			Address: addr,
			Amount:  value,
		},
	}
}

// KeyAddress returns a testnet enterprise key address for a repeated byte
func KeyAddress(b byte) (ledger.Address, ledger.KeyHash) {
	var hash ledger.KeyHash
	for i := range hash {
		hash[i] = b
	}
	return ledger.NewEnterpriseKeyAddress(ledger.AddressNetworkTestnet, hash), hash
}
