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
	"cmp"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/blinklabs-io/plutigo/data"

	"github.com/blinklabs-io/spend-showcase/cbor"
)

// TransactionInput references a transaction output by transaction ID and output index
type TransactionInput struct {
	cbor.StructAsArray
	TxId  Blake2b256
	Index uint32
}

// NewTransactionInput builds an input from a hex transaction ID
func NewTransactionInput(txId string, index uint32) (TransactionInput, error) {
	hash, err := NewBlake2b256FromHex(txId)
	if err != nil {
		return TransactionInput{}, err
	}
	return TransactionInput{TxId: hash, Index: index}, nil
}

// ParseTransactionInput parses the "<txid>#<index>" form
func ParseTransactionInput(s string) (TransactionInput, error) {
	txId, idx, ok := strings.Cut(s, "#")
	if !ok {
		return TransactionInput{}, fmt.Errorf("invalid transaction input: %q", s)
	}
	index, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return TransactionInput{}, fmt.Errorf("invalid transaction input index: %w", err)
	}
	return NewTransactionInput(txId, uint32(index))
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxId.String(), i.Index)
}

// ToPlutusData returns the Plutus V3 output reference encoding
func (i TransactionInput) ToPlutusData() data.PlutusData {
	return data.NewConstr(
		0,
		data.NewByteString(i.TxId.Bytes()),
		data.NewInteger(new(big.Int).SetUint64(uint64(i.Index))),
	)
}

// Compare orders inputs the way the ledger sorts the transaction input set
func (i TransactionInput) Compare(other TransactionInput) int {
	if c := bytes.Compare(i.TxId[:], other.TxId[:]); c != 0 {
		return c
	}
	return cmp.Compare(i.Index, other.Index)
}
