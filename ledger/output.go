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
	"fmt"

	"github.com/blinklabs-io/spend-showcase/cbor"
)

const (
	outputKeyAddress   = 0
	outputKeyAmount    = 1
	outputKeyDatum     = 2
	outputKeyScriptRef = 3

	datumOptionHash   = 0
	datumOptionInline = 1
)

// TransactionOutput is a post-Alonzo transaction output
type TransactionOutput struct {
	Address   Address
	Amount    Value
	Datum     *Datum
	DatumHash *DatumHash
	ScriptRef *ScriptRef
}

func (o TransactionOutput) MarshalCBOR() ([]byte, error) {
	tmp := map[uint]any{
		outputKeyAddress: o.Address,
		outputKeyAmount:  o.Amount,
	}
	switch {
	case o.Datum != nil:
		datumCbor, err := o.Datum.Cbor()
		if err != nil {
			return nil, fmt.Errorf("encode inline datum: %w", err)
		}
		tmp[outputKeyDatum] = []any{
			datumOptionInline,
			cbor.WrappedCbor(datumCbor),
		}
	case o.DatumHash != nil:
		tmp[outputKeyDatum] = []any{datumOptionHash, *o.DatumHash}
	}
	if o.ScriptRef != nil {
		tmp[outputKeyScriptRef] = *o.ScriptRef
	}
	return cbor.Encode(tmp)
}

func (o *TransactionOutput) UnmarshalCBOR(cborData []byte) error {
	var tmp map[uint]cbor.RawMessage
	if _, err := cbor.Decode(cborData, &tmp); err != nil {
		return err
	}
	rawAddr, ok := tmp[outputKeyAddress]
	if !ok {
		return fmt.Errorf("%w: output has no address", ErrInvalidAddress)
	}
	if err := o.Address.UnmarshalCBOR(rawAddr); err != nil {
		return err
	}
	if rawAmount, ok := tmp[outputKeyAmount]; ok {
		if err := o.Amount.UnmarshalCBOR(rawAmount); err != nil {
			return err
		}
	}
	if rawDatum, ok := tmp[outputKeyDatum]; ok {
		var opt struct {
			cbor.StructAsArray
			Type    uint
			Content cbor.RawMessage
		}
		if _, err := cbor.Decode(rawDatum, &opt); err != nil {
			return err
		}
		switch opt.Type {
		case datumOptionHash:
			var hash DatumHash
			if err := hash.UnmarshalCBOR(opt.Content); err != nil {
				return err
			}
			o.DatumHash = &hash
		case datumOptionInline:
			var wrapped cbor.WrappedCbor
			if _, err := cbor.Decode(opt.Content, &wrapped); err != nil {
				return err
			}
			datum, err := NewDatumFromCbor(wrapped.Bytes())
			if err != nil {
				return err
			}
			o.Datum = datum
		default:
			return fmt.Errorf("unknown datum option type %d", opt.Type)
		}
	}
	if rawRef, ok := tmp[outputKeyScriptRef]; ok {
		var ref ScriptRef
		if err := ref.UnmarshalCBOR(rawRef); err != nil {
			return err
		}
		o.ScriptRef = &ref
	}
	return nil
}

// MinCoin returns the minimum lovelace for this output given the coinsPerUTxOByte parameter
func (o TransactionOutput) MinCoin(coinsPerUtxoByte uint64) (uint64, error) {
	cborData, err := o.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	// #nosec G115
	return coinsPerUtxoByte * (160 + uint64(len(cborData))), nil
}

// Utxo is an unspent transaction output with its reference
type Utxo struct {
	Input  TransactionInput
	Output TransactionOutput
}

func (u Utxo) String() string {
	return u.Input.String()
}
