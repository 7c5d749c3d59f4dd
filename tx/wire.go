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

package tx

import (
	"github.com/blinklabs-io/plutigo/data"

	"github.com/blinklabs-io/spend-showcase/cbor"
	"github.com/blinklabs-io/spend-showcase/ledger"
)

// Transaction body map keys
const (
	bodyKeyInputs          = 0
	bodyKeyOutputs         = 1
	bodyKeyFee             = 2
	bodyKeyTtl             = 3
	bodyKeyMint            = 9
	bodyKeyScriptDataHash  = 11
	bodyKeyCollateral      = 13
	bodyKeyRequiredSigners = 14
)

// Witness set map keys
const (
	witnessKeyVkey            = 0
	witnessKeyRedeemers       = 5
	witnessKeyPlutusV3Scripts = 7
)

// Language view key for Plutus V3 in the script data hash
const languageViewPlutusV3 = 2

type RedeemerTag uint8

const (
	RedeemerTagSpend RedeemerTag = 0
	RedeemerTagMint  RedeemerTag = 1
)

func (t RedeemerTag) String() string {
	switch t {
	case RedeemerTagSpend:
		return "spend"
	case RedeemerTagMint:
		return "mint"
	}
	return "unknown"
}

// RedeemerKey identifies a redeemer by purpose and sorted index
type RedeemerKey struct {
	Tag   RedeemerTag
	Index uint32
}

type ExUnits struct {
	cbor.StructAsArray
	Memory uint64
	Steps  uint64
}

func (e ExUnits) add(other ExUnits) ExUnits {
	return ExUnits{Memory: e.Memory + other.Memory, Steps: e.Steps + other.Steps}
}

// Redeemer is a legacy array-form redeemer entry
type Redeemer struct {
	Tag     RedeemerTag
	Index   uint32
	Data    data.PlutusData
	ExUnits ExUnits
}

func (r Redeemer) Key() RedeemerKey {
	return RedeemerKey{Tag: r.Tag, Index: r.Index}
}

func (r Redeemer) MarshalCBOR() ([]byte, error) {
	dataCbor, err := data.Encode(r.Data)
	if err != nil {
		return nil, err
	}
	return cbor.Encode([]any{
		r.Tag,
		r.Index,
		cbor.RawMessage(dataCbor),
		r.ExUnits,
	})
}

type VkeyWitness struct {
	cbor.StructAsArray
	Vkey      []byte
	Signature []byte
}

// WitnessSet holds the witnesses attached to a transaction
type WitnessSet struct {
	VkeyWitnesses   []VkeyWitness
	Redeemers       []Redeemer
	PlutusV3Scripts []ledger.PlutusV3Script
}

func (w WitnessSet) MarshalCBOR() ([]byte, error) {
	tmp := map[uint]any{}
	if len(w.VkeyWitnesses) > 0 {
		tmp[witnessKeyVkey] = w.VkeyWitnesses
	}
	if len(w.Redeemers) > 0 {
		tmp[witnessKeyRedeemers] = w.Redeemers
	}
	if len(w.PlutusV3Scripts) > 0 {
		scripts := make([][]byte, 0, len(w.PlutusV3Scripts))
		for _, s := range w.PlutusV3Scripts {
			scripts = append(scripts, []byte(s))
		}
		tmp[witnessKeyPlutusV3Scripts] = scripts
	}
	return cbor.Encode(tmp)
}

// body is the wire form of a transaction body
type body struct {
	Inputs          []ledger.TransactionInput
	Outputs         []ledger.TransactionOutput
	Fee             uint64
	Ttl             *uint64
	Mint            *ledger.MultiAsset[int64]
	ScriptDataHash  *ledger.Blake2b256
	Collateral      []ledger.TransactionInput
	RequiredSigners []ledger.KeyHash
}

func (b body) MarshalCBOR() ([]byte, error) {
	tmp := map[uint]any{
		bodyKeyInputs:  b.Inputs,
		bodyKeyOutputs: b.Outputs,
		bodyKeyFee:     b.Fee,
	}
	if b.Ttl != nil {
		tmp[bodyKeyTtl] = *b.Ttl
	}
	if b.Mint != nil && !b.Mint.IsEmpty() {
		tmp[bodyKeyMint] = b.Mint
	}
	if b.ScriptDataHash != nil {
		tmp[bodyKeyScriptDataHash] = *b.ScriptDataHash
	}
	if len(b.Collateral) > 0 {
		tmp[bodyKeyCollateral] = b.Collateral
	}
	if len(b.RequiredSigners) > 0 {
		tmp[bodyKeyRequiredSigners] = b.RequiredSigners
	}
	return cbor.Encode(tmp)
}

// scriptDataHash hashes the redeemers with the Plutus V3 language view
func scriptDataHash(redeemers []Redeemer, costModel []int64) (ledger.Blake2b256, error) {
	redeemersCbor, err := cbor.Encode(redeemers)
	if err != nil {
		return ledger.Blake2b256{}, err
	}
	if costModel == nil {
		costModel = []int64{}
	}
	languageViews, err := cbor.Encode(map[uint][]int64{languageViewPlutusV3: costModel})
	if err != nil {
		return ledger.Blake2b256{}, err
	}
	preimage := make([]byte, 0, len(redeemersCbor)+len(languageViews))
	preimage = append(preimage, redeemersCbor...)
	preimage = append(preimage, languageViews...)
	return ledger.Blake2b256Hash(preimage), nil
}

// Signable is a balanced transaction awaiting signatures
type Signable struct {
	body      []byte
	witnesses WitnessSet
	fee       uint64
	signers   []ledger.KeyHash
}

// Id returns the transaction ID
func (s *Signable) Id() ledger.Blake2b256 {
	return ledger.Blake2b256Hash(s.body)
}

// BodyCbor returns the encoded transaction body
func (s *Signable) BodyCbor() []byte {
	return s.body
}

func (s *Signable) Fee() uint64 {
	return s.fee
}

// RequiredSigners returns the key hashes named in the body
func (s *Signable) RequiredSigners() []ledger.KeyHash {
	return s.signers
}

// Redeemers returns the redeemers in the witness set
func (s *Signable) Redeemers() []Redeemer {
	return s.witnesses.Redeemers
}

// AddVkeyWitness attaches a signature over the transaction ID
func (s *Signable) AddVkeyWitness(vkey []byte, signature []byte) {
	s.witnesses.VkeyWitnesses = append(
		s.witnesses.VkeyWitnesses,
		VkeyWitness{Vkey: vkey, Signature: signature},
	)
}

// Cbor returns the full transaction encoding
func (s *Signable) Cbor() ([]byte, error) {
	return encodeTx(s.body, s.witnesses)
}

func encodeTx(bodyCbor []byte, witnesses WitnessSet) ([]byte, error) {
	return cbor.Encode([]any{
		cbor.RawMessage(bodyCbor),
		witnesses,
		true,
		nil,
	})
}
