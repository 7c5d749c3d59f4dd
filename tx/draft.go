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

// Package tx assembles, balances and encodes showcase transactions.
package tx

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/plutus"
)

// ValidityWindow is the upper validity bound applied to every transaction
const ValidityWindow = 15 * time.Minute

var (
	ErrMissingScript   = errors.New("missing script witness")
	ErrMissingRedeemer = errors.New("missing redeemer")
	ErrEmptyDraft      = errors.New("draft has no inputs, outputs or mints")
)

// Input is a UTxO to consume. Redeemer is only used when the output is
// locked by a script.
type Input struct {
	Utxo     ledger.Utxo
	Redeemer plutus.Value
}

// Draft is an unfinalized transaction
type Draft struct {
	Inputs        []Input
	Outputs       []ledger.TransactionOutput
	Mint          *ledger.MultiAsset[int64]
	MintRedeemers map[ledger.PolicyId]plutus.Value
	Scripts       []ledger.PlutusV3Script
	Signers       []ledger.KeyHash
	ValidTo       time.Time
}

func NewDraft() *Draft {
	return &Draft{
		Mint:          ledger.NewMultiAsset[int64](),
		MintRedeemers: map[ledger.PolicyId]plutus.Value{},
	}
}

// CollectFrom consumes the UTxOs, skipping any already collected
func (d *Draft) CollectFrom(utxos []ledger.Utxo, redeemer plutus.Value) *Draft {
	for _, u := range utxos {
		if d.hasInput(u.Input) {
			continue
		}
		d.Inputs = append(d.Inputs, Input{Utxo: u, Redeemer: redeemer})
	}
	return d
}

func (d *Draft) hasInput(ref ledger.TransactionInput) bool {
	return slices.ContainsFunc(d.Inputs, func(in Input) bool {
		return in.Utxo.Input == ref
	})
}

// PayTo adds a plain payment output
func (d *Draft) PayTo(addr ledger.Address, value ledger.Value) *Draft {
	d.Outputs = append(d.Outputs, ledger.TransactionOutput{
		Address: addr,
		Amount:  value,
	})
	return d
}

// PayToContract adds an output carrying an inline datum
func (d *Draft) PayToContract(
	addr ledger.Address,
	datum plutus.Value,
	value ledger.Value,
) *Draft {
	d.Outputs = append(d.Outputs, ledger.TransactionOutput{
		Address: addr,
		Amount:  value,
		Datum:   ledger.NewDatum(datum.ToPlutusData()),
	})
	return d
}

// MintAssets adds a mint (positive) or burn (negative) delta under a policy
func (d *Draft) MintAssets(
	unit ledger.Unit,
	quantity int64,
	redeemer plutus.Value,
) *Draft {
	d.Mint.AddAsset(unit.Policy, unit.Name, quantity)
	d.MintRedeemers[unit.Policy] = redeemer
	return d
}

// Attach adds a script witness, once per script hash
func (d *Draft) Attach(s ledger.PlutusV3Script) *Draft {
	hash := s.Hash()
	if !slices.ContainsFunc(d.Scripts, func(other ledger.PlutusV3Script) bool {
		return other.Hash() == hash
	}) {
		d.Scripts = append(d.Scripts, s)
	}
	return d
}

// AddSigner requires a signature from the key hash
func (d *Draft) AddSigner(keyHash ledger.KeyHash) *Draft {
	if !slices.Contains(d.Signers, keyHash) {
		d.Signers = append(d.Signers, keyHash)
	}
	return d
}

// ValidUntil sets the upper validity bound
func (d *Draft) ValidUntil(t time.Time) *Draft {
	d.ValidTo = t
	return d
}

// script returns the attached script with the given hash
func (d *Draft) script(hash ledger.ScriptHash) (ledger.PlutusV3Script, bool) {
	for _, s := range d.Scripts {
		if s.Hash() == hash {
			return s, true
		}
	}
	return nil, false
}

// Validate checks that every script input and minting policy has a script
// and a redeemer
func (d *Draft) Validate() error {
	if len(d.Inputs) == 0 && len(d.Outputs) == 0 && d.Mint.IsEmpty() {
		return ErrEmptyDraft
	}
	for _, in := range d.Inputs {
		addr := in.Utxo.Output.Address
		if !addr.IsScript() {
			continue
		}
		hash, _ := addr.PaymentScriptHash()
		if _, ok := d.script(hash); !ok {
			return fmt.Errorf("%w: input %s locked by %s", ErrMissingScript, in.Utxo.Input.String(), hash.String())
		}
		if in.Redeemer == nil {
			return fmt.Errorf("%w: input %s", ErrMissingRedeemer, in.Utxo.Input.String())
		}
	}
	for _, policy := range d.Mint.Policies() {
		if _, ok := d.script(policy); !ok {
			return fmt.Errorf("%w: policy %s", ErrMissingScript, policy.String())
		}
		if d.MintRedeemers[policy] == nil {
			return fmt.Errorf("%w: policy %s", ErrMissingRedeemer, policy.String())
		}
	}
	return nil
}

// HasScripts reports whether the draft runs any Plutus script
func (d *Draft) HasScripts() bool {
	if !d.Mint.IsEmpty() {
		return true
	}
	return slices.ContainsFunc(d.Inputs, func(in Input) bool {
		return in.Utxo.Output.Address.IsScript()
	})
}
