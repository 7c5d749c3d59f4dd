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
	"errors"
	"time"

	"github.com/blinklabs-io/spend-showcase/asset"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/plutus"
	"github.com/blinklabs-io/spend-showcase/script"
)

var ErrNoScriptInputs = errors.New("no script utxos to spend")

// Transfer pays lovelace to an address
func Transfer(to ledger.Address, lovelace uint64, now time.Time) *Draft {
	return NewDraft().
		PayTo(to, ledger.NewValue(lovelace)).
		ValidUntil(now.Add(ValidityWindow))
}

// Lock pays each chunk to the script address with the same inline datum
func Lock(addr ledger.Address, datum plutus.Value, chunks []uint64, now time.Time) *Draft {
	d := NewDraft()
	for _, chunk := range chunks {
		d.PayToContract(addr, datum, ledger.NewValue(chunk))
	}
	return d.ValidUntil(now.Add(ValidityWindow))
}

// UnlockParams describes spending every matching script UTxO
type UnlockParams struct {
	Utxos    []ledger.Utxo
	Redeemer plutus.Value
	Script   ledger.PlutusV3Script
	// Signer is required by validators that check the owner signature
	Signer *ledger.KeyHash
}

// Unlock collects the script UTxOs. Their value returns to the wallet as
// change.
func Unlock(p UnlockParams, now time.Time) (*Draft, error) {
	if len(p.Utxos) == 0 {
		return nil, ErrNoScriptInputs
	}
	d := NewDraft().
		CollectFrom(p.Utxos, p.Redeemer).
		Attach(p.Script)
	if p.Signer != nil {
		d.AddSigner(*p.Signer)
	}
	return d.ValidUntil(now.Add(ValidityWindow)), nil
}

// ReceiptMint unlocks the script UTxOs and mints one receipt token named
// after the consumed references. The validator is both the spending script
// and the minting policy.
func ReceiptMint(p UnlockParams, now time.Time) (*Draft, ledger.Unit, error) {
	d, err := Unlock(p, now)
	if err != nil {
		return nil, ledger.Unit{}, err
	}
	refs := make([]ledger.TransactionInput, 0, len(p.Utxos))
	for _, u := range p.Utxos {
		refs = append(refs, u.Input)
	}
	name, err := asset.DeriveName(refs)
	if err != nil {
		return nil, ledger.Unit{}, err
	}
	unit := ledger.Unit{Policy: p.Script.Hash(), Name: name.Bytes()}
	d.MintAssets(unit, 1, p.Redeemer)
	return d, unit, nil
}

// Cip68MintParams describes minting a reference/user token pair
type Cip68MintParams struct {
	Script   script.Resolved
	Pair     asset.Pair
	Quantity uint64
	Datum    plutus.Cip68Datum
	Redeemer plutus.Value
	// Nonce is consumed for one-shot policies parameterized by it
	Nonce *ledger.Utxo
}

// Cip68Mint mints the pair and locks the reference token with its metadata
// at the script address. The user tokens go to the wallet as change.
func Cip68Mint(p Cip68MintParams, now time.Time) *Draft {
	d := NewDraft()
	if p.Nonce != nil {
		d.CollectFrom([]ledger.Utxo{*p.Nonce}, nil)
	}
	// #nosec G115
	d.MintAssets(p.Pair.Reference, 1, p.Redeemer).
		MintAssets(p.Pair.User, int64(p.Quantity), p.Redeemer).
		PayToContract(
			p.Script.Address,
			p.Datum,
			ledger.NewValue(0).WithAsset(p.Pair.Reference, 1),
		).
		Attach(p.Script.Script)
	return d.ValidUntil(now.Add(ValidityWindow))
}

// Cip68UpdateParams describes rewriting the reference token metadata
type Cip68UpdateParams struct {
	Script   ledger.PlutusV3Script
	Ref      ledger.Utxo
	User     ledger.Utxo
	Datum    plutus.Cip68Datum
	Redeemer plutus.Value
}

// Cip68Update spends the reference token together with the user token and
// re-pays the reference output's value to the same address with a new datum.
// The user token returns to the wallet unchanged.
func Cip68Update(p Cip68UpdateParams, now time.Time) *Draft {
	return NewDraft().
		CollectFrom([]ledger.Utxo{p.Ref}, p.Redeemer).
		CollectFrom([]ledger.Utxo{p.User}, p.Redeemer).
		PayToContract(p.Ref.Output.Address, p.Datum, p.Ref.Output.Amount.Clone()).
		Attach(p.Script).
		ValidUntil(now.Add(ValidityWindow))
}

// Cip68BurnParams describes destroying a reference/user token pair
type Cip68BurnParams struct {
	Script   ledger.PlutusV3Script
	Pair     asset.Pair
	Ref      ledger.Utxo
	User     ledger.Utxo
	Redeemer plutus.Value
}

// Cip68Burn spends both tokens and burns one of each
func Cip68Burn(p Cip68BurnParams, now time.Time) *Draft {
	return NewDraft().
		CollectFrom([]ledger.Utxo{p.Ref}, p.Redeemer).
		CollectFrom([]ledger.Utxo{p.User}, p.Redeemer).
		MintAssets(p.Pair.Reference, -1, p.Redeemer).
		MintAssets(p.Pair.User, -1, p.Redeemer).
		Attach(p.Script).
		ValidUntil(now.Add(ValidityWindow))
}
