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

package koios

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

type koiosAsset struct {
	PolicyId  string `json:"policy_id"`
	AssetName string `json:"asset_name"`
	Quantity  string `json:"quantity"`
}

type koiosUtxo struct {
	TxHash      string `json:"tx_hash"`
	TxIndex     uint32 `json:"tx_index"`
	Address     string `json:"address"`
	Value       string `json:"value"`
	DatumHash   string `json:"datum_hash"`
	InlineDatum *struct {
		Bytes string `json:"bytes"`
	} `json:"inline_datum"`
	ReferenceScript *struct {
		Hash  string `json:"hash"`
		Type  string `json:"type"`
		Bytes string `json:"bytes"`
	} `json:"reference_script"`
	AssetList []koiosAsset `json:"asset_list"`
}

func (k koiosUtxo) toUtxo() (ledger.Utxo, error) {
	input, err := ledger.NewTransactionInput(k.TxHash, k.TxIndex)
	if err != nil {
		return ledger.Utxo{}, err
	}
	addr, err := ledger.NewAddress(k.Address)
	if err != nil {
		return ledger.Utxo{}, err
	}
	coin, err := strconv.ParseUint(k.Value, 10, 64)
	if err != nil {
		return ledger.Utxo{}, fmt.Errorf("utxo %s: invalid value %q: %w", input.String(), k.Value, err)
	}
	output := ledger.TransactionOutput{
		Address: addr,
		Amount:  ledger.NewValue(coin),
	}
	for _, a := range k.AssetList {
		unit, err := ledger.ParseUnit(a.PolicyId + a.AssetName)
		if err != nil {
			return ledger.Utxo{}, err
		}
		qty, err := strconv.ParseUint(a.Quantity, 10, 64)
		if err != nil {
			return ledger.Utxo{}, fmt.Errorf("utxo %s: invalid quantity %q: %w", input.String(), a.Quantity, err)
		}
		output.Amount = output.Amount.WithAsset(unit, qty)
	}
	if k.InlineDatum != nil && k.InlineDatum.Bytes != "" {
		datumCbor, err := hex.DecodeString(k.InlineDatum.Bytes)
		if err != nil {
			return ledger.Utxo{}, fmt.Errorf("utxo %s: inline datum: %w", input.String(), err)
		}
		datum, err := ledger.NewDatumFromCbor(datumCbor)
		if err != nil {
			return ledger.Utxo{}, fmt.Errorf("utxo %s: inline datum: %w", input.String(), err)
		}
		output.Datum = datum
	} else if k.DatumHash != "" {
		hash, err := ledger.NewBlake2b256FromHex(k.DatumHash)
		if err != nil {
			return ledger.Utxo{}, err
		}
		output.DatumHash = &hash
	}
	if k.ReferenceScript != nil && k.ReferenceScript.Bytes != "" {
		// Every reference script is held as V3. Its presence is what
		// NoScriptRef filters on.
		s, err := ledger.NewPlutusV3ScriptFromHex(k.ReferenceScript.Bytes)
		if err != nil {
			return ledger.Utxo{}, fmt.Errorf("utxo %s: reference script: %w", input.String(), err)
		}
		output.ScriptRef = &ledger.ScriptRef{Script: s}
	}
	return ledger.Utxo{Input: input, Output: output}, nil
}

func convertUtxos(items []koiosUtxo) ([]ledger.Utxo, error) {
	ret := make([]ledger.Utxo, 0, len(items))
	for _, item := range items {
		u, err := item.toUtxo()
		if err != nil {
			return nil, err
		}
		ret = append(ret, u)
	}
	return ret, nil
}

// UtxosAt returns the unspent outputs at an address
func (c *Client) UtxosAt(ctx context.Context, addr ledger.Address) ([]ledger.Utxo, error) {
	req := map[string]any{
		"_addresses": []string{addr.String()},
		"_extended":  true,
	}
	var resp []koiosUtxo
	if err := c.postJson(ctx, "/address_utxos", req, &resp); err != nil {
		return nil, err
	}
	return convertUtxos(resp)
}

// UtxoByUnit returns the single unspent output holding the unit
func (c *Client) UtxoByUnit(ctx context.Context, unit ledger.Unit) (ledger.Utxo, error) {
	req := map[string]any{
		"_asset_list": [][]string{{unit.Policy.String(), unit.NameHex()}},
		"_extended":   true,
	}
	var resp []koiosUtxo
	if err := c.postJson(ctx, "/asset_utxos", req, &resp); err != nil {
		return ledger.Utxo{}, err
	}
	switch len(resp) {
	case 0:
		return ledger.Utxo{}, utxo.ErrNotFound
	case 1:
		u, err := resp[0].toUtxo()
		if err != nil {
			return ledger.Utxo{}, err
		}
		return u, nil
	}
	return ledger.Utxo{}, fmt.Errorf("unit %s is held by %d utxos", unit.String(), len(resp))
}
