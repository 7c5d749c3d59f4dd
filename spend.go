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

package showcase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/partition"
	"github.com/blinklabs-io/spend-showcase/plutus"
	"github.com/blinklabs-io/spend-showcase/script"
	"github.com/blinklabs-io/spend-showcase/tx"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

// Output counts used when splitting a lock
const (
	splitCheckDatum    = 100
	splitCheckRedeemer = 75
	splitScWallet      = 50
	splitReceipts      = 25
)

// checkDatumValue is the datum the check-datum validator accepts
const checkDatumValue = 42

// lockPlan is how a contract locks funds
type lockPlan struct {
	params []script.Param
	datum  plutus.Value
	// chunks of zero means a single output
	chunks uint64
}

func (s *Showcase) transfer(ctx context.Context, i Transfer) (string, error) {
	lovelace, err := lovelaceAmount("lovelace", i.Lovelace)
	if err != nil {
		return "", err
	}
	to, err := s.parseAddress("to", i.To)
	if err != nil {
		return "", err
	}
	return s.complete(ctx, tx.Transfer(to, lovelace, s.now()))
}

func (s *Showcase) lockPlan(i Lock) (lockPlan, error) {
	owner := s.signer.PaymentKeyHash()
	switch i.Contract {
	case ContractCheckDatum:
		return lockPlan{datum: plutus.NewInt(checkDatumValue), chunks: splitCheckDatum}, nil
	case ContractCheckRedeemer:
		if i.Secret == "" {
			return lockPlan{}, fmt.Errorf("%w: secret is required", ErrValidationFailed)
		}
		return lockPlan{datum: secretCommitment(i.Secret), chunks: splitCheckRedeemer}, nil
	case ContractScWallet:
		return lockPlan{
			params: []script.Param{script.KeyHash(owner)},
			datum:  plutus.Void{},
			chunks: splitScWallet,
		}, nil
	case ContractReceipts:
		return lockPlan{
			params: []script.Param{script.KeyHash(owner)},
			datum:  plutus.Void{},
			chunks: splitReceipts,
		}, nil
	case ContractAdmin:
		beneficiary, err := s.parseKeyHash("beneficiary", i.Beneficiary)
		if err != nil {
			return lockPlan{}, err
		}
		return lockPlan{
			params: []script.Param{script.KeyHash(owner)},
			datum:  plutus.Bytes(beneficiary.Bytes()),
		}, nil
	}
	return lockPlan{}, fmt.Errorf("%w: contract %s does not support lock", ErrValidationFailed, i.Contract)
}

func (s *Showcase) lock(ctx context.Context, i Lock) (string, error) {
	lovelace, err := lovelaceAmount("lovelace", i.Lovelace)
	if err != nil {
		return "", err
	}
	plan, err := s.lockPlan(i)
	if err != nil {
		return "", err
	}
	chunks := []uint64{lovelace}
	if plan.chunks > 0 {
		chunks, err = partition.Partition(lovelace, partition.MinChunk, plan.chunks)
		if err != nil {
			return "", wrap(ErrValidationFailed, err)
		}
	}
	resolved, err := s.resolve(i.Contract, plan.params...)
	if err != nil {
		return "", err
	}
	return s.complete(ctx, tx.Lock(resolved.Address, plan.datum, chunks, s.now()))
}

func (s *Showcase) unlock(ctx context.Context, i Unlock) (string, error) {
	owner := s.signer.PaymentKeyHash()
	var (
		params   []script.Param
		preds    []utxo.Predicate
		redeemer plutus.Value = plutus.Void{}
		signer   *ledger.KeyHash
	)
	switch i.Contract {
	case ContractCheckDatum:
	case ContractCheckRedeemer:
		if i.Secret == "" {
			return "", fmt.Errorf("%w: secret is required", ErrValidationFailed)
		}
		preds = append(preds, utxo.InlineDatumBytes(secretCommitment(i.Secret)))
		redeemer = plutus.Bytes(i.Secret)
	case ContractScWallet, ContractReceipts:
		params = append(params, script.KeyHash(owner))
		signer = &owner
	case ContractAdmin:
		sender, err := s.parseKeyHash("sender", i.Sender)
		if err != nil {
			return "", err
		}
		params = append(params, script.KeyHash(sender))
		preds = append(preds, utxo.NoScriptRef(), utxo.InlineDatumBytes(owner.Bytes()))
		signer = &owner
	default:
		return "", fmt.Errorf("%w: contract %s does not support unlock", ErrValidationFailed, i.Contract)
	}
	resolved, err := s.resolve(i.Contract, params...)
	if err != nil {
		return "", err
	}
	utxos, err := s.selector.At(ctx, resolved.Address, preds...)
	if err != nil {
		return "", buildError(err)
	}
	p := tx.UnlockParams{
		Utxos:    utxos,
		Redeemer: redeemer,
		Script:   resolved.Script,
		Signer:   signer,
	}
	var d *tx.Draft
	if i.Contract == ContractReceipts {
		d, _, err = tx.ReceiptMint(p, s.now())
	} else {
		d, err = tx.Unlock(p, s.now())
	}
	if err != nil {
		return "", buildError(err)
	}
	return s.complete(ctx, d)
}

// secretCommitment is the datum locked for a secret: the hex of its
// SHA-256, as text bytes
func secretCommitment(secret string) plutus.Bytes {
	sum := sha256.Sum256([]byte(secret))
	return plutus.Bytes(hex.EncodeToString(sum[:]))
}

func lovelaceAmount(field string, v *big.Int) (uint64, error) {
	if v == nil || v.Sign() <= 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s must be a positive lovelace amount", ErrValidationFailed, field)
	}
	return v.Uint64(), nil
}

func (s *Showcase) parseAddress(field string, addr string) (ledger.Address, error) {
	ret, err := ledger.NewAddress(addr)
	if err != nil {
		return ledger.Address{}, fmt.Errorf("%w: %s: %w", ErrValidationFailed, field, err)
	}
	if ret.NetworkId() != s.network.Id {
		return ledger.Address{}, fmt.Errorf("%w: %s is not a %s address", ErrValidationFailed, field, s.network.Name)
	}
	return ret, nil
}

// parseKeyHash returns the payment key hash of an address
func (s *Showcase) parseKeyHash(field string, addr string) (ledger.KeyHash, error) {
	parsed, err := s.parseAddress(field, addr)
	if err != nil {
		return ledger.KeyHash{}, err
	}
	hash, err := parsed.PaymentKeyHash()
	if err != nil {
		return ledger.KeyHash{}, fmt.Errorf("%w: %s: %w", ErrValidationFailed, field, err)
	}
	return hash, nil
}
