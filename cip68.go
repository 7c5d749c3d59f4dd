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
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/spend-showcase/asset"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/plutus"
	"github.com/blinklabs-io/spend-showcase/script"
	"github.com/blinklabs-io/spend-showcase/session"
	"github.com/blinklabs-io/spend-showcase/tx"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

// cip68Family is a linked reference/user pair with the script governing it
type cip68Family struct {
	pair   asset.Pair
	script ledger.PlutusV3Script
	ref    ledger.Utxo
	user   ledger.Utxo
}

func (s *Showcase) mint(ctx context.Context, i Mint, logger *slog.Logger) (string, error) {
	if err := plutus.ValidateMetadata(i.Name, i.Image); err != nil {
		return "", wrap(ErrValidationFailed, err)
	}
	label := i.Label
	var quantity uint64 = 1
	switch i.Contract {
	case ContractCip68:
		switch label {
		case asset.LabelNFT:
		case asset.LabelFT, asset.LabelRFT:
			if i.Quantity == nil || i.Quantity.Sign() <= 0 || !i.Quantity.IsInt64() {
				return "", fmt.Errorf("%w: quantity must be a positive integer", ErrValidationFailed)
			}
			quantity = i.Quantity.Uint64()
		default:
			return "", fmt.Errorf("%w: unsupported token label %d", ErrValidationFailed, label)
		}
	case ContractCip68Oneshot:
		label = asset.LabelNFT
	default:
		return "", fmt.Errorf("%w: contract %s does not support mint", ErrValidationFailed, i.Contract)
	}
	params := tx.Cip68MintParams{
		Quantity: quantity,
		Datum:    plutus.NewCip68Datum(i.Name, i.Image),
		Redeemer: plutus.Void{},
	}
	var err error
	if i.Contract == ContractCip68Oneshot {
		walletUtxos, err := s.selector.At(ctx, s.WalletAddress())
		if err != nil {
			return "", buildError(err)
		}
		if len(walletUtxos) == 0 {
			return "", fmt.Errorf("%w: wallet has no utxos to use as a nonce", ErrPreconditionFailed)
		}
		nonce := walletUtxos[0]
		params.Nonce = &nonce
		params.Redeemer = plutus.ActionMint
		if params.Script, err = s.resolve(i.Contract, script.OutRef(nonce.Input)); err != nil {
			return "", err
		}
	} else if params.Script, err = s.resolve(i.Contract); err != nil {
		return "", err
	}
	if params.Pair, err = asset.NewPair(params.Script.PolicyId(), label, []byte(i.Name)); err != nil {
		return "", wrap(ErrValidationFailed, err)
	}
	if i.Contract == ContractCip68Oneshot {
		existing, err := s.selector.At(ctx, params.Script.Address, utxo.HoldsUnit(params.Pair.Reference))
		if err != nil {
			return "", buildError(err)
		}
		if len(existing) > 0 {
			return "", fmt.Errorf(
				"%w: reference token %s already exists",
				ErrPreconditionFailed,
				params.Pair.Reference.String(),
			)
		}
	}
	txId, err := s.complete(ctx, tx.Cip68Mint(params, s.now()))
	if err != nil {
		return "", err
	}
	link := session.Link{Policy: params.Pair.User.Policy, AssetName: params.Pair.User.Name}
	if err := s.scope.SaveLink(link); err != nil {
		logger.Error("failed to remember minted asset", "unit", link.Unit().String(), "error", err)
	}
	return txId, nil
}

// family loads the session link and finds the tokens and governing script
func (s *Showcase) family(ctx context.Context, contract Contract) (cip68Family, error) {
	if !contract.isCip68() {
		return cip68Family{}, fmt.Errorf("%w: contract %s has no cip68 tokens", ErrValidationFailed, contract)
	}
	link, err := s.scope.LoadLink()
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return cip68Family{}, fmt.Errorf("%w: no mint recorded in this session", ErrPreconditionFailed)
		}
		return cip68Family{}, wrap(ErrPreconditionFailed, err)
	}
	pair, _, err := asset.PairFromUser(link.Unit())
	if err != nil {
		return cip68Family{}, wrap(ErrPreconditionFailed, err)
	}
	ret := cip68Family{pair: pair}
	missing := func(err error) error {
		if errors.Is(err, utxo.ErrNotFound) {
			return wrap(ErrPreconditionFailed, err)
		}
		return buildError(err)
	}
	if contract == ContractCip68 {
		resolved, err := s.resolve(contract)
		if err != nil {
			return cip68Family{}, err
		}
		if resolved.PolicyId() != link.Policy {
			return cip68Family{}, fmt.Errorf("%w: session asset belongs to policy %s", ErrPreconditionFailed, link.Policy.String())
		}
		ret.script = resolved.Script
		refs, err := s.selector.At(ctx, resolved.Address, utxo.HoldsUnit(pair.Reference))
		if err != nil {
			return cip68Family{}, buildError(err)
		}
		users, err := s.selector.At(ctx, s.WalletAddress(), utxo.HoldsUnit(pair.User))
		if err != nil {
			return cip68Family{}, buildError(err)
		}
		if len(refs) == 0 || len(users) == 0 {
			return cip68Family{}, fmt.Errorf("%w: tokens for %s not found", ErrPreconditionFailed, pair.User.String())
		}
		ret.ref, ret.user = refs[0], users[0]
		return ret, nil
	}
	if s.scripts == nil {
		return cip68Family{}, fmt.Errorf("%w: no script lookup configured", ErrPreconditionFailed)
	}
	if ret.script, err = s.scripts.ScriptBytes(ctx, link.Policy); err != nil {
		return cip68Family{}, missing(err)
	}
	if ret.ref, err = s.selector.ByUnit(ctx, pair.Reference); err != nil {
		return cip68Family{}, missing(err)
	}
	if ret.user, err = s.selector.ByUnit(ctx, pair.User); err != nil {
		return cip68Family{}, missing(err)
	}
	return ret, nil
}

func redeemerFor(contract Contract, action plutus.Action) plutus.Value {
	if contract == ContractCip68Oneshot {
		return action
	}
	return plutus.Void{}
}

func (s *Showcase) update(ctx context.Context, i Update, logger *slog.Logger) (string, error) {
	if err := plutus.ValidateMetadata(i.Name, i.Image); err != nil {
		return "", wrap(ErrValidationFailed, err)
	}
	f, err := s.family(ctx, i.Contract)
	if err != nil {
		return "", err
	}
	if f.ref.Output.Datum == nil {
		return "", fmt.Errorf("%w: reference token has no inline datum", ErrEncodingMismatch)
	}
	current, err := plutus.FromPlutusData(f.ref.Output.Datum.Data, plutus.ShapeCip68)
	if err != nil {
		return "", err
	}
	if name, ok := current.(plutus.Cip68Datum).Field(plutus.MetadataKeyName); ok {
		logger.Debug("updating metadata", "unit", f.pair.Reference.String(), "previous_name", name)
	}
	d := tx.Cip68Update(tx.Cip68UpdateParams{
		Script:   f.script,
		Ref:      f.ref,
		User:     f.user,
		Datum:    plutus.NewCip68Datum(i.Name, i.Image),
		Redeemer: redeemerFor(i.Contract, plutus.ActionUpdate),
	}, s.now())
	txId, err := s.complete(ctx, d)
	if err != nil {
		return "", err
	}
	s.forgetLink(logger)
	return txId, nil
}

func (s *Showcase) burn(ctx context.Context, i Burn, logger *slog.Logger) (string, error) {
	f, err := s.family(ctx, i.Contract)
	if err != nil {
		return "", err
	}
	d := tx.Cip68Burn(tx.Cip68BurnParams{
		Script:   f.script,
		Pair:     f.pair,
		Ref:      f.ref,
		User:     f.user,
		Redeemer: redeemerFor(i.Contract, plutus.ActionBurn),
	}, s.now())
	txId, err := s.complete(ctx, d)
	if err != nil {
		return "", err
	}
	s.forgetLink(logger)
	return txId, nil
}

func (s *Showcase) forgetLink(logger *slog.Logger) {
	if err := s.scope.ClearLink(); err != nil {
		logger.Error("failed to forget minted asset", "error", err)
	}
}
