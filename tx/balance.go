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
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

const (
	maxBalanceIterations = 10
	// MinCollateral is the smallest collateral input accepted
	MinCollateral = 5_000_000
	vkeySize      = 32
	signatureSize = 64
)

var (
	ErrNoCollateral = errors.New("no suitable collateral utxo")
	ErrTxTooLarge   = errors.New("transaction exceeds maximum size")
	ErrFeeUnstable  = errors.New("fee did not converge")
)

// InsufficientFundsError is returned when the wallet cannot cover the
// outputs, fee or an asset
type InsufficientFundsError struct {
	Need uint64
	Have uint64
	Unit *ledger.Unit
}

func (e InsufficientFundsError) Error() string {
	if e.Unit != nil {
		return fmt.Sprintf(
			"insufficient funds: missing %d of asset %s",
			e.Need-e.Have,
			e.Unit.String(),
		)
	}
	return fmt.Sprintf(
		"insufficient funds: need %d lovelace, have %d",
		e.Need,
		e.Have,
	)
}

// Balancer finalizes drafts against the wallet UTxOs using locally computed
// fees
type Balancer struct {
	network       ledger.Network
	params        ParamsProvider
	wallet        utxo.Provider
	changeAddress ledger.Address
	evaluator     Evaluator
	logger        *slog.Logger
}

type BalancerOptionFunc func(*Balancer)

// WithBalancerNetwork sets the network used for validity interval slots
func WithBalancerNetwork(network ledger.Network) BalancerOptionFunc {
	return func(b *Balancer) {
		b.network = network
	}
}

// WithParamsProvider sets the protocol parameter source
func WithParamsProvider(params ParamsProvider) BalancerOptionFunc {
	return func(b *Balancer) {
		b.params = params
	}
}

// WithWallet sets the provider for wallet UTxOs and the change address
func WithWallet(provider utxo.Provider, changeAddress ledger.Address) BalancerOptionFunc {
	return func(b *Balancer) {
		b.wallet = provider
		b.changeAddress = changeAddress
	}
}

// WithEvaluator enables script execution unit measurement
func WithEvaluator(evaluator Evaluator) BalancerOptionFunc {
	return func(b *Balancer) {
		b.evaluator = evaluator
	}
}

func WithBalancerLogger(logger *slog.Logger) BalancerOptionFunc {
	return func(b *Balancer) {
		b.logger = logger
	}
}

func NewBalancer(opts ...BalancerOptionFunc) (*Balancer, error) {
	b := &Balancer{}
	for _, opt := range opts {
		opt(b)
	}
	if b.params == nil {
		return nil, errors.New("no protocol parameter provider configured")
	}
	if b.wallet == nil {
		return nil, errors.New("no wallet provider configured")
	}
	if b.network.Name == "" {
		return nil, errors.New("no network configured")
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("component", "balancer")
	return b, nil
}

// balanceState is one balancing attempt
type balanceState struct {
	draft      *Draft
	params     *ProtocolParameters
	inputs     []Input
	base       []ledger.TransactionOutput
	outputs    []ledger.TransactionOutput
	collateral []ledger.TransactionInput
	ttl        *uint64
	fee        uint64
	units      map[RedeemerKey]ExUnits
}

// Finalize balances the draft, adding wallet inputs, change, collateral and
// redeemers
func (b *Balancer) Finalize(ctx context.Context, d *Draft) (*Signable, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	pp, err := b.params.ProtocolParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch protocol parameters: %w", err)
	}
	walletUtxos, err := b.wallet.UtxosAt(ctx, b.changeAddress)
	if err != nil {
		return nil, fmt.Errorf("fetch wallet utxos: %w", err)
	}
	walletUtxos = utxo.Filter(walletUtxos, utxo.NoScriptRef())
	state := &balanceState{
		draft:  d,
		params: pp,
	}
	if !d.ValidTo.IsZero() {
		slot, err := b.network.TimeToSlot(d.ValidTo)
		if err != nil {
			return nil, err
		}
		state.ttl = &slot
	}
	state.base, err = withMinCoin(d.Outputs, pp.CoinsPerUtxoByte)
	if err != nil {
		return nil, err
	}
	ret, err := b.converge(state, walletUtxos)
	if err != nil {
		return nil, err
	}
	if b.evaluator != nil && len(ret.witnesses.Redeemers) > 0 {
		txCbor, err := ret.Cbor()
		if err != nil {
			return nil, err
		}
		units, err := b.evaluator.Evaluate(ctx, txCbor)
		if err != nil {
			return nil, fmt.Errorf("evaluate scripts: %w", err)
		}
		state.units = units
		state.fee = 0
		ret, err = b.converge(state, walletUtxos)
		if err != nil {
			return nil, err
		}
	}
	b.logger.Debug(
		"balanced transaction",
		"tx_id", ret.Id().String(),
		"fee", ret.fee,
		"inputs", len(state.inputs),
		"outputs", len(state.outputs),
	)
	return ret, nil
}

// converge repeats selection and fee estimation until the fee stops growing
func (b *Balancer) converge(state *balanceState, walletUtxos []ledger.Utxo) (*Signable, error) {
	for range maxBalanceIterations {
		if err := b.selectInputs(state, walletUtxos); err != nil {
			return nil, err
		}
		if state.draft.HasScripts() {
			collateral, err := selectCollateral(walletUtxos, state.fee, state.params)
			if err != nil {
				return nil, err
			}
			state.collateral = []ledger.TransactionInput{collateral.Input}
		}
		ret, err := b.assemble(state)
		if err != nil {
			return nil, err
		}
		size, err := estimateSize(ret, b.signerCount(state))
		if err != nil {
			return nil, err
		}
		if state.params.MaxTxSize > 0 && uint64(size) > state.params.MaxTxSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrTxTooLarge, size)
		}
		fee := state.params.minFee(size) +
			state.params.scriptFee(totalUnits(ret.witnesses.Redeemers)) +
			state.params.refScriptFee(refScriptSize(state.inputs))
		if fee <= state.fee {
			return ret, nil
		}
		state.fee = fee
	}
	return nil, ErrFeeUnstable
}

func (b *Balancer) signerCount(state *balanceState) int {
	signers := map[ledger.KeyHash]struct{}{}
	for _, s := range state.draft.Signers {
		signers[s] = struct{}{}
	}
	if hash, err := b.changeAddress.PaymentKeyHash(); err == nil {
		signers[hash] = struct{}{}
	}
	return max(len(signers), 1)
}

// selectInputs adds wallet inputs until the outputs, fee and asset
// requirements are covered and sets the change output
func (b *Balancer) selectInputs(state *balanceState, walletUtxos []ledger.Utxo) error {
	d := state.draft
	state.inputs = slices.Clone(d.Inputs)
	// Change is rebuilt from the draft outputs on every pass
	outputs := slices.Clone(state.base)
	available := make([]ledger.Utxo, 0, len(walletUtxos))
	for _, u := range walletUtxos {
		if !d.hasInput(u.Input) {
			available = append(available, u)
		}
	}
	slices.SortStableFunc(available, func(a, b ledger.Utxo) int {
		return cmp.Compare(b.Output.Amount.Coin, a.Output.Amount.Coin)
	})
	take := func(pred func(ledger.Utxo) bool) bool {
		for idx, u := range available {
			if pred == nil || pred(u) {
				state.inputs = append(state.inputs, Input{Utxo: u})
				available = slices.Delete(available, idx, idx+1)
				return true
			}
		}
		return false
	}
	var needCoin uint64
	for _, out := range outputs {
		needCoin += out.Amount.Coin
	}
	needCoin += state.fee
	for {
		var haveCoin uint64
		assets := ledger.NewMultiAsset[int64]()
		for _, in := range state.inputs {
			haveCoin += in.Utxo.Output.Amount.Coin
			addAssets(assets, in.Utxo.Output.Amount.Assets, 1)
		}
		assets.Add(d.Mint)
		for _, out := range outputs {
			addAssets(assets, out.Amount.Assets, -1)
		}
		if deficit, qty, ok := firstDeficit(assets); ok {
			if !take(utxo.HoldsUnit(deficit)) {
				return InsufficientFundsError{Need: uint64(-qty), Unit: &deficit}
			}
			continue
		}
		if haveCoin < needCoin {
			if !take(nil) {
				return InsufficientFundsError{Need: needCoin, Have: haveCoin}
			}
			continue
		}
		change := ledger.TransactionOutput{
			Address: b.changeAddress,
			Amount:  ledger.NewValue(haveCoin - needCoin),
		}
		if !assets.IsEmpty() {
			change.Amount.Assets = ledger.NewMultiAsset[uint64]()
			for _, unit := range assets.Units() {
				// #nosec G115
				change.Amount.Assets.Set(unit.Policy, unit.Name, uint64(assets.Asset(unit.Policy, unit.Name)))
			}
		}
		if change.Amount.Coin == 0 && !change.Amount.HasAssets() {
			state.outputs = outputs
			return nil
		}
		minChange, err := change.MinCoin(state.params.CoinsPerUtxoByte)
		if err != nil {
			return err
		}
		if change.Amount.Coin >= minChange {
			state.outputs = append(outputs, change)
			return nil
		}
		if take(nil) {
			continue
		}
		if !change.Amount.HasAssets() {
			// Leftover dust below the minimum goes to the fee
			state.fee += change.Amount.Coin
			state.outputs = outputs
			return nil
		}
		return InsufficientFundsError{Need: needCoin + minChange, Have: haveCoin}
	}
}

// assemble encodes the current state into a signable transaction
func (b *Balancer) assemble(state *balanceState) (*Signable, error) {
	d := state.draft
	inputs := slices.Clone(state.inputs)
	slices.SortFunc(inputs, func(a, b Input) int {
		return a.Utxo.Input.Compare(b.Utxo.Input)
	})
	var redeemers []Redeemer
	for idx, in := range inputs {
		if !in.Utxo.Output.Address.IsScript() || in.Redeemer == nil {
			continue
		}
		redeemers = append(redeemers, Redeemer{
			Tag: RedeemerTagSpend,
			// #nosec G115
			Index: uint32(idx),
			Data:  in.Redeemer.ToPlutusData(),
		})
	}
	for idx, policy := range d.Mint.Policies() {
		redeemers = append(redeemers, Redeemer{
			Tag: RedeemerTagMint,
			// #nosec G115
			Index: uint32(idx),
			Data:  d.MintRedeemers[policy].ToPlutusData(),
		})
	}
	assignUnits(redeemers, state.units, state.params)
	txBody := body{
		Outputs:         state.outputs,
		Fee:             state.fee,
		Ttl:             state.ttl,
		Mint:            d.Mint,
		Collateral:      state.collateral,
		RequiredSigners: d.Signers,
	}
	for _, in := range inputs {
		txBody.Inputs = append(txBody.Inputs, in.Utxo.Input)
	}
	if len(redeemers) > 0 {
		hash, err := scriptDataHash(redeemers, state.params.CostModelV3)
		if err != nil {
			return nil, err
		}
		txBody.ScriptDataHash = &hash
	}
	bodyCbor, err := txBody.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode transaction body: %w", err)
	}
	return &Signable{
		body: bodyCbor,
		witnesses: WitnessSet{
			Redeemers:       redeemers,
			PlutusV3Scripts: d.Scripts,
		},
		fee:     state.fee,
		signers: d.Signers,
	}, nil
}

// assignUnits uses measured units where known and otherwise splits the
// transaction budget evenly
func assignUnits(redeemers []Redeemer, measured map[RedeemerKey]ExUnits, pp *ProtocolParameters) {
	if len(redeemers) == 0 {
		return
	}
	count := uint64(len(redeemers))
	fallback := ExUnits{
		Memory: pp.MaxTxExMemory / count,
		Steps:  pp.MaxTxExSteps / count,
	}
	for idx := range redeemers {
		if units, ok := measured[redeemers[idx].Key()]; ok {
			redeemers[idx].ExUnits = units
			continue
		}
		redeemers[idx].ExUnits = fallback
	}
}

func totalUnits(redeemers []Redeemer) ExUnits {
	var ret ExUnits
	for _, r := range redeemers {
		ret = ret.add(r.ExUnits)
	}
	return ret
}

func refScriptSize(inputs []Input) int {
	var ret int
	for _, in := range inputs {
		if in.Utxo.Output.ScriptRef != nil {
			ret += len(in.Utxo.Output.ScriptRef.Script)
		}
	}
	return ret
}

// estimateSize returns the encoded size with placeholder key witnesses
func estimateSize(s *Signable, signers int) (int, error) {
	witnesses := s.witnesses
	witnesses.VkeyWitnesses = make([]VkeyWitness, signers)
	for idx := range witnesses.VkeyWitnesses {
		witnesses.VkeyWitnesses[idx] = VkeyWitness{
			Vkey:      make([]byte, vkeySize),
			Signature: make([]byte, signatureSize),
		}
	}
	txCbor, err := encodeTx(s.body, witnesses)
	if err != nil {
		return 0, err
	}
	return len(txCbor), nil
}

// selectCollateral picks the smallest ada-only wallet UTxO covering the
// required collateral
func selectCollateral(walletUtxos []ledger.Utxo, fee uint64, pp *ProtocolParameters) (ledger.Utxo, error) {
	required := max((fee*pp.CollateralPercentage+99)/100, MinCollateral)
	candidates := utxo.Filter(walletUtxos, utxo.AdaOnly())
	slices.SortStableFunc(candidates, func(a, b ledger.Utxo) int {
		return cmp.Compare(a.Output.Amount.Coin, b.Output.Amount.Coin)
	})
	for _, u := range candidates {
		if u.Output.Amount.Coin >= required {
			return u, nil
		}
	}
	return ledger.Utxo{}, fmt.Errorf("%w: need an ada-only utxo of at least %d lovelace", ErrNoCollateral, required)
}

// withMinCoin raises each output to its minimum lovelace
func withMinCoin(outputs []ledger.TransactionOutput, coinsPerUtxoByte uint64) ([]ledger.TransactionOutput, error) {
	ret := make([]ledger.TransactionOutput, 0, len(outputs))
	for _, out := range outputs {
		out.Amount = out.Amount.Clone()
		// The coin encoding may grow, so check again after raising
		for range 3 {
			minCoin, err := out.MinCoin(coinsPerUtxoByte)
			if err != nil {
				return nil, err
			}
			if out.Amount.Coin >= minCoin {
				break
			}
			out.Amount.Coin = minCoin
		}
		ret = append(ret, out)
	}
	return ret, nil
}

func addAssets(dst *ledger.MultiAsset[int64], src *ledger.MultiAsset[uint64], sign int64) {
	if src == nil {
		return
	}
	for _, unit := range src.Units() {
		// #nosec G115
		dst.AddAsset(unit.Policy, unit.Name, sign*int64(src.Asset(unit.Policy, unit.Name)))
	}
}

func firstDeficit(assets *ledger.MultiAsset[int64]) (ledger.Unit, int64, bool) {
	for _, unit := range assets.Units() {
		if qty := assets.Asset(unit.Policy, unit.Name); qty < 0 {
			return unit, qty, true
		}
	}
	return ledger.Unit{}, 0, false
}
