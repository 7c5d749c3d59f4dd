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

package tx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/spend-showcase/asset"
	"github.com/blinklabs-io/spend-showcase/cbor"
	test_ledger "github.com/blinklabs-io/spend-showcase/internal/test/ledger"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/plutus"
	"github.com/blinklabs-io/spend-showcase/script"
	"github.com/blinklabs-io/spend-showcase/tx"
)

// Always-succeeds Plutus V3 program, single-wrapped
const alwaysSucceedsHex = "450101002499"

var testNow = time.Unix(1_700_000_000, 0)

type decodedBody struct {
	Inputs          []ledger.TransactionInput
	Outputs         []ledger.TransactionOutput
	Fee             uint64
	Ttl             *uint64
	Collateral      []ledger.TransactionInput
	RequiredSigners []ledger.KeyHash
	Mint            *ledger.MultiAsset[int64]
	HasDataHash     bool
}

func decodeBody(t *testing.T, s *tx.Signable) decodedBody {
	t.Helper()
	var raw map[uint]cbor.RawMessage
	_, err := cbor.Decode(s.BodyCbor(), &raw)
	require.NoError(t, err)
	var ret decodedBody
	_, err = cbor.Decode(raw[0], &ret.Inputs)
	require.NoError(t, err)
	_, err = cbor.Decode(raw[1], &ret.Outputs)
	require.NoError(t, err)
	_, err = cbor.Decode(raw[2], &ret.Fee)
	require.NoError(t, err)
	if v, ok := raw[3]; ok {
		var ttl uint64
		_, err = cbor.Decode(v, &ttl)
		require.NoError(t, err)
		ret.Ttl = &ttl
	}
	if v, ok := raw[9]; ok {
		ret.Mint = ledger.NewMultiAsset[int64]()
		_, err = cbor.Decode(v, ret.Mint)
		require.NoError(t, err)
	}
	_, ret.HasDataHash = raw[11]
	if v, ok := raw[13]; ok {
		_, err = cbor.Decode(v, &ret.Collateral)
		require.NoError(t, err)
	}
	if v, ok := raw[14]; ok {
		_, err = cbor.Decode(v, &ret.RequiredSigners)
		require.NoError(t, err)
	}
	return ret
}

type fixture struct {
	chain  *test_ledger.MockChain
	wallet ledger.Address
	owner  ledger.KeyHash
	script ledger.PlutusV3Script
	addr   ledger.Address
	known  map[ledger.TransactionInput]ledger.Utxo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := ledger.NewPlutusV3ScriptFromHex(alwaysSucceedsHex)
	require.NoError(t, err)
	wallet, owner := test_ledger.KeyAddress(0x01)
	return &fixture{
		chain:  test_ledger.NewMockChain(),
		wallet: wallet,
		owner:  owner,
		script: s,
		addr:   ledger.NewEnterpriseScriptAddress(ledger.AddressNetworkTestnet, s.Hash()),
		known:  map[ledger.TransactionInput]ledger.Utxo{},
	}
}

func (f *fixture) add(u ledger.Utxo) ledger.Utxo {
	f.chain.AddUtxo(u)
	f.known[u.Input] = u
	return u
}

func (f *fixture) balancer(t *testing.T, opts ...tx.BalancerOptionFunc) *tx.Balancer {
	t.Helper()
	opts = append(
		[]tx.BalancerOptionFunc{
			tx.WithBalancerNetwork(ledger.NetworkPreview),
			tx.WithParamsProvider(f.chain),
			tx.WithWallet(f.chain, f.wallet),
		},
		opts...,
	)
	b, err := tx.NewBalancer(opts...)
	require.NoError(t, err)
	return b
}

// assertBalanced checks inputs + mint == outputs + fee for lovelace and assets
func (f *fixture) assertBalanced(t *testing.T, body decodedBody) {
	t.Helper()
	var in, out uint64
	assets := ledger.NewMultiAsset[int64]()
	for _, ref := range body.Inputs {
		u, ok := f.known[ref]
		require.True(t, ok, "unknown input %s", ref.String())
		in += u.Output.Amount.Coin
		if u.Output.Amount.Assets != nil {
			for _, unit := range u.Output.Amount.Assets.Units() {
				assets.AddAsset(unit.Policy, unit.Name, int64(u.Output.Amount.Assets.Asset(unit.Policy, unit.Name)))
			}
		}
	}
	assets.Add(body.Mint)
	pp := test_ledger.DefaultProtocolParameters()
	for _, o := range body.Outputs {
		out += o.Amount.Coin
		minCoin, err := o.MinCoin(pp.CoinsPerUtxoByte)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, o.Amount.Coin, minCoin)
		if o.Amount.Assets != nil {
			for _, unit := range o.Amount.Assets.Units() {
				assets.AddAsset(unit.Policy, unit.Name, -int64(o.Amount.Assets.Asset(unit.Policy, unit.Name)))
			}
		}
	}
	assert.Equal(t, in, out+body.Fee)
	assert.True(t, assets.IsEmpty(), "unbalanced assets: %s", assets.String())
}

func TestDraftBuilderDedupes(t *testing.T) {
	f := newFixture(t)
	u := test_ledger.NewUtxo(0x10, 0, f.addr, ledger.NewValue(5_000_000))
	d := tx.NewDraft().
		CollectFrom([]ledger.Utxo{u, u}, plutus.Void{}).
		Attach(f.script).
		Attach(f.script).
		AddSigner(f.owner).
		AddSigner(f.owner)
	assert.Len(t, d.Inputs, 1)
	assert.Len(t, d.Scripts, 1)
	assert.Len(t, d.Signers, 1)
	require.NoError(t, d.Validate())
	assert.True(t, d.HasScripts())
}

func TestDraftValidate(t *testing.T) {
	f := newFixture(t)
	u := test_ledger.NewUtxo(0x10, 0, f.addr, ledger.NewValue(5_000_000))

	assert.ErrorIs(t, tx.NewDraft().Validate(), tx.ErrEmptyDraft)

	noScript := tx.NewDraft().CollectFrom([]ledger.Utxo{u}, plutus.Void{})
	assert.ErrorIs(t, noScript.Validate(), tx.ErrMissingScript)

	noRedeemer := tx.NewDraft().CollectFrom([]ledger.Utxo{u}, nil).Attach(f.script)
	assert.ErrorIs(t, noRedeemer.Validate(), tx.ErrMissingRedeemer)

	unit := ledger.Unit{Policy: f.script.Hash(), Name: []byte("x")}
	mintNoScript := tx.NewDraft().MintAssets(unit, 1, plutus.Void{})
	assert.ErrorIs(t, mintNoScript.Validate(), tx.ErrMissingScript)
}

func TestRecipesSetValidityWindow(t *testing.T) {
	f := newFixture(t)
	d := tx.Transfer(f.wallet, 5_000_000, testNow)
	assert.Equal(t, testNow.Add(tx.ValidityWindow), d.ValidTo)
	assert.Equal(t, 15*time.Minute, tx.ValidityWindow)

	lock := tx.Lock(f.addr, plutus.NewInt(42), []uint64{2_000_000, 2_000_000, 1_500_000}, testNow)
	require.Len(t, lock.Outputs, 3)
	for _, o := range lock.Outputs {
		require.NotNil(t, o.Datum)
		got, err := plutus.FromPlutusData(o.Datum.Data, plutus.ShapeInt)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.(plutus.Int).Value.Int64())
	}
	assert.Equal(t, testNow.Add(tx.ValidityWindow), lock.ValidTo)
}

func TestUnlockWithoutUtxos(t *testing.T) {
	f := newFixture(t)
	_, err := tx.Unlock(tx.UnlockParams{Script: f.script, Redeemer: plutus.Void{}}, testNow)
	assert.ErrorIs(t, err, tx.ErrNoScriptInputs)
	_, _, err = tx.ReceiptMint(tx.UnlockParams{Script: f.script, Redeemer: plutus.Void{}}, testNow)
	assert.ErrorIs(t, err, tx.ErrNoScriptInputs)
}

func TestBalanceTransfer(t *testing.T) {
	f := newFixture(t)
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(10_000_000)))
	f.add(test_ledger.NewUtxo(0x02, 0, f.wallet, ledger.NewValue(3_000_000)))
	dest, _ := test_ledger.KeyAddress(0x77)

	signable, err := f.balancer(t).Finalize(context.Background(), tx.Transfer(dest, 5_000_000, testNow))
	require.NoError(t, err)
	body := decodeBody(t, signable)

	// Largest-first selection covers the payment with one input
	require.Len(t, body.Inputs, 1)
	assert.Equal(t, byte(0x01), body.Inputs[0].TxId[0])
	require.Len(t, body.Outputs, 2)
	assert.True(t, body.Outputs[0].Address.Equal(dest))
	assert.Equal(t, uint64(5_000_000), body.Outputs[0].Amount.Coin)
	assert.True(t, body.Outputs[1].Address.Equal(f.wallet))
	f.assertBalanced(t, body)

	pp := test_ledger.DefaultProtocolParameters()
	txCbor, err := signable.Cbor()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, body.Fee, pp.MinFeeA*uint64(len(txCbor))+pp.MinFeeB)
	assert.Equal(t, signable.Fee(), body.Fee)

	wantTtl, err := ledger.NetworkPreview.TimeToSlot(testNow.Add(tx.ValidityWindow))
	require.NoError(t, err)
	require.NotNil(t, body.Ttl)
	assert.Equal(t, wantTtl, *body.Ttl)

	assert.Empty(t, body.Collateral)
	assert.False(t, body.HasDataHash)
	assert.Empty(t, signable.Redeemers())
}

func TestBalanceRaisesOutputsToMinCoin(t *testing.T) {
	f := newFixture(t)
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(50_000_000)))
	d := tx.Lock(f.addr, plutus.NewInt(42), []uint64{100_000}, testNow)
	signable, err := f.balancer(t).Finalize(context.Background(), d)
	require.NoError(t, err)
	body := decodeBody(t, signable)
	require.Len(t, body.Outputs, 2)
	assert.Greater(t, body.Outputs[0].Amount.Coin, uint64(100_000))
	f.assertBalanced(t, body)
}

func TestBalanceInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(3_000_000)))
	dest, _ := test_ledger.KeyAddress(0x77)
	_, err := f.balancer(t).Finalize(context.Background(), tx.Transfer(dest, 10_000_000, testNow))
	var insufficient tx.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.Nil(t, insufficient.Unit)
	assert.Equal(t, uint64(3_000_000), insufficient.Have)

	unit := ledger.Unit{Policy: f.script.Hash(), Name: []byte("missing")}
	d := tx.NewDraft().PayTo(dest, ledger.NewValue(2_000_000).WithAsset(unit, 1))
	_, err = f.balancer(t).Finalize(context.Background(), d)
	require.True(t, errors.As(err, &insufficient))
	require.NotNil(t, insufficient.Unit)
	assert.True(t, insufficient.Unit.Equal(unit))
}

func TestBalanceUnlock(t *testing.T) {
	f := newFixture(t)
	locked := []ledger.Utxo{
		f.add(test_ledger.NewUtxo(0x10, 1, f.addr, ledger.NewValue(5_000_000))),
		f.add(test_ledger.NewUtxo(0x10, 0, f.addr, ledger.NewValue(5_000_000))),
	}
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(20_000_000)))
	collateral := f.add(test_ledger.NewUtxo(0x02, 0, f.wallet, ledger.NewValue(6_000_000)))

	d, err := tx.Unlock(tx.UnlockParams{
		Utxos:    locked,
		Redeemer: plutus.Void{},
		Script:   f.script,
		Signer:   &f.owner,
	}, testNow)
	require.NoError(t, err)
	signable, err := f.balancer(t).Finalize(context.Background(), d)
	require.NoError(t, err)
	body := decodeBody(t, signable)

	require.Len(t, body.Inputs, 2)
	assert.Equal(t, uint32(0), body.Inputs[0].Index)
	assert.Equal(t, uint32(1), body.Inputs[1].Index)
	assert.Equal(t, []ledger.TransactionInput{collateral.Input}, body.Collateral)
	assert.Equal(t, []ledger.KeyHash{f.owner}, body.RequiredSigners)
	assert.True(t, body.HasDataHash)
	f.assertBalanced(t, body)

	pp := test_ledger.DefaultProtocolParameters()
	redeemers := signable.Redeemers()
	require.Len(t, redeemers, 2)
	for idx, r := range redeemers {
		assert.Equal(t, tx.RedeemerTagSpend, r.Tag)
		assert.Equal(t, uint32(idx), r.Index)
		assert.Equal(t, pp.MaxTxExMemory/2, r.ExUnits.Memory)
		assert.Equal(t, pp.MaxTxExSteps/2, r.ExUnits.Steps)
	}
}

func TestBalanceNoCollateral(t *testing.T) {
	f := newFixture(t)
	locked := f.add(test_ledger.NewUtxo(0x10, 0, f.addr, ledger.NewValue(5_000_000)))
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(3_000_000)))
	d, err := tx.Unlock(tx.UnlockParams{
		Utxos:    []ledger.Utxo{locked},
		Redeemer: plutus.Void{},
		Script:   f.script,
	}, testNow)
	require.NoError(t, err)
	_, err = f.balancer(t).Finalize(context.Background(), d)
	assert.ErrorIs(t, err, tx.ErrNoCollateral)
}

func TestBalanceReceiptMint(t *testing.T) {
	f := newFixture(t)
	locked := []ledger.Utxo{
		f.add(test_ledger.NewUtxo(0x10, 0, f.addr, ledger.NewValue(5_000_000))),
		f.add(test_ledger.NewUtxo(0x11, 0, f.addr, ledger.NewValue(5_000_000))),
	}
	f.add(test_ledger.NewUtxo(0x02, 0, f.wallet, ledger.NewValue(8_000_000)))

	d, unit, err := tx.ReceiptMint(tx.UnlockParams{
		Utxos:    locked,
		Redeemer: plutus.Void{},
		Script:   f.script,
		Signer:   &f.owner,
	}, testNow)
	require.NoError(t, err)
	name, err := asset.DeriveName([]ledger.TransactionInput{locked[0].Input, locked[1].Input})
	require.NoError(t, err)
	assert.Equal(t, name.Bytes(), unit.Name)
	assert.Equal(t, f.script.Hash(), unit.Policy)

	signable, err := f.balancer(t).Finalize(context.Background(), d)
	require.NoError(t, err)
	body := decodeBody(t, signable)
	require.NotNil(t, body.Mint)
	assert.Equal(t, int64(1), body.Mint.Asset(unit.Policy, unit.Name))
	f.assertBalanced(t, body)

	var tags []tx.RedeemerTag
	for _, r := range signable.Redeemers() {
		tags = append(tags, r.Tag)
	}
	assert.Equal(t, []tx.RedeemerTag{tx.RedeemerTagSpend, tx.RedeemerTagSpend, tx.RedeemerTagMint}, tags)
	change := body.Outputs[len(body.Outputs)-1]
	require.NotNil(t, change.Amount.Assets)
	assert.Equal(t, uint64(1), change.Amount.Assets.Asset(unit.Policy, unit.Name))
}

type fakeEvaluator struct {
	units map[tx.RedeemerKey]tx.ExUnits
	calls int
}

func (e *fakeEvaluator) Evaluate(context.Context, []byte) (map[tx.RedeemerKey]tx.ExUnits, error) {
	e.calls++
	return e.units, nil
}

func TestBalanceWithEvaluator(t *testing.T) {
	f := newFixture(t)
	locked := f.add(test_ledger.NewUtxo(0x10, 0, f.addr, ledger.NewValue(5_000_000)))
	f.add(test_ledger.NewUtxo(0x02, 0, f.wallet, ledger.NewValue(8_000_000)))
	d, err := tx.Unlock(tx.UnlockParams{
		Utxos:    []ledger.Utxo{locked},
		Redeemer: plutus.Void{},
		Script:   f.script,
	}, testNow)
	require.NoError(t, err)

	defaultTx, err := f.balancer(t).Finalize(context.Background(), d)
	require.NoError(t, err)

	eval := &fakeEvaluator{units: map[tx.RedeemerKey]tx.ExUnits{
		{Tag: tx.RedeemerTagSpend, Index: 0}: {Memory: 1000, Steps: 200000},
	}}
	measured, err := f.balancer(t, tx.WithEvaluator(eval)).Finalize(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 1, eval.calls)
	require.Len(t, measured.Redeemers(), 1)
	assert.Equal(t, uint64(1000), measured.Redeemers()[0].ExUnits.Memory)
	assert.Equal(t, uint64(200000), measured.Redeemers()[0].ExUnits.Steps)
	assert.Less(t, measured.Fee(), defaultTx.Fee())
	f.assertBalanced(t, decodeBody(t, measured))
}

func TestSignableEncoding(t *testing.T) {
	f := newFixture(t)
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(10_000_000)))
	signable, err := f.balancer(t).Finalize(context.Background(), tx.Transfer(f.wallet, 2_000_000, testNow))
	require.NoError(t, err)
	assert.Equal(t, ledger.Blake2b256Hash(signable.BodyCbor()), signable.Id())

	signable.AddVkeyWitness(make([]byte, 32), make([]byte, 64))
	txCbor, err := signable.Cbor()
	require.NoError(t, err)
	var parts []cbor.RawMessage
	_, err = cbor.Decode(txCbor, &parts)
	require.NoError(t, err)
	require.Len(t, parts, 4)
	assert.Equal(t, signable.BodyCbor(), []byte(parts[0]))
	assert.Equal(t, []byte{0xf5}, []byte(parts[2]))
	assert.Equal(t, []byte{0xf6}, []byte(parts[3]))
	var wits map[uint]cbor.RawMessage
	_, err = cbor.Decode(parts[1], &wits)
	require.NoError(t, err)
	assert.Contains(t, wits, uint(0))
}

func TestNewBalancerRequiresCollaborators(t *testing.T) {
	f := newFixture(t)
	_, err := tx.NewBalancer(tx.WithWallet(f.chain, f.wallet), tx.WithBalancerNetwork(ledger.NetworkPreview))
	assert.Error(t, err)
	_, err = tx.NewBalancer(tx.WithParamsProvider(f.chain), tx.WithBalancerNetwork(ledger.NetworkPreview))
	assert.Error(t, err)
	_, err = tx.NewBalancer(tx.WithParamsProvider(f.chain), tx.WithWallet(f.chain, f.wallet))
	assert.Error(t, err)
}

func TestBalanceCip68MintAndBurn(t *testing.T) {
	f := newFixture(t)
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(50_000_000)))
	f.add(test_ledger.NewUtxo(0x02, 0, f.wallet, ledger.NewValue(6_000_000)))
	pair, err := asset.NewPair(f.script.Hash(), asset.LabelFT, []byte("Coin"))
	require.NoError(t, err)

	d := tx.Cip68Mint(tx.Cip68MintParams{
		Script:   script.Resolved{Script: f.script, Address: f.addr},
		Pair:     pair,
		Quantity: 1000,
		Datum:    plutus.NewCip68Datum("Coin", "ipfs://coin"),
		Redeemer: plutus.Void{},
	}, testNow)
	require.NoError(t, d.Validate())
	signable, err := f.balancer(t).Finalize(context.Background(), d)
	require.NoError(t, err)
	body := decodeBody(t, signable)
	assert.Equal(t, int64(1), body.Mint.Asset(pair.Reference.Policy, pair.Reference.Name))
	assert.Equal(t, int64(1000), body.Mint.Asset(pair.User.Policy, pair.User.Name))
	require.NotEmpty(t, body.Outputs)
	ref := body.Outputs[0]
	assert.True(t, ref.Address.Equal(f.addr))
	require.NotNil(t, ref.Datum)
	f.assertBalanced(t, body)
	var tags []tx.RedeemerTag
	for _, r := range signable.Redeemers() {
		tags = append(tags, r.Tag)
	}
	// Both tokens share one policy, so one mint redeemer
	assert.Equal(t, []tx.RedeemerTag{tx.RedeemerTagMint}, tags)

	refUtxo := f.add(ledger.Utxo{
		Input: test_ledger.NewUtxo(0x30, 0, f.addr, ledger.Value{}).Input,
		Output: ledger.TransactionOutput{
			Address: f.addr,
			Amount:  ledger.NewValue(2_000_000).WithAsset(pair.Reference, 1),
			Datum:   ref.Datum,
		},
	})
	userUtxo := f.add(test_ledger.NewUtxo(0x31, 0, f.wallet, ledger.NewValue(1_500_000).WithAsset(pair.User, 1000)))

	update := tx.Cip68Update(tx.Cip68UpdateParams{
		Script:   f.script,
		Ref:      refUtxo,
		User:     userUtxo,
		Datum:    plutus.NewCip68Datum("Coin2", ""),
		Redeemer: plutus.Void{},
	}, testNow)
	signable, err = f.balancer(t).Finalize(context.Background(), update)
	require.NoError(t, err)
	body = decodeBody(t, signable)
	assert.Nil(t, body.Mint)
	assert.True(t, body.Outputs[0].Address.Equal(f.addr))
	assert.Equal(t, uint64(1), body.Outputs[0].Amount.Assets.Asset(pair.Reference.Policy, pair.Reference.Name))
	f.assertBalanced(t, body)
	// Only the script input needs a spend redeemer
	require.Len(t, signable.Redeemers(), 1)
	assert.Equal(t, tx.RedeemerTagSpend, signable.Redeemers()[0].Tag)

	burn := tx.Cip68Burn(tx.Cip68BurnParams{
		Script:   f.script,
		Pair:     pair,
		Ref:      refUtxo,
		User:     userUtxo,
		Redeemer: plutus.Void{},
	}, testNow)
	signable, err = f.balancer(t).Finalize(context.Background(), burn)
	require.NoError(t, err)
	body = decodeBody(t, signable)
	assert.Equal(t, int64(-1), body.Mint.Asset(pair.Reference.Policy, pair.Reference.Name))
	assert.Equal(t, int64(-1), body.Mint.Asset(pair.User.Policy, pair.User.Name))
	f.assertBalanced(t, body)
}

func TestBalanceRebuildsChangeEachFeePass(t *testing.T) {
	f := newFixture(t)
	// Just enough for the payment, the fee and a change output
	f.add(test_ledger.NewUtxo(0x01, 0, f.wallet, ledger.NewValue(6_500_000)))
	dest, _ := test_ledger.KeyAddress(0x77)

	signable, err := f.balancer(t).Finalize(context.Background(), tx.Transfer(dest, 5_000_000, testNow))
	require.NoError(t, err)
	body := decodeBody(t, signable)
	require.Len(t, body.Inputs, 1)
	require.Len(t, body.Outputs, 2)
	assert.Positive(t, body.Fee)
	assert.True(t, body.Outputs[1].Address.Equal(f.wallet))
	assert.Equal(t, uint64(6_500_000-5_000_000)-body.Fee, body.Outputs[1].Amount.Coin)
	f.assertBalanced(t, body)
}
