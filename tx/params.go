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
	"context"
	"math/big"
)

// ProtocolParameters holds the protocol parameters used for balancing
type ProtocolParameters struct {
	MinFeeA                    uint64
	MinFeeB                    uint64
	CoinsPerUtxoByte           uint64
	MaxTxSize                  uint64
	PriceMemory                *big.Rat
	PriceSteps                 *big.Rat
	MinFeeRefScriptCostPerByte *big.Rat
	MaxTxExMemory              uint64
	MaxTxExSteps               uint64
	CollateralPercentage       uint64
	MaxCollateralInputs        uint64
	CostModelV3                []int64
}

// ParamsProvider fetches current protocol parameters
type ParamsProvider interface {
	ProtocolParameters(ctx context.Context) (*ProtocolParameters, error)
}

// Finalizer balances a draft into a signable transaction
type Finalizer interface {
	Finalize(ctx context.Context, draft *Draft) (*Signable, error)
}

// Signer adds witnesses to a signable transaction
type Signer interface {
	Sign(ctx context.Context, tx *Signable) error
}

// Submitter submits a signed transaction and returns its ID
type Submitter interface {
	Submit(ctx context.Context, txCbor []byte) (string, error)
}

// Evaluator measures script execution units for a transaction
type Evaluator interface {
	Evaluate(ctx context.Context, txCbor []byte) (map[RedeemerKey]ExUnits, error)
}

// minFee returns the linear fee for a transaction of the given size
func (p *ProtocolParameters) minFee(size int) uint64 {
	// #nosec G115
	return p.MinFeeA*uint64(size) + p.MinFeeB
}

// scriptFee returns the execution fee for the total units, rounded up
func (p *ProtocolParameters) scriptFee(units ExUnits) uint64 {
	if p.PriceMemory == nil || p.PriceSteps == nil {
		return 0
	}
	total := new(big.Rat).Mul(p.PriceMemory, new(big.Rat).SetInt(new(big.Int).SetUint64(units.Memory)))
	total.Add(total, new(big.Rat).Mul(p.PriceSteps, new(big.Rat).SetInt(new(big.Int).SetUint64(units.Steps))))
	return ratCeil(total)
}

// refScriptFee returns the fee for reference scripts carried by spent inputs
func (p *ProtocolParameters) refScriptFee(size int) uint64 {
	if p.MinFeeRefScriptCostPerByte == nil || size == 0 {
		return 0
	}
	total := new(big.Rat).Mul(p.MinFeeRefScriptCostPerByte, new(big.Rat).SetInt64(int64(size)))
	return ratCeil(total)
}

func ratCeil(r *big.Rat) uint64 {
	quo, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return quo.Uint64()
}
