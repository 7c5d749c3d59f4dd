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
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/jinzhu/copier"

	"github.com/blinklabs-io/spend-showcase/tx"
)

// cliProtocolParams is the cardano-cli protocol parameter layout served by
// /cli_protocol_params. Fields sharing a name with tx.ProtocolParameters are
// copied directly.
type cliProtocolParams struct {
	MinFeeA              uint64 `json:"txFeePerByte"`
	MinFeeB              uint64 `json:"txFeeFixed"`
	CoinsPerUtxoByte     uint64 `json:"utxoCostPerByte"`
	MaxTxSize            uint64 `json:"maxTxSize"`
	CollateralPercentage uint64 `json:"collateralPercentage"`
	MaxCollateralInputs  uint64 `json:"maxCollateralInputs"`
	ExecutionUnitPrices  struct {
		PriceMemory json.Number `json:"priceMemory"`
		PriceSteps  json.Number `json:"priceSteps"`
	} `json:"executionUnitPrices"`
	MaxTxExecutionUnits struct {
		Memory uint64 `json:"memory"`
		Steps  uint64 `json:"steps"`
	} `json:"maxTxExecutionUnits"`
	RefScriptCostPerByte json.Number `json:"minFeeRefScriptCostPerByte"`
	CostModels           struct {
		PlutusV3 []int64 `json:"PlutusV3"`
	} `json:"costModels"`
}

// ProtocolParameters fetches the current protocol parameters
func (c *Client) ProtocolParameters(ctx context.Context) (*tx.ProtocolParameters, error) {
	var resp cliProtocolParams
	if err := c.do(ctx, http.MethodGet, "/cli_protocol_params", "", nil, &resp); err != nil {
		return nil, err
	}
	ret := &tx.ProtocolParameters{}
	if err := copier.Copy(ret, &resp); err != nil {
		return nil, fmt.Errorf("copy protocol parameters: %w", err)
	}
	var err error
	if ret.PriceMemory, err = parseRat("priceMemory", resp.ExecutionUnitPrices.PriceMemory); err != nil {
		return nil, err
	}
	if ret.PriceSteps, err = parseRat("priceSteps", resp.ExecutionUnitPrices.PriceSteps); err != nil {
		return nil, err
	}
	if resp.RefScriptCostPerByte != "" {
		if ret.MinFeeRefScriptCostPerByte, err = parseRat("minFeeRefScriptCostPerByte", resp.RefScriptCostPerByte); err != nil {
			return nil, err
		}
	}
	ret.MaxTxExMemory = resp.MaxTxExecutionUnits.Memory
	ret.MaxTxExSteps = resp.MaxTxExecutionUnits.Steps
	ret.CostModelV3 = resp.CostModels.PlutusV3
	if len(ret.CostModelV3) == 0 {
		return nil, fmt.Errorf("protocol parameters have no PlutusV3 cost model")
	}
	return ret, nil
}

func parseRat(field string, n json.Number) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(n.String())
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", field, n.String())
	}
	return r, nil
}
