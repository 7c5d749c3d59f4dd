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

	"github.com/blinklabs-io/spend-showcase/tx"
)

type ogmiosRequest struct {
	JsonRpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type ogmiosResponse struct {
	Result []struct {
		Validator struct {
			Purpose string `json:"purpose"`
			Index   uint32 `json:"index"`
		} `json:"validator"`
		Budget struct {
			Memory uint64 `json:"memory"`
			Cpu    uint64 `json:"cpu"`
		} `json:"budget"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// EvaluationError is returned when Ogmios rejects the transaction during
// script evaluation
type EvaluationError struct {
	Code    int
	Message string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate transaction: ogmios error %d: %s", e.Code, e.Message)
}

// Evaluate measures the execution units of each redeemer through the Koios
// Ogmios proxy
func (c *Client) Evaluate(ctx context.Context, txCbor []byte) (map[tx.RedeemerKey]tx.ExUnits, error) {
	req := ogmiosRequest{
		JsonRpc: "2.0",
		Method:  "evaluateTransaction",
		Params: map[string]any{
			"transaction": map[string]string{"cbor": hex.EncodeToString(txCbor)},
		},
	}
	var resp ogmiosResponse
	if err := c.postJson(ctx, "/ogmios", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &EvaluationError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	ret := make(map[tx.RedeemerKey]tx.ExUnits, len(resp.Result))
	for _, item := range resp.Result {
		var tag tx.RedeemerTag
		switch item.Validator.Purpose {
		case "spend":
			tag = tx.RedeemerTagSpend
		case "mint":
			tag = tx.RedeemerTagMint
		default:
			return nil, fmt.Errorf("unsupported redeemer purpose %q", item.Validator.Purpose)
		}
		ret[tx.RedeemerKey{Tag: tag, Index: item.Validator.Index}] = tx.ExUnits{
			Memory: item.Budget.Memory,
			Steps:  item.Budget.Cpu,
		}
	}
	return ret, nil
}
