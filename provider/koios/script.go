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
	"fmt"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

type scriptInfo struct {
	ScriptHash string `json:"script_hash"`
	Type       string `json:"type"`
	Bytes      string `json:"bytes"`
}

// ScriptBytes fetches a script by hash and checks that the returned bytes
// hash back to it
func (c *Client) ScriptBytes(ctx context.Context, hash ledger.ScriptHash) (ledger.PlutusV3Script, error) {
	req := map[string]any{
		"_script_hashes": []string{hash.String()},
	}
	var resp []scriptInfo
	if err := c.postJson(ctx, "/script_info", req, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 || resp[0].Bytes == "" {
		return nil, fmt.Errorf("script %s: %w", hash.String(), utxo.ErrNotFound)
	}
	s, err := ledger.NewPlutusV3ScriptFromHex(resp[0].Bytes)
	if err != nil {
		return nil, err
	}
	if s.Hash() != hash {
		return nil, fmt.Errorf(
			"%w: script_info for %s returned a script hashing to %s",
			ledger.ErrInvalidScript,
			hash.String(),
			s.Hash().String(),
		)
	}
	return s, nil
}
