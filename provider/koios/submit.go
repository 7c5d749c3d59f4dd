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
	"net/http"
	"strings"
)

// Submit posts a signed transaction and returns the transaction ID reported
// by the node
func (c *Client) Submit(ctx context.Context, txCbor []byte) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/submittx", contentTypeCbor, txCbor, &raw); err != nil {
		return "", err
	}
	var txId string
	if err := json.Unmarshal(raw, &txId); err != nil {
		return strings.Trim(strings.TrimSpace(string(raw)), `"`), nil
	}
	return txId, nil
}
