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

// Package partition splits an amount of lovelace into chunks paid as
// separate outputs.
package partition

import "errors"

// MinChunk is the floor applied to the per-chunk target
const MinChunk uint64 = 2_000_000

var ErrInvalidPartition = errors.New("total, minimum chunk and chunk count must be positive")

// Partition emits fixed-size chunks while the remainder exceeds the target,
// then flushes whatever is left. The target is total/chunks, raised to
// minChunk when smaller. The chunks always sum to total.
func Partition(total uint64, minChunk uint64, chunks uint64) ([]uint64, error) {
	if total == 0 || minChunk == 0 || chunks == 0 {
		return nil, ErrInvalidPartition
	}
	target := max(total/chunks, minChunk)
	ret := make([]uint64, 0, min(total/target+1, chunks+1))
	remainder := total
	for remainder > target {
		ret = append(ret, target)
		remainder -= target
	}
	return append(ret, remainder), nil
}
