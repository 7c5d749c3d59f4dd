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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/spend-showcase/cbor"
)

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

var encodeTests = []encodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{1, 2, 3},
	},
	// Map keys are sorted regardless of insertion order
	{
		CborHex: "a3000a010b0e0c",
		Object:  map[uint]any{14: 12, 1: 11, 0: 10},
	},
	// Byte string
	{
		CborHex: "43abcdef",
		Object:  []byte{0xab, 0xcd, 0xef},
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		cborData, err := cbor.Encode(test.Object)
		if err != nil {
			t.Fatalf("failed to encode object to CBOR: %s", err)
		}
		cborHex := hex.EncodeToString(cborData)
		if cborHex != test.CborHex {
			t.Fatalf(
				"object did not encode to expected CBOR\n  got: %s\n  wanted: %s",
				cborHex,
				test.CborHex,
			)
		}
	}
}

func TestEncodeStructAsArray(t *testing.T) {
	type pair struct {
		cbor.StructAsArray
		A uint64
		B []byte
	}
	cborData, err := cbor.Encode(pair{A: 7, B: []byte{0x01}})
	if err != nil {
		t.Fatalf("failed to encode: %s", err)
	}
	if got := hex.EncodeToString(cborData); got != "82074101" {
		t.Fatalf("unexpected CBOR: %s", got)
	}
}
