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

package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"github.com/blinklabs-io/spend-showcase/cbor"
)

const ScriptRefTypePlutusV3 = 3

// PlutusV3Script holds a serialized Plutus V3 program: the flat-encoded
// program wrapped once in a CBOR byte string
type PlutusV3Script []byte

// NewPlutusV3ScriptFromHex decodes a hex script, accepting raw flat, single or
// double CBOR-wrapped forms
func NewPlutusV3ScriptFromHex(hexStr string) (PlutusV3Script, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	return NormalizePlutusV3Script(raw)
}

// NormalizePlutusV3Script returns the single-wrapped form of a script that
// may be raw flat, single-wrapped or double-wrapped
func NormalizePlutusV3Script(raw []byte) (PlutusV3Script, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty script", ErrInvalidScript)
	}
	inner, err := cbor.DecodeBytes(raw)
	if err != nil {
		// Not CBOR-wrapped at all
		wrapped, err := cbor.EncodeBytes(raw)
		if err != nil {
			return nil, err
		}
		return PlutusV3Script(wrapped), nil
	}
	if _, err := cbor.DecodeBytes(inner); err == nil {
		// Double-wrapped
		return PlutusV3Script(inner), nil
	}
	return PlutusV3Script(raw), nil
}

// Hash returns the script hash, which is also the policy ID when used for minting
func (s PlutusV3Script) Hash() ScriptHash {
	return Blake2b224Hash(
		slices.Concat(
			[]byte{ScriptRefTypePlutusV3},
			[]byte(s),
		),
	)
}

// Flat returns the flat-encoded program
func (s PlutusV3Script) Flat() ([]byte, error) {
	ret, err := cbor.DecodeBytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	return ret, nil
}

func (s PlutusV3Script) String() string {
	return hex.EncodeToString(s)
}

// ScriptRef is a Plutus V3 script carried in a transaction output
type ScriptRef struct {
	Script PlutusV3Script
}

func (s ScriptRef) MarshalCBOR() ([]byte, error) {
	inner, err := cbor.Encode([]any{ScriptRefTypePlutusV3, []byte(s.Script)})
	if err != nil {
		return nil, err
	}
	return cbor.Encode(cbor.WrappedCbor(inner))
}

func (s *ScriptRef) UnmarshalCBOR(data []byte) error {
	var wrapped cbor.WrappedCbor
	if _, err := cbor.Decode(data, &wrapped); err != nil {
		return err
	}
	var rawScript struct {
		cbor.StructAsArray
		Type uint
		Raw  []byte
	}
	if _, err := cbor.Decode(wrapped.Bytes(), &rawScript); err != nil {
		return err
	}
	if rawScript.Type != ScriptRefTypePlutusV3 {
		return fmt.Errorf("unsupported script ref type %d", rawScript.Type)
	}
	if len(rawScript.Raw) == 0 {
		return errors.New("empty script ref")
	}
	s.Script = PlutusV3Script(rawScript.Raw)
	return nil
}
