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

package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sigurn/crc8"

	"github.com/blinklabs-io/spend-showcase/ledger"
)

// Label is a CIP-67 asset name label
type Label uint16

const (
	LabelReference Label = 100
	LabelNFT       Label = 222
	LabelFT        Label = 333
	LabelRFT       Label = 444

	PrefixLength = 4
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// Prefix returns the 4-byte CIP-67 prefix: a zero nibble, the 16-bit label,
// the CRC-8 of the label and a closing zero nibble
func Prefix(label Label) []byte {
	labelBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(labelBytes, uint16(label))
	checksum := crc8.Checksum(labelBytes, crcTable)
	// 0000 | label (16 bits) | checksum (8 bits) | 0000
	// #nosec G115
	raw := uint32(label)<<12 | uint32(checksum)<<4
	ret := make([]byte, PrefixLength)
	binary.BigEndian.PutUint32(ret, raw)
	return ret
}

// WithLabel prepends the label prefix to an asset name
func WithLabel(label Label, name []byte) []byte {
	return append(Prefix(label), name...)
}

// SplitLabel separates a labelled asset name into its label and the bare name
func SplitLabel(name []byte) (Label, []byte, bool) {
	if len(name) < PrefixLength {
		return 0, nil, false
	}
	raw := binary.BigEndian.Uint32(name[:PrefixLength])
	if raw&0xf000000f != 0 {
		return 0, nil, false
	}
	// #nosec G115
	label := Label(raw >> 12 & 0xffff)
	if !bytes.Equal(Prefix(label), name[:PrefixLength]) {
		return 0, nil, false
	}
	return label, name[PrefixLength:], true
}

// Unit returns the labelled unit for a bare name under a policy
func Unit(policy ledger.PolicyId, label Label, name []byte) ledger.Unit {
	return ledger.Unit{Policy: policy, Name: WithLabel(label, name)}
}

// Pair is a CIP-68 reference token and its user token
type Pair struct {
	Reference ledger.Unit
	User      ledger.Unit
}

// NewPair builds the reference and user units for a bare name
func NewPair(policy ledger.PolicyId, userLabel Label, name []byte) (Pair, error) {
	if userLabel == LabelReference {
		return Pair{}, fmt.Errorf("label %d is reserved for reference tokens", LabelReference)
	}
	return Pair{
		Reference: Unit(policy, LabelReference, name),
		User:      Unit(policy, userLabel, name),
	}, nil
}

// PairFromUser rebuilds the pair from a labelled user unit
func PairFromUser(user ledger.Unit) (Pair, Label, error) {
	label, name, ok := SplitLabel(user.Name)
	if !ok {
		return Pair{}, 0, fmt.Errorf("asset name %s has no CIP-67 label", user.NameHex())
	}
	pair, err := NewPair(user.Policy, label, name)
	if err != nil {
		return Pair{}, 0, err
	}
	return pair, label, nil
}

// IsFungible reports whether the user token class may have quantity above one
func (l Label) IsFungible() bool {
	return l != LabelNFT
}
