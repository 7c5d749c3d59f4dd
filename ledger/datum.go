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
	"github.com/blinklabs-io/plutigo/data"
)

type DatumHash = Blake2b256

// Datum represents an inline Plutus datum
type Datum struct {
	Data data.PlutusData
	cbor []byte
}

// NewDatum wraps the provided Plutus data
func NewDatum(pd data.PlutusData) *Datum {
	return &Datum{Data: pd}
}

// NewDatumFromCbor decodes a datum, keeping the original CBOR for hashing
func NewDatumFromCbor(cborData []byte) (*Datum, error) {
	d := &Datum{}
	if err := d.UnmarshalCBOR(cborData); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Datum) UnmarshalCBOR(cborData []byte) error {
	tmpData, err := data.Decode(cborData)
	if err != nil {
		return err
	}
	d.Data = tmpData
	d.cbor = make([]byte, len(cborData))
	copy(d.cbor, cborData)
	return nil
}

func (d *Datum) MarshalCBOR() ([]byte, error) {
	return d.Cbor()
}

// Cbor returns the original CBOR if the datum was decoded, or a fresh encoding
func (d *Datum) Cbor() ([]byte, error) {
	if d.cbor != nil {
		return d.cbor, nil
	}
	return data.Encode(d.Data)
}

func (d *Datum) Hash() (DatumHash, error) {
	cborData, err := d.Cbor()
	if err != nil {
		return DatumHash{}, err
	}
	return Blake2b256Hash(cborData), nil
}
