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

package plutus

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
)

var ErrEncodingMismatch = errors.New("encoding mismatch")

// MismatchError is returned when decoded data does not have the requested shape
type MismatchError struct {
	Want   Shape
	Reason string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s: %s", ErrEncodingMismatch, e.Want, e.Reason)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrEncodingMismatch
}

// Encode returns the CBOR encoding of a value
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return nil, errors.New("cannot encode nil value")
	}
	return data.Encode(v.ToPlutusData())
}

// Decode parses CBOR into the requested shape
func Decode(cborData []byte, shape Shape) (Value, error) {
	pd, err := data.Decode(cborData)
	if err != nil {
		return nil, &MismatchError{Want: shape, Reason: err.Error()}
	}
	return FromPlutusData(pd, shape)
}

// FromPlutusData converts already-decoded Plutus data into the requested shape
func FromPlutusData(pd data.PlutusData, shape Shape) (Value, error) {
	mismatch := func(format string, args ...any) error {
		return &MismatchError{Want: shape, Reason: fmt.Sprintf(format, args...)}
	}
	switch shape {
	case ShapeVoid:
		c, ok := pd.(*data.Constr)
		if !ok || c.Tag != 0 || len(c.Fields) != 0 {
			return nil, mismatch("found %s", describe(pd))
		}
		return Void{}, nil
	case ShapeInt:
		i, ok := pd.(*data.Integer)
		if !ok {
			return nil, mismatch("found %s", describe(pd))
		}
		return Int{Value: new(big.Int).Set(i.Inner)}, nil
	case ShapeBytes:
		b, ok := pd.(*data.ByteString)
		if !ok {
			return nil, mismatch("found %s", describe(pd))
		}
		return Bytes(append([]byte{}, b.Inner...)), nil
	case ShapeConstr:
		c, ok := pd.(*data.Constr)
		if !ok {
			return nil, mismatch("found %s", describe(pd))
		}
		return Constr{Tag: c.Tag, Fields: c.Fields}, nil
	case ShapeAction:
		c, ok := pd.(*data.Constr)
		if !ok || len(c.Fields) != 0 || c.Tag > uint(ActionBurn) {
			return nil, mismatch("found %s", describe(pd))
		}
		return Action(c.Tag), nil
	case ShapeCip68:
		return cip68FromPlutusData(pd, mismatch)
	}
	return nil, mismatch("unknown shape")
}

func cip68FromPlutusData(
	pd data.PlutusData,
	mismatch func(string, ...any) error,
) (Value, error) {
	c, ok := pd.(*data.Constr)
	if !ok || c.Tag != 0 || len(c.Fields) != 3 {
		return nil, mismatch("found %s", describe(pd))
	}
	m, ok := c.Fields[0].(*data.Map)
	if !ok {
		return nil, mismatch("metadata is %s", describe(c.Fields[0]))
	}
	version, ok := c.Fields[1].(*data.Integer)
	if !ok || version.Inner.Sign() < 0 || !version.Inner.IsUint64() {
		return nil, mismatch("version is %s", describe(c.Fields[1]))
	}
	extra, ok := c.Fields[2].(*data.List)
	if !ok {
		return nil, mismatch("extra is %s", describe(c.Fields[2]))
	}
	ret := Cip68Datum{
		Version: version.Inner.Uint64(),
		Extra:   extra.Items,
	}
	for _, pair := range m.Pairs {
		key, ok := pair[0].(*data.ByteString)
		if !ok {
			return nil, mismatch("metadata key is %s", describe(pair[0]))
		}
		value, ok := pair[1].(*data.ByteString)
		if !ok {
			return nil, mismatch("metadata value is %s", describe(pair[1]))
		}
		ret.Metadata = append(ret.Metadata, MetadataField{
			Key:   string(key.Inner),
			Value: string(value.Inner),
		})
	}
	return ret, nil
}

// DecodeBytes decodes a byte string datum
func DecodeBytes(cborData []byte) (Bytes, error) {
	v, err := Decode(cborData, ShapeBytes)
	if err != nil {
		return nil, err
	}
	return v.(Bytes), nil
}

// DecodeInt decodes an integer datum
func DecodeInt(cborData []byte) (*big.Int, error) {
	v, err := Decode(cborData, ShapeInt)
	if err != nil {
		return nil, err
	}
	return v.(Int).Value, nil
}

// DecodeCip68 decodes a CIP-68 reference datum
func DecodeCip68(cborData []byte) (Cip68Datum, error) {
	v, err := Decode(cborData, ShapeCip68)
	if err != nil {
		return Cip68Datum{}, err
	}
	return v.(Cip68Datum), nil
}

func describe(pd data.PlutusData) string {
	switch v := pd.(type) {
	case *data.Constr:
		return fmt.Sprintf("constr %d with %d fields", v.Tag, len(v.Fields))
	case *data.Integer:
		return "integer"
	case *data.ByteString:
		return "bytes"
	case *data.List:
		return "list"
	case *data.Map:
		return "map"
	case nil:
		return "nothing"
	}
	return fmt.Sprintf("%T", pd)
}

func newBigUint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
