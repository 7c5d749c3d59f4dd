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

// Package plutus encodes and decodes the datum and redeemer shapes used by
// the showcase validators.
package plutus

import (
	"bytes"
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
)

// Shape names a supported datum/redeemer layout
type Shape int

const (
	ShapeVoid Shape = iota
	ShapeInt
	ShapeBytes
	ShapeConstr
	ShapeCip68
	ShapeAction
)

func (s Shape) String() string {
	switch s {
	case ShapeVoid:
		return "void"
	case ShapeInt:
		return "int"
	case ShapeBytes:
		return "bytes"
	case ShapeConstr:
		return "constr"
	case ShapeCip68:
		return "cip68"
	case ShapeAction:
		return "action"
	}
	return "unknown"
}

// Value is a datum or redeemer in one of the supported shapes
type Value interface {
	isValue()
	Shape() Shape
	ToPlutusData() data.PlutusData
}

// Void is the unit constructor, Constr 0 []
type Void struct{}

func (Void) isValue()     {}
func (Void) Shape() Shape { return ShapeVoid }

func (Void) ToPlutusData() data.PlutusData {
	return data.NewConstr(0)
}

// Int is a bare integer
type Int struct {
	Value *big.Int
}

// NewInt returns an Int from an int64
func NewInt(v int64) Int {
	return Int{Value: big.NewInt(v)}
}

func (Int) isValue()     {}
func (Int) Shape() Shape { return ShapeInt }

func (i Int) ToPlutusData() data.PlutusData {
	v := i.Value
	if v == nil {
		v = new(big.Int)
	}
	return data.NewInteger(new(big.Int).Set(v))
}

func (i Int) Equal(other Int) bool {
	a, b := i.Value, other.Value
	if a == nil {
		a = new(big.Int)
	}
	if b == nil {
		b = new(big.Int)
	}
	return a.Cmp(b) == 0
}

// Bytes is a byte string
type Bytes []byte

// Text returns the UTF-8 bytes of a string as a byte string
func Text(s string) Bytes {
	return Bytes(s)
}

func (Bytes) isValue()     {}
func (Bytes) Shape() Shape { return ShapeBytes }

func (b Bytes) ToPlutusData() data.PlutusData {
	return data.NewByteString(bytes.Clone(b))
}

// Constr is a generic constructor with arbitrary fields
type Constr struct {
	Tag    uint
	Fields []data.PlutusData
}

func (Constr) isValue()     {}
func (Constr) Shape() Shape { return ShapeConstr }

func (c Constr) ToPlutusData() data.PlutusData {
	return data.NewConstr(c.Tag, c.Fields...)
}

// Action is the redeemer of the one-shot CIP-68 policy
type Action uint

const (
	ActionMint Action = iota
	ActionUpdate
	ActionBurn
)

func (Action) isValue()     {}
func (Action) Shape() Shape { return ShapeAction }

func (a Action) ToPlutusData() data.PlutusData {
	return data.NewConstr(uint(a))
}

func (a Action) String() string {
	switch a {
	case ActionMint:
		return "Mint"
	case ActionUpdate:
		return "Update"
	case ActionBurn:
		return "Burn"
	}
	return "Unknown"
}
