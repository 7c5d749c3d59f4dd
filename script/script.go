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

// Package script resolves validator templates into concrete scripts,
// addresses and policy IDs.
package script

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/plutigo/syn"

	"github.com/blinklabs-io/spend-showcase/cbor"
	"github.com/blinklabs-io/spend-showcase/ledger"
)

var (
	ErrInvalidTemplate  = errors.New("invalid script template")
	ErrScriptResolution = errors.New("script resolution failed")
)

// encodeProgram is replaced in tests
var encodeProgram = syn.Encode[syn.DeBruijn]

// Template is a compiled validator that may still expect parameters
type Template struct {
	Title  string
	Script ledger.PlutusV3Script
}

// NewTemplateFromHex builds a template from compiled code hex
func NewTemplateFromHex(title string, compiledCode string) (Template, error) {
	s, err := ledger.NewPlutusV3ScriptFromHex(compiledCode)
	if err != nil {
		return Template{}, fmt.Errorf("%w %q: %w", ErrInvalidTemplate, title, err)
	}
	return Template{Title: title, Script: s}, nil
}

// Param is a value applied to a template
type Param interface {
	ToPlutusData() data.PlutusData
}

type keyHashParam struct {
	hash ledger.KeyHash
}

func (p keyHashParam) ToPlutusData() data.PlutusData {
	return p.hash.ToPlutusData()
}

// KeyHash is a long-lived identity parameter
func KeyHash(hash ledger.KeyHash) Param {
	return keyHashParam{hash: hash}
}

type outRefParam struct {
	ref ledger.TransactionInput
}

func (p outRefParam) ToPlutusData() data.PlutusData {
	return p.ref.ToPlutusData()
}

// OutRef is a single-use seed parameter
func OutRef(ref ledger.TransactionInput) Param {
	return outRefParam{ref: ref}
}

type dataParam struct {
	pd data.PlutusData
}

func (p dataParam) ToPlutusData() data.PlutusData {
	return p.pd
}

// Data is an arbitrary Plutus data parameter
func Data(pd data.PlutusData) Param {
	return dataParam{pd: pd}
}

// Resolved is a template with its parameters applied
type Resolved struct {
	Script  ledger.PlutusV3Script
	Address ledger.Address
}

// Hash returns the script hash
func (r Resolved) Hash() ledger.ScriptHash {
	return r.Script.Hash()
}

// PolicyId returns the policy ID when the script is used as a minting policy
func (r Resolved) PolicyId() ledger.PolicyId {
	return r.Script.Hash()
}

// Resolve applies the parameters in order and derives the enterprise script
// address on the given network
func Resolve(
	template Template,
	network ledger.Network,
	params ...Param,
) (Resolved, error) {
	s, err := Apply(template.Script, params...)
	if err != nil {
		return Resolved{}, fmt.Errorf("apply params to %q: %w", template.Title, err)
	}
	return Resolved{
		Script:  s,
		Address: ledger.NewEnterpriseScriptAddress(network.Id, s.Hash()),
	}, nil
}

// encode flat encodes program, turning an encoder panic into an error
func encode(program *syn.Program[syn.DeBruijn]) (ret []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret = nil
			err = fmt.Errorf("%w: encode program: %v", ErrScriptResolution, r)
		}
	}()
	ret, err = encodeProgram(program)
	if err != nil {
		return nil, fmt.Errorf("%w: encode program: %w", ErrScriptResolution, err)
	}
	return ret, nil
}

// Apply applies each parameter as a Data constant to the program
func Apply(s ledger.PlutusV3Script, params ...Param) (ledger.PlutusV3Script, error) {
	if len(params) == 0 {
		return s, nil
	}
	flat, err := s.Flat()
	if err != nil {
		return nil, err
	}
	program, err := syn.Decode[syn.DeBruijn](flat)
	if err != nil {
		return nil, fmt.Errorf("%w: decode program: %w", ErrInvalidTemplate, err)
	}
	for _, param := range params {
		program.Term = &syn.Apply[syn.DeBruijn]{
			Function: program.Term,
			Argument: &syn.Constant{
				Con: &syn.Data{
					Inner: param.ToPlutusData(),
				},
			},
		}
	}
	applied, err := encode(program)
	if err != nil {
		return nil, err
	}
	wrapped, err := cbor.EncodeBytes(applied)
	if err != nil {
		return nil, err
	}
	return ledger.PlutusV3Script(wrapped), nil
}
