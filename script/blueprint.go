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

package script

import (
	"encoding/json"
	"fmt"
	"os"
)

// Blueprint is a CIP-57 plutus.json produced by the validator compiler
type Blueprint struct {
	Preamble struct {
		Title         string `json:"title"`
		Version       string `json:"version"`
		PlutusVersion string `json:"plutusVersion"`
	} `json:"preamble"`
	Validators []BlueprintValidator `json:"validators"`
}

type BlueprintValidator struct {
	Title        string            `json:"title"`
	CompiledCode string            `json:"compiledCode"`
	Hash         string            `json:"hash"`
	Parameters   []json.RawMessage `json:"parameters,omitempty"`
}

// LoadBlueprint reads a blueprint from disk
func LoadBlueprint(path string) (*Blueprint, error) {
	// #nosec G304
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint: %w", err)
	}
	return ParseBlueprint(raw)
}

// ParseBlueprint decodes blueprint JSON
func ParseBlueprint(raw []byte) (*Blueprint, error) {
	var ret Blueprint
	if err := json.Unmarshal(raw, &ret); err != nil {
		return nil, fmt.Errorf("parse blueprint: %w", err)
	}
	if ret.Preamble.PlutusVersion != "" && ret.Preamble.PlutusVersion != "v3" {
		return nil, fmt.Errorf(
			"unsupported plutus version %q",
			ret.Preamble.PlutusVersion,
		)
	}
	return &ret, nil
}

// Template returns the validator with the given title
func (b *Blueprint) Template(title string) (Template, error) {
	for _, v := range b.Validators {
		if v.Title != title {
			continue
		}
		tmpl, err := NewTemplateFromHex(v.Title, v.CompiledCode)
		if err != nil {
			return Template{}, err
		}
		// Parameterised validators report the hash of the unapplied code
		if v.Hash != "" && len(v.Parameters) == 0 {
			if got := tmpl.Script.Hash().String(); got != v.Hash {
				return Template{}, fmt.Errorf(
					"%w %q: hash %s does not match blueprint hash %s",
					ErrInvalidTemplate,
					title,
					got,
					v.Hash,
				)
			}
		}
		return tmpl, nil
	}
	return Template{}, fmt.Errorf("%w: no validator titled %q", ErrInvalidTemplate, title)
}
