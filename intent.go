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

package showcase

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/blinklabs-io/spend-showcase/asset"
)

// Contract names an on-chain program the showcase can drive
type Contract int

const (
	ContractCheckDatum Contract = iota + 1
	ContractCheckRedeemer
	ContractScWallet
	ContractReceipts
	ContractAdmin
	ContractCip68
	ContractCip68Oneshot
)

var contractNames = map[Contract]string{
	ContractCheckDatum:    "check-datum",
	ContractCheckRedeemer: "check-redeemer",
	ContractScWallet:      "sc-wallet",
	ContractReceipts:      "receipts",
	ContractAdmin:         "admin",
	ContractCip68:         "cip68",
	ContractCip68Oneshot:  "cip68-oneshot",
}

// Contracts returns every known contract in declaration order
func Contracts() []Contract {
	return []Contract{
		ContractCheckDatum,
		ContractCheckRedeemer,
		ContractScWallet,
		ContractReceipts,
		ContractAdmin,
		ContractCip68,
		ContractCip68Oneshot,
	}
}

func (c Contract) String() string {
	if name, ok := contractNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Contract(%d)", int(c))
}

// ParseContract looks up a contract by name
func ParseContract(name string) (Contract, error) {
	for c, n := range contractNames {
		if strings.EqualFold(n, name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown contract %q", ErrValidationFailed, name)
}

func (c Contract) isCip68() bool {
	return c == ContractCip68 || c == ContractCip68Oneshot
}

// ErrInvalidIntent is wrapped with ErrValidationFailed for nil intents
var ErrInvalidIntent = errors.New("invalid intent")

// Intent is a user request. It is one of Transfer, Lock, Unlock, Mint,
// Update or Burn.
type Intent interface {
	isIntent()
	// Kind returns the intent name used in logs and metrics
	Kind() string
}

// Transfer pays lovelace to an address
type Transfer struct {
	To       string
	Lovelace *big.Int
}

// Lock locks lovelace at a contract. Secret is used by CheckRedeemer and
// Beneficiary by Admin.
type Lock struct {
	Contract    Contract
	Lovelace    *big.Int
	Secret      string
	Beneficiary string
}

// Unlock spends the wallet's locks at a contract. Secret is used by
// CheckRedeemer and Sender (the address that locked the funds) by Admin.
type Unlock struct {
	Contract Contract
	Secret   string
	Sender   string
}

// Mint mints a CIP-68 reference/user token pair
type Mint struct {
	Contract Contract
	Name     string
	Image    string
	Label    asset.Label
	Quantity *big.Int
}

// Update rewrites the metadata of the pair minted earlier in the session
type Update struct {
	Contract Contract
	Name     string
	Image    string
}

// Burn destroys the pair minted earlier in the session
type Burn struct {
	Contract Contract
}

func (Transfer) isIntent() {}
func (Lock) isIntent()     {}
func (Unlock) isIntent()   {}
func (Mint) isIntent()     {}
func (Update) isIntent()   {}
func (Burn) isIntent()     {}

func (Transfer) Kind() string { return "transfer" }
func (Lock) Kind() string     { return "lock" }
func (Unlock) Kind() string   { return "unlock" }
func (Mint) Kind() string     { return "mint" }
func (Update) Kind() string   { return "update" }
func (Burn) Kind() string     { return "burn" }

// normalize dereferences pointer intents, rejecting nil ones
func normalize(intent Intent) (Intent, error) {
	switch i := intent.(type) {
	case nil:
	case *Transfer:
		if i != nil {
			return *i, nil
		}
	case *Lock:
		if i != nil {
			return *i, nil
		}
	case *Unlock:
		if i != nil {
			return *i, nil
		}
	case *Mint:
		if i != nil {
			return *i, nil
		}
	case *Update:
		if i != nil {
			return *i, nil
		}
	case *Burn:
		if i != nil {
			return *i, nil
		}
	default:
		return intent, nil
	}
	return nil, fmt.Errorf("%w: %w: nil %T", ErrValidationFailed, ErrInvalidIntent, intent)
}
