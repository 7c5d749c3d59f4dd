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

package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/blinklabs-io/spend-showcase"
	"github.com/blinklabs-io/spend-showcase/asset"
	"github.com/blinklabs-io/spend-showcase/cmd/common"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/script"
)

type contractFlag struct {
	contract showcase.Contract
}

func (c *contractFlag) String() string {
	if c.contract == 0 {
		return ""
	}
	return c.contract.String()
}

func (c *contractFlag) Set(value string) error {
	contract, err := showcase.ParseContract(value)
	if err != nil {
		return err
	}
	c.contract = contract
	return nil
}

type amountFlag struct {
	value *big.Int
}

func (a *amountFlag) String() string {
	if a.value == nil {
		return ""
	}
	return a.value.String()
}

func (a *amountFlag) Set(value string) error {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return fmt.Errorf("invalid amount: %s", value)
	}
	a.value = v
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
}

func requireContract(fs *flag.FlagSet, c *contractFlag) {
	if c.contract == 0 {
		fmt.Printf("You must specify -contract\n\n")
		fs.PrintDefaults()
		os.Exit(1)
	}
}

func transferIntent(args []string) showcase.Intent {
	fs := newFlagSet("transfer")
	to := fs.String("to", "", "destination address")
	var lovelace amountFlag
	fs.Var(&lovelace, "lovelace", "amount to send")
	parse(fs, args)
	return showcase.Transfer{To: *to, Lovelace: lovelace.value}
}

func lockIntent(args []string) showcase.Intent {
	fs := newFlagSet("lock")
	var contract contractFlag
	var lovelace amountFlag
	fs.Var(&contract, "contract", "contract to lock funds at")
	fs.Var(&lovelace, "lovelace", "amount to lock")
	secret := fs.String("secret", "", "secret for check-redeemer")
	beneficiary := fs.String("beneficiary", "", "beneficiary address for admin")
	parse(fs, args)
	requireContract(fs, &contract)
	return showcase.Lock{
		Contract:    contract.contract,
		Lovelace:    lovelace.value,
		Secret:      *secret,
		Beneficiary: *beneficiary,
	}
}

func unlockIntent(args []string) showcase.Intent {
	fs := newFlagSet("unlock")
	var contract contractFlag
	fs.Var(&contract, "contract", "contract to unlock funds from")
	secret := fs.String("secret", "", "secret for check-redeemer")
	sender := fs.String("sender", "", "address of the admin that locked the funds")
	parse(fs, args)
	requireContract(fs, &contract)
	return showcase.Unlock{Contract: contract.contract, Secret: *secret, Sender: *sender}
}

func mintIntent(args []string) showcase.Intent {
	fs := newFlagSet("mint")
	var contract contractFlag
	var quantity amountFlag
	fs.Var(&contract, "contract", "cip68 or cip68-oneshot")
	fs.Var(&quantity, "quantity", "user token quantity for labels 333 and 444")
	name := fs.String("name", "", "token name")
	image := fs.String("image", "", "image URL")
	label := fs.Uint("label", uint(asset.LabelNFT), "user token label (222, 333 or 444)")
	parse(fs, args)
	requireContract(fs, &contract)
	return showcase.Mint{
		Contract: contract.contract,
		Name:     *name,
		Image:    *image,
		// #nosec G115
		Label:    asset.Label(*label),
		Quantity: quantity.value,
	}
}

func updateIntent(args []string) showcase.Intent {
	fs := newFlagSet("update")
	var contract contractFlag
	fs.Var(&contract, "contract", "cip68 or cip68-oneshot")
	name := fs.String("name", "", "new token name")
	image := fs.String("image", "", "new image URL")
	parse(fs, args)
	requireContract(fs, &contract)
	return showcase.Update{Contract: contract.contract, Name: *name, Image: *image}
}

func burnIntent(args []string) showcase.Intent {
	fs := newFlagSet("burn")
	var contract contractFlag
	fs.Var(&contract, "contract", "cip68 or cip68-oneshot")
	parse(fs, args)
	requireContract(fs, &contract)
	return showcase.Burn{Contract: contract.contract}
}

func showAddress(env *common.Env, args []string) {
	fs := newFlagSet("address")
	var contract contractFlag
	fs.Var(&contract, "contract", "contract to resolve")
	owner := fs.String("owner", "", "owner address for parameterised contracts (defaults to the wallet)")
	nonce := fs.String("nonce", "", "nonce out-ref (txhash#index) for cip68-oneshot")
	parse(fs, args)
	requireContract(fs, &contract)

	ownerHash := env.Wallet.PaymentKeyHash()
	if *owner != "" {
		addr, err := ledger.NewAddress(*owner)
		if err != nil {
			fmt.Printf("Invalid owner address: %s\n", err)
			os.Exit(1)
		}
		if ownerHash, err = addr.PaymentKeyHash(); err != nil {
			fmt.Printf("Invalid owner address: %s\n", err)
			os.Exit(1)
		}
	}
	var params []script.Param
	switch contract.contract {
	case showcase.ContractScWallet, showcase.ContractReceipts, showcase.ContractAdmin:
		params = append(params, script.KeyHash(ownerHash))
	case showcase.ContractCip68Oneshot:
		if *nonce == "" {
			fmt.Printf("You must specify -nonce for %s\n", contract.contract)
			os.Exit(1)
		}
		ref, err := ledger.ParseTransactionInput(*nonce)
		if err != nil {
			fmt.Printf("Invalid nonce: %s\n", err)
			os.Exit(1)
		}
		params = append(params, script.OutRef(ref))
	}
	resolved, err := env.Showcase.Resolve(contract.contract, params...)
	if err != nil {
		fmt.Printf("Failed to resolve %s: %s\n", contract.contract, err)
		os.Exit(1)
	}
	fmt.Printf("address:   %s\n", resolved.Address.String())
	fmt.Printf("policy id: %s\n", resolved.PolicyId().String())
}
