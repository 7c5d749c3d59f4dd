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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blinklabs-io/spend-showcase"
	"github.com/blinklabs-io/spend-showcase/cmd/common"
)

func main() {
	f := common.NewGlobalFlags()
	f.Parse()

	if len(f.Flagset.Args()) == 0 {
		fmt.Printf("You must specify a subcommand (transfer, lock, unlock, mint, update, burn or address)\n")
		os.Exit(1)
	}
	env, err := common.NewEnv(f.Config)
	if err != nil {
		fmt.Printf("Setup failed: %s\n", err)
		os.Exit(1)
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := f.Flagset.Args()[1:]
	var intent showcase.Intent
	switch f.Flagset.Arg(0) {
	case "transfer":
		intent = transferIntent(args)
	case "lock":
		intent = lockIntent(args)
	case "unlock":
		intent = unlockIntent(args)
	case "mint":
		intent = mintIntent(args)
	case "update":
		intent = updateIntent(args)
	case "burn":
		intent = burnIntent(args)
	case "address":
		showAddress(env, args)
		return
	default:
		fmt.Printf("Unknown subcommand: %s\n", f.Flagset.Arg(0))
		os.Exit(1)
	}

	failed := false
	env.Showcase.Handle(
		ctx,
		intent,
		func(txId string) {
			fmt.Printf("Submitted transaction %s\n", txId)
		},
		func(err error) {
			fmt.Printf("Failed to %s: %s\n", intent.Kind(), err)
			failed = true
		},
	)
	if failed {
		stop()
		env.Close()
		os.Exit(1)
	}
}
