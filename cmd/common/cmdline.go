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

package common

import (
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/spend-showcase/internal/config"
)

type GlobalFlags struct {
	Flagset    *flag.FlagSet
	ConfigFile string
	Network    string
	KeyFile    string
	LogLevel   string
	Config     *config.Config
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.ConfigFile,
		"config",
		"",
		"path to YAML config file",
	)
	f.Flagset.StringVar(
		&f.Network,
		"network",
		"",
		"specifies network to build transactions for. this overrides the config file",
	)
	f.Flagset.StringVar(
		&f.KeyFile,
		"signing-key",
		"",
		"payment signing key file. this overrides the config file",
	)
	f.Flagset.StringVar(
		&f.LogLevel,
		"log-level",
		"",
		"log level (debug, info, warn, error)",
	)
	f.Flagset.Usage = func() {
		out := f.Flagset.Output()
		fmt.Fprintf(out, "Usage: %s [flags] <transfer|lock|unlock|mint|update|burn|address> [args]\n\n", f.Flagset.Name())
		f.Flagset.PrintDefaults()
		fmt.Fprint(out, sessionUsage)
	}
	return f
}

const sessionUsage = `
The minted CIP-68 pair is remembered for update and burn in the session
store. The default memory backend forgets it when the process exits, so
update and burn only work in a later invocation with a persistent store:

  session:
    backend: badger
    dir: /path/to/state

or SHOWCASE_SESSION_BACKEND=badger and SHOWCASE_SESSION_DIR=/path/to/state.
`

func (f *GlobalFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		fmt.Printf("failed to load config: %s\n", err)
		os.Exit(1)
	}
	if f.Network != "" {
		cfg.Network = f.Network
	}
	if f.KeyFile != "" {
		cfg.Wallet.SigningKeyFile = f.KeyFile
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %s\n", err)
		os.Exit(1)
	}
	f.Config = cfg
}
