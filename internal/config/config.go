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

// Package config loads the spend-showcase settings from defaults, an
// optional YAML file and SHOWCASE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/blinklabs-io/spend-showcase/ledger"
)

const EnvPrefix = "SHOWCASE"

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendBadger = "badger"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Network string        `yaml:"network"  envconfig:"NETWORK"`
	Koios   KoiosConfig   `yaml:"koios"    envconfig:"KOIOS"`
	Wallet  WalletConfig  `yaml:"wallet"   envconfig:"WALLET"`
	Scripts ScriptsConfig `yaml:"scripts"  envconfig:"SCRIPTS"`
	Session SessionConfig `yaml:"session"  envconfig:"SESSION"`
	Logging LoggingConfig `yaml:"logging"  envconfig:"LOGGING"`
}

type KoiosConfig struct {
	BaseURL string        `yaml:"baseUrl" envconfig:"BASE_URL"`
	Token   string        `yaml:"token"   envconfig:"TOKEN"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

type WalletConfig struct {
	// Path to a cardano-cli payment signing key envelope
	SigningKeyFile string `yaml:"signingKeyFile" envconfig:"SIGNING_KEY_FILE"`
}

type ScriptsConfig struct {
	Blueprint string `yaml:"blueprint" envconfig:"BLUEPRINT"`
	// Validator title per contract name
	Validators map[string]string `yaml:"validators" envconfig:"VALIDATORS"`
}

type SessionConfig struct {
	Backend   string `yaml:"backend"   envconfig:"BACKEND"`
	Dir       string `yaml:"dir"       envconfig:"DIR"`
	Namespace string `yaml:"namespace" envconfig:"NAMESPACE"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"  envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// DefaultValidators maps contract names to the validator titles of the
// bundled blueprint
var DefaultValidators = map[string]string{
	"check-datum":    "check_datum.check_datum.spend",
	"check-redeemer": "check_redeemer.check_redeemer.spend",
	"sc-wallet":      "sc_wallet.sc_wallet.spend",
	"receipts":       "receipts.receipts.mint",
	"admin":          "admin.admin.spend",
	"cip68":          "cip68.cip68.mint",
	"cip68-oneshot":  "cip68_oneshot.cip68_oneshot.mint",
}

// Default returns the built-in settings
func Default() *Config {
	validators := make(map[string]string, len(DefaultValidators))
	for k, v := range DefaultValidators {
		validators[k] = v
	}
	return &Config{
		Network: ledger.NetworkPreview.Name,
		Koios: KoiosConfig{
			Timeout: 30 * time.Second,
		},
		Scripts: ScriptsConfig{
			Blueprint:  "plutus.json",
			Validators: validators,
		},
		Session: SessionConfig{
			Backend: SessionBackendMemory,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers the config file, if any, and the environment over the defaults
func Load(configFile string) (*Config, error) {
	cfg := Default()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings, naming the first offending field
func (c *Config) Validate() error {
	if _, err := ledger.NetworkByName(c.Network); err != nil {
		return fmt.Errorf("%w: network: %w", ErrInvalidConfig, err)
	}
	if c.Koios.Timeout <= 0 {
		return fmt.Errorf("%w: koios.timeout must be positive", ErrInvalidConfig)
	}
	switch c.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendBadger:
		if c.Session.Dir == "" {
			return fmt.Errorf("%w: session.dir is required for the badger backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: session.backend: unknown backend %q", ErrInvalidConfig, c.Session.Backend)
	}
	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: logging.level: unknown level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format: unknown format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// NetworkInfo returns the configured network
func (c *Config) NetworkInfo() ledger.Network {
	// Validated on load
	network, _ := ledger.NetworkByName(c.Network)
	return network
}
