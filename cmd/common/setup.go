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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/spend-showcase"
	"github.com/blinklabs-io/spend-showcase/internal/config"
	"github.com/blinklabs-io/spend-showcase/internal/logging"
	"github.com/blinklabs-io/spend-showcase/provider/koios"
	"github.com/blinklabs-io/spend-showcase/script"
	"github.com/blinklabs-io/spend-showcase/session"
	"github.com/blinklabs-io/spend-showcase/wallet"
)

// Env holds everything a subcommand needs. Close releases it.
type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Wallet   *wallet.KeySigner
	Showcase *showcase.Showcase
	closers  []func() error
}

func (e *Env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.Logger.Warn("failed to release resource", "error", err)
		}
	}
}

// NewEnv wires the Koios client, wallet, script templates and session store
func NewEnv(cfg *config.Config) (*Env, error) {
	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Wallet.SigningKeyFile == "" {
		return nil, errors.New("no signing key file configured")
	}
	w, err := wallet.LoadKeyFile(cfg.Wallet.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	env := &Env{Config: cfg, Logger: logger, Wallet: w}
	network := cfg.NetworkInfo()
	clientOpts := []koios.ClientOptionFunc{
		koios.WithTimeout(cfg.Koios.Timeout),
		koios.WithLogger(logger),
	}
	if cfg.Koios.BaseURL != "" {
		clientOpts = append(clientOpts, koios.WithBaseURL(cfg.Koios.BaseURL))
	}
	if cfg.Koios.Token != "" {
		clientOpts = append(clientOpts, koios.WithToken(cfg.Koios.Token))
	}
	client, err := koios.NewClient(network, clientOpts...)
	if err != nil {
		return nil, err
	}
	env.closers = append(env.closers, func() error {
		client.Close()
		return nil
	})
	templates, err := loadTemplates(cfg.Scripts, logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	var registry session.Registry = session.NewMemoryRegistry()
	if cfg.Session.Backend == config.SessionBackendBadger {
		badgerRegistry, err := session.NewBadgerRegistry(cfg.Session.Dir)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		env.closers = append(env.closers, badgerRegistry.Close)
		registry = badgerRegistry
	}
	// One session per wallet unless configured otherwise
	namespace := cfg.Session.Namespace
	if namespace == "" {
		namespace = w.Address(network).String()
	}
	env.Showcase, err = showcase.New(
		showcase.WithNetwork(network),
		showcase.WithChain(client),
		showcase.WithSigner(w),
		showcase.WithRegistry(registry),
		showcase.WithScope(namespace),
		showcase.WithTemplates(templates),
		showcase.WithLogger(logger),
	)
	if err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func loadTemplates(cfg config.ScriptsConfig, logger *slog.Logger) (map[showcase.Contract]script.Template, error) {
	ret := map[showcase.Contract]script.Template{}
	if cfg.Blueprint == "" {
		return ret, nil
	}
	bp, err := script.LoadBlueprint(cfg.Blueprint)
	if err != nil {
		return nil, err
	}
	for name, title := range cfg.Validators {
		contract, err := showcase.ParseContract(name)
		if err != nil {
			return nil, fmt.Errorf("scripts.validators: %w", err)
		}
		tmpl, err := bp.Template(title)
		if err != nil {
			logger.Warn("contract unavailable", "contract", name, "error", err)
			continue
		}
		ret[contract] = tmpl
	}
	return ret, nil
}
