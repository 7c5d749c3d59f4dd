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
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/script"
	"github.com/blinklabs-io/spend-showcase/session"
	"github.com/blinklabs-io/spend-showcase/tx"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

// OptionFunc configures a Showcase
type OptionFunc func(*Showcase)

func WithNetwork(network ledger.Network) OptionFunc {
	return func(s *Showcase) {
		s.network = network
	}
}

// WithChain sets the UTxO query provider. If it also implements
// tx.ParamsProvider, tx.Submitter, tx.Evaluator or ScriptLookup it is used
// for those roles unless they are set explicitly.
func WithChain(chain utxo.Provider) OptionFunc {
	return func(s *Showcase) {
		s.chain = chain
	}
}

func WithScriptLookup(scripts ScriptLookup) OptionFunc {
	return func(s *Showcase) {
		s.scripts = scripts
	}
}

func WithFinalizer(finalizer tx.Finalizer) OptionFunc {
	return func(s *Showcase) {
		s.finalizer = finalizer
	}
}

func WithSigner(signer Wallet) OptionFunc {
	return func(s *Showcase) {
		s.signer = signer
	}
}

func WithSubmitter(submitter tx.Submitter) OptionFunc {
	return func(s *Showcase) {
		s.submitter = submitter
	}
}

// WithRegistry sets the session registry. The default keeps links in memory.
func WithRegistry(registry session.Registry) OptionFunc {
	return func(s *Showcase) {
		s.registry = registry
	}
}

// WithScope sets the session namespace. The default is a random name.
func WithScope(name string) OptionFunc {
	return func(s *Showcase) {
		s.scopeName = name
	}
}

func WithTemplates(templates map[Contract]script.Template) OptionFunc {
	return func(s *Showcase) {
		for contract, template := range templates {
			s.templates[contract] = template
		}
	}
}

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(s *Showcase) {
		s.logger = logger
	}
}

// WithPrometheusRegistry sets where intent metrics are registered
func WithPrometheusRegistry(reg prometheus.Registerer) OptionFunc {
	return func(s *Showcase) {
		s.promRegistry = reg
	}
}

// WithClock overrides the time source used for validity intervals
func WithClock(now func() time.Time) OptionFunc {
	return func(s *Showcase) {
		s.now = now
	}
}
