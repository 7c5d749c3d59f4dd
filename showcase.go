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

// Package showcase turns user intents into signed, submitted Cardano
// transactions against the showcase validators.
package showcase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/script"
	"github.com/blinklabs-io/spend-showcase/session"
	"github.com/blinklabs-io/spend-showcase/tx"
	"github.com/blinklabs-io/spend-showcase/utxo"
)

// ScriptLookup fetches a script by hash from an indexer
type ScriptLookup interface {
	ScriptBytes(ctx context.Context, hash ledger.ScriptHash) (ledger.PlutusV3Script, error)
}

// Wallet signs transactions for a single payment key
type Wallet interface {
	tx.Signer
	PaymentKeyHash() ledger.KeyHash
}

// Showcase runs intents. One intent runs to completion before Run returns.
type Showcase struct {
	network      ledger.Network
	chain        utxo.Provider
	selector     *utxo.Selector
	scripts      ScriptLookup
	finalizer    tx.Finalizer
	signer       Wallet
	submitter    tx.Submitter
	registry     session.Registry
	scopeName    string
	scope        *session.Scope
	templates    map[Contract]script.Template
	logger       *slog.Logger
	promRegistry prometheus.Registerer
	metrics      *metrics
	now          func() time.Time
}

func New(opts ...OptionFunc) (*Showcase, error) {
	s := &Showcase{
		templates: map[Contract]script.Template{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.network.Name == "" {
		return nil, errors.New("no network configured")
	}
	if s.chain == nil {
		return nil, errors.New("no chain provider configured")
	}
	if s.signer == nil {
		return nil, errors.New("no signer configured")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "showcase")
	if s.now == nil {
		s.now = time.Now
	}
	s.selector = utxo.NewSelector(s.chain)
	if s.scripts == nil {
		if lookup, ok := s.chain.(ScriptLookup); ok {
			s.scripts = lookup
		}
	}
	if s.submitter == nil {
		submitter, ok := s.chain.(tx.Submitter)
		if !ok {
			return nil, errors.New("no submitter configured")
		}
		s.submitter = submitter
	}
	if s.finalizer == nil {
		finalizer, err := s.defaultFinalizer()
		if err != nil {
			return nil, err
		}
		s.finalizer = finalizer
	}
	if s.registry == nil {
		s.registry = session.NewMemoryRegistry()
	}
	if s.scopeName == "" {
		s.scopeName = session.NewScopeName()
	}
	s.scope = session.NewScope(s.scopeName, s.registry)
	if s.promRegistry == nil {
		s.promRegistry = prometheus.NewRegistry()
	}
	m, err := newMetrics(s.promRegistry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	s.metrics = m
	return s, nil
}

func (s *Showcase) defaultFinalizer() (tx.Finalizer, error) {
	params, ok := s.chain.(tx.ParamsProvider)
	if !ok {
		return nil, errors.New("no finalizer configured and chain does not provide protocol parameters")
	}
	opts := []tx.BalancerOptionFunc{
		tx.WithBalancerNetwork(s.network),
		tx.WithParamsProvider(params),
		tx.WithWallet(s.chain, s.WalletAddress()),
		tx.WithBalancerLogger(s.logger),
	}
	if evaluator, ok := s.chain.(tx.Evaluator); ok {
		opts = append(opts, tx.WithEvaluator(evaluator))
	}
	return tx.NewBalancer(opts...)
}

// WalletAddress returns the enterprise address of the signing key
func (s *Showcase) WalletAddress() ledger.Address {
	return ledger.NewEnterpriseKeyAddress(s.network.Id, s.signer.PaymentKeyHash())
}

// Scope returns the session scope holding the mint link
func (s *Showcase) Scope() *session.Scope {
	return s.scope
}

// Run builds, signs and submits the intent and returns the transaction ID.
// Errors match one of the Err*Failed kinds, ErrNotFound or
// ErrEncodingMismatch.
func (s *Showcase) Run(ctx context.Context, intent Intent) (string, error) {
	intent, err := normalize(intent)
	if err != nil {
		return "", err
	}
	start := s.now()
	logger := s.logger.With("intent", intent.Kind())
	logger.Debug("handling intent")
	var txId string
	switch i := intent.(type) {
	case Transfer:
		txId, err = s.transfer(ctx, i)
	case Lock:
		txId, err = s.lock(ctx, i)
	case Unlock:
		txId, err = s.unlock(ctx, i)
	case Mint:
		txId, err = s.mint(ctx, i, logger)
	case Update:
		txId, err = s.update(ctx, i, logger)
	case Burn:
		txId, err = s.burn(ctx, i, logger)
	default:
		err = fmt.Errorf("%w: unsupported intent %T", ErrValidationFailed, intent)
	}
	s.metrics.observe(intent.Kind(), err, s.now().Sub(start))
	if err != nil {
		logger.Error("intent failed", "error", err)
		return "", err
	}
	logger.Info("intent submitted", "tx_id", txId)
	return txId, nil
}

// Handle runs the intent and reports the outcome through exactly one of the
// callbacks, exactly once
func (s *Showcase) Handle(
	ctx context.Context,
	intent Intent,
	onResult func(txId string),
	onError func(err error),
) {
	txId, err := s.Run(ctx, intent)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onResult != nil {
		onResult(txId)
	}
}

// complete finalizes, signs and submits a draft
func (s *Showcase) complete(ctx context.Context, d *tx.Draft) (string, error) {
	signable, err := s.finalizer.Finalize(ctx, d)
	if err != nil {
		return "", wrap(ErrAssemblyFailed, err)
	}
	if err := s.signer.Sign(ctx, signable); err != nil {
		return "", wrap(ErrAssemblyFailed, fmt.Errorf("sign transaction: %w", err))
	}
	txCbor, err := signable.Cbor()
	if err != nil {
		return "", wrap(ErrAssemblyFailed, err)
	}
	txId, err := s.submitter.Submit(ctx, txCbor)
	if err != nil {
		return "", wrap(ErrSubmissionFailed, err)
	}
	return txId, nil
}

// resolve applies params to the contract's template
func (s *Showcase) resolve(contract Contract, params ...script.Param) (script.Resolved, error) {
	template, ok := s.templates[contract]
	if !ok {
		return script.Resolved{}, fmt.Errorf("%w: no script template for %s", ErrPreconditionFailed, contract)
	}
	resolved, err := script.Resolve(template, s.network, params...)
	if err != nil {
		return script.Resolved{}, wrap(ErrAssemblyFailed, err)
	}
	return resolved, nil
}

// Resolve returns the script and address of a contract for the given
// parameters
func (s *Showcase) Resolve(contract Contract, params ...script.Param) (script.Resolved, error) {
	return s.resolve(contract, params...)
}
