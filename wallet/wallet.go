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

// Package wallet signs transactions with a Cardano payment signing key
// loaded from a cardano-cli text envelope.
package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"filippo.io/edwards25519"

	"github.com/blinklabs-io/spend-showcase/cbor"
	"github.com/blinklabs-io/spend-showcase/ledger"
	"github.com/blinklabs-io/spend-showcase/tx"
)

const (
	extendedKeySize = 128
	// Extended key layout: kL || kR || public key || chain code
	extendedPrivateSize = 64
)

var ErrInvalidKey = errors.New("invalid signing key")

type textEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// KeySigner signs with a normal or BIP32-extended ed25519 payment key
type KeySigner struct {
	vkey     []byte
	seed     ed25519.PrivateKey
	extended []byte
}

var _ tx.Signer = (*KeySigner)(nil)

// LoadKeyFile reads a text envelope signing key file
func LoadKeyFile(path string) (*KeySigner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	return ParseTextEnvelope(content)
}

// ParseTextEnvelope parses the JSON text envelope form of a signing key
func ParseTextEnvelope(content []byte) (*KeySigner, error) {
	var env textEnvelope
	if err := json.Unmarshal(content, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	cborData, err := hex.DecodeString(env.CborHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	raw, err := cbor.DecodeBytes(cborData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewKeySigner(raw)
}

// NewKeySigner builds a signer from a 32-byte seed or a 128-byte extended
// key
func NewKeySigner(raw []byte) (*KeySigner, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		key := ed25519.NewKeyFromSeed(raw)
		return &KeySigner{
			vkey: []byte(key.Public().(ed25519.PublicKey)),
			seed: key,
		}, nil
	case extendedKeySize:
		kL, err := edwards25519.NewScalar().SetBytesWithClamping(raw[:32])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		vkey := new(edwards25519.Point).ScalarBaseMult(kL).Bytes()
		return &KeySigner{
			vkey:     vkey,
			extended: append([]byte{}, raw[:extendedPrivateSize]...),
		}, nil
	}
	return nil, fmt.Errorf("%w: unexpected key length %d", ErrInvalidKey, len(raw))
}

// Vkey returns the verification key
func (k *KeySigner) Vkey() []byte {
	return k.vkey
}

func (k *KeySigner) PaymentKeyHash() ledger.KeyHash {
	return ledger.Blake2b224Hash(k.vkey)
}

// Address returns the enterprise address of the key on the network
func (k *KeySigner) Address(network ledger.Network) ledger.Address {
	return ledger.NewEnterpriseKeyAddress(network.Id, k.PaymentKeyHash())
}

// SignMessage signs an arbitrary message
func (k *KeySigner) SignMessage(msg []byte) ([]byte, error) {
	if k.seed != nil {
		return ed25519.Sign(k.seed, msg), nil
	}
	return signExtended(k.extended, k.vkey, msg)
}

// Sign adds a key witness over the transaction ID
func (k *KeySigner) Sign(_ context.Context, t *tx.Signable) error {
	txId := t.Id()
	sig, err := k.SignMessage(txId.Bytes())
	if err != nil {
		return err
	}
	t.AddVkeyWitness(k.vkey, sig)
	return nil
}

// signExtended produces an ed25519 signature from an already-expanded
// private key (kL || kR)
func signExtended(extended []byte, vkey []byte, msg []byte) ([]byte, error) {
	kL, err := edwards25519.NewScalar().SetBytesWithClamping(extended[:32])
	if err != nil {
		return nil, err
	}
	h := sha512.New()
	h.Write(extended[32:64])
	h.Write(msg)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}
	rPoint := new(edwards25519.Point).ScalarBaseMult(r).Bytes()
	h.Reset()
	h.Write(rPoint)
	h.Write(vkey)
	h.Write(msg)
	hram, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}
	s := edwards25519.NewScalar().MultiplyAdd(hram, kL, r)
	return append(rPoint, s.Bytes()...), nil
}
