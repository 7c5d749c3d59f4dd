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

package ledger

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/blinklabs-io/spend-showcase/cbor"
)

const (
	AddressHeaderTypeMask    = 0xF0
	AddressHeaderNetworkMask = 0x0F
	AddressHashSize          = 28

	AddressNetworkTestnet = 0
	AddressNetworkMainnet = 1

	AddressTypeKeyKey       = 0b0000
	AddressTypeScriptKey    = 0b0001
	AddressTypeKeyScript    = 0b0010
	AddressTypeScriptScript = 0b0011
	AddressTypeKeyNone      = 0b0110
	AddressTypeScriptNone   = 0b0111
)

// CredentialKind identifies whether a credential is a key hash or a script hash
type CredentialKind uint8

const (
	CredentialKey CredentialKind = iota
	CredentialScript
)

// Credential is a payment or staking credential
type Credential struct {
	Kind CredentialKind
	Hash Blake2b224
}

// Address is a Shelley base or enterprise address
type Address struct {
	networkId uint8
	payment   Credential
	staking   *Credential
}

// NewAddress returns an Address based on the provided bech32 address string
func NewAddress(addr string) (Address, error) {
	_, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return NewAddressFromBytes(decoded)
}

// NewAddressFromBytes returns an Address based on the raw bytes provided
func NewAddressFromBytes(addrBytes []byte) (Address, error) {
	var ret Address
	if err := ret.populateFromBytes(addrBytes); err != nil {
		return Address{}, err
	}
	return ret, nil
}

// NewEnterpriseScriptAddress builds an address with a script payment credential and no staking part
func NewEnterpriseScriptAddress(networkId uint8, scriptHash ScriptHash) Address {
	return Address{
		networkId: networkId & AddressHeaderNetworkMask,
		payment:   Credential{Kind: CredentialScript, Hash: scriptHash},
	}
}

// NewEnterpriseKeyAddress builds an address with a key payment credential and no staking part
func NewEnterpriseKeyAddress(networkId uint8, keyHash KeyHash) Address {
	return Address{
		networkId: networkId & AddressHeaderNetworkMask,
		payment:   Credential{Kind: CredentialKey, Hash: keyHash},
	}
}

func (a *Address) populateFromBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	header := data[0]
	addrType := (header & AddressHeaderTypeMask) >> 4
	a.networkId = header & AddressHeaderNetworkMask
	payload := data[1:]
	switch addrType {
	case AddressTypeKeyKey, AddressTypeKeyScript, AddressTypeKeyNone:
		a.payment.Kind = CredentialKey
	case AddressTypeScriptKey, AddressTypeScriptScript, AddressTypeScriptNone:
		a.payment.Kind = CredentialScript
	default:
		return &AddressTypeError{Type: addrType}
	}
	if len(payload) < AddressHashSize {
		return fmt.Errorf("%w: payment hash too small", ErrInvalidAddress)
	}
	a.payment.Hash = NewBlake2b224(payload[:AddressHashSize])
	payload = payload[AddressHashSize:]
	a.staking = nil
	switch addrType {
	case AddressTypeKeyKey, AddressTypeScriptKey:
		a.staking = &Credential{Kind: CredentialKey}
	case AddressTypeKeyScript, AddressTypeScriptScript:
		a.staking = &Credential{Kind: CredentialScript}
	}
	if a.staking != nil {
		if len(payload) < AddressHashSize {
			return fmt.Errorf("%w: staking hash too small", ErrInvalidAddress)
		}
		a.staking.Hash = NewBlake2b224(payload[:AddressHashSize])
		payload = payload[AddressHashSize:]
	}
	if len(payload) > 0 {
		return fmt.Errorf(
			"%w: %d unexpected trailing bytes",
			ErrInvalidAddress,
			len(payload),
		)
	}
	return nil
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if _, err := cbor.Decode(data, &raw); err != nil {
		return err
	}
	return a.populateFromBytes(raw)
}

func (a Address) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(a.Bytes())
}

func (a Address) NetworkId() uint8 {
	return a.networkId
}

// Type returns the address type from the header nibble
func (a Address) Type() uint8 {
	var ret uint8
	if a.payment.Kind == CredentialScript {
		ret |= 0b0001
	}
	switch {
	case a.staking == nil:
		ret |= 0b0110
	case a.staking.Kind == CredentialScript:
		ret |= 0b0010
	}
	return ret
}

// Payment returns the payment credential
func (a Address) Payment() Credential {
	return a.payment
}

// Staking returns the staking credential or nil for enterprise addresses
func (a Address) Staking() *Credential {
	return a.staking
}

// IsScript reports whether the payment part is locked by a script
func (a Address) IsScript() bool {
	return a.payment.Kind == CredentialScript
}

// PaymentKeyHash returns the payment key hash, failing for script addresses
func (a Address) PaymentKeyHash() (KeyHash, error) {
	if a.payment.Kind != CredentialKey {
		return KeyHash{}, fmt.Errorf(
			"%w: payment credential is not a key hash",
			ErrInvalidAddress,
		)
	}
	return a.payment.Hash, nil
}

// PaymentScriptHash returns the payment script hash, failing for key addresses
func (a Address) PaymentScriptHash() (ScriptHash, error) {
	if a.payment.Kind != CredentialScript {
		return ScriptHash{}, fmt.Errorf(
			"%w: payment credential is not a script hash",
			ErrInvalidAddress,
		)
	}
	return a.payment.Hash, nil
}

func (a Address) generateHRP() string {
	if a.networkId != AddressNetworkMainnet {
		return "addr_test"
	}
	return "addr"
}

// Bytes returns the underlying bytes for the address
func (a Address) Bytes() []byte {
	buf := bytes.NewBuffer(nil)
	header := (a.Type() << 4) | (a.networkId & AddressHeaderNetworkMask)
	buf.WriteByte(header)
	buf.Write(a.payment.Hash.Bytes())
	if a.staking != nil {
		buf.Write(a.staking.Hash.Bytes())
	}
	return buf.Bytes()
}

// String returns the bech32-encoded version of the address
func (a Address) String() string {
	convData, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		panic(fmt.Sprintf("unexpected error converting data to base32: %s", err))
	}
	encoded, err := bech32.Encode(a.generateHRP(), convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// Equal reports whether both addresses have the same bytes
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a.Bytes(), other.Bytes())
}

func addressTypeName(t uint8) string {
	switch t {
	case 0b0100, 0b0101:
		return "pointer"
	case 0b1000:
		return "byron"
	case 0b1110, 0b1111:
		return "reward"
	}
	return strconv.Itoa(int(t))
}
