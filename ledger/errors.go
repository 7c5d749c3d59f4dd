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

import "errors"

var (
	ErrInvalidHash    = errors.New("invalid hash")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidUnit    = errors.New("invalid asset unit")
	ErrInvalidScript  = errors.New("invalid script")
	ErrUnknownNetwork = errors.New("unknown network")
)

// AddressTypeError is returned for address types that have no place in this
// ledger model, such as Byron, pointer and reward addresses
type AddressTypeError struct {
	Type uint8
}

func (e *AddressTypeError) Error() string {
	return "unsupported address type: " + addressTypeName(e.Type)
}

func (e *AddressTypeError) Is(target error) bool {
	return target == ErrInvalidAddress
}
