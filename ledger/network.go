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
	"fmt"
	"time"
)

// SlotConfig maps wall-clock time to slots for a network
type SlotConfig struct {
	// Unix time in milliseconds of ZeroSlot
	ZeroTime int64
	ZeroSlot uint64
	// Slot length in milliseconds
	SlotLength int64
}

// Network definitions
var (
	NetworkMainnet = Network{
		Id:           AddressNetworkMainnet,
		Name:         "mainnet",
		NetworkMagic: 764824073,
		SlotConfig: SlotConfig{
			ZeroTime:   1596059091000,
			ZeroSlot:   4492800,
			SlotLength: 1000,
		},
	}
	NetworkPreprod = Network{
		Id:           AddressNetworkTestnet,
		Name:         "preprod",
		NetworkMagic: 1,
		SlotConfig: SlotConfig{
			ZeroTime:   1655769600000,
			ZeroSlot:   86400,
			SlotLength: 1000,
		},
	}
	NetworkPreview = Network{
		Id:           AddressNetworkTestnet,
		Name:         "preview",
		NetworkMagic: 2,
		SlotConfig: SlotConfig{
			ZeroTime:   1666656000000,
			ZeroSlot:   0,
			SlotLength: 1000,
		},
	}

	NetworkInvalid = Network{
		Id:           0,
		Name:         "invalid",
		NetworkMagic: 0,
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkPreprod,
	NetworkPreview,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) (Network, error) {
	for _, network := range networks {
		if network.Name == name {
			return network, nil
		}
	}
	return NetworkInvalid, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
}

// NetworkByNetworkMagic returns a predefined network by network magic
func NetworkByNetworkMagic(networkMagic uint32) (Network, error) {
	for _, network := range networks {
		if network.NetworkMagic == networkMagic {
			return network, nil
		}
	}
	return NetworkInvalid, fmt.Errorf("%w: magic %d", ErrUnknownNetwork, networkMagic)
}

// Network represents a Cardano network
type Network struct {
	Id           uint8 // network ID used for addresses
	Name         string
	NetworkMagic uint32
	SlotConfig   SlotConfig
}

func (n Network) String() string {
	return n.Name
}

// TimeToSlot converts a wall-clock time to the slot containing it
func (n Network) TimeToSlot(t time.Time) (uint64, error) {
	cfg := n.SlotConfig
	if cfg.SlotLength <= 0 {
		return 0, fmt.Errorf("network %s has no slot config", n.Name)
	}
	ms := t.UnixMilli()
	if ms < cfg.ZeroTime {
		return 0, fmt.Errorf(
			"time %s is before the start of network %s",
			t.UTC().Format(time.RFC3339),
			n.Name,
		)
	}
	// #nosec G115
	return cfg.ZeroSlot + uint64((ms-cfg.ZeroTime)/cfg.SlotLength), nil
}

// SlotToTime converts a slot to the wall-clock time at its start
func (n Network) SlotToTime(slot uint64) (time.Time, error) {
	cfg := n.SlotConfig
	if cfg.SlotLength <= 0 {
		return time.Time{}, fmt.Errorf("network %s has no slot config", n.Name)
	}
	if slot < cfg.ZeroSlot {
		return time.Time{}, fmt.Errorf(
			"slot %d is before slot %d where network %s starts",
			slot,
			cfg.ZeroSlot,
			n.Name,
		)
	}
	// #nosec G115
	return time.UnixMilli(
		cfg.ZeroTime + int64(slot-cfg.ZeroSlot)*cfg.SlotLength,
	), nil
}
