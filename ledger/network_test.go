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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkByName(t *testing.T) {
	for _, name := range []string{"mainnet", "preprod", "preview"} {
		network, err := NetworkByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, network.String())
	}
	_, err := NetworkByName("sanchonet")
	assert.ErrorIs(t, err, ErrUnknownNetwork)
	network, err := NetworkByNetworkMagic(2)
	require.NoError(t, err)
	assert.Equal(t, NetworkPreview, network)
}

func TestTimeToSlot(t *testing.T) {
	slot, err := NetworkPreview.TimeToSlot(time.Unix(1666656000+1000, 500_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), slot)

	slot, err = NetworkPreprod.TimeToSlot(time.UnixMilli(1655769600000 + 10_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(86410), slot)

	start, err := NetworkPreview.SlotToTime(42)
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1666656000000+42_000), start)

	_, err = NetworkPreview.TimeToSlot(time.Unix(0, 0))
	assert.Error(t, err)
	_, err = NetworkInvalid.TimeToSlot(time.Now())
	assert.Error(t, err)
}

func TestSlotToTimeBeforeStart(t *testing.T) {
	start, err := NetworkPreprod.SlotToTime(86400)
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1655769600000), start)

	_, err = NetworkPreprod.SlotToTime(86399)
	assert.Error(t, err)
	_, err = NetworkMainnet.SlotToTime(0)
	assert.Error(t, err)
	_, err = NetworkInvalid.SlotToTime(0)
	assert.Error(t, err)
}
