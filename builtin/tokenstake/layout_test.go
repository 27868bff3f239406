// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokenstake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/tokenstake/thor"
)

func TestLayoutV1ToV2Compatible(t *testing.T) {
	assert.NoError(t, CheckCompatible(LayoutV1, LayoutV2))

	for _, f := range LayoutV1.Fields {
		assert.Equal(t, LayoutV1.Slot(f.Name), LayoutV2.Slot(f.Name), f.Name)
	}
	assert.False(t, LayoutV1.Has("maxStakingVolume"))
	assert.True(t, LayoutV2.Has("maxStakingVolume"))
	assert.Equal(t, thor.BytesToBytes32([]byte{12}), LayoutV2.Slot("maxStakingVolume"))
	assert.Equal(t, thor.BytesToBytes32([]byte{13}), LayoutV2.Slot("maxIndividualStakingVolume"))
}

func TestLayoutIncompatible(t *testing.T) {
	removed := Layout{Version: 2, Fields: LayoutV1.Fields[:len(LayoutV1.Fields)-1]}
	assert.Error(t, CheckCompatible(LayoutV1, removed))

	reordered := LayoutV1.Extend(2)
	reordered.Fields[4], reordered.Fields[5] = reordered.Fields[5], reordered.Fields[4]
	assert.Error(t, CheckCompatible(LayoutV1, reordered))

	renamed := LayoutV1.Extend(2)
	renamed.Fields[1] = Field{"owner", "address"}
	assert.Error(t, CheckCompatible(LayoutV1, renamed))

	retyped := LayoutV1.Extend(2)
	retyped.Fields[6] = Field{"rewardRatioBasisPoints", "uint64"}
	assert.Error(t, CheckCompatible(LayoutV1, retyped))

	inserted := Layout{Version: 2, Fields: append([]Field{{"paused", "bool"}}, LayoutV1.Fields...)}
	assert.Error(t, CheckCompatible(LayoutV1, inserted))

	assert.Error(t, CheckCompatible(LayoutV2, LayoutV1), "downgrade")
	assert.Error(t, CheckCompatible(LayoutV1, LayoutV1.Extend(2, Field{"trustee", "address"})), "duplicate")
}

func TestSlotPanicsOnUnknownField(t *testing.T) {
	assert.Panics(t, func() { LayoutV1.Slot("maxStakingVolume") })
}
