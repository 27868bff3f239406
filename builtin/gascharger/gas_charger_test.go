// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/tokenstake/thor"
)

type counter uint64

func (c *counter) UseGas(gas uint64) { *c += counter(gas) }

func TestCharger(t *testing.T) {
	var used counter
	c := New(&used)

	c.Charge(thor.SloadGas * 2)
	c.Charge(thor.SstoreSetGas)
	c.Charge(thor.SstoreResetGas)
	c.Charge(7)

	want := thor.SloadGas*2 + thor.SstoreSetGas + thor.SstoreResetGas + 7
	assert.Equal(t, want, c.TotalGas())
	assert.Equal(t, want, uint64(used))
	assert.Contains(t, c.Breakdown(), "SLOAD: 2 ops")
	assert.Contains(t, c.Breakdown(), "CUSTOM: 7 gas")
}

func TestNilEnv(t *testing.T) {
	c := New(nil)
	c.Charge(thor.SloadGas)
	assert.Equal(t, thor.SloadGas, c.TotalGas())
}
