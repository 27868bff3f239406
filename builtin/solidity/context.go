// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
)

// Context binds storage wrappers to the account owning the storage.
type Context struct {
	address thor.Address
	state   *state.State
	charger *gascharger.Charger
}

func NewContext(address thor.Address, state *state.State, charger *gascharger.Charger) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger.Charge(gas)
	}
}

// chargeStore charges for a slot write, a zero to non-zero write costs the most.
func (c *Context) chargeStore(wasZero bool, slots uint64) {
	if wasZero {
		c.UseGas(slots * thor.SstoreSetGas)
	} else {
		c.UseGas(slots * thor.SstoreResetGas)
	}
}
