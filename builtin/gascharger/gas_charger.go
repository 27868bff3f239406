// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vechain/tokenstake/thor"
)

// GasUser is the frame gas is taken from, usually an *xenv.Environment.
type GasUser interface {
	UseGas(gas uint64)
}

type Charger struct {
	env            GasUser
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	logOps         uint64
	customGas      uint64
	totalGas       uint64
}

// New creates a charger. A nil env only accounts for the gas.
func New(env GasUser) *Charger {
	return &Charger{
		env: env,
	}
}

func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	case gas == 0:
	case gas%thor.SstoreSetGas == 0:
		c.sstoreSetOps += gas / thor.SstoreSetGas
	case gas%thor.SstoreResetGas == 0:
		c.sstoreResetOps += gas / thor.SstoreResetGas
	case gas%thor.SloadGas == 0:
		c.sloadOps += gas / thor.SloadGas
	case gas == thor.LogGas:
		c.logOps++
	default:
		// Unknown/custom gas amount
		c.customGas += gas
	}

	if c.env != nil {
		c.env.UseGas(gas)
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | LOG: %d ops | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*thor.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*thor.SstoreResetGas,
		c.logOps,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
