// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/tokenstake/thor"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	// gas used by this tx
	GasUsed uint64
	// if the tx reverted
	Reverted bool
	// outputs of clauses in tx, nil when reverted
	Outputs []*Output
}

// Output output of clause execution.
type Output struct {
	// address of the contract created by the clause
	ContractAddress *thor.Address
	// events produced by the clause
	Events Events
}
