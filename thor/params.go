// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"github.com/ethereum/go-ethereum/params"
)

// Constants of the local execution environment.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	TxGas                     uint64 = 5000
	ClauseGas                 uint64 = params.TxGas - TxGas
	ClauseGasContractCreation uint64 = params.TxGasContractCreation - TxGas

	TxDataZeroGas    uint64 = params.TxDataZeroGas
	TxDataNonZeroGas uint64 = params.TxDataNonZeroGasFrontier

	DefaultClauseGasLimit uint64 = 10 * 1000 * 1000

	SloadGas       uint64 = params.SloadGasEIP2200 // 800
	SstoreSetGas   uint64 = params.SstoreSetGas
	SstoreResetGas uint64 = params.SstoreResetGas
	CallGas        uint64 = params.CallGasEIP150

	LogGas      uint64 = params.LogGas
	LogTopicGas uint64 = params.LogTopicGas
	LogDataGas  uint64 = params.LogDataGas

	SecondsPerDay uint64 = 24 * 60 * 60
)
