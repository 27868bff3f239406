// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	errorString, _ = ethabi.NewType("string", "", nil)
	errorArgs      = ethabi.Arguments{{Type: errorString}}
	errorSelector  = crypto.Keccak256([]byte("Error(string)"))[:4]
)

// PackRevert encodes the reason as Error(string) revert data.
func PackRevert(reason string) []byte {
	data, _ := errorArgs.Pack(reason)
	return append(append([]byte{}, errorSelector...), data...)
}

// UnpackRevert resolves the revert reason from revert data.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
