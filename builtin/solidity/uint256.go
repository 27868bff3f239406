// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/thor"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// Values out of the uint256 range are rejected with reverts.ErrOverflow.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	u.context.UseGas(thor.SloadGas)
	return u.get()
}

func (u *Uint256) get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

// CheckRange returns reverts.ErrOverflow if v does not fit in an uint256.
func CheckRange(v *big.Int) error {
	if v.Sign() < 0 {
		return reverts.ErrOverflow.WithDetail("negative result %v", v)
	}
	if v.Cmp(math.MaxBig256) > 0 {
		return reverts.ErrOverflow.WithDetail("result exceeds 256 bits")
	}
	return nil
}

func (u *Uint256) Set(value *big.Int) error {
	if err := CheckRange(value); err != nil {
		return err
	}
	prev, err := u.get()
	if err != nil {
		return err
	}
	u.context.chargeStore(prev.Sign() == 0, 1)
	u.context.state.SetStorage(u.context.address, u.pos, thor.BigToBytes32(value))
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Sub(storage, value))
}
