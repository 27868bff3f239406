// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tokenstake/thor"
)

// Value stores a dynamically sized value (string, slice, struct) rlp encoded in a single slot.
type Value[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewValue[V any](context *Context, pos thor.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

// Get returns the stored value, or the zero value if never set.
func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
		v.context.UseGas(toWordSize(len(raw)) * thor.SloadGas)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (v *Value[V]) Set(value V) error {
	prev, err := v.context.state.GetRawStorage(v.context.address, v.pos)
	if err != nil {
		return err
	}
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		v.context.chargeStore(len(prev) == 0, toWordSize(len(val)))
		return val, nil
	})
}
