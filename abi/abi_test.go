// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/builtin/gen"
	"github.com/vechain/tokenstake/thor"
)

func TestABI(t *testing.T) {
	tokenABI, err := abi.New(gen.MustABI("ValueToken"))
	require.NoError(t, err)

	transfer, found := tokenABI.MethodByName("transfer")
	require.True(t, found)
	assert.Equal(t, "transfer", transfer.Name())
	assert.Equal(t, "transfer(address,uint256)", transfer.Sig())
	assert.False(t, transfer.Const())

	var id abi.MethodID
	copy(id[:], crypto.Keccak256([]byte("transfer(address,uint256)")))
	assert.Equal(t, id, transfer.ID())

	to := common.Address{1}
	input, err := transfer.EncodeInput(to, big.NewInt(10))
	require.NoError(t, err)

	m, err := tokenABI.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, transfer, m)

	var args struct {
		To     common.Address
		Amount *big.Int
	}
	require.NoError(t, transfer.DecodeInput(input, &args))
	assert.Equal(t, to, args.To)
	assert.Equal(t, big.NewInt(10), args.Amount)

	out, err := transfer.EncodeOutput(true)
	require.NoError(t, err)
	var ok bool
	require.NoError(t, transfer.DecodeOutput(out, &ok))
	assert.True(t, ok)

	balanceOf, _ := tokenABI.MethodByName("balanceOf")
	assert.True(t, balanceOf.Const())

	_, err = tokenABI.MethodByInput([]byte{1, 2})
	assert.Error(t, err)
	_, err = tokenABI.MethodByInput([]byte{1, 2, 3, 4})
	assert.Error(t, err)
	assert.Error(t, balanceOf.DecodeInput(input, &args))
}

func TestConstructor(t *testing.T) {
	tokenABI, err := abi.New(gen.MustABI("ValueToken"))
	require.NoError(t, err)

	ctor := tokenABI.Constructor()
	assert.True(t, ctor.ID().IsEmpty())
	data, err := ctor.EncodeInput("Reward", "RWD", uint8(18), big.NewInt(1000))
	require.NoError(t, err)

	var args struct {
		Name          string
		Symbol        string
		Decimals      uint8
		InitialSupply *big.Int
	}
	require.NoError(t, ctor.DecodeInput(data, &args))
	assert.Equal(t, "RWD", args.Symbol)
	assert.Equal(t, uint8(18), args.Decimals)

	proxyABI, err := abi.New(gen.MustABI("Proxy"))
	require.NoError(t, err)
	assert.NoError(t, proxyABI.Constructor().DecodeInput(nil, nil))
}

func TestEvent(t *testing.T) {
	tokenABI, err := abi.New(gen.MustABI("ValueToken"))
	require.NoError(t, err)

	ev, found := tokenABI.EventByName("Transfer")
	require.True(t, found)
	assert.Equal(t, thor.Keccak256([]byte("Transfer(address,address,uint256)")), ev.ID())

	byID, found := tokenABI.EventByID(ev.ID())
	require.True(t, found)
	assert.Equal(t, ev, byID)

	data, err := ev.Encode(big.NewInt(42))
	require.NoError(t, err)
	var value *big.Int
	require.NoError(t, ev.Decode(data, &value))
	assert.Equal(t, big.NewInt(42), value)
}

func TestRevert(t *testing.T) {
	data := abi.PackRevert("not authorized")
	reason, err := abi.UnpackRevert(data)
	require.NoError(t, err)
	assert.Equal(t, "not authorized", reason)

	_, err = abi.UnpackRevert([]byte{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestDecodeSingleArg(t *testing.T) {
	tokenABI, err := abi.New(gen.MustABI("ValueToken"))
	require.NoError(t, err)

	balanceOf, found := tokenABI.MethodByName("balanceOf")
	require.True(t, found)

	owner := common.Address{7}
	input, err := balanceOf.EncodeInput(owner)
	require.NoError(t, err)

	var args struct {
		Owner common.Address
	}
	require.NoError(t, balanceOf.DecodeInput(input, &args))
	assert.Equal(t, owner, args.Owner)

	out, err := balanceOf.EncodeOutput(big.NewInt(99))
	require.NoError(t, err)
	var bal *big.Int
	require.NoError(t, balanceOf.DecodeOutput(out, &bal))
	assert.Equal(t, 0, bal.Cmp(big.NewInt(99)))

	assert.Error(t, balanceOf.DecodeOutput([]byte{1}, &bal))
}
