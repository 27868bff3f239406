// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/lvldb"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
)

const testABI = `[
	{"type":"function","name":"add","stateMutability":"pure","inputs":[{"name":"a","type":"uint256"},{"name":"b","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"poke","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"event","name":"Poked","anonymous":false,"inputs":[{"name":"who","type":"address","indexed":true},{"name":"n","type":"uint256","indexed":false}]}
]`

type fakeHost struct {
	events  []*tx.Event
	callErr error
	gasUsed uint64
}

func (h *fakeHost) AddLog(ev *tx.Event) { h.events = append(h.events, ev) }

func (h *fakeHost) Call(_, _ thor.Address, _ []byte, gas uint64) ([]byte, uint64, error) {
	return nil, gas - h.gasUsed, h.callErr
}

func newTestEnv(t *testing.T, name string, gas uint64, args ...any) (*Environment, *fakeHost) {
	contractABI, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	method, ok := contractABI.MethodByName(name)
	require.True(t, ok)
	input, err := method.EncodeInput(args...)
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	host := &fakeHost{}
	return New(method, state.New(db), &BlockContext{Number: 1, Time: 10}, &TransactionContext{}, host, &Contract{
		Caller:  thor.Address{1},
		Address: thor.Address{2},
		Input:   input,
		Gas:     gas,
	}), host
}

func TestCallOutput(t *testing.T) {
	env, _ := newTestEnv(t, "add", 1000, big.NewInt(1), big.NewInt(2))
	data, err := env.Call(func(env *Environment) []any {
		var args struct {
			A *big.Int
			B *big.Int
		}
		env.ParseArgs(&args)
		env.UseGas(10)
		return []any{new(big.Int).Add(args.A, args.B)}
	}, true)()
	assert.NoError(t, err)
	assert.Equal(t, thor.BigToBytes32(big.NewInt(3)).Bytes(), data)
	assert.Equal(t, uint64(990), env.Contract().Gas)
}

func TestCallOutOfGas(t *testing.T) {
	env, _ := newTestEnv(t, "poke", 5)
	_, err := env.Call(func(env *Environment) []any {
		env.UseGas(6)
		return nil
	}, false)()
	assert.Equal(t, ErrOutOfGas, err)
}

func TestCallStop(t *testing.T) {
	env, _ := newTestEnv(t, "poke", 5)
	cause := errors.New("stopped")
	_, err := env.Call(func(env *Environment) []any {
		env.Stop(cause)
		return nil
	}, false)()
	assert.Equal(t, cause, err)

	_, err = env.Call(func(env *Environment) []any {
		env.Require(false)
		return nil
	}, false)()
	assert.Equal(t, ErrExecutionReverted, err)
}

func TestWriteProtection(t *testing.T) {
	env, _ := newTestEnv(t, "poke", 5)
	_, err := env.Call(func(env *Environment) []any { return nil }, true)()
	assert.Equal(t, ErrWriteProtection, err)
}

func TestLog(t *testing.T) {
	env, host := newTestEnv(t, "poke", 100000)
	contractABI, _ := abi.New([]byte(testABI))
	ev, _ := contractABI.EventByName("Poked")

	who := thor.BytesToBytes32(thor.Address{9}.Bytes())
	_, err := env.Call(func(env *Environment) []any {
		env.Log(ev, env.To(), []thor.Bytes32{who}, big.NewInt(7))
		return nil
	}, false)()
	assert.NoError(t, err)

	require.Len(t, host.events, 1)
	assert.Equal(t, thor.Address{2}, host.events[0].Address)
	assert.Equal(t, []thor.Bytes32{ev.ID(), who}, host.events[0].Topics)
	assert.Equal(t, thor.BigToBytes32(big.NewInt(7)).Bytes(), host.events[0].Data)
}

func TestCallContract(t *testing.T) {
	env, host := newTestEnv(t, "poke", 100000)
	contractABI, _ := abi.New([]byte(testABI))
	poke, _ := contractABI.MethodByName("poke")

	host.gasUsed = 300
	_, err := env.Call(func(env *Environment) []any {
		env.CallContract(thor.Address{3}, poke)
		return nil
	}, false)()
	assert.NoError(t, err)
	assert.Equal(t, 100000-thor.CallGas-300, env.Contract().Gas)

	// callee failure propagates verbatim
	host.callErr = errors.New("callee failed")
	_, err = env.Call(func(env *Environment) []any {
		env.CallContract(thor.Address{3}, poke)
		return nil
	}, false)()
	assert.Equal(t, host.callErr, err)
}
