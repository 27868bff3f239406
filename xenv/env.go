// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
)

// Errors that halt a native execution frame.
var (
	ErrOutOfGas          = errors.New("out of gas")
	ErrWriteProtection   = errors.New("write protection")
	ErrExecutionReverted = errors.New("execution reverted")
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          thor.Bytes32
	Origin      thor.Address
	ClauseIndex uint32
}

// Contract is the frame a native method executes in.
type Contract struct {
	Caller   thor.Address
	Address  thor.Address // account whose storage is read and written
	CodeAddr thor.Address // account the executing program belongs to
	Input    []byte
	Gas      uint64
}

// UseGas attempts the use gas and subtracts it and returns true on success.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// Host gives native code access to the rest of the runtime.
type Host interface {
	// AddLog records an event emitted by the current clause.
	AddLog(ev *tx.Event)
	// Call executes a message call to another contract with the given gas.
	Call(caller, to thor.Address, input []byte, gas uint64) (output []byte, leftOverGas uint64, err error)
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	host     Host
	contract *Contract
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	host Host,
	contract *Contract,
) *Environment {
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		host:     host,
		contract: contract,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() thor.Address                    { return env.contract.Caller }
func (env *Environment) To() thor.Address                        { return env.contract.Address }
func (env *Environment) Contract() *Contract                     { return env.contract }

func (env *Environment) UseGas(gas uint64) {
	if !env.contract.UseGas(gas) {
		panic(&vmError{ErrOutOfGas})
	}
}

func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.contract.Input, val); err != nil {
		// as vm error
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

func (env *Environment) Require(cond bool) {
	if !cond {
		panic(&vmError{ErrExecutionReverted})
	}
}

func (env *Environment) Log(abi *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) {
	data, err := abi.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.UseGas(thor.LogGas + thor.LogTopicGas*uint64(len(topics)) + thor.LogDataGas*uint64(len(data)))

	eventTopics := make([]thor.Bytes32, 0, len(topics)+1)
	eventTopics = append(eventTopics, abi.ID())
	eventTopics = append(eventTopics, topics...)
	env.host.AddLog(&tx.Event{
		Address: address,
		Topics:  eventTopics,
		Data:    data,
	})
}

func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// CallContract calls method of the contract at 'to' on behalf of the current
// storage owner, and returns the raw output. Failures of the callee halt the
// current frame with the callee's error.
func (env *Environment) CallContract(to thor.Address, method *abi.Method, args ...any) []byte {
	input, err := method.EncodeInput(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native call input"))
	}
	env.UseGas(thor.CallGas)

	output, leftOver, err := env.host.Call(env.contract.Address, to, input, env.contract.Gas)
	env.contract.Gas = leftOver
	if err != nil {
		panic(&vmError{err})
	}
	return output
}

func (env *Environment) Call(proc func(env *Environment) []any, readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.abi.Const() {
			return nil, ErrWriteProtection
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else {
					panic(e)
				}
			}
		}()
		output := proc(env)
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			panic(errors.WithMessage(err, "encode native output"))
		}
		return
	}
}
