// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/builtin"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
	"github.com/vechain/tokenstake/xenv"
)

// executor runs the frames of one clause. It is the host of every environment it creates.
type executor struct {
	rt        *Runtime
	txCtx     *xenv.TransactionContext
	readonly  bool
	depth     int
	creations uint32
	logs      tx.Events

	// outermost invocation, for metrics
	program string
	method  string
}

var _ xenv.Host = (*executor)(nil)

func (e *executor) AddLog(ev *tx.Event) {
	e.logs = append(e.logs, ev)
}

func (e *executor) entry() (program, method string) {
	if e.program == "" {
		return "none", "none"
	}
	return e.program, e.method
}

func (e *executor) track(inv *builtin.Invocation) {
	if e.depth == 1 {
		e.program = inv.Program.Name
		e.method = inv.Method().Name()
		if e.method == "" {
			e.method = "constructor"
		}
	}
}

// frame runs fn under a checkpoint. The state changes and logs of a failed frame are discarded.
func (e *executor) frame(fn func() error) error {
	if e.depth >= MaxCallDepth {
		return ErrCallDepth
	}
	e.depth++
	defer func() { e.depth-- }()

	checkpoint := e.rt.state.NewCheckpoint()
	nlogs := len(e.logs)
	if err := fn(); err != nil {
		e.rt.state.RevertTo(checkpoint)
		e.logs = e.logs[:nlogs]
		return err
	}
	return nil
}

func (e *executor) run(inv *builtin.Invocation, contract *xenv.Contract) ([]byte, error) {
	e.track(inv)
	env := xenv.New(inv.Method(), e.rt.state, &e.rt.blockCtx, e.txCtx, e, contract)
	return inv.Run(env, e.readonly)
}

// Call executes input against the account at 'to'.
func (e *executor) Call(caller, to thor.Address, input []byte, gas uint64) (output []byte, leftOverGas uint64, err error) {
	leftOverGas = gas
	err = e.frame(func() error {
		inv, err := builtin.Resolve(e.rt.state, to, input)
		if err != nil {
			if err == builtin.ErrNoCode {
				// nothing to execute
				return nil
			}
			return err
		}
		contract := &xenv.Contract{
			Caller:   caller,
			Address:  to,
			CodeAddr: inv.CodeAddr,
			Input:    input,
			Gas:      gas,
		}
		// the implementation pointer is loaded from storage
		if inv.Proxied && !contract.UseGas(thor.SloadGas) {
			leftOverGas = 0
			return xenv.ErrOutOfGas
		}
		output, err = e.run(inv, contract)
		leftOverGas = contract.Gas
		return err
	})
	if errors.Is(err, xenv.ErrOutOfGas) {
		leftOverGas = 0
	}
	return
}

// create deploys the program named by data to a fresh address and runs its constructor.
func (e *executor) create(caller thor.Address, data []byte, gas uint64) (addr thor.Address, output []byte, leftOverGas uint64, err error) {
	leftOverGas = gas
	program, input, err := builtin.ProgramByCreationData(data)
	if err != nil {
		return thor.Address{}, nil, gas, err
	}

	addr = thor.CreateContractAddress(e.txCtx.ID, e.txCtx.ClauseIndex, e.creations)
	e.creations++

	err = e.frame(func() error {
		exists, err := e.rt.state.Exists(addr)
		if err != nil {
			return err
		}
		if exists {
			return ErrAddressCollision
		}
		if err := e.rt.state.SetCode(addr, program.Code()); err != nil {
			return err
		}
		if err := e.rt.state.SetMaster(addr, caller); err != nil {
			return err
		}

		contract := &xenv.Contract{
			Caller:   caller,
			Address:  addr,
			CodeAddr: addr,
			Input:    input,
			Gas:      gas,
		}
		output, err = e.run(program.Constructor(), contract)
		leftOverGas = contract.Gas
		return err
	})
	if errors.Is(err, xenv.ErrOutOfGas) {
		leftOverGas = 0
	}
	return
}
