// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes transaction clauses against native programs.
package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/log"
	"github.com/vechain/tokenstake/metrics"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
	"github.com/vechain/tokenstake/xenv"
)

// MaxCallDepth limits nested contract calls.
const MaxCallDepth = 64

var (
	logger = log.WithContext("pkg", "runtime")

	ErrCallDepth         = errors.New("max call depth exceeded")
	ErrAddressCollision  = errors.New("contract address collision")
	errIntrinsicGasLimit = errors.New("intrinsic gas exceeds provided gas")

	metricClauses = metrics.LazyLoadCounterVec("clauses_count", []string{"program", "method", "outcome"})
	metricTxGas   = metrics.LazyLoadHistogram("tx_gas_used", metrics.BucketGas)
)

// Output is the result of a clause execution.
type Output struct {
	Data            []byte
	Events          tx.Events
	LeftOverGas     uint64
	VMErr           error
	RevertReason    string
	ContractAddress *thor.Address
}

// Runtime is to support transaction execution.
type Runtime struct {
	state    *state.State
	blockCtx xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, blockNumber uint32, blockTime uint64) *Runtime {
	return &Runtime{
		state: state,
		blockCtx: xenv.BlockContext{
			Number: blockNumber,
			Time:   blockTime,
		},
	}
}

func (rt *Runtime) State() *state.State { return rt.state }

// ExecuteClause executes a single clause. State changes of a failed clause are reverted.
func (rt *Runtime) ExecuteClause(clause *tx.Clause, index uint32, gas uint64, origin thor.Address, txID thor.Bytes32) *Output {
	return rt.execute(clause, index, gas, origin, txID, false)
}

// StaticCall executes a clause that must not modify state.
func (rt *Runtime) StaticCall(clause *tx.Clause, gas uint64, origin thor.Address) *Output {
	return rt.execute(clause, 0, gas, origin, thor.Bytes32{}, true)
}

func (rt *Runtime) execute(clause *tx.Clause, index uint32, gas uint64, origin thor.Address, txID thor.Bytes32, readonly bool) *Output {
	exec := &executor{
		rt:       rt,
		readonly: readonly,
		txCtx: &xenv.TransactionContext{
			ID:          txID,
			Origin:      origin,
			ClauseIndex: index,
		},
	}

	var (
		output Output
		err    error
	)
	if clause.IsCreatingContract() {
		if readonly {
			panic("static call requires 'To'")
		}
		var addr thor.Address
		addr, output.Data, output.LeftOverGas, err = exec.create(origin, clause.Data(), gas)
		if err == nil {
			output.ContractAddress = &addr
		}
	} else {
		output.Data, output.LeftOverGas, err = exec.Call(origin, *clause.To(), clause.Data(), gas)
	}

	program, method := exec.entry()
	outcome := "success"
	if err != nil {
		outcome = "reverted"
		output.VMErr = err
		var rerr *reverts.ErrRequire
		if errors.As(err, &rerr) {
			output.RevertReason = rerr.Error()
			output.Data = rerr.Bytes()
		}
		logger.Debug("clause failed", "index", index, "program", program, "method", method, "err", err)
	} else {
		output.Events = exec.logs
	}
	if !readonly {
		metricClauses().AddWithLabel(1, map[string]string{"program": program, "method": method, "outcome": outcome})
	}
	return &output
}

// ExecuteTransaction executes all clauses of the transaction atomically on behalf of origin.
// If some clause failed, receipt.Outputs will be nil and outputs may be shorter than clause count.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction, origin thor.Address) (receipt *tx.Receipt, outputs []*Output, err error) {
	intrinsicGas, err := trx.IntrinsicGas()
	if err != nil {
		return nil, nil, err
	}
	if trx.Gas() < intrinsicGas {
		return nil, nil, errIntrinsicGasLimit
	}

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()

	leftOverGas := trx.Gas() - intrinsicGas
	txID := trx.ID(origin)
	clauses := trx.Clauses()

	receipt = &tx.Receipt{Outputs: make([]*tx.Output, 0, len(clauses))}
	outputs = make([]*Output, 0, len(clauses))

	for i, clause := range clauses {
		output := rt.ExecuteClause(clause, uint32(i), leftOverGas, origin, txID)
		outputs = append(outputs, output)
		leftOverGas = output.LeftOverGas

		if output.VMErr != nil {
			// revert all executed clauses
			rt.state.RevertTo(checkpoint)
			receipt.Reverted = true
			receipt.Outputs = nil
			break
		}
		receipt.Outputs = append(receipt.Outputs, &tx.Output{
			ContractAddress: output.ContractAddress,
			Events:          output.Events,
		})
	}

	receipt.GasUsed = trx.Gas() - leftOverGas
	metricTxGas().Observe(int64(receipt.GasUsed))
	return receipt, outputs, nil
}
