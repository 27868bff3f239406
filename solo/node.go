// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo is a standalone, single writer executor of transactions over a persisted state.
package solo

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/builtin"
	"github.com/vechain/tokenstake/kv"
	"github.com/vechain/tokenstake/log"
	"github.com/vechain/tokenstake/metrics"
	"github.com/vechain/tokenstake/runtime"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
)

var (
	logger = log.WithContext("pkg", "solo")

	headKey = []byte("solo.head")

	metricHeadNumber = metrics.LazyLoadGauge("solo_head_number")
)

// Head is the latest committed block.
type Head struct {
	Number uint32
	Time   uint64
}

// Options of the node.
type Options struct {
	// GasLimit is the gas provided to each transaction.
	GasLimit uint64
	// GenesisTime is the head time of an empty store.
	GenesisTime uint64
}

// Node executes transactions one by one, each in its own block.
type Node struct {
	mu      sync.Mutex
	db      kv.Store
	options Options
	head    Head
}

// New opens a node over db, resuming from the persisted head if any.
func New(db kv.Store, options Options) (*Node, error) {
	if options.GasLimit == 0 {
		options.GasLimit = thor.DefaultClauseGasLimit
	}
	n := &Node{
		db:      db,
		options: options,
		head:    Head{Time: options.GenesisTime},
	}

	data, err := db.Get(headKey)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, errors.Wrap(err, "load head")
		}
		return n, nil
	}
	if err := rlp.DecodeBytes(data, &n.head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	logger.Debug("resumed", "number", n.head.Number, "time", n.head.Time)
	return n, nil
}

// Head returns the latest committed block.
func (n *Node) Head() Head {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.head
}

func (n *Node) saveHead(bulk kv.Putter, head Head) error {
	data, err := rlp.EncodeToBytes(&head)
	if err != nil {
		return err
	}
	return bulk.Put(headKey, data)
}

// AdvanceTime moves the head time forward without executing anything.
func (n *Node) AdvanceTime(seconds uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	head := n.head
	head.Time += seconds
	if err := n.saveHead(n.db, head); err != nil {
		return errors.Wrap(err, "save head")
	}
	n.head = head
	return nil
}

// Transact executes the clauses as one transaction in a new block and commits the result.
// A reverted transaction still makes a block, it changes nothing else.
func (n *Node) Transact(origin thor.Address, clauses ...*tx.Clause) (*tx.Receipt, []*runtime.Output, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := Head{
		Number: n.head.Number + 1,
		Time:   n.head.Time + thor.BlockInterval,
	}
	builder := new(tx.Builder).Gas(n.options.GasLimit).Nonce(uint64(next.Number))
	for _, c := range clauses {
		builder.Clause(c)
	}
	trx := builder.Build()

	st := state.New(n.db)
	rt := runtime.New(st, next.Number, next.Time)
	receipt, outputs, err := rt.ExecuteTransaction(trx, origin)
	if err != nil {
		return nil, nil, err
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, nil, err
	}
	// state and head land in the store together
	bulk := n.db.Bulk()
	if err := stage.Put(bulk); err != nil {
		return nil, nil, err
	}
	if err := n.saveHead(bulk, next); err != nil {
		return nil, nil, err
	}
	if err := bulk.Write(); err != nil {
		return nil, nil, errors.Wrap(err, "commit")
	}
	n.head = next
	metricHeadNumber().Set(int64(next.Number))

	logger.Debug("transaction executed", "block", next.Number, "id", trx.ID(origin),
		"clauses", len(clauses), "gas", receipt.GasUsed, "reverted", receipt.Reverted)
	return receipt, outputs, nil
}

// Deploy creates a contract running program p with the constructor args.
func (n *Node) Deploy(origin thor.Address, p *builtin.Program, args ...any) (thor.Address, error) {
	data, err := p.CreationData(args...)
	if err != nil {
		return thor.Address{}, err
	}
	receipt, outputs, err := n.Transact(origin, tx.NewClause(nil).WithData(data))
	if err != nil {
		return thor.Address{}, err
	}
	if receipt.Reverted {
		return thor.Address{}, errors.WithMessagef(outputs[0].VMErr, "deploy %s", p.Name)
	}
	addr := *receipt.Outputs[0].ContractAddress
	logger.Info("contract deployed", "program", p.Name, "address", addr)
	return addr, nil
}

// Call executes the clause on top of the head without committing anything.
func (n *Node) Call(origin thor.Address, clause *tx.Clause) (*runtime.Output, error) {
	if clause.IsCreatingContract() {
		return nil, errors.New("call requires 'To'")
	}
	n.mu.Lock()
	head := n.head
	n.mu.Unlock()

	st := state.New(n.db)
	rt := runtime.New(st, head.Number, head.Time)
	return rt.StaticCall(clause, n.options.GasLimit, origin), nil
}
