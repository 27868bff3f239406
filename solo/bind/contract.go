// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bind provides typed access to contracts deployed on a solo node.
package bind

import (
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/solo"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
)

// Contract binds an ABI to a deployed address.
type Contract struct {
	node *solo.Node
	addr thor.Address
	abi  *abi.ABI
}

// New creates a binding. The ABI decides which methods can be used, so a proxy can be
// bound with the ABI of its implementation.
func New(node *solo.Node, addr thor.Address, abi *abi.ABI) *Contract {
	return &Contract{node: node, addr: addr, abi: abi}
}

// Address returns the bound address.
func (c *Contract) Address() thor.Address {
	return c.addr
}

// Attach returns a binding of the same address with another ABI.
func (c *Contract) Attach(abi *abi.ABI) *Contract {
	return New(c.node, c.addr, abi)
}

// Clause builds a clause invoking method.
func (c *Contract) Clause(method string, args ...any) (*tx.Clause, error) {
	m, found := c.abi.MethodByName(method)
	if !found {
		return nil, errors.Errorf("method %s not found", method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "encode %s", method)
	}
	return tx.NewClause(&c.addr).WithData(data), nil
}

// Call invokes a read-only method at the head state and decodes the result into out.
// Nothing is committed.
func (c *Contract) Call(method string, out any, args ...any) error {
	clause, err := c.Clause(method, args...)
	if err != nil {
		return err
	}
	output, err := c.node.Call(thor.Address{}, clause)
	if err != nil {
		return err
	}
	if output.VMErr != nil {
		return output.VMErr
	}
	if out == nil {
		return nil
	}
	m, _ := c.abi.MethodByName(method)
	return m.DecodeOutput(output.Data, out)
}

// Send executes method in a transaction from caller. A reverted transaction is returned as error.
func (c *Contract) Send(caller thor.Address, method string, args ...any) (*tx.Receipt, error) {
	clause, err := c.Clause(method, args...)
	if err != nil {
		return nil, err
	}
	receipt, outputs, err := c.node.Transact(caller, clause)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, outputs[len(outputs)-1].VMErr
	}
	return receipt, nil
}
