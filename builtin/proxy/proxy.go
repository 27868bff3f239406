// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proxy keeps the implementation pointer and admin of an upgradeable proxy.
//
// The values live in the proxy's own storage, at slots derived as keccak256(label) - 1
// so they never collide with the ordinal slots used by implementations.
package proxy

import (
	"math/big"

	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/builtin/solidity"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
)

var (
	SlotImplementation = labelSlot("eip1967.proxy.implementation")
	SlotAdmin          = labelSlot("eip1967.proxy.admin")
	SlotInitialized    = labelSlot("eip1967.proxy.initialized")
)

func labelSlot(label string) thor.Bytes32 {
	h := thor.Keccak256([]byte(label))
	n := new(big.Int).SetBytes(h[:])
	return thor.BigToBytes32(n.Sub(n, big.NewInt(1)))
}

// CodeChecker reports whether an address holds executable code.
type CodeChecker func(addr thor.Address) (bool, error)

// Proxy is the pointer state of a proxy account.
type Proxy struct {
	implementation *solidity.Address
	admin          *solidity.Address
	initialized    *solidity.Bool
	hasCode        CodeChecker
}

// New creates a proxy over the storage of addr.
func New(addr thor.Address, state *state.State, charger *gascharger.Charger, hasCode CodeChecker) *Proxy {
	ctx := solidity.NewContext(addr, state, charger)
	return &Proxy{
		implementation: solidity.NewAddress(ctx, SlotImplementation),
		admin:          solidity.NewAddress(ctx, SlotAdmin),
		initialized:    solidity.NewBool(ctx, SlotInitialized),
		hasCode:        hasCode,
	}
}

// Init records the deployer as admin.
func (p *Proxy) Init(admin thor.Address) error {
	return p.admin.Set(admin)
}

func (p *Proxy) Implementation() (thor.Address, error) {
	return p.implementation.Get()
}

func (p *Proxy) Admin() (thor.Address, error) {
	return p.admin.Get()
}

func (p *Proxy) Initialized() (bool, error) {
	return p.initialized.Get()
}

func (p *Proxy) requireAdmin(caller thor.Address) error {
	admin, err := p.admin.Get()
	if err != nil {
		return err
	}
	if caller != admin {
		return reverts.ErrAuthorization.WithDetail("caller is not the proxy admin")
	}
	return nil
}

func (p *Proxy) requireCode(target thor.Address) error {
	ok, err := p.hasCode(target)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrInvalidTarget.WithDetail("%v has no code", target)
	}
	return nil
}

// Initialize sets the first implementation. It can be done only once.
func (p *Proxy) Initialize(caller, implementation thor.Address) error {
	initialized, err := p.initialized.Get()
	if err != nil {
		return err
	}
	if initialized {
		return reverts.ErrAlreadyInitialized.WithDetail("proxy")
	}
	if err := p.requireAdmin(caller); err != nil {
		return err
	}
	if err := p.requireCode(implementation); err != nil {
		return err
	}
	if err := p.implementation.Set(implementation); err != nil {
		return err
	}
	return p.initialized.Set(true)
}

// UpgradeTo swaps the implementation pointer. It returns the previous implementation.
func (p *Proxy) UpgradeTo(caller, implementation thor.Address) (thor.Address, error) {
	if err := p.requireAdmin(caller); err != nil {
		return thor.Address{}, err
	}
	if err := p.requireCode(implementation); err != nil {
		return thor.Address{}, err
	}
	prev, err := p.implementation.Get()
	if err != nil {
		return thor.Address{}, err
	}
	if err := p.implementation.Set(implementation); err != nil {
		return thor.Address{}, err
	}
	if err := p.initialized.Set(true); err != nil {
		return thor.Address{}, err
	}
	return prev, nil
}

// ChangeAdmin hands the admin right over. It returns the previous admin.
func (p *Proxy) ChangeAdmin(caller, admin thor.Address) (thor.Address, error) {
	if err := p.requireAdmin(caller); err != nil {
		return thor.Address{}, err
	}
	if admin.IsZero() {
		return thor.Address{}, reverts.ErrInvalidArgument.WithDetail("zero admin")
	}
	if err := p.admin.Set(admin); err != nil {
		return thor.Address{}, err
	}
	return caller, nil
}
