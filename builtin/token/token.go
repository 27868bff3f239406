// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the storage and rules of a transferable, mintable value token
// with owner authorized allowances.
package token

import (
	"math/big"

	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/builtin/solidity"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
)

var (
	slotName        = thor.BytesToBytes32([]byte("name"))
	slotSymbol      = thor.BytesToBytes32([]byte("symbol"))
	slotDecimals    = thor.BytesToBytes32([]byte("decimals"))
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
	slotOwner       = thor.BytesToBytes32([]byte("owner"))
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("allowances"))
)

// Token is a value token bound to the storage of a contract account.
type Token struct {
	name        *solidity.Value[string]
	symbol      *solidity.Value[string]
	decimals    *solidity.Uint256
	totalSupply *solidity.Uint256
	owner       *solidity.Address
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
}

// New creates a token instance over the storage of addr.
func New(addr thor.Address, state *state.State, charger *gascharger.Charger) *Token {
	ctx := solidity.NewContext(addr, state, charger)
	return &Token{
		name:        solidity.NewValue[string](ctx, slotName),
		symbol:      solidity.NewValue[string](ctx, slotSymbol),
		decimals:    solidity.NewUint256(ctx, slotDecimals),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		owner:       solidity.NewAddress(ctx, slotOwner),
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](ctx, slotAllowances),
	}
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

// Init sets the metadata and mints the initial supply to the owner.
func (t *Token) Init(owner thor.Address, name, symbol string, decimals uint8, initialSupply *big.Int) error {
	if err := t.name.Set(name); err != nil {
		return err
	}
	if err := t.symbol.Set(symbol); err != nil {
		return err
	}
	if err := t.decimals.Set(big.NewInt(int64(decimals))); err != nil {
		return err
	}
	if err := t.owner.Set(owner); err != nil {
		return err
	}
	return t.mint(owner, initialSupply)
}

func (t *Token) Name() (string, error)   { return t.name.Get() }
func (t *Token) Symbol() (string, error) { return t.symbol.Get() }
func (t *Token) Owner() (thor.Address, error) {
	return t.owner.Get()
}

func (t *Token) Decimals() (uint8, error) {
	d, err := t.decimals.Get()
	if err != nil {
		return 0, err
	}
	return uint8(d.Uint64()), nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

// Approve sets the amount spender may move out of the owner's balance.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	return t.allowances.Set(allowanceKey(owner, spender), amount)
}

// Transfer moves amount from one balance to another.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidArgument.WithDetail("negative amount")
	}
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance.WithDetail("balance %v, required %v", bal, amount)
	}
	if from != to {
		toBal, err := t.balances.Get(to)
		if err != nil {
			return err
		}
		if err := solidity.CheckRange(toBal.Add(toBal, amount)); err != nil {
			return err
		}
	}
	if err := t.balances.Set(from, new(big.Int).Sub(bal, amount)); err != nil {
		return err
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	return t.balances.Set(to, toBal.Add(toBal, amount))
}

// TransferFrom moves amount out of the owner's balance on behalf of spender,
// consuming the allowance.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	key := allowanceKey(from, spender)
	allowed, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowed.Cmp(amount) < 0 {
		return reverts.ErrInsufficientAllow.WithDetail("allowance %v, required %v", allowed, amount)
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.allowances.Set(key, allowed.Sub(allowed, amount))
}

// Mint creates amount new tokens for to. Only the owner may mint.
func (t *Token) Mint(caller, to thor.Address, amount *big.Int) error {
	owner, err := t.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.ErrAuthorization.WithDetail("only owner can mint")
	}
	return t.mint(to, amount)
}

func (t *Token) mint(to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidArgument.WithDetail("negative amount")
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := solidity.CheckRange(bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	return t.balances.Set(to, bal)
}
