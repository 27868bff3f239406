// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/token"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/xenv"
)

func nativeToken(env *xenv.Environment) *token.Token {
	return ValueToken.Native(env.To(), env.State(), gascharger.New(env))
}

func emitTransfer(env *xenv.Environment, from, to thor.Address, amount *big.Int) {
	emit(env, ValueToken.Program, "Transfer", []thor.Bytes32{addressTopic(from), addressTopic(to)}, amount)
}

func initValueTokenMethods() {
	ValueToken.setConstructor(func(env *xenv.Environment) []any {
		var args struct {
			Name          string
			Symbol        string
			Decimals      uint8
			InitialSupply *big.Int
		}
		env.ParseArgs(&args)

		must(env, nativeToken(env).Init(env.Caller(), args.Name, args.Symbol, args.Decimals, args.InitialSupply))
		emitTransfer(env, thor.Address{}, env.Caller(), args.InitialSupply)
		return nil
	})

	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"name", func(env *xenv.Environment) []any {
			name, err := nativeToken(env).Name()
			must(env, err)
			return []any{name}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			symbol, err := nativeToken(env).Symbol()
			must(env, err)
			return []any{symbol}
		}},
		{"decimals", func(env *xenv.Environment) []any {
			decimals, err := nativeToken(env).Decimals()
			must(env, err)
			return []any{decimals}
		}},
		{"totalSupply", func(env *xenv.Environment) []any {
			supply, err := nativeToken(env).TotalSupply()
			must(env, err)
			return []any{supply}
		}},
		{"owner", func(env *xenv.Environment) []any {
			owner, err := nativeToken(env).Owner()
			must(env, err)
			return []any{owner}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var args struct {
				Owner common.Address
			}
			env.ParseArgs(&args)
			bal, err := nativeToken(env).BalanceOf(thor.Address(args.Owner))
			must(env, err)
			return []any{bal}
		}},
		{"allowance", func(env *xenv.Environment) []any {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)
			allowed, err := nativeToken(env).Allowance(thor.Address(args.Owner), thor.Address(args.Spender))
			must(env, err)
			return []any{allowed}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)
			must(env, nativeToken(env).Approve(env.Caller(), thor.Address(args.Spender), args.Amount))
			emit(env, ValueToken.Program, "Approval",
				[]thor.Bytes32{addressTopic(env.Caller()), addressTopic(thor.Address(args.Spender))}, args.Amount)
			return []any{true}
		}},
		{"transfer", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			must(env, nativeToken(env).Transfer(env.Caller(), thor.Address(args.To), args.Amount))
			emitTransfer(env, env.Caller(), thor.Address(args.To), args.Amount)
			return []any{true}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				From   common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			must(env, nativeToken(env).TransferFrom(env.Caller(), thor.Address(args.From), thor.Address(args.To), args.Amount))
			emitTransfer(env, thor.Address(args.From), thor.Address(args.To), args.Amount)
			return []any{true}
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			must(env, nativeToken(env).Mint(env.Caller(), thor.Address(args.To), args.Amount))
			emitTransfer(env, thor.Address{}, thor.Address(args.To), args.Amount)
			return nil
		}},
	}
	for _, def := range defines {
		ValueToken.define(def.name, def.run)
	}
}
