// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/proxy"
	"github.com/vechain/tokenstake/builtin/token"
	"github.com/vechain/tokenstake/builtin/tokenstake"
	"github.com/vechain/tokenstake/log"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
)

var logger = log.WithContext("pkg", "builtin")

// Native programs.
var (
	ValueToken   = &valueTokenProgram{mustLoadProgram("ValueToken")}
	Proxy        = &proxyProgram{mustLoadProgram("Proxy")}
	TokenStake   = &tokenStakeProgram{mustLoadProgram("TokenStake"), tokenstake.LayoutV1}
	TokenStakeV2 = &tokenStakeProgram{mustLoadProgram("TokenStakeV2"), tokenstake.LayoutV2}
)

type (
	valueTokenProgram struct{ *Program }
	proxyProgram      struct{ *Program }
	tokenStakeProgram struct {
		*Program
		layout tokenstake.Layout
	}
)

func init() {
	initValueTokenMethods()
	initProxyMethods()
	initTokenStakeMethods(TokenStake)
	initTokenStakeMethods(TokenStakeV2)
	initTokenStakeV2Methods()

	for _, p := range []*Program{ValueToken.Program, Proxy.Program, TokenStake.Program, TokenStakeV2.Program} {
		p.verify()
		if p == Proxy.Program {
			continue
		}
		if err := CheckSelectorClash(Proxy.Program, p); err != nil {
			panic(err)
		}
	}
	if err := tokenstake.CheckCompatible(TokenStake.layout, TokenStakeV2.layout); err != nil {
		panic(err)
	}
}

// Native returns the token bound to the storage of addr.
func (p *valueTokenProgram) Native(addr thor.Address, state *state.State, charger *gascharger.Charger) *token.Token {
	return token.New(addr, state, charger)
}

// Native returns the proxy pointer state bound to the storage of addr.
func (p *proxyProgram) Native(addr thor.Address, state *state.State, charger *gascharger.Charger) *proxy.Proxy {
	return proxy.New(addr, state, charger, func(target thor.Address) (bool, error) {
		_, ok, err := ProgramAt(state, target)
		return ok, err
	})
}

// Native returns the ledger bound to the storage of addr.
func (p *tokenStakeProgram) Native(addr thor.Address, state *state.State, charger *gascharger.Charger, tokens tokenstake.Tokens) *tokenstake.Ledger {
	return tokenstake.New(p.layout, addr, state, charger, tokens)
}

// ProgramAt returns the program run by the account at addr.
func ProgramAt(state *state.State, addr thor.Address) (*Program, bool, error) {
	h, err := state.GetCodeHash(addr)
	if err != nil {
		return nil, false, err
	}
	if h.IsZero() {
		return nil, false, nil
	}
	p, ok := ProgramByCodeHash(h)
	return p, ok, nil
}
