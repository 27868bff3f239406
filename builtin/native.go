// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/xenv"
)

// must halts the frame with err.
func must(env *xenv.Environment, err error) {
	if err != nil {
		env.Stop(err)
	}
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

// emit logs the named event of p from the storage owner of the frame.
func emit(env *xenv.Environment, p *Program, name string, topics []thor.Bytes32, args ...any) {
	ev, found := p.ABI.EventByName(name)
	if !found {
		panic(name + " event not found")
	}
	env.Log(ev, env.To(), topics, args...)
}

// blockTime returns the time of the block the frame executes in.
func blockTime(env *xenv.Environment) uint64 {
	return env.BlockContext().Time
}

func mustMethod(a *abi.ABI, name string) *abi.Method {
	m, found := a.MethodByName(name)
	if !found {
		panic(name + " method not found")
	}
	return m
}
