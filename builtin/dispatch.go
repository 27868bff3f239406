// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/xenv"
)

// ErrNoCode is returned when the callee holds no program.
var ErrNoCode = errors.New("no code")

// Invocation is a call resolved to the handler that serves it.
type Invocation struct {
	Program  *Program
	CodeAddr thor.Address // account holding the program, differs from the callee when proxied
	Proxied  bool

	method *nativeMethod
}

// Method returns the ABI method being invoked.
func (inv *Invocation) Method() *abi.Method {
	return inv.method.ABI
}

// Run executes the invocation in env, which must be created for Method.
func (inv *Invocation) Run(env *xenv.Environment, readonly bool) ([]byte, error) {
	return env.Call(inv.method.Run, readonly)()
}

// Resolve finds the handler of input sent to the account at 'to'. Selectors the
// proxy program does not serve itself are forwarded to the implementation the
// proxy currently points at.
func Resolve(state *state.State, to thor.Address, input []byte) (*Invocation, error) {
	p, ok, err := ProgramAt(state, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoCode
	}

	id, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, reverts.ErrMethodNotFound.WithDetail("%s: %v", p.Name, err)
	}
	if m, ok := p.methods[id]; ok {
		return &Invocation{Program: p, CodeAddr: to, method: m}, nil
	}
	if p != Proxy.Program {
		return nil, reverts.ErrMethodNotFound.WithDetail("%s: selector %v", p.Name, id)
	}

	impl, err := Proxy.Native(to, state, nil).Implementation()
	if err != nil {
		return nil, err
	}
	if impl.IsZero() {
		return nil, reverts.ErrNotInitialized.WithDetail("proxy has no implementation")
	}
	ip, ok, err := ProgramAt(state, impl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrInvalidTarget.WithDetail("implementation %v has no code", impl)
	}
	m, ok := ip.methods[id]
	if !ok {
		return nil, reverts.ErrMethodNotFound.WithDetail("%s: selector %v", ip.Name, id)
	}
	return &Invocation{Program: ip, CodeAddr: impl, Proxied: true, method: m}, nil
}

// Constructor returns the invocation running the constructor of p.
func (p *Program) Constructor() *Invocation {
	return &Invocation{Program: p, method: p.ctor}
}
