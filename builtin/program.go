// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/builtin/gen"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/xenv"
)

const codePrefix = "tokenstake/native/"

// nativeMethod binds an ABI method to its handler.
type nativeMethod struct {
	ABI *abi.Method
	Run func(env *xenv.Environment) []any
}

// Program is a native contract program. Accounts execute a program when their code
// is the program's code, so a program may back any number of accounts.
type Program struct {
	Name     string
	ABI      *abi.ABI
	code     []byte
	codeHash thor.Bytes32
	ctor     *nativeMethod
	methods  map[abi.MethodID]*nativeMethod
}

var programs = make(map[thor.Bytes32]*Program)

func mustLoadProgram(name string) *Program {
	a, err := abi.New(gen.MustABI(name))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}
	code := []byte(codePrefix + name)
	p := &Program{
		Name:     name,
		ABI:      a,
		code:     code,
		codeHash: thor.Keccak256(code),
		methods:  make(map[abi.MethodID]*nativeMethod),
	}
	programs[p.codeHash] = p
	return p
}

// Code returns the code an account must hold to run the program.
func (p *Program) Code() []byte {
	return append([]byte(nil), p.code...)
}

// CodeHash returns the keccak256 hash of the program code.
func (p *Program) CodeHash() thor.Bytes32 {
	return p.codeHash
}

// CreationData returns the data of a clause deploying the program with the encoded constructor args.
func (p *Program) CreationData(args ...any) ([]byte, error) {
	input, err := p.ABI.Constructor().EncodeInput(args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "encode %s constructor", p.Name)
	}
	return append(p.Code(), input...), nil
}

func (p *Program) setConstructor(run func(env *xenv.Environment) []any) {
	p.ctor = &nativeMethod{ABI: p.ABI.Constructor(), Run: run}
}

func (p *Program) define(name string, run func(env *xenv.Environment) []any) {
	method, found := p.ABI.MethodByName(name)
	if !found {
		panic(fmt.Sprintf("%s: method %s not found", p.Name, name))
	}
	p.methods[method.ID()] = &nativeMethod{ABI: method, Run: run}
}

// verify ensures every method declared in the ABI has a handler.
func (p *Program) verify() {
	for _, m := range p.ABI.Methods() {
		if _, ok := p.methods[m.ID()]; !ok {
			panic(fmt.Sprintf("%s: method %s has no handler", p.Name, m.Name()))
		}
	}
	if p.ctor == nil {
		panic(fmt.Sprintf("%s: constructor has no handler", p.Name))
	}
}

// ProgramByCodeHash returns the program whose code hashes to h.
func ProgramByCodeHash(h thor.Bytes32) (*Program, bool) {
	p, ok := programs[h]
	return p, ok
}

// ProgramByCreationData splits the data of a creating clause into the program and constructor input.
func ProgramByCreationData(data []byte) (*Program, []byte, error) {
	if !bytes.HasPrefix(data, []byte(codePrefix)) {
		return nil, nil, errors.New("unknown program code")
	}
	for _, p := range programs {
		if bytes.HasPrefix(data, p.code) {
			rest := data[len(p.code):]
			// the name must end where the abi encoded input begins
			if len(rest)%32 == 0 {
				return p, rest, nil
			}
		}
	}
	return nil, nil, errors.New("unknown program code")
}

// CheckSelectorClash returns an error if any selector of impl is also served by proxy.
func CheckSelectorClash(proxy, impl *Program) error {
	for id, m := range impl.methods {
		if pm, ok := proxy.methods[id]; ok {
			return errors.Errorf("selector %v of %s.%s clashes with %s.%s",
				id, impl.Name, m.ABI.Sig(), proxy.Name, pm.ABI.Sig())
		}
	}
	return nil
}
