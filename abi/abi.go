// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/thor"
)

// ABI holds information about methods and events of contract.
type ABI struct {
	constructor  *Method
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	methods      map[MethodID]*Method
	events       map[thor.Bytes32]*Event
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	ethABI, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		methods:      make(map[MethodID]*Method),
		events:       make(map[thor.Bytes32]*Event),
	}

	ctor := ethABI.Constructor
	abi.constructor = &Method{EmptyMethodID, &ctor}

	for name := range ethABI.Methods {
		ethMethod := ethABI.Methods[name]
		var id MethodID
		copy(id[:], ethMethod.ID)
		method := &Method{id, &ethMethod}
		abi.methods[id] = method
		abi.nameToMethod[ethMethod.Name] = method
	}

	for name := range ethABI.Events {
		ethEvent := ethABI.Events[name]
		event := newEvent(&ethEvent)
		abi.events[event.ID()] = event
		abi.nameToEvent[ethEvent.Name] = event
	}
	return abi, nil
}

// MustNew is like New but panics on error.
func MustNew(data []byte) *ABI {
	abi, err := New(data)
	if err != nil {
		panic(err)
	}
	return abi
}

// Constructor returns the constructor method, which takes no input when not declared.
func (a *ABI) Constructor() *Method {
	return a.constructor
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByID returns method for given method id.
func (a *ABI) MethodByID(id MethodID) (*Method, bool) {
	m, found := a.methods[id]
	return m, found
}

// Methods returns all methods, in no particular order.
func (a *ABI) Methods() []*Method {
	methods := make([]*Method, 0, len(a.methods))
	for _, m := range a.methods {
		methods = append(methods, m)
	}
	return methods
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id thor.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// unpack decodes data into v, which is a struct pointer or a pointer to the single value.
func unpack(args ethabi.Arguments, v any, data []byte) error {
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, values)
}
