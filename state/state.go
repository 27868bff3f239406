// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/tokenstake/kv"
	"github.com/vechain/tokenstake/stackedmap"
	"github.com/vechain/tokenstake/thor"
)

const (
	// AccountBucket is the bucket name of accounts.
	AccountBucket kv.Bucket = "a"
	// StorageBucket is the bucket name of contract storage.
	StorageBucket kv.Bucket = "s"
	// CodeBucket is the bucket name of contract code, keyed by code hash.
	CodeBucket kv.Bucket = "c"
)

var codeCache, _ = lru.New(512)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the world state.
type State struct {
	db       kv.Store
	accounts kv.Getter
	storage  kv.Getter
	codes    kv.Getter
	sm       *stackedmap.StackedMap // keeps revisions of accounts state
}

// New create state object over the committed store.
func New(db kv.Store) *State {
	state := State{
		db:       db,
		accounts: AccountBucket.NewGetter(db),
		storage:  StorageBucket.NewGetter(db),
		codes:    CodeBucket.NewGetter(db),
	}

	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.dbGetter(key)
	})
	return &state
}

// dbGetter implements stackedmap.MapGetter.
func (s *State) dbGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case thor.Address: // get account
		a, err := loadAccount(s.accounts, k)
		if err != nil {
			return nil, false, err
		}
		return a, true, nil
	case codeKey: // get code
		a, err := s.getAccount(thor.Address(k))
		if err != nil {
			return nil, false, err
		}
		code, err := s.loadCode(a.CodeHash)
		if err != nil {
			return nil, false, err
		}
		return code, true, nil
	case storageKey: // get storage
		v, err := loadStorage(s.storage, k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadCode(hash []byte) ([]byte, error) {
	if len(hash) == 0 {
		return []byte(nil), nil
	}
	if code, ok := codeCache.Get(string(hash)); ok {
		return code.([]byte), nil
	}
	code, err := s.codes.Get(hash)
	if err != nil {
		return nil, err
	}
	codeCache.Add(string(hash), code)
	return code, nil
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr thor.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// getAccountCopy get a copy of account by address.
func (s *State) getAccountCopy(addr thor.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr thor.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// GetMaster get master for the given address.
// For a contract it is the account that created it.
func (s *State) GetMaster(addr thor.Address) (thor.Address, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return thor.Address{}, &Error{err}
	}
	return thor.BytesToAddress(acc.Master), nil
}

// SetMaster set master for the given address.
func (s *State) SetMaster(addr thor.Address, master thor.Address) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	if master.IsZero() {
		cpy.Master = nil
	} else {
		cpy.Master = master[:]
	}
	s.updateAccount(addr, &cpy)
	return nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetCode returns code for the given address.
func (s *State) GetCode(addr thor.Address) ([]byte, error) {
	v, _, err := s.sm.Get(codeKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// GetCodeHash returns code hash for the given address.
func (s *State) GetCodeHash(addr thor.Address) (thor.Bytes32, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	return thor.BytesToBytes32(acc.CodeHash), nil
}

// SetCode set code for the given address.
func (s *State) SetCode(addr thor.Address, code []byte) error {
	var codeHash []byte
	if len(code) > 0 {
		s.sm.Put(codeKey(addr), code)
		hash := thor.Keccak256(code)
		codeHash = hash[:]
		codeCache.Add(string(codeHash), code)
	} else {
		s.sm.Put(codeKey(addr), []byte(nil))
	}
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.CodeHash = codeHash
	s.updateAccount(addr, &cpy)
	return nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr thor.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects all changes since the state was created, ready to be committed.
func (s *State) Stage() (*Stage, error) {
	var (
		accounts = make(map[thor.Address]*Account)
		storage  = make(map[storageKey]rlp.RawValue)
		codes    = make(map[thor.Bytes32][]byte)
	)

	// traverse journal to build changes, later entries override earlier ones
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case thor.Address:
			accounts[key] = v.(*Account)
		case codeKey:
			if code := v.([]byte); len(code) > 0 {
				codes[thor.Keccak256(code)] = code
			}
		case storageKey:
			storage[key] = v.(rlp.RawValue)
		}
		return true
	})

	return &Stage{
		db:       s.db,
		accounts: accounts,
		storage:  storage,
		codes:    codes,
	}, nil
}

type (
	storageKey struct {
		addr thor.Address
		key  thor.Bytes32
	}
	codeKey thor.Address
)
