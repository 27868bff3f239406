// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tokenstake/kv"
	"github.com/vechain/tokenstake/thor"
)

// Stage abstracts changes on the main accounts state.
type Stage struct {
	db       kv.Store
	accounts map[thor.Address]*Account
	storage  map[storageKey]rlp.RawValue
	codes    map[thor.Bytes32][]byte
}

// Len returns the count of staged entries.
func (s *Stage) Len() int {
	return len(s.accounts) + len(s.storage) + len(s.codes)
}

// Put writes all changes into the given putter.
func (s *Stage) Put(putter kv.Putter) error {
	var (
		accounts = AccountBucket.NewPutter(putter)
		storage  = StorageBucket.NewPutter(putter)
		codes    = CodeBucket.NewPutter(putter)
	)
	for hash, code := range s.codes {
		if err := codes.Put(hash[:], code); err != nil {
			return &Error{err}
		}
	}
	for addr, acc := range s.accounts {
		if err := saveAccount(accounts, addr, acc); err != nil {
			return &Error{err}
		}
	}
	for key, v := range s.storage {
		if err := saveStorage(storage, key.addr, key.key, v); err != nil {
			return &Error{err}
		}
	}
	return nil
}

// Commit commits all changes into the store in a single batch.
func (s *Stage) Commit() error {
	bulk := s.db.Bulk()
	if err := s.Put(bulk); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
