// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tokenstake/kv"
	"github.com/vechain/tokenstake/thor"
)

// Account is the persisted representation of an account.
// RLP encoded objects are stored in the account bucket.
type Account struct {
	Master   []byte // master address, the creator of a contract
	CodeHash []byte // hash of code
}

// IsEmpty returns if an account is empty.
// An empty account has no master and zero length code hash.
func (a *Account) IsEmpty() bool {
	return len(a.Master) == 0 && len(a.CodeHash) == 0
}

func emptyAccount() *Account {
	return &Account{}
}

// loadAccount load an account object by address from the store.
// It returns empty account is no account found at the address.
func loadAccount(getter kv.Getter, addr thor.Address) (*Account, error) {
	data, err := getter.Get(addr[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save account at given address.
// If the given account is empty, the value for given address is deleted.
func saveAccount(putter kv.Putter, addr thor.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr[:])
	}

	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr[:], data)
}

// storageKey builds the persisted key of a storage slot.
func makeStorageKey(addr thor.Address, key thor.Bytes32) []byte {
	return append(append(make([]byte, 0, thor.AddressLength+32), addr[:]...), key[:]...)
}

// loadStorage load storage data for given key.
func loadStorage(getter kv.Getter, addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	v, err := getter.Get(makeStorageKey(addr, key))
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// saveStorage save value for given key.
// If the data is zero, the given key will be deleted.
func saveStorage(putter kv.Putter, addr thor.Address, key thor.Bytes32, data rlp.RawValue) error {
	if len(data) == 0 {
		return putter.Delete(makeStorageKey(addr, key))
	}
	return putter.Put(makeStorageKey(addr, key), data)
}
