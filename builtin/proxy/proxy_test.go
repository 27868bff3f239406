// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/lvldb"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/test/datagen"
	"github.com/vechain/tokenstake/thor"
)

func newProxy(t *testing.T, withCode ...thor.Address) (*Proxy, thor.Address) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	codes := make(map[thor.Address]bool)
	for _, addr := range withCode {
		codes[addr] = true
	}
	admin := datagen.RandAddress()
	p := New(datagen.RandAddress(), state.New(db), nil, func(addr thor.Address) (bool, error) {
		return codes[addr], nil
	})
	require.NoError(t, p.Init(admin))
	return p, admin
}

func TestSlots(t *testing.T) {
	// well known eip-1967 slots
	assert.Equal(t, thor.MustParseBytes32("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc"), SlotImplementation)
	assert.Equal(t, thor.MustParseBytes32("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103"), SlotAdmin)
}

func TestInitialize(t *testing.T) {
	v1 := datagen.RandAddress()
	p, admin := newProxy(t, v1)

	initialized, err := p.Initialized()
	require.NoError(t, err)
	assert.False(t, initialized)

	err = p.Initialize(datagen.RandAddress(), v1)
	assert.True(t, errors.Is(err, reverts.ErrAuthorization))

	err = p.Initialize(admin, datagen.RandAddress())
	assert.True(t, errors.Is(err, reverts.ErrInvalidTarget))

	require.NoError(t, p.Initialize(admin, v1))
	impl, err := p.Implementation()
	require.NoError(t, err)
	assert.Equal(t, v1, impl)

	err = p.Initialize(admin, v1)
	assert.True(t, errors.Is(err, reverts.ErrAlreadyInitialized))
}

func TestUpgradeTo(t *testing.T) {
	v1, v2 := datagen.RandAddress(), datagen.RandAddress()
	p, admin := newProxy(t, v1, v2)
	require.NoError(t, p.Initialize(admin, v1))

	_, err := p.UpgradeTo(datagen.RandAddress(), v2)
	assert.True(t, errors.Is(err, reverts.ErrAuthorization))
	impl, _ := p.Implementation()
	assert.Equal(t, v1, impl)

	_, err = p.UpgradeTo(admin, datagen.RandAddress())
	assert.True(t, errors.Is(err, reverts.ErrInvalidTarget))
	impl, _ = p.Implementation()
	assert.Equal(t, v1, impl)

	prev, err := p.UpgradeTo(admin, v2)
	require.NoError(t, err)
	assert.Equal(t, v1, prev)
	impl, _ = p.Implementation()
	assert.Equal(t, v2, impl)
}

func TestChangeAdmin(t *testing.T) {
	p, admin := newProxy(t)
	next := datagen.RandAddress()

	_, err := p.ChangeAdmin(next, next)
	assert.True(t, errors.Is(err, reverts.ErrAuthorization))

	_, err = p.ChangeAdmin(admin, thor.Address{})
	assert.True(t, errors.Is(err, reverts.ErrInvalidArgument))

	prev, err := p.ChangeAdmin(admin, next)
	require.NoError(t, err)
	assert.Equal(t, admin, prev)

	got, err := p.Admin()
	require.NoError(t, err)
	assert.Equal(t, next, got)
}
