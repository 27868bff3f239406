// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/tx"
)

func TestTx(t *testing.T) {
	to := thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	trx := new(tx.Builder).
		Clause(tx.NewClause(&to).WithData([]byte{1, 0, 2})).
		Clause(tx.NewClause(nil).WithData([]byte{3})).
		Gas(21000).
		Nonce(12345678).
		Build()

	assert.Equal(t, uint64(21000), trx.Gas())
	assert.Equal(t, uint64(12345678), trx.Nonce())
	assert.Len(t, trx.Clauses(), 2)
	assert.False(t, trx.Clauses()[0].IsCreatingContract())
	assert.True(t, trx.Clauses()[1].IsCreatingContract())

	origin := thor.BytesToAddress([]byte("origin"))
	assert.Equal(t, trx.ID(origin), trx.ID(origin))
	assert.NotEqual(t, trx.ID(origin), trx.ID(thor.BytesToAddress([]byte("other"))))

	data, err := rlp.EncodeToBytes(trx)
	assert.NoError(t, err)
	var decoded tx.Transaction
	assert.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, trx.ID(origin), decoded.ID(origin))
	assert.Equal(t, to, *decoded.Clauses()[0].To())
}

func TestIntrinsicGas(t *testing.T) {
	gas, err := tx.IntrinsicGas()
	assert.NoError(t, err)
	assert.Equal(t, thor.TxGas+thor.ClauseGas, gas)

	to := thor.Address{1}
	gas, err = tx.IntrinsicGas(tx.NewClause(&to).WithData([]byte{0, 1}))
	assert.NoError(t, err)
	assert.Equal(t, thor.TxGas+thor.ClauseGas+thor.TxDataZeroGas+thor.TxDataNonZeroGas, gas)

	gas, err = tx.IntrinsicGas(tx.NewClause(nil))
	assert.NoError(t, err)
	assert.Equal(t, thor.TxGas+thor.ClauseGasContractCreation, gas)
}

func TestClauseCopy(t *testing.T) {
	to := thor.Address{1}
	c := tx.NewClause(&to)
	to[0] = 2
	assert.Equal(t, thor.Address{1}, *c.To())

	data := []byte{1}
	c = c.WithData(data)
	data[0] = 9
	assert.Equal(t, []byte{1}, c.Data())
}
