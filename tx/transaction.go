// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/thor"
)

var errIntrinsicGasOverflow = errors.New("intrinsic gas overflow")

// Transaction is an ordered list of clauses executed atomically on behalf of an origin.
type Transaction struct {
	body body
}

type body struct {
	Clauses []*Clause
	Gas     uint64
	Nonce   uint64
}

// ID returns id of tx.
// ID = hash(body, origin).
func (t *Transaction) ID(origin thor.Address) thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &t.body)
		w.Write(origin[:])
	})
}

// Gas returns gas provision for this tx.
func (t *Transaction) Gas() uint64 {
	return t.body.Gas
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Clauses returns clauses in tx.
func (t *Transaction) Clauses() []*Clause {
	return append([]*Clause(nil), t.body.Clauses...)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

// IntrinsicGas returns intrinsic gas of tx.
func (t *Transaction) IntrinsicGas() (uint64, error) {
	return IntrinsicGas(t.body.Clauses...)
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(
		Clauses:	%v
		Gas:		%v
		Nonce:		%v
	)`, t.body.Clauses, t.body.Gas, t.body.Nonce)
}

// IntrinsicGas calculate intrinsic gas cost for tx with such clauses.
func IntrinsicGas(clauses ...*Clause) (uint64, error) {
	if len(clauses) == 0 {
		return thor.TxGas + thor.ClauseGas, nil
	}

	var total = thor.TxGas
	var overflow bool
	for _, c := range clauses {
		gas, err := dataGas(c.body.Data)
		if err != nil {
			return 0, err
		}
		total, overflow = safeAdd(total, gas)
		if overflow {
			return 0, errIntrinsicGasOverflow
		}

		var cgas uint64
		if c.IsCreatingContract() {
			cgas = thor.ClauseGasContractCreation
		} else {
			cgas = thor.ClauseGas
		}

		total, overflow = safeAdd(total, cgas)
		if overflow {
			return 0, errIntrinsicGasOverflow
		}
	}
	return total, nil
}

// dataGas returns gas comsumed by data.
func dataGas(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	z := uint64(0)
	nz := uint64(0)
	for _, byt := range data {
		if byt == 0 {
			z++
		} else {
			nz++
		}
	}
	zgas, overflow := safeMul(z, thor.TxDataZeroGas)
	if overflow {
		return 0, errIntrinsicGasOverflow
	}
	nzgas, overflow := safeMul(nz, thor.TxDataNonZeroGas)
	if overflow {
		return 0, errIntrinsicGasOverflow
	}
	gas, overflow := safeAdd(zgas, nzgas)
	if overflow {
		return 0, errIntrinsicGasOverflow
	}
	return gas, nil
}

func safeAdd(a, b uint64) (uint64, bool) {
	return a + b, a > math.MaxUint64-b
}

func safeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	return a * b, a > math.MaxUint64/b
}
