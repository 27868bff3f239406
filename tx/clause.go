// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tokenstake/thor"
)

// Clause is a single call, or a contract creation when it has no target.
// Clauses are immutable, the With* methods return modified copies.
type Clause struct {
	body clauseBody
}

type clauseBody struct {
	To   *thor.Address `rlp:"nil"`
	Data []byte
}

// NewClause returns a clause calling to. A nil to creates a contract from the clause data.
func NewClause(to *thor.Address) *Clause {
	var c Clause
	if to != nil {
		addr := *to
		c.body.To = &addr
	}
	return &c
}

// WithData returns a copy of the clause carrying data.
func (c *Clause) WithData(data []byte) *Clause {
	cpy := *c
	cpy.body.Data = append([]byte(nil), data...)
	return &cpy
}

// To returns the call target, nil for a contract creation.
func (c *Clause) To() *thor.Address {
	if c.body.To == nil {
		return nil
	}
	addr := *c.body.To
	return &addr
}

// Data returns the call input, or creation code followed by constructor args.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// IsCreatingContract reports whether the clause has no target.
func (c *Clause) IsCreatingContract() bool {
	return c.body.To == nil
}

// EncodeRLP implements rlp.Encoder.
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder.
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	c.body = body
	return nil
}

func (c *Clause) String() string {
	to := "<create>"
	if c.body.To != nil {
		to = c.body.To.String()
	}
	return fmt.Sprintf("Clause(To: %v, Data: %v)", to, hexutil.Encode(c.body.Data))
}
