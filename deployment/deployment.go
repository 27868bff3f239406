// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deployment persists the addresses of a deployed stake ledger.
package deployment

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/thor"
)

// Record is the deployment document.
type Record struct {
	RewardToken              thor.Address `json:"rewardToken"`
	StakingToken             thor.Address `json:"stakingToken"`
	TokenStakeProxy          thor.Address `json:"tokenStakeProxy"`
	TokenStakeImplementation thor.Address `json:"tokenStakeImplementation"`
}

// Validate reports the first missing address.
func (r *Record) Validate() error {
	fields := []struct {
		name string
		addr thor.Address
	}{
		{"rewardToken", r.RewardToken},
		{"stakingToken", r.StakingToken},
		{"tokenStakeProxy", r.TokenStakeProxy},
		{"tokenStakeImplementation", r.TokenStakeImplementation},
	}
	for _, f := range fields {
		if f.addr.IsZero() {
			return errors.Errorf("deployment: missing %s", f.name)
		}
	}
	return nil
}

// Load reads and validates the record at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read deployment")
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decode deployment")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes the record to path, replacing any previous one.
func Save(path string, r *Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode deployment")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create deployment dir")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return errors.Wrap(err, "write deployment")
	}
	return errors.Wrap(os.Rename(tmp, path), "write deployment")
}
